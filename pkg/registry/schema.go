package registry

// ActivityRegistry describes every job type the workers serve.
type ActivityRegistry struct {
	Version     string     `json:"version" yaml:"version"`
	LastUpdated string     `json:"lastUpdated" yaml:"lastUpdated"`
	Activities  []Activity `json:"activities" yaml:"activities"`
}

type Activity struct {
	ID          string                 `json:"id" yaml:"id"`
	DisplayName string                 `json:"displayName" yaml:"displayName"`
	Description string                 `json:"description" yaml:"description"`
	Category    string                 `json:"category" yaml:"category"`
	TaskType    string                 `json:"taskType" yaml:"taskType"`
	Actor       string                 `json:"actor" yaml:"actor"`
	InputSchema map[string]interface{} `json:"inputSchema" yaml:"inputSchema"`
	ErrorCodes  []string               `json:"errorCodes" yaml:"errorCodes"`
	Timeout     string                 `json:"timeout" yaml:"timeout"`
	Retries     int                    `json:"retries" yaml:"retries"`
	Tags        []string               `json:"tags,omitempty" yaml:"tags,omitempty"`
}
