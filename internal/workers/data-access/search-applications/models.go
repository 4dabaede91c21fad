// internal/workers/data-access/search-applications/models.go
package searchapplications

import "hiring-workers/internal/search"

type Input struct {
	SessionToken string `json:"sessionToken"`
	Query        string `json:"query,omitempty"`
	Status       string `json:"status,omitempty"`
	From         int    `json:"from,omitempty"`
	Size         int    `json:"size,omitempty"`
}

type Output struct {
	Hits   []search.Document `json:"hits"`
	Total  int64             `json:"total"`
	From   int               `json:"from"`
	Size   int               `json:"size"`
	TookMs int64             `json:"tookMs"`
}
