package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "hiring-workers/internal/common/errors"
	"hiring-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks raw job variables against the input schema registered for
// each job type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every input schema in reg. A schema that does not
// compile is a registry bug and fails startup.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// MustDefault compiles the embedded registry.
func MustDefault() *Validator {
	reg, err := registry.Default()
	if err != nil {
		panic(err)
	}
	v, err := NewValidator(reg)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns an INPUT_VALIDATION_FAILED error listing every violation.
// Job types without a schema pass.
func (v *Validator) Validate(taskType, variables string) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return apperrors.NewInputValidationError(fmt.Sprintf("variables are not valid JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}

	return apperrors.NewInputValidationError(strings.Join(Messages(result), "; "))
}

// Has reports whether a schema is registered for taskType.
func (v *Validator) Has(taskType string) bool {
	_, ok := v.schemas[taskType]
	return ok
}

// Messages flattens a result into "field: description" lines, sorted.
func Messages(result *gojsonschema.Result) []string {
	out := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		out = append(out, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	sort.Strings(out)
	return out
}
