package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sampleflix/sampleflix/internal/models"
)

// Violation describes one field-level schema failure.
type Violation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Description)
}

// FormatViolations renders violations into the details string carried by
// the error taxonomy.
func FormatViolations(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Validator checks raw input against the registry's schemas. It is pure:
// input is never coerced or mutated, and a successful validation returns
// no violations.
type Validator struct {
	registry *Registry
}

// NewValidator creates a validator over the given registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// ValidateEntity checks data against the kind's full schema: every
// required field must be present, every present field must satisfy its
// constraint, and undeclared fields are rejected.
func (v *Validator) ValidateEntity(kind models.EntityKind, data map[string]any) ([]Violation, error) {
	compiled, err := v.registry.Full(kind)
	if err != nil {
		return nil, err
	}
	return validate(compiled, data)
}

// ValidateFields checks data against the kind's partial schema. No field
// is mandatory, but every present field must satisfy its constraint, and
// an empty update is rejected outright rather than treated as a no-op.
func (v *Validator) ValidateFields(kind models.EntityKind, data map[string]any) ([]Violation, error) {
	if len(data) == 0 {
		return []Violation{{Field: "(root)", Description: "at least one field must be provided"}}, nil
	}

	compiled, err := v.registry.Partial(kind)
	if err != nil {
		return nil, err
	}
	return validate(compiled, data)
}

func validate(compiled *gojsonschema.Schema, data map[string]any) ([]Violation, error) {
	result, err := compiled.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		violations = append(violations, Violation{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
		})
	}
	return violations, nil
}
