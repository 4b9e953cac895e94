// Package schema holds the per-kind JSON Schema documents and validates
// raw input against them. Full schemas govern creation, partial schemas
// (the same structure with every required constraint stripped) govern
// updates.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sampleflix/sampleflix/internal/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type entry struct {
	fullDoc    map[string]any
	partialDoc map[string]any
	full       *gojsonschema.Schema
	partial    *gojsonschema.Schema
}

// Registry maps each entity kind to its compiled full and partial schemas.
// All derivation and compilation happens once at construction; the registry
// is read-only afterwards and safe to share across requests.
type Registry struct {
	entries map[models.EntityKind]*entry
}

// NewRegistry loads, derives, and compiles the schemas for every entity
// kind. A missing or malformed schema file is a startup failure, not a
// per-request one.
func NewRegistry() (*Registry, error) {
	r := &Registry{entries: make(map[models.EntityKind]*entry, len(models.Kinds()))}

	for _, kind := range models.Kinds() {
		raw, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.json", kind))
		if err != nil {
			return nil, fmt.Errorf("load schema for %s: %w", kind, err)
		}

		var fullDoc map[string]any
		if err := json.Unmarshal(raw, &fullDoc); err != nil {
			return nil, fmt.Errorf("parse schema for %s: %w", kind, err)
		}

		partialDoc, ok := stripRequired(fullDoc).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("derive partial schema for %s: unexpected document shape", kind)
		}

		full, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(fullDoc))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", kind, err)
		}
		partial, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(partialDoc))
		if err != nil {
			return nil, fmt.Errorf("compile partial schema for %s: %w", kind, err)
		}

		r.entries[kind] = &entry{
			fullDoc:    fullDoc,
			partialDoc: partialDoc,
			full:       full,
			partial:    partial,
		}
	}

	return r, nil
}

// Full returns the compiled full schema for the kind.
func (r *Registry) Full(kind models.EntityKind) (*gojsonschema.Schema, error) {
	e, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}
	return e.full, nil
}

// Partial returns the compiled partial schema for the kind.
func (r *Registry) Partial(kind models.EntityKind) (*gojsonschema.Schema, error) {
	e, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}
	return e.partial, nil
}

// FullDocument returns the raw full schema document for the kind.
func (r *Registry) FullDocument(kind models.EntityKind) (map[string]any, error) {
	e, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}
	return e.fullDoc, nil
}

// PartialDocument returns the derived partial schema document for the kind.
func (r *Registry) PartialDocument(kind models.EntityKind) (map[string]any, error) {
	e, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}
	return e.partialDoc, nil
}

func (r *Registry) lookup(kind models.EntityKind) (*entry, error) {
	e, ok := r.entries[kind]
	if !ok {
		return nil, fmt.Errorf("no schema registered for entity kind %q", kind)
	}
	return e, nil
}

// stripRequired returns a deep copy of node with every "required" keyword
// removed, at every nesting level. Type, format, enum, and the
// additionalProperties closure are preserved untouched.
func stripRequired(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			if key == "required" {
				continue
			}
			out[key] = stripRequired(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = stripRequired(val)
		}
		return out
	default:
		return v
	}
}
