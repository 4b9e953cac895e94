package repository

import (
	"fmt"

	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
	"github.com/sampleflix/sampleflix/internal/schema"
	"github.com/sampleflix/sampleflix/internal/storage"
)

// Registry holds one EntityDAL per entity kind, constructed once at
// startup. The kind set is closed, so resolution never happens through
// runtime string lookups on a request path.
type Registry struct {
	dals map[models.EntityKind]*EntityDAL
}

// NewRegistry builds a facade for every entity kind against the given
// store client.
func NewRegistry(validator *schema.Validator, client *storage.Client, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = observability.NewNoopLogger()
	}

	dals := make(map[models.EntityKind]*EntityDAL, len(models.Kinds()))
	for _, kind := range models.Kinds() {
		accessor := NewMongoAccessor(kind, client, opts.Logger)
		dals[kind] = NewEntityDAL(kind, validator, accessor, opts)
	}
	return &Registry{dals: dals}
}

// DAL returns the facade for the kind.
func (r *Registry) DAL(kind models.EntityKind) (*EntityDAL, error) {
	dal, ok := r.dals[kind]
	if !ok {
		return nil, fmt.Errorf("no data access layer registered for entity kind %q", kind)
	}
	return dal, nil
}
