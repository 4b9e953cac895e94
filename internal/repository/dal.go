package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sampleflix/sampleflix/internal/apperr"
	"github.com/sampleflix/sampleflix/internal/cache"
	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
	"github.com/sampleflix/sampleflix/internal/schema"
)

// Options tunes an EntityDAL. Cache may be nil to disable read caching.
type Options struct {
	Cache           cache.Cache
	CacheTTL        time.Duration
	DefaultPageSize int64
	MaxPageSize     int64
	Logger          observability.Logger
}

// EntityDAL is the per-kind data-access facade: validation, identifier
// handling, pagination, and error mapping composed over one accessor. All
// collaborators are bound at construction and reused across requests; the
// facade itself is safe for concurrent use.
type EntityDAL struct {
	kind      models.EntityKind
	validator *schema.Validator
	accessor  Accessor
	errs      apperr.Builder
	cache     cache.Cache
	cacheTTL  time.Duration
	defSize   int64
	maxSize   int64
	logger    observability.Logger
}

// NewEntityDAL composes a facade for the kind.
func NewEntityDAL(kind models.EntityKind, validator *schema.Validator, accessor Accessor, opts Options) *EntityDAL {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewNoopLogger()
	}

	return &EntityDAL{
		kind:      kind,
		validator: validator,
		accessor:  accessor,
		errs:      apperr.NewBuilder(string(kind)),
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		defSize:   opts.DefaultPageSize,
		maxSize:   opts.MaxPageSize,
		logger:    logger.WithPrefix(fmt.Sprintf("dal.%s", kind)),
	}
}

// Kind returns the entity kind this facade serves.
func (d *EntityDAL) Kind() models.EntityKind {
	return d.kind
}

// Get returns a page of entities in the store's natural order. The page
// request is clamped against the configured default and maximum sizes.
func (d *EntityDAL) Get(ctx context.Context, page models.PageRequest) ([]models.Entity, error) {
	entities, err := d.accessor.ReadAll(ctx, page.Clamp(d.defSize, d.maxSize))
	if err != nil {
		return nil, d.errs.General("read", err.Error())
	}
	return entities, nil
}

// GetByID returns the entity with the given external identifier. Malformed
// and unknown identifiers both map to a 404.
func (d *EntityDAL) GetByID(ctx context.Context, id string) (models.Entity, error) {
	if entity, ok := d.cacheGet(ctx, id); ok {
		return entity, nil
	}

	entity, err := d.accessor.ReadByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, d.errs.NotFound(models.IDField, id)
		}
		return nil, d.errs.General("read", err.Error())
	}

	d.cacheSet(ctx, id, entity)
	return entity, nil
}

// FindByField returns all entities whose field exactly matches value. The
// result may be empty; that is not an error.
func (d *EntityDAL) FindByField(ctx context.Context, field string, value any) ([]models.Entity, error) {
	entities, err := d.accessor.ReadByField(ctx, field, value)
	if err != nil {
		return nil, d.errs.General("read", err.Error())
	}
	return entities, nil
}

// Create validates rawInput against the full schema and inserts it. The
// returned entity is the document as stored, identifier included.
func (d *EntityDAL) Create(ctx context.Context, rawInput map[string]any) (models.Entity, error) {
	violations, err := d.validator.ValidateEntity(d.kind, rawInput)
	if err != nil {
		return nil, d.errs.General("create", err.Error())
	}
	if len(violations) > 0 {
		return nil, d.errs.InvalidEntity("create", schema.FormatViolations(violations))
	}

	created, err := d.accessor.Create(ctx, models.Entity(rawInput))
	if err != nil {
		return nil, d.errs.General("create", err.Error())
	}
	return created, nil
}

// Update validates rawInput against the partial schema and applies it as a
// field replacement. It returns the post-update document.
func (d *EntityDAL) Update(ctx context.Context, id string, rawInput map[string]any) (models.Entity, error) {
	violations, err := d.validator.ValidateFields(d.kind, rawInput)
	if err != nil {
		return nil, d.errs.General("update", err.Error())
	}
	if len(violations) > 0 {
		return nil, d.errs.InvalidEntity("update", schema.FormatViolations(violations))
	}

	updated, err := d.accessor.Update(ctx, id, models.Entity(rawInput))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, d.errs.NotFound(models.IDField, id)
		}
		return nil, d.errs.General("update", err.Error())
	}

	d.cacheInvalidate(ctx, id)
	return updated, nil
}

// Delete removes the entity and returns its pre-deletion snapshot.
func (d *EntityDAL) Delete(ctx context.Context, id string) (models.Entity, error) {
	deleted, err := d.accessor.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, d.errs.NotFound(models.IDField, id)
		}
		return nil, d.errs.General("delete", err.Error())
	}

	d.cacheInvalidate(ctx, id)
	return deleted, nil
}

func (d *EntityDAL) cacheKey(id string) string {
	return fmt.Sprintf("%s:%s", d.kind, id)
}

func (d *EntityDAL) cacheGet(ctx context.Context, id string) (models.Entity, bool) {
	if d.cache == nil {
		return nil, false
	}
	var entity models.Entity
	if err := d.cache.Get(ctx, d.cacheKey(id), &entity); err != nil {
		return nil, false
	}
	return entity, true
}

func (d *EntityDAL) cacheSet(ctx context.Context, id string, entity models.Entity) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Set(ctx, d.cacheKey(id), entity, d.cacheTTL); err != nil {
		d.logger.Warn("cache set failed", map[string]interface{}{"id": id, "error": err.Error()})
	}
}

func (d *EntityDAL) cacheInvalidate(ctx context.Context, id string) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Delete(ctx, d.cacheKey(id)); err != nil {
		d.logger.Warn("cache invalidate failed", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
