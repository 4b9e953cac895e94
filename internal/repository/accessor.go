// Package repository implements the generic data-access layer: a CRUD
// accessor per collection and the per-kind facade that composes it with
// validation and the error taxonomy.
package repository

import (
	"context"
	"errors"

	"github.com/sampleflix/sampleflix/internal/models"
)

// ErrNotFound reports that no document matched the requested identifier or
// that the identifier was malformed. The two cases are deliberately
// collapsed: the accessor's callers see a single not-found outcome.
var ErrNotFound = errors.New("document not found")

// Accessor performs raw CRUD against one collection. Implementations hold
// no per-request state and never retry; a store-level failure surfaces as
// an error tagged with the entity kind and operation.
type Accessor interface {
	// ReadAll returns a page of documents in the store's natural order.
	ReadAll(ctx context.Context, page models.PageRequest) ([]models.Entity, error)
	// ReadByID returns the document with the given external identifier,
	// or ErrNotFound when the id is malformed or no document matches.
	ReadByID(ctx context.Context, id string) (models.Entity, error)
	// ReadByField returns all documents whose field exactly matches value.
	ReadByField(ctx context.Context, field string, value any) ([]models.Entity, error)
	// Create inserts data (which must not carry an identifier; the store
	// assigns one) and returns the stored document as the store holds it.
	Create(ctx context.Context, data models.Entity) (models.Entity, error)
	// Update applies a partial field replacement and returns the
	// post-update document, or ErrNotFound if no document matches.
	Update(ctx context.Context, id string, fields models.Entity) (models.Entity, error)
	// Delete removes the document and returns it as it was immediately
	// before deletion, or ErrNotFound if no document matches.
	Delete(ctx context.Context, id string) (models.Entity, error)
}
