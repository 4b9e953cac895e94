package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
	"github.com/sampleflix/sampleflix/internal/storage"
)

// MongoAccessor implements Accessor against one collection of the document
// store. It is a pure pass-through: no retries, no caching, no validation.
type MongoAccessor struct {
	kind   models.EntityKind
	coll   *mongo.Collection
	logger observability.Logger
}

// NewMongoAccessor creates an accessor for the kind's collection.
func NewMongoAccessor(kind models.EntityKind, client *storage.Client, logger observability.Logger) *MongoAccessor {
	return &MongoAccessor{
		kind:   kind,
		coll:   client.Collection(kind),
		logger: logger.WithPrefix(fmt.Sprintf("repository.%s", kind)),
	}
}

// ReadAll returns a page of documents in natural order.
func (a *MongoAccessor) ReadAll(ctx context.Context, page models.PageRequest) ([]models.Entity, error) {
	opts := options.Find().SetSkip(page.Offset).SetLimit(page.Limit)
	cursor, err := a.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, a.opError("read", err)
	}
	defer cursor.Close(ctx)

	return a.decodeAll(ctx, cursor)
}

// ReadByID returns the document with the given external identifier. A
// malformed identifier and a missing document both yield ErrNotFound.
func (a *MongoAccessor) ReadByID(ctx context.Context, id string) (models.Entity, error) {
	if !storage.IsValidID(id) {
		return nil, ErrNotFound
	}
	oid, err := storage.ToObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return a.readByObjectID(ctx, oid)
}

// ReadByField returns all documents whose field exactly matches value.
func (a *MongoAccessor) ReadByField(ctx context.Context, field string, value any) ([]models.Entity, error) {
	cursor, err := a.coll.Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, a.opError("read", err)
	}
	defer cursor.Close(ctx)

	return a.decodeAll(ctx, cursor)
}

// Create inserts the document and re-reads it, so the caller receives the
// document as stored rather than a mirror of its own input.
func (a *MongoAccessor) Create(ctx context.Context, data models.Entity) (models.Entity, error) {
	result, err := a.coll.InsertOne(ctx, bson.M(data))
	if err != nil {
		return nil, a.opError("create", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, a.opError("create", fmt.Errorf("store returned non-object identifier %v", result.InsertedID))
	}

	created, err := a.readByObjectID(ctx, oid)
	if err != nil {
		return nil, a.opError("create", fmt.Errorf("re-read after insert: %w", err))
	}
	return created, nil
}

// Update fetches the current document first; if it is absent the write is
// never attempted. On success it returns the post-update document.
func (a *MongoAccessor) Update(ctx context.Context, id string, fields models.Entity) (models.Entity, error) {
	if !storage.IsValidID(id) {
		return nil, ErrNotFound
	}
	oid, err := storage.ToObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if _, err := a.readByObjectID(ctx, oid); err != nil {
		return nil, err
	}

	result, err := a.coll.UpdateOne(ctx, bson.M{models.IDField: oid}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return nil, a.opError("update", err)
	}
	// A concurrent delete between the read and the write leaves nothing
	// matched; surface that as not found rather than a silent no-op.
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	updated, err := a.readByObjectID(ctx, oid)
	if err != nil {
		return nil, a.opError("update", fmt.Errorf("re-read after update: %w", err))
	}
	return updated, nil
}

// Delete fetches the current document first and returns that pre-deletion
// snapshot once the delete is acknowledged.
func (a *MongoAccessor) Delete(ctx context.Context, id string) (models.Entity, error) {
	if !storage.IsValidID(id) {
		return nil, ErrNotFound
	}
	oid, err := storage.ToObjectID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	snapshot, err := a.readByObjectID(ctx, oid)
	if err != nil {
		return nil, err
	}

	result, err := a.coll.DeleteOne(ctx, bson.M{models.IDField: oid})
	if err != nil {
		return nil, a.opError("delete", err)
	}
	if result.DeletedCount == 0 {
		return nil, ErrNotFound
	}

	return snapshot, nil
}

func (a *MongoAccessor) readByObjectID(ctx context.Context, oid primitive.ObjectID) (models.Entity, error) {
	var doc bson.M
	err := a.coll.FindOne(ctx, bson.M{models.IDField: oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, a.opError("read", err)
	}
	return externalize(doc), nil
}

func (a *MongoAccessor) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]models.Entity, error) {
	entities := []models.Entity{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, a.opError("read", err)
		}
		entities = append(entities, externalize(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, a.opError("read", err)
	}
	return entities, nil
}

func (a *MongoAccessor) opError(operation string, err error) error {
	a.logger.Error("store operation failed", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
	return fmt.Errorf("%s %s: %w", a.kind, operation, err)
}

// externalize converts the stored identifier to its external string form.
func externalize(doc bson.M) models.Entity {
	entity := models.Entity(doc)
	if oid, ok := entity[models.IDField].(primitive.ObjectID); ok {
		entity[models.IDField] = storage.FromObjectID(oid)
	}
	return entity
}
