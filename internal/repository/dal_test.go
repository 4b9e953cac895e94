package repository_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sampleflix/sampleflix/internal/apperr"
	"github.com/sampleflix/sampleflix/internal/cache"
	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/repository"
	"github.com/sampleflix/sampleflix/internal/schema"
)

// MockAccessor mocks repository.Accessor.
type MockAccessor struct {
	mock.Mock
}

func (m *MockAccessor) ReadAll(ctx context.Context, page models.PageRequest) ([]models.Entity, error) {
	args := m.Called(ctx, page)
	return entitiesArg(args.Get(0)), args.Error(1)
}

func (m *MockAccessor) ReadByID(ctx context.Context, id string) (models.Entity, error) {
	args := m.Called(ctx, id)
	return entityArg(args.Get(0)), args.Error(1)
}

func (m *MockAccessor) ReadByField(ctx context.Context, field string, value any) ([]models.Entity, error) {
	args := m.Called(ctx, field, value)
	return entitiesArg(args.Get(0)), args.Error(1)
}

func (m *MockAccessor) Create(ctx context.Context, data models.Entity) (models.Entity, error) {
	args := m.Called(ctx, data)
	return entityArg(args.Get(0)), args.Error(1)
}

func (m *MockAccessor) Update(ctx context.Context, id string, fields models.Entity) (models.Entity, error) {
	args := m.Called(ctx, id, fields)
	return entityArg(args.Get(0)), args.Error(1)
}

func (m *MockAccessor) Delete(ctx context.Context, id string) (models.Entity, error) {
	args := m.Called(ctx, id)
	return entityArg(args.Get(0)), args.Error(1)
}

func entityArg(v any) models.Entity {
	if v == nil {
		return nil
	}
	return v.(models.Entity)
}

func entitiesArg(v any) []models.Entity {
	if v == nil {
		return nil
	}
	return v.([]models.Entity)
}

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()
	registry, err := schema.NewRegistry()
	require.NoError(t, err)
	return schema.NewValidator(registry)
}

func newDAL(t *testing.T, kind models.EntityKind, accessor repository.Accessor, opts repository.Options) *repository.EntityDAL {
	t.Helper()
	if opts.DefaultPageSize == 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize == 0 {
		opts.MaxPageSize = 100
	}
	return repository.NewEntityDAL(kind, newValidator(t), accessor, opts)
}

func appErrFrom(t *testing.T, err error) *apperr.AppError {
	t.Helper()
	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func validTheaterInput() map[string]any {
	return map[string]any{
		"name": "AMC",
		"location": map[string]any{
			"address": map[string]any{
				"street":  "1 Main",
				"city":    "X",
				"state":   "CA",
				"zipCode": "00000",
				"country": "US",
			},
			"geoCoordinates": []any{-122.1, 37.2},
		},
	}
}

func TestGetClampsPageRequest(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("ReadAll", mock.Anything, models.PageRequest{Offset: 0, Limit: 100}).
		Return([]models.Entity{}, nil)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	_, err := dal.Get(context.Background(), models.PageRequest{Limit: 5000})
	require.NoError(t, err)
	accessor.AssertExpectations(t)
}

func TestGetDefaultsPageRequest(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("ReadAll", mock.Anything, models.PageRequest{Offset: 0, Limit: 20}).
		Return([]models.Entity{{"title": "Heat"}}, nil)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	entities, err := dal.Get(context.Background(), models.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, entities, 1)
}

func TestGetStoreFailureIsGeneralError(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("ReadAll", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	_, err := dal.Get(context.Background(), models.PageRequest{})
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Message, "movie")
}

func TestGetByIDNotFound(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("ReadByID", mock.Anything, "not-a-valid-id").
		Return(nil, repository.ErrNotFound)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	_, err := dal.GetByID(context.Background(), "not-a-valid-id")
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestGetByIDUsesCache(t *testing.T) {
	entity := models.Entity{"_id": "573a1390f29313caabcd4135", "title": "Heat"}

	accessor := new(MockAccessor)
	accessor.On("ReadByID", mock.Anything, "573a1390f29313caabcd4135").
		Return(entity, nil).Once()

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{
		Cache:    cache.NewMemoryCache(8, time.Minute),
		CacheTTL: time.Minute,
	})

	ctx := context.Background()
	first, err := dal.GetByID(ctx, "573a1390f29313caabcd4135")
	require.NoError(t, err)
	second, err := dal.GetByID(ctx, "573a1390f29313caabcd4135")
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
	accessor.AssertNumberOfCalls(t, "ReadByID", 1)
}

func TestCreateValidInput(t *testing.T) {
	input := validTheaterInput()
	stored := models.Entity{"_id": "650000000000000000000001", "name": "AMC"}

	accessor := new(MockAccessor)
	accessor.On("Create", mock.Anything, models.Entity(input)).Return(stored, nil)

	dal := newDAL(t, models.KindTheater, accessor, repository.Options{})

	created, err := dal.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "650000000000000000000001", created.ID())
	accessor.AssertExpectations(t)
}

func TestCreateInvalidInputNeverReachesStore(t *testing.T) {
	input := validTheaterInput()
	delete(input, "location")

	accessor := new(MockAccessor)
	dal := newDAL(t, models.KindTheater, accessor, repository.Options{})

	_, err := dal.Create(context.Background(), input)
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Contains(t, appErr.Details, "location")
	accessor.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateStoreFailureIsGeneralError(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("Create", mock.Anything, mock.Anything).
		Return(nil, errors.New("write not acknowledged"))

	dal := newDAL(t, models.KindTheater, accessor, repository.Options{})

	_, err := dal.Create(context.Background(), validTheaterInput())
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Message, "create")
}

func TestUpdateEmptyInputRejected(t *testing.T) {
	accessor := new(MockAccessor)
	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	_, err := dal.Update(context.Background(), "573a1390f29313caabcd4135", map[string]any{})
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	accessor.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateReturnsPostUpdateState(t *testing.T) {
	updated := models.Entity{"_id": "573a1390f29313caabcd4135", "title": "Heat", "year": 1995}

	accessor := new(MockAccessor)
	accessor.On("Update", mock.Anything, "573a1390f29313caabcd4135", models.Entity{"year": 1995}).
		Return(updated, nil)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	result, err := dal.Update(context.Background(), "573a1390f29313caabcd4135", map[string]any{"year": 1995})
	require.NoError(t, err)
	assert.Equal(t, updated, result)
}

func TestUpdateNotFound(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrNotFound)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	_, err := dal.Update(context.Background(), "573a1390f29313caabcd4135", map[string]any{"year": 1995})
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	const id = "573a1390f29313caabcd4135"
	before := models.Entity{"_id": id, "title": "Heat", "year": 1995}
	after := models.Entity{"_id": id, "title": "Heat", "year": 1996}

	accessor := new(MockAccessor)
	accessor.On("ReadByID", mock.Anything, id).Return(before, nil).Once()
	accessor.On("Update", mock.Anything, id, mock.Anything).Return(after, nil)
	accessor.On("ReadByID", mock.Anything, id).Return(after, nil).Once()

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{
		Cache:    cache.NewMemoryCache(8, time.Minute),
		CacheTTL: time.Minute,
	})

	ctx := context.Background()
	_, err := dal.GetByID(ctx, id)
	require.NoError(t, err)

	_, err = dal.Update(ctx, id, map[string]any{"year": 1996})
	require.NoError(t, err)

	fresh, err := dal.GetByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1996, fresh["year"])
	accessor.AssertNumberOfCalls(t, "ReadByID", 2)
}

func TestDeleteReturnsPreDeleteState(t *testing.T) {
	snapshot := models.Entity{"_id": "573a1390f29313caabcd4135", "title": "Heat"}

	accessor := new(MockAccessor)
	accessor.On("Delete", mock.Anything, "573a1390f29313caabcd4135").Return(snapshot, nil)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	result, err := dal.Delete(context.Background(), "573a1390f29313caabcd4135")
	require.NoError(t, err)
	assert.Equal(t, snapshot, result)
}

func TestDeleteNotFound(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("Delete", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	_, err := dal.Delete(context.Background(), "573a1390f29313caabcd4135")
	appErr := appErrFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestFindByFieldEmptyResultIsNotAnError(t *testing.T) {
	accessor := new(MockAccessor)
	accessor.On("ReadByField", mock.Anything, "genres", "Documentary").
		Return([]models.Entity{}, nil)

	dal := newDAL(t, models.KindMovie, accessor, repository.Options{})

	entities, err := dal.FindByField(context.Background(), "genres", "Documentary")
	require.NoError(t, err)
	assert.Empty(t, entities)
}
