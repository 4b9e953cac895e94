package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sampleflix/sampleflix/internal/models"
)

// DataAccess is the per-kind contract the route layer calls. The
// repository's EntityDAL satisfies it; tests substitute mocks.
type DataAccess interface {
	Get(ctx context.Context, page models.PageRequest) ([]models.Entity, error)
	GetByID(ctx context.Context, id string) (models.Entity, error)
	FindByField(ctx context.Context, field string, value any) ([]models.Entity, error)
	Create(ctx context.Context, rawInput map[string]any) (models.Entity, error)
	Update(ctx context.Context, id string, rawInput map[string]any) (models.Entity, error)
	Delete(ctx context.Context, id string) (models.Entity, error)
}

// EntityAPI serves the generic CRUD routes for one entity kind.
type EntityAPI struct {
	dal        DataAccess
	collection string
	defSize    int64
	maxSize    int64
}

// NewEntityAPI creates the route handler set for one kind. defSize and
// maxSize bound the page parameters before they reach the data layer.
func NewEntityAPI(kind models.EntityKind, dal DataAccess, defSize, maxSize int64) *EntityAPI {
	if defSize <= 0 {
		defSize = 20
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	return &EntityAPI{dal: dal, collection: kind.Collection(), defSize: defSize, maxSize: maxSize}
}

// RegisterRoutes registers the CRUD routes under the given group.
func (a *EntityAPI) RegisterRoutes(group *gin.RouterGroup) {
	g := group.Group("/" + a.collection)
	g.GET("", a.list)
	g.GET("/:id", a.getByID)
	g.POST("", a.create)
	g.PUT("/:id", a.update)
	g.DELETE("/:id", a.deleteByID)
}

// list handles GET /<collection>. With field and value query parameters it
// performs an exact-match filter; otherwise it returns a page of entities.
func (a *EntityAPI) list(c *gin.Context) {
	if field := c.Query("field"); field != "" {
		entities, err := a.dal.FindByField(c.Request.Context(), field, c.Query("value"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entities})
		return
	}

	page := parsePageRequest(c).Clamp(a.defSize, a.maxSize)
	entities, err := a.dal.Get(c.Request.Context(), page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   entities,
		"offset": page.Offset,
		"limit":  page.Limit,
	})
}

func (a *EntityAPI) getByID(c *gin.Context) {
	entity, err := a.dal.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (a *EntityAPI) create(c *gin.Context) {
	raw, ok := bindBody(c)
	if !ok {
		return
	}

	entity, err := a.dal.Create(c.Request.Context(), raw)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

func (a *EntityAPI) update(c *gin.Context) {
	raw, ok := bindBody(c)
	if !ok {
		return
	}

	entity, err := a.dal.Update(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (a *EntityAPI) deleteByID(c *gin.Context) {
	entity, err := a.dal.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// parsePageRequest reads offset/limit from the query string. Absent or
// malformed values fall back to zero and are clamped by the facade.
func parsePageRequest(c *gin.Context) models.PageRequest {
	offset, _ := strconv.ParseInt(c.Query("offset"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	return models.PageRequest{Offset: offset, Limit: limit}
}

// bindBody decodes the JSON request body into a raw map. A malformed body
// is a 400 before any validation runs.
func bindBody(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return nil, false
	}
	return raw, true
}

// abortWithError hands the error to the ErrorHandler middleware.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
