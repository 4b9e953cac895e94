package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sampleflix/sampleflix/internal/auth"
)

// AuthAPI serves registration and the login/token-issuance flow.
type AuthAPI struct {
	service *auth.Service
}

// NewAuthAPI creates the auth route handler set.
func NewAuthAPI(service *auth.Service) *AuthAPI {
	return &AuthAPI{service: service}
}

// RegisterPublicRoutes registers the routes reachable without a token.
func (a *AuthAPI) RegisterPublicRoutes(group *gin.RouterGroup) {
	g := group.Group("/auth")
	g.POST("/register", a.register)
	g.POST("/login", a.login)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (a *AuthAPI) RegisterProtectedRoutes(group *gin.RouterGroup) {
	group.GET("/auth/me", a.me)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthAPI) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	user, token, err := a.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (a *AuthAPI) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	user, token, err := a.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (a *AuthAPI) me(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authenticated user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": claims.UserID,
		"name":    claims.Name,
		"email":   claims.Email,
	})
}
