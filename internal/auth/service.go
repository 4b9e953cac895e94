package auth

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/sampleflix/sampleflix/internal/apperr"
	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
	"github.com/sampleflix/sampleflix/internal/schema"
)

// UserStore is the slice of the user data-access facade the auth service
// needs. The repository's EntityDAL satisfies it.
type UserStore interface {
	Create(ctx context.Context, rawInput map[string]any) (models.Entity, error)
	FindByField(ctx context.Context, field string, value any) ([]models.Entity, error)
}

// Service implements registration and the login/token-issuance flow on top
// of the users collection.
type Service struct {
	users     UserStore
	validator *schema.Validator
	issuer    *TokenIssuer
	errs      apperr.Builder
	logger    observability.Logger
}

// NewService creates an auth service.
func NewService(users UserStore, validator *schema.Validator, issuer *TokenIssuer, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &Service{
		users:     users,
		validator: validator,
		issuer:    issuer,
		errs:      apperr.NewBuilder(string(models.KindUser)),
		logger:    logger.WithPrefix("auth"),
	}
}

// Register validates and stores a new user, hashing the password before it
// reaches the store, and issues a token for the new account. The returned
// entity never carries the password hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (models.Entity, string, error) {
	// Validate the raw input before hashing; a hashed password would
	// trivially satisfy the length constraint.
	raw := map[string]any{"name": name, "email": email, "password": password}
	violations, err := s.validator.ValidateEntity(models.KindUser, raw)
	if err != nil {
		return nil, "", apperr.From(err)
	}
	if len(violations) > 0 {
		return nil, "", s.errs.InvalidEntity("create", schema.FormatViolations(violations))
	}

	existing, err := s.users.FindByField(ctx, "email", email)
	if err != nil {
		return nil, "", err
	}
	if len(existing) > 0 {
		return nil, "", &apperr.AppError{
			Status:  http.StatusConflict,
			Message: "email already registered",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.From(err)
	}
	raw["password"] = string(hash)

	created, err := s.users.Create(ctx, raw)
	if err != nil {
		return nil, "", err
	}
	delete(created, "password")

	token, err := s.issuer.Issue(created.ID(), name, email)
	if err != nil {
		return nil, "", apperr.From(err)
	}

	s.logger.Info("user registered", map[string]interface{}{"email": email})
	return created, token, nil
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (models.Entity, string, error) {
	matches, err := s.users.FindByField(ctx, "email", email)
	if err != nil {
		return nil, "", err
	}
	if len(matches) == 0 {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	user := matches[0]
	hash, _ := user["password"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	name, _ := user["name"].(string)
	token, err := s.issuer.Issue(user.ID(), name, email)
	if err != nil {
		return nil, "", apperr.From(err)
	}

	delete(user, "password")
	return user, token, nil
}
