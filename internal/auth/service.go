package auth

import (
	"context"
	"time"

	"studio_backend/platform/apperr"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenType = "access"

// Store is the persistence port for employees.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Employee, error)
}

// Service authenticates employees and issues access tokens.
type Service struct {
	store Store
	cfg   config.AuthServiceConfig
	log   *logger.Logger
}

// NewService creates a new auth service.
func NewService(store Store, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: log}
}

// Login verifies the employee's credentials and returns a signed access
// token. Failures are reported uniformly so the response does not reveal
// whether the email exists.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	emp, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if !emp.Active {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := s.signAccessToken(emp, ttl)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign access token", err)
	}

	s.log.Info("employee signed in", "employeeId", emp.ID, "email", emp.Email)

	resp := toEmployeeResponse(emp)
	return &LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		Employee:    resp,
	}, nil
}

// Me returns the profile of the authenticated employee.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	emp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

func (s *Service) signAccessToken(emp *Employee, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   emp.ID.String(),
		"name":  emp.Name,
		"roles": emp.Roles,
		"type":  accessTokenType,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
