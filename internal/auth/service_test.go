package auth

import (
	"context"
	"testing"
	"time"

	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	employees map[string]*Employee
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	if e, ok := f.employees[email]; ok {
		return e, nil
	}
	return nil, apperr.NotFound("employee not found")
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperr.NotFound("employee not found")
}

type fakeConfig struct {
	secret string
	ttl    time.Duration
}

func (f fakeConfig) GetJWTAccessSecret() string       { return f.secret }
func (f fakeConfig) GetAccessTokenTTL() time.Duration { return f.ttl }

func newTestEmployee(t *testing.T, password string) *Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &Employee{
		ID:           uuid.New(),
		Name:         "Anita Desai",
		Email:        "anita@studio.example",
		Phone:        "+919876543210",
		PasswordHash: string(hash),
		Roles:        []string{"Sales Head"},
		Active:       true,
	}
}

func TestLoginIssuesAccessToken(t *testing.T) {
	emp := newTestEmployee(t, "correct-horse-battery")
	store := &fakeStore{employees: map[string]*Employee{emp.Email: emp}}
	cfg := fakeConfig{secret: "test-secret", ttl: time.Hour}
	svc := NewService(store, cfg, logger.New("development"))

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    emp.Email,
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("ExpiresIn = %d, want 3600", resp.ExpiresIn)
	}
	if resp.Employee.Name != "Anita Desai" {
		t.Fatalf("employee name = %q", resp.Employee.Name)
	}

	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != emp.ID.String() {
		t.Fatalf("sub = %v, want %s", claims["sub"], emp.ID)
	}
	if claims["type"] != "access" {
		t.Fatalf("type = %v, want access", claims["type"])
	}
	if claims["name"] != "Anita Desai" {
		t.Fatalf("name = %v", claims["name"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	emp := newTestEmployee(t, "correct-horse-battery")
	store := &fakeStore{employees: map[string]*Employee{emp.Email: emp}}
	svc := NewService(store, fakeConfig{secret: "s", ttl: time.Hour}, logger.New("development"))

	_, err := svc.Login(context.Background(), LoginRequest{Email: emp.Email, Password: "wrong"})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestLoginRejectsUnknownEmailUniformly(t *testing.T) {
	store := &fakeStore{employees: map[string]*Employee{}}
	svc := NewService(store, fakeConfig{secret: "s", ttl: time.Hour}, logger.New("development"))

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@studio.example", Password: "whatever"})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}

func TestLoginRejectsDeactivatedEmployee(t *testing.T) {
	emp := newTestEmployee(t, "correct-horse-battery")
	emp.Active = false
	store := &fakeStore{employees: map[string]*Employee{emp.Email: emp}}
	svc := NewService(store, fakeConfig{secret: "s", ttl: time.Hour}, logger.New("development"))

	_, err := svc.Login(context.Background(), LoginRequest{Email: emp.Email, Password: "correct-horse-battery"})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("err = %v, want unauthorized", err)
	}
}
