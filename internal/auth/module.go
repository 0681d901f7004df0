package auth

import (
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler    *Handler
	repository *Repository
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, cfg, log)
	handler := NewHandler(svc, val)

	return &Module{
		handler:    handler,
		repository: repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Repository exposes employee lookups for other modules that need to
// resolve an employee's contact details.
func (m *Module) Repository() *Repository {
	return m.repository
}

// RegisterRoutes mounts auth routes. Login sits on the public v1 group
// behind the stricter auth rate limiter; profile lookup requires a token.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	public.POST("/login", m.handler.Login)

	protected := ctx.Protected.Group("/auth")
	protected.GET("/me", m.handler.Me)
}

var _ apphttp.Module = (*Module)(nil)
