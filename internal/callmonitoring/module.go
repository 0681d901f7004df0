package callmonitoring

import (
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the call monitoring bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the call monitoring module. The redis
// client may be nil, in which case analytics caching is disabled.
func NewModule(pool *pgxpool.Pool, cache *redis.Client, cfg config.CacheConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, cache, cfg.GetCallCacheTTL(), log)
	handler := NewHandler(svc, val)

	return &Module{
		handler: handler,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "callmonitoring"
}

// RegisterRoutes mounts call monitoring routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	callGroup := ctx.Protected.Group("/calls")
	m.handler.RegisterRoutes(callGroup)
}

var _ apphttp.Module = (*Module)(nil)
