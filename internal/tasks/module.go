package tasks

import (
	"studio_backend/internal/events"
	apphttp "studio_backend/internal/http"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the tasks module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, bus, log)
	handler := NewHandler(svc, val)

	return &Module{
		handler: handler,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Service returns the service layer for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterHandlers subscribes the module to domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	m.service.RegisterHandlers(bus)
}

// RegisterRoutes mounts task routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	taskGroup := ctx.Protected.Group("/tasks")
	m.handler.RegisterRoutes(taskGroup)
}

var _ apphttp.Module = (*Module)(nil)
