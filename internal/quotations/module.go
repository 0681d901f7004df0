// Package quotations provides the quotation approval workflow domain module.
package quotations

import (
	apphttp "studio_backend/internal/http"
	"studio_backend/internal/quotations/handler"
	"studio_backend/internal/quotations/repository"
	"studio_backend/internal/quotations/service"
	"studio_backend/platform/events"
	"studio_backend/platform/httpkit"
	"studio_backend/platform/logger"
	"studio_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Roles allowed to approve or reject quotations.
const (
	RoleSalesHead     = "Sales Head"
	RoleAdministrator = "Administrator"
)

// Module represents the quotations domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotations module with all dependencies wired
func NewModule(pool *pgxpool.Pool, eventBus *events.InMemoryBus, notifier service.Notifier, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, notifier, log)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotations"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotations := ctx.Protected.Group("/quotations")
	m.handler.RegisterRoutes(quotations)

	// Approval decisions are restricted to the sales head and administrators.
	approvers := quotations.Group("")
	approvers.Use(httpkit.RequireAnyRole(RoleSalesHead, RoleAdministrator))
	m.handler.RegisterApproverRoutes(approvers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
