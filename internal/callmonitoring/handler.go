package callmonitoring

import (
	"net/http"

	"studio_backend/platform/httpkit"
	"studio_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for call monitoring.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new call monitoring handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers call monitoring routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.LogCall)
	rg.GET("/analytics", h.Analytics)
}

// LogCall handles POST /calls
func (h *Handler) LogCall(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req LogCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	resp, err := h.svc.LogCall(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// List handles GET /calls
func (h *Handler) List(c *gin.Context) {
	var req ListCallsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	resp, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Analytics handles GET /calls/analytics
func (h *Handler) Analytics(c *gin.Context) {
	resp, err := h.svc.Analytics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
