package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"police_fines/internal/i18n"
	"police_fines/internal/preferences/service"
	"police_fines/internal/preferences/transport"
	"police_fines/platform/httpkit"
	"police_fines/platform/validator"
)

// Handler handles HTTP requests for preferences.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new preferences handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetLanguage returns the active language.
// GET /api/v1/preferences/language
func (h *Handler) GetLanguage(c *gin.Context) {
	httpkit.OK(c, transport.LanguageResponse{Language: h.svc.Language(), Supported: i18n.Supported()})
}

// SetLanguage changes and persists the active language.
// PUT /api/v1/preferences/language
func (h *Handler) SetLanguage(c *gin.Context) {
	var req transport.SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lang, err := h.svc.Set(c.Request.Context(), req.Language)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LanguageResponse{Language: lang, Supported: i18n.Supported()})
}
