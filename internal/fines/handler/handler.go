// Package handler exposes search sessions over HTTP.
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"police_fines/internal/fines/session"
	"police_fines/internal/fines/transport"
	"police_fines/internal/fines/validation"
	"police_fines/internal/i18n"
	"police_fines/platform/apperr"
	"police_fines/platform/httpkit"
	"police_fines/platform/logger"
	"police_fines/platform/sanitize"
	"police_fines/platform/validator"
)

// Sessions is the session store the handler serves. *session.Registry implements it.
type Sessions interface {
	Create() (string, *session.Orchestrator)
	Get(id string) (*session.Orchestrator, error)
	Remove(id string) bool
}

// TokenIssuer signs session tokens. *httpkit.SessionTokens implements it.
type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

// Translator resolves catalog keys in the active language.
type Translator interface {
	T(key string, args ...any) string
}

// Handler handles HTTP requests for search sessions.
type Handler struct {
	sessions   Sessions
	tokens     TokenIssuer
	translator Translator
	val        *validator.Validator
	log        *logger.Logger
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgTokenFailed      = "failed to issue session token"
)

// Custom validation tags registered by RegisterValidations.
const (
	TagCarPlate   = "carplate"
	TagPersonalID = "personalid"
	TagBirthDate  = "birthdate"
)

// RegisterValidations installs the fines field rules on val.
func RegisterValidations(val *validator.Validator) error {
	rules := map[string]func(string) bool{
		TagCarPlate:   validation.ValidateCarPlate,
		TagPersonalID: validation.ValidatePersonalID,
		TagBirthDate:  func(s string) bool { return validation.ValidateBirthDate(s).IsValid },
	}
	for tag, rule := range rules {
		if err := val.RegisterStringRule(tag, rule); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new search session handler.
func New(sessions Sessions, tokens TokenIssuer, translator Translator, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{sessions: sessions, tokens: tokens, translator: translator, val: val, log: log}
}

// SessionCreated is returned when a session is opened.
type SessionCreated struct {
	ID    string        `json:"id"`
	Token string        `json:"token"`
	State StateResponse `json:"state"`
}

// CreateSession opens a new search session.
// POST /api/v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	id, o := h.sessions.Create()
	token, err := h.tokens.Issue(id)
	if err != nil {
		h.sessions.Remove(id)
		h.log.Error("failed to sign session token", "error", err)
		httpkit.HandleError(c, apperr.Internal(msgTokenFailed))
		return
	}

	httpkit.JSON(c, http.StatusCreated, SessionCreated{ID: id, Token: token, State: NewStateResponse(o.Snapshot())})
}

// GetSession returns the current state.
// GET /api/v1/session
func (h *Handler) GetSession(c *gin.Context) {
	o, ok := h.session(c)
	if !ok {
		return
	}
	httpkit.OK(c, NewStateResponse(o.Snapshot()))
}

// UpdateForm applies a partial form update.
// PATCH /api/v1/session/form
func (h *Handler) UpdateForm(c *gin.Context) {
	var req session.FormPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	o, ok := h.session(c)
	if !ok {
		return
	}

	req.ReceiptNumber = sanitize.TextPtr(req.ReceiptNumber)
	req.MerchantName = sanitize.TextPtr(req.MerchantName)
	req.SearchQuery = sanitize.TextPtr(req.SearchQuery)
	req.CarPlate = sanitize.TextPtr(req.CarPlate)

	if httpkit.HandleError(c, o.UpdateForm(req)) {
		return
	}
	httpkit.OK(c, NewStateResponse(o.Snapshot()))
}

// ResetForm empties the form.
// DELETE /api/v1/session/form
func (h *Handler) ResetForm(c *gin.Context) {
	h.apply(c, func(o *session.Orchestrator) error { return o.ResetForm() })
}

// Search runs a search and returns the resulting state.
// POST /api/v1/session/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	// A disconnecting client must not abandon the search; the result is
	// still readable through GET /session.
	ctx := context.WithoutCancel(c.Request.Context())
	h.apply(c, func(o *session.Orchestrator) error { return o.Search(ctx, req.SearchType) })
}

// Retry replays the last failed search.
// POST /api/v1/session/retry
func (h *Handler) Retry(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	h.apply(c, func(o *session.Orchestrator) error { return o.Retry(ctx) })
}

// Clear returns the session to idle.
// POST /api/v1/session/clear
func (h *Handler) Clear(c *gin.Context) {
	h.apply(c, func(o *session.Orchestrator) error { return o.Clear() })
}

// DismissError hides the current error or banner.
// DELETE /api/v1/session/error
func (h *Handler) DismissError(c *gin.Context) {
	h.apply(c, func(o *session.Orchestrator) error { return o.DismissError() })
}

// EndSession closes the session.
// DELETE /api/v1/session
func (h *Handler) EndSession(c *gin.Context) {
	id, ok := httpkit.MustGetSessionID(c)
	if !ok {
		return
	}
	if !h.sessions.Remove(id) {
		httpkit.HandleError(c, session.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Validate checks individual form fields without touching any session.
// POST /api/v1/validate
func (h *Handler) Validate(c *gin.Context) {
	var req transport.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	resp := transport.ValidateResponse{Valid: true, Fields: map[string]transport.FieldValidity{}}
	check := func(field string, value *string, verdict func(string) string) {
		if value == nil {
			return
		}
		key := verdict(*value)
		if key == "" {
			resp.Fields[field] = transport.FieldValidity{Valid: true}
			return
		}
		resp.Valid = false
		resp.Fields[field] = transport.FieldValidity{Reason: key, Message: h.translator.T(key)}
	}

	check("carPlate", req.CarPlate, func(s string) string {
		return h.fieldVerdict(s, TagCarPlate, i18n.KeyCarPlateRequired, i18n.KeyCarPlateFormat)
	})
	check("personalNo", req.PersonalNo, func(s string) string {
		return h.fieldVerdict(s, TagPersonalID, i18n.KeyPersonalNoRequired, i18n.KeyPersonalNoLength)
	})
	check("birthDate", req.BirthDate, func(s string) string {
		if h.val.Var(s, TagBirthDate) == nil {
			return ""
		}
		return string(validation.ValidateBirthDate(s).Reason)
	})

	httpkit.OK(c, resp)
}

func (h *Handler) fieldVerdict(value, tag, requiredKey, formatKey string) string {
	if strings.TrimSpace(value) == "" {
		return requiredKey
	}
	if h.val.Var(value, tag) != nil {
		return formatKey
	}
	return ""
}

// apply runs op on the caller's session and responds with the new state.
func (h *Handler) apply(c *gin.Context, op func(*session.Orchestrator) error) {
	o, ok := h.session(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, op(o)) {
		return
	}
	httpkit.OK(c, NewStateResponse(o.Snapshot()))
}

func (h *Handler) session(c *gin.Context) (*session.Orchestrator, bool) {
	id, ok := httpkit.MustGetSessionID(c)
	if !ok {
		return nil, false
	}
	o, err := h.sessions.Get(id)
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return o, true
}
