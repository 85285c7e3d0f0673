package settings

import (
	"net/http"
	"strings"

	"leadgate_backend/platform/httpkit"
	"leadgate_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes the admin settings surface.
type Handler struct {
	service *Service
	val     *validator.Validator
}

func NewHandler(service *Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// SettingsResponse is the admin view of the settings store. The access token
// is masked to its prefix; it is writable, not readable.
type SettingsResponse struct {
	Strategy         string `json:"strategy"`
	Cursor           int    `json:"cursor"`
	VerifyToken      string `json:"verifyToken"`
	AccessTokenHint  string `json:"accessTokenHint"`
	PhoneNumberID    string `json:"phoneNumberId"`
	TestMode         bool   `json:"testMode"`
}

// UpdateSettingsRequest is the admin settings update body.
type UpdateSettingsRequest struct {
	Strategy      *string `json:"strategy" validate:"omitempty,oneof=round_robin random load_based"`
	VerifyToken   *string `json:"verifyToken" validate:"omitempty,max=200"`
	AccessToken   *string `json:"accessToken" validate:"omitempty,max=500"`
	PhoneNumberID *string `json:"phoneNumberId" validate:"omitempty,max=100"`
	TestMode      *bool   `json:"testMode"`
}

// HandleGetSettings returns the current settings snapshot.
// GET /api/v1/admin/settings
func (h *Handler) HandleGetSettings(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, SettingsResponse{
		Strategy:        snap.Strategy.String(),
		Cursor:          snap.Cursor,
		VerifyToken:     snap.VerifyToken,
		AccessTokenHint: maskToken(snap.AccessToken),
		PhoneNumberID:   snap.PhoneNumberID,
		TestMode:        snap.TestMode,
	})
}

// HandleUpdateSettings applies a partial settings update.
// PUT /api/v1/admin/settings
func (h *Handler) HandleUpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	err := h.service.Update(c.Request.Context(), UpdateParams{
		Strategy:      req.Strategy,
		VerifyToken:   req.VerifyToken,
		AccessToken:   req.AccessToken,
		PhoneNumberID: req.PhoneNumberID,
		TestMode:      req.TestMode,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + strings.Repeat("*", 4)
}
