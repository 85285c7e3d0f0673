package webhook

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"leadgate_backend/platform/httpkit"
	"leadgate_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// VerifyTokenReader reads the configured webhook verify token fresh per call.
type VerifyTokenReader interface {
	VerifyToken(ctx context.Context) (string, error)
}

type Handler struct {
	service *Service
	tokens  VerifyTokenReader
	log     *logger.Logger
}

func NewHandler(service *Service, tokens VerifyTokenReader, log *logger.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, log: log}
}

// HandleVerify answers Meta's webhook subscription handshake.
// GET /api/v1/webhook/whatsapp
func (h *Handler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		httpkit.Error(c, http.StatusBadRequest, "missing verification parameters", nil)
		return
	}

	expected, err := h.tokens.VerifyToken(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "verification unavailable", nil)
		return
	}

	if mode != "subscribe" || expected == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		h.log.Warn("webhook verification rejected", "mode", mode, "client_ip", c.ClientIP())
		httpkit.Error(c, http.StatusForbidden, "verification failed", nil)
		return
	}

	c.String(http.StatusOK, challenge)
}

// HandleReceive ingests a webhook delivery. Meta retries anything that is
// not a 200, so per-message failures are absorbed and only a malformed
// envelope or a processing panic surfaces as an error status.
// POST /api/v1/webhook/whatsapp
func (h *Handler) HandleReceive(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	if err := h.process(c.Request.Context(), payload); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "processing failed", nil)
		return
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}

func (h *Handler) process(ctx context.Context, payload Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("webhook processing panicked", "panic", r)
			err = fmt.Errorf("webhook processing panicked: %v", r)
		}
	}()
	h.service.ProcessPayload(ctx, payload)
	return nil
}
