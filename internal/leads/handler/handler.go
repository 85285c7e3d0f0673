// Package handler exposes the leads HTTP surface.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"leadgate_backend/internal/leads/service"
	"leadgate_backend/internal/leads/transport"
	"leadgate_backend/platform/httpkit"
	"leadgate_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *service.Service
	val     *validator.Validator
}

func NewHandler(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: svc, val: val}
}

// HandleCreate creates a lead, auto-assigning a salesperson when none is set.
// POST /api/v1/leads
func (h *Handler) HandleCreate(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	lead, err := h.service.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

// HandleList returns leads newest first.
// GET /api/v1/leads
func (h *Handler) HandleList(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	items, err := h.service.List(c.Request.Context(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

// HandleGet returns a single lead.
// GET /api/v1/leads/:leadId
func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.service.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// HandleMarkWon closes the lead as won.
// POST /api/v1/leads/:leadId/won
func (h *Handler) HandleMarkWon(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.service.MarkWon(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// HandleMarkLost closes the lead as lost.
// POST /api/v1/leads/:leadId/lost
func (h *Handler) HandleMarkLost(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.service.MarkLost(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// HandleSendWhatsApp sends a WhatsApp message to the lead's contact.
// POST /api/v1/leads/:leadId/whatsapp
func (h *Handler) HandleSendWhatsApp(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.SendWhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	result, err := h.service.SendWhatsApp(c.Request.Context(), id, req.Message)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SendWhatsAppResponse{
		Detail:    result.Detail,
		Simulated: result.Simulated,
	})
}

// HandleScheduleReminder schedules a delayed follow-up reminder.
// POST /api/v1/leads/:leadId/reminder
func (h *Handler) HandleScheduleReminder(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.ScheduleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	delay := time.Duration(req.DelayMinutes) * time.Minute
	err := h.service.ScheduleReminder(c.Request.Context(), id, req.Message, delay)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusAccepted)
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
