package salespeople

import (
	"net/http"
	"time"

	"leadgate_backend/platform/httpkit"
	"leadgate_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	repo *Repository
	val  *validator.Validator
}

func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// SalespersonResponse is the API view of a salesperson.
type SalespersonResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Team      string    `json:"team"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateSalespersonRequest is the admin create body.
type CreateSalespersonRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
	Team  string `json:"team" validate:"omitempty,max=100"`
}

// HandleList lists all salespeople.
// GET /api/v1/admin/salespeople
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]SalespersonResponse, len(items))
	for i, item := range items {
		result[i] = toResponse(item)
	}
	httpkit.OK(c, result)
}

// HandleCreate adds a salesperson to the pool.
// POST /api/v1/admin/salespeople
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateSalespersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	team := req.Team
	if team == "" {
		team = "sales"
	}

	sp, err := h.repo.Create(c.Request.Context(), req.Name, req.Phone, team)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, toResponse(sp))
}

// HandleSetActive toggles pool membership.
// PUT /api/v1/admin/salespeople/:salespersonId/active
func (h *Handler) HandleSetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("salespersonId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid salesperson ID", nil)
		return
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.repo.SetActive(c.Request.Context(), id, req.IsActive); err != nil {
		if err == ErrNotFound {
			httpkit.Error(c, http.StatusNotFound, "salesperson not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toResponse(sp Salesperson) SalespersonResponse {
	return SalespersonResponse{
		ID:        sp.ID,
		Name:      sp.Name,
		Phone:     sp.Phone,
		Team:      sp.Team,
		IsActive:  sp.IsActive,
		CreatedAt: sp.CreatedAt,
	}
}
