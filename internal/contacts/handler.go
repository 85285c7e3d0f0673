package contacts

import (
	"net/http"
	"strconv"
	"time"

	"leadgate_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ContactResponse is the API view of a contact.
type ContactResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Mobile    string     `json:"mobile"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// HandleList returns contacts newest first.
// GET /api/v1/contacts
func (h *Handler) HandleList(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	items, err := h.repo.List(c.Request.Context(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]ContactResponse, len(items))
	for i, item := range items {
		result[i] = toResponse(item)
	}
	httpkit.OK(c, result)
}

// HandleGet returns a single contact.
// GET /api/v1/contacts/:contactId
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid contact ID", nil)
		return
	}

	contact, err := h.repo.GetByID(c.Request.Context(), id)
	if err == ErrNotFound {
		httpkit.Error(c, http.StatusNotFound, "contact not found", nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(contact))
}

func toResponse(c Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Mobile:    c.Mobile,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
