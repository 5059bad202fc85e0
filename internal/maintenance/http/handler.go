package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
	"github.com/makerlabhq/lab-booking-backend/internal/pkg/response"
)

type Handler struct {
	service maintenance.Service
}

func NewHandler(service maintenance.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = &t
		}
	}

	filter := maintenance.Filter{
		SpaceID:  c.Query("lab_space_id"),
		From:     from,
		To:       to,
		Page:     page,
		PageSize: pageSize,
	}

	blocks, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list maintenance blocks"})
		return
	}

	items := make([]Response, len(blocks))
	for i, b := range blocks {
		items[i] = NewResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), maintenance.CreateRequest{
		SpaceID:  body.SpaceID,
		StartsAt: body.StartsAt,
		EndsAt:   body.EndsAt,
		Reason:   body.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrInvalidTimeRange),
			errors.Is(err, maintenance.ErrReasonRequired),
			errors.Is(err, maintenance.ErrSpaceRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create maintenance block"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "maintenance block not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete maintenance block"})
		return
	}

	c.Status(http.StatusNoContent)
}
