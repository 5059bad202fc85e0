package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
	"github.com/makerlabhq/lab-booking-backend/internal/pkg/response"
)

type Handler struct {
	service labspace.Service
}

func NewHandler(service labspace.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := labspace.Filter{
		Type:       c.Query("type"),
		ActiveOnly: c.Query("active") == "true",
		Page:       page,
		PageSize:   pageSize,
	}

	spaces, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list lab spaces"})
		return
	}

	items := make([]Response, len(spaces))
	for i, s := range spaces {
		items[i] = NewResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	slug := c.Param("slug")

	space, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, labspace.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lab space not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get lab space"})
		return
	}

	c.JSON(http.StatusOK, NewResponse(space))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	space, err := h.service.Create(c.Request.Context(), labspace.CreateRequest{
		Name:               body.Name,
		Slug:               body.Slug,
		Type:               labspace.SpaceType(body.Type),
		Capacity:           body.Capacity,
		Amenities:          body.Amenities,
		SafetyRequirements: body.SafetyRequirements,
	})
	if err != nil {
		switch {
		case errors.Is(err, labspace.ErrSlugTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, labspace.ErrEmptyName),
			errors.Is(err, labspace.ErrInvalidType),
			errors.Is(err, labspace.ErrBadCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create lab space"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewResponse(space))
}

func (h *Handler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var body UpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	space, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, labspace.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lab space not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get lab space"})
		return
	}

	var spaceType *labspace.SpaceType
	if body.Type != nil {
		t := labspace.SpaceType(*body.Type)
		spaceType = &t
	}

	updated, err := h.service.Update(c.Request.Context(), space.ID, labspace.UpdateRequest{
		Name:               body.Name,
		Type:               spaceType,
		Capacity:           body.Capacity,
		Amenities:          body.Amenities,
		SafetyRequirements: body.SafetyRequirements,
		IsActive:           body.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, labspace.ErrEmptyName),
			errors.Is(err, labspace.ErrInvalidType),
			errors.Is(err, labspace.ErrBadCapacity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update lab space"})
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(updated))
}
