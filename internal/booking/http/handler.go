package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/makerlabhq/lab-booking-backend/internal/auth"
	"github.com/makerlabhq/lab-booking-backend/internal/booking"
	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
	spaceHttp "github.com/makerlabhq/lab-booking-backend/internal/labspace/http"
	"github.com/makerlabhq/lab-booking-backend/internal/pkg/response"
	"github.com/makerlabhq/lab-booking-backend/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// checkIsStaff helper checks if the current user has the staff flag
func (h *Handler) checkIsStaff(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsStaff
}

func (h *Handler) Quota(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	q, err := h.service.QuotaStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewQuotaResponse(q))
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	currentUserID := auth.GetUserID(c)
	isStaff := h.checkIsStaff(c, currentUserID)

	// Staff may inspect any user's bookings (or all); members only their own.
	filterUserID := currentUserID
	if isStaff {
		filterUserID = c.Query("user_id")
	}

	filter := booking.Filter{
		UserID:   filterUserID,
		SpaceID:  c.Query("lab_space_id"),
		Status:   c.Query("status"),
		Upcoming: c.Query("upcoming") == "true",
		Page:     page,
		PageSize: pageSize,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:   userID,
		SpaceID:  body.LabSpaceID,
		StartsAt: body.StartsAt,
		EndsAt:   body.EndsAt,
		Purpose:  body.Purpose,
		Title:    body.Title,
		SlotType: booking.SlotType(body.SlotType),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isStaff := h.checkIsStaff(c, userID)

	b, err := h.service.GetByID(c.Request.Context(), id, userID, isStaff)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isStaff := h.checkIsStaff(c, userID)

	b, err := h.service.Cancel(c.Request.Context(), id, userID, isStaff)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

func (h *Handler) review(c *gin.Context, action func(context.Context, string) (*booking.Booking, error)) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := action(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) CheckIn(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isStaff := h.checkIsStaff(c, userID)

	b, err := h.service.CheckIn(c.Request.Context(), id, userID, isStaff)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) CheckOut(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isStaff := h.checkIsStaff(c, userID)

	b, err := h.service.CheckOut(c.Request.Context(), id, userID, isStaff)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Availability(c *gin.Context) {
	slug := c.Param("slug")

	from, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter, expected RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter, expected RFC3339"})
		return
	}

	space, events, err := h.service.Availability(c.Request.Context(), slug, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EventResponse, len(events))
	for i, e := range events {
		items[i] = NewEventResponse(e)
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Space:  spaceTagOf(space),
		Events: items,
	})
}

func spaceTagOf(s *labspace.LabSpace) spaceHttp.SpaceTag {
	return spaceHttp.SpaceTag{ID: s.ID, Name: s.Name, Slug: s.Slug}
}
