package http

import (
	"time"

	"github.com/makerlabhq/lab-booking-backend/internal/booking"
	spaceHttp "github.com/makerlabhq/lab-booking-backend/internal/labspace/http"
	userHttp "github.com/makerlabhq/lab-booking-backend/internal/user/http"
)

type CreateBody struct {
	LabSpaceID string    `json:"lab_space_id" binding:"required,uuid"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Purpose    string    `json:"purpose" binding:"required"`
	Title      string    `json:"title"`
	SlotType   string    `json:"slot_type" binding:"omitempty,oneof=hourly half_day full_day"`
}

type BookingResponse struct {
	ID       string             `json:"id"`
	Space    spaceHttp.SpaceTag `json:"lab_space"`
	User     userHttp.UserTag   `json:"user"`
	Title    string             `json:"title"`
	Purpose  string             `json:"purpose"`
	SlotType string             `json:"slot_type"`
	StartsAt time.Time          `json:"starts_at"`
	EndsAt   time.Time          `json:"ends_at"`
	Status   string             `json:"status"`

	// Derived attributes for list/detail views.
	DurationHours float64 `json:"duration_hours"`
	Cancellable   bool    `json:"cancellable"`
	StatusColor   string  `json:"status_color"`

	CheckInAt  *time.Time `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// statusColors drive the badge color in the member dashboard.
var statusColors = map[booking.Status]string{
	booking.StatusPending:   "amber",
	booking.StatusApproved:  "green",
	booking.StatusCheckedIn: "blue",
	booking.StatusCompleted: "slate",
	booking.StatusCancelled: "slate",
	booking.StatusRejected:  "red",
	booking.StatusNoShow:    "red",
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		Space:         spaceHttp.SpaceTag{ID: b.SpaceID, Name: b.SpaceName, Slug: b.SpaceSlug},
		User:          userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		Title:         b.Title,
		Purpose:       b.Purpose,
		SlotType:      string(b.SlotType),
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		Status:        string(b.Status),
		DurationHours: b.DurationHours(),
		Cancellable:   b.Cancellable(time.Now()),
		StatusColor:   statusColors[b.Status],
		CheckInAt:     b.CheckInAt,
		CheckOutAt:    b.CheckOutAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type QuotaResponse struct {
	HasAccess bool       `json:"has_access"`
	Reason    string     `json:"reason,omitempty"`
	PlanName  string     `json:"plan_name,omitempty"`
	Limit     *float64   `json:"limit,omitempty"`
	Unlimited *bool      `json:"unlimited,omitempty"`
	Used      *float64   `json:"used,omitempty"`
	Remaining *float64   `json:"remaining,omitempty"`
	ResetsAt  *time.Time `json:"resets_at,omitempty"`
}

func NewQuotaResponse(q *booking.QuotaStatus) QuotaResponse {
	if !q.HasAccess {
		return QuotaResponse{HasAccess: false, Reason: q.Reason}
	}
	resp := QuotaResponse{
		HasAccess: true,
		PlanName:  q.PlanName,
		Limit:     q.Limit,
		Unlimited: &q.Unlimited,
		Used:      &q.Used,
		ResetsAt:  &q.ResetsAt,
	}
	if !q.Unlimited {
		resp.Remaining = &q.Remaining
	}
	return resp
}

type EventResponse struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Type   string    `json:"type"`
	Status string    `json:"status,omitempty"`
	Reason string    `json:"reason,omitempty"`
	User   *string   `json:"user,omitempty"`
}

type AvailabilityResponse struct {
	Space  spaceHttp.SpaceTag `json:"space"`
	Events []EventResponse    `json:"events"`
}

func NewEventResponse(e booking.Event) EventResponse {
	return EventResponse{
		ID:     e.ID,
		Title:  e.Title,
		Start:  e.Start,
		End:    e.End,
		Type:   e.Type,
		Status: e.Status,
		Reason: e.Reason,
		User:   e.UserName,
	}
}
