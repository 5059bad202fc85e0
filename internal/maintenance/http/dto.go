package http

import (
	"time"

	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
)

type CreateBody struct {
	SpaceID  string    `json:"lab_space_id" binding:"required,uuid"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Reason   string    `json:"reason" binding:"required"`
}

type Response struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"lab_space_id"`
	SpaceName string    `json:"lab_space_name"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(b *maintenance.Block) Response {
	return Response{
		ID:        b.ID,
		SpaceID:   b.SpaceID,
		SpaceName: b.SpaceName,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}
