package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
)

// Event types in the availability feed.
const (
	EventBooking     = "booking"
	EventMaintenance = "maintenance"
)

// Event is the common projection of bookings and maintenance blocks.
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	Type     string  // booking | maintenance
	Status   string  // booking status; empty for maintenance
	Reason   string  // maintenance reason; empty for bookings
	UserName *string // booking owner; nil for maintenance
}

// CalendarBuilder merges active bookings and maintenance blocks for a lab
// space into one chronological feed. The feed is derived on every call and
// never cached.
type CalendarBuilder struct {
	bookings    Repository
	maintenance maintenance.Repository
}

func NewCalendarBuilder(bookings Repository, maintenance maintenance.Repository) *CalendarBuilder {
	return &CalendarBuilder{bookings: bookings, maintenance: maintenance}
}

// Build returns all events intersecting r on the space, sorted by start time.
func (b *CalendarBuilder) Build(ctx context.Context, spaceID string, r TimeRange) ([]Event, error) {
	active, err := b.bookings.ListActiveForSpace(ctx, spaceID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("load bookings for calendar failed: %w", err)
	}

	blocks, err := b.maintenance.ListForSpace(ctx, spaceID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("load maintenance blocks for calendar failed: %w", err)
	}

	events := make([]Event, 0, len(active)+len(blocks))

	for _, bk := range active {
		title := bk.Title
		if title == "" {
			title = "Booked"
		}
		events = append(events, Event{
			ID:       bk.ID,
			Title:    title,
			Start:    bk.StartsAt,
			End:      bk.EndsAt,
			Type:     EventBooking,
			Status:   string(bk.Status),
			UserName: bk.UserName,
		})
	}

	for _, bl := range blocks {
		events = append(events, Event{
			ID:     bl.ID,
			Title:  "Maintenance",
			Start:  bl.StartsAt,
			End:    bl.EndsAt,
			Type:   EventMaintenance,
			Reason: bl.Reason,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events, nil
}
