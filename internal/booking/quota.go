package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/makerlabhq/lab-booking-backend/internal/plan"
)

// QuotaStatus is the user-facing picture of the current billing cycle.
type QuotaStatus struct {
	HasAccess bool
	Reason    string // set when HasAccess is false
	PlanName  string
	Limit     *float64 // nil when unlimited
	Unlimited bool
	Used      float64
	Remaining float64 // clamped at 0 for display; meaningless when Unlimited
	ResetsAt  time.Time
}

// QuotaLedger computes consumed and remaining hours for a billing cycle.
// Balances are always derived from bookings, never stored, so cancelling a
// booking refunds its hours with no compensating write.
type QuotaLedger struct {
	repo Repository
}

func NewQuotaLedger(repo Repository) *QuotaLedger {
	return &QuotaLedger{repo: repo}
}

// Status computes the quota picture for the user at now. Pure read.
func (l *QuotaLedger) Status(ctx context.Context, userID string, p plan.Descriptor, now time.Time) (*QuotaStatus, error) {
	if !p.Eligible {
		return &QuotaStatus{HasAccess: false, Reason: "plan_not_eligible"}, nil
	}

	cycleStart, cycleEnd := CycleWindow(now, p.CycleStartDay)

	used, err := l.repo.UsedHours(ctx, userID, cycleStart, cycleEnd)
	if err != nil {
		return nil, fmt.Errorf("compute used hours failed: %w", err)
	}

	status := &QuotaStatus{
		HasAccess: true,
		PlanName:  p.Name,
		Limit:     p.MonthlyHourLimit,
		Unlimited: p.MonthlyHourLimit == nil,
		Used:      used,
		ResetsAt:  cycleEnd,
	}

	if p.MonthlyHourLimit != nil {
		remaining := RoundHours(*p.MonthlyHourLimit - used)
		if remaining < 0 {
			remaining = 0
		}
		status.Remaining = remaining
	}

	return status, nil
}

// CycleWindow returns the billing cycle [start, end) containing now, anchored
// to startDay. Days beyond a month's length clamp to its last day, so a plan
// anchored on the 31st still resets once per month. Windows are UTC-midnight
// aligned.
func CycleWindow(now time.Time, startDay int) (time.Time, time.Time) {
	if startDay < 1 {
		startDay = 1
	}

	now = now.UTC()
	year, month, _ := now.Date()

	start := cycleAnchor(year, month, startDay)
	if now.Before(start) {
		start = cycleAnchor(year, month-1, startDay)
	}
	end := cycleAnchor(start.Year(), start.Month()+1, startDay)

	return start, end
}

// cycleAnchor is midnight UTC on min(day, last day of month). time.Date
// normalizes out-of-range months, so callers may pass month-1 or month+1.
func cycleAnchor(year int, month time.Month, day int) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, time.UTC)
}
