package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxProvider struct {
	pool *pgxpool.Pool
}

// NewPgxProvider creates a Provider backed by the users/plans tables.
func NewPgxProvider(pool *pgxpool.Pool) Provider {
	return &pgxProvider{pool: pool}
}

// ForUser returns the user's plan descriptor. A user without a plan row is
// reported as an ineligible descriptor rather than an error, so the booking
// service can answer quota queries uniformly.
func (p *pgxProvider) ForUser(ctx context.Context, userID string) (Descriptor, error) {
	const query = `
		SELECT p.name, p.lab_access, p.monthly_hour_limit, p.auto_approve, p.cycle_start_day
		FROM public.users u
		JOIN public.plans p ON u.plan_id = p.id
		WHERE u.id = $1
	`

	var d Descriptor
	err := p.pool.QueryRow(ctx, query, userID).Scan(
		&d.Name, &d.Eligible, &d.MonthlyHourLimit, &d.AutoApprove, &d.CycleStartDay,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Descriptor{Name: "none", Eligible: false, CycleStartDay: 1}, nil
		}
		return Descriptor{}, fmt.Errorf("fetch plan for user failed: %w", err)
	}

	if d.CycleStartDay < 1 {
		d.CycleStartDay = 1
	}

	return d, nil
}
