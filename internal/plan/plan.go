// Package plan exposes the subscription collaborator's view of a user:
// the handful of fields the booking engine is allowed to depend on.
package plan

import "context"

// Descriptor is the contract with the subscription system. The booking engine
// must not assume any particular plan-naming scheme beyond these fields.
type Descriptor struct {
	Name             string
	Eligible         bool     // whether this plan may book lab spaces at all
	MonthlyHourLimit *float64 // nil means unlimited
	AutoApprove      bool
	CycleStartDay    int // day of month the billing cycle starts on (1-28 typical)
}

// Provider resolves the plan currently attached to a user.
type Provider interface {
	ForUser(ctx context.Context, userID string) (Descriptor, error)
}
