package booking

import "github.com/makerlabhq/lab-booking-backend/internal/plan"

// ApprovalPolicy decides the initial status of a new booking from the owner's
// plan. Auto-approve tiers skip manual staff review entirely.
type ApprovalPolicy struct{}

// Decide returns the initial lifecycle status for a booking under p.
func (ApprovalPolicy) Decide(p plan.Descriptor) Status {
	if p.AutoApprove {
		return StatusApproved
	}
	return StatusPending
}
