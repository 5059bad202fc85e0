package booking

// lifecycle is the booking state machine. Terminal states have no outgoing
// transitions, so no sequence of events can revive a finished booking.
var lifecycle = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCompleted},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusCompleted: {},
	StatusNoShow:    {},
}

// activeStatuses occupy time on a lab space for conflict purposes.
var activeStatuses = []Status{StatusPending, StatusApproved, StatusCheckedIn, StatusCompleted}

// CanTransition reports whether from -> to is an allowed lifecycle move.
func CanTransition(from, to Status) bool {
	for _, s := range lifecycle[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transitions.
func IsTerminal(s Status) bool {
	return len(lifecycle[s]) == 0
}

// IsActive reports whether a booking in status s occupies its time slot.
func IsActive(s Status) bool {
	for _, a := range activeStatuses {
		if a == s {
			return true
		}
	}
	return false
}

// ConsumesQuota reports whether a booking in status s counts against the
// owner's monthly hours. Cancelled and rejected bookings refund their hours
// permanently by being excluded here.
func ConsumesQuota(s Status) bool {
	return s != StatusCancelled && s != StatusRejected
}

// transition moves the booking to the target status, or fails with
// ErrInvalidTransition without mutating anything.
func (b *Booking) transition(to Status) error {
	if !CanTransition(b.Status, to) {
		return ErrInvalidTransition
	}
	b.Status = to
	return nil
}
