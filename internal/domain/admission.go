package domain

import "time"

// AdmissionDecision is the outcome of evaluating a registration attempt against an event.
type AdmissionDecision int

const (
	Admit AdmissionDecision = iota
	RejectEventNotFound
	RejectDeadlinePassed
	RejectCapacityReached
)

func (d AdmissionDecision) String() string {
	switch d {
	case Admit:
		return "admit"
	case RejectEventNotFound:
		return "event_not_found"
	case RejectDeadlinePassed:
		return "deadline_passed"
	case RejectCapacityReached:
		return "capacity_reached"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for a rejection, or nil for Admit.
func (d AdmissionDecision) Err() error {
	switch d {
	case RejectEventNotFound:
		return ErrNotFound
	case RejectDeadlinePassed:
		return ErrRegistrationClosed
	case RejectCapacityReached:
		return ErrCapacityExceeded
	default:
		return nil
	}
}

// AdmitRegistration decides whether a new registration for event may proceed given the
// current registration count at now. A nil event means the event does not exist.
//
// The deadline is checked before capacity, so a closed event is rejected even
// when it still has room. IsHidden plays no part in admission.
func AdmitRegistration(event *Event, currentCount int, now time.Time) AdmissionDecision {
	if event == nil {
		return RejectEventNotFound
	}
	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return RejectDeadlinePassed
	}
	if event.MaxParticipants != nil && currentCount >= *event.MaxParticipants {
		return RejectCapacityReached
	}
	return Admit
}
