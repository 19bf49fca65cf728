package deletion

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition reports an event that is not accepted in the current state.
var ErrInvalidTransition = errors.New("invalid deletion transition")

// State is the deletion workflow state.
type State int

const (
	Idle State = iota
	PendingConfirmation
	Confirmed
	Removed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingConfirmation:
		return "pending confirmation"
	case Confirmed:
		return "confirmed"
	case Removed:
		return "removed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a transition.
type Event int

const (
	EventRequest Event = iota
	EventAbort
	EventConfirm
	EventDeleteSucceeded
	EventDeleteFailed
)

func (e Event) String() string {
	switch e {
	case EventRequest:
		return "request"
	case EventAbort:
		return "abort"
	case EventConfirm:
		return "confirm"
	case EventDeleteSucceeded:
		return "delete succeeded"
	case EventDeleteFailed:
		return "delete failed"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Effect is a side effect the driver must perform after a transition.
type Effect int

const (
	// EffectDelete issues the external delete call.
	EffectDelete Effect = iota
	// EffectRemove drops the record from the history store.
	EffectRemove
	// EffectReportError surfaces the delete failure; the record is kept.
	EffectReportError
)

// Transition computes the next state and the effects to run. A new request is
// accepted from any settled state, which is how a failed delete is retried.
func Transition(state State, event Event) (State, []Effect, error) {
	switch event {
	case EventRequest:
		if state == Idle || state == Removed || state == Failed {
			return PendingConfirmation, nil, nil
		}
	case EventAbort:
		if state == PendingConfirmation || state == Failed {
			return Idle, nil, nil
		}
	case EventConfirm:
		if state == PendingConfirmation {
			return Confirmed, []Effect{EffectDelete}, nil
		}
	case EventDeleteSucceeded:
		if state == Confirmed {
			return Removed, []Effect{EffectRemove}, nil
		}
	case EventDeleteFailed:
		if state == Confirmed {
			return Failed, []Effect{EffectReportError}, nil
		}
	}
	return state, nil, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, state)
}
