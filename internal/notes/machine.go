package notes

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition reports an event that is not accepted in the current state.
var ErrInvalidTransition = errors.New("invalid notes transition")

// State is the notes workflow state.
type State int

const (
	Viewing State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a transition.
type Event int

const (
	EventEdit Event = iota
	EventSave
	EventSaveSucceeded
	EventSaveFailed
	EventCancel
)

func (e Event) String() string {
	switch e {
	case EventEdit:
		return "edit"
	case EventSave:
		return "save"
	case EventSaveSucceeded:
		return "save succeeded"
	case EventSaveFailed:
		return "save failed"
	case EventCancel:
		return "cancel"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Effect is a side effect the driver must perform after a transition.
type Effect int

const (
	// EffectPersist sends the draft to the backend.
	EffectPersist Effect = iota
	// EffectCommit writes the saved text into the history record.
	EffectCommit
	// EffectDiscardDraft reverts the draft to the committed notes.
	EffectDiscardDraft
	// EffectReportError surfaces the save failure; the draft is kept.
	EffectReportError
)

// InitialState is Editing for a record without notes, else Viewing.
func InitialState(committed string) State {
	if committed == "" {
		return Editing
	}
	return Viewing
}

// Transition computes the next state and the effects to run.
func Transition(state State, event Event) (State, []Effect, error) {
	switch {
	case state == Viewing && event == EventEdit:
		return Editing, nil, nil
	case state == Editing && event == EventSave:
		return Saving, []Effect{EffectPersist}, nil
	case state == Saving && event == EventSaveSucceeded:
		return Viewing, []Effect{EffectCommit}, nil
	case state == Saving && event == EventSaveFailed:
		return Editing, []Effect{EffectReportError}, nil
	case state == Editing && event == EventCancel:
		return Viewing, []Effect{EffectDiscardDraft}, nil
	default:
		return state, nil, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, state)
	}
}
