package fsm

import "fmt"

type Lock string

type Mode string

type Event string

const (
	Locked   Lock = "locked"
	Unlocked Lock = "unlocked"
)

const (
	ModeNormal   Mode = "normal"
	ModeSpelling Mode = "spelling"
)

const (
	EventUnlock Event = "unlock"
	EventLock   Event = "lock"
	EventSpell  Event = "spell"
	EventAccept Event = "accept"
	EventCancel Event = "cancel"
	EventNormal Event = "normal"
)

// State is the voice-control lock and input mode pair.
type State struct {
	Lock Lock
	Mode Mode
}

// Initial returns the start state. Without locking the engine starts unlocked.
func Initial(locking bool) State {
	if locking {
		return State{Lock: Locked, Mode: ModeNormal}
	}
	return State{Lock: Unlocked, Mode: ModeNormal}
}

func (s State) String() string {
	return string(s.Lock) + "/" + string(s.Mode)
}

func Transition(current State, event Event) (State, error) {
	if err := current.validate(); err != nil {
		return current, err
	}

	switch event {
	case EventUnlock:
		if current.Lock != Locked {
			return current, invalidTransition(current, event)
		}
		return State{Lock: Unlocked, Mode: current.Mode}, nil
	case EventLock:
		if current.Lock != Unlocked {
			return current, invalidTransition(current, event)
		}
		return State{Lock: Locked, Mode: current.Mode}, nil
	case EventSpell:
		if current.Lock != Unlocked || current.Mode != ModeNormal {
			return current, invalidTransition(current, event)
		}
		return State{Lock: Unlocked, Mode: ModeSpelling}, nil
	case EventAccept, EventCancel, EventNormal:
		if current.Lock != Unlocked || current.Mode != ModeSpelling {
			return current, invalidTransition(current, event)
		}
		return State{Lock: Unlocked, Mode: ModeNormal}, nil
	default:
		return current, fmt.Errorf("unknown event %q", event)
	}
}

func (s State) validate() error {
	switch s.Lock {
	case Locked, Unlocked:
	default:
		return fmt.Errorf("unknown state %q", s)
	}
	switch s.Mode {
	case ModeNormal, ModeSpelling:
	default:
		return fmt.Errorf("unknown state %q", s)
	}
	return nil
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
