package fsm

import (
	"github.com/librescoot/librefsm"
)

// NewDefinition creates the flap FSM definition. The actions parameter
// provides the implementation for state entry behavior.
//
// A toggle while the drive is still in progress reverses direction
// immediately; the completed position is only reached through drive-done.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateClosed,
			librefsm.WithOnEnter(actions.EnterClosed),
		).
		State(StateOpening,
			librefsm.WithOnEnter(actions.EnterOpening),
		).
		State(StateOpen,
			librefsm.WithOnEnter(actions.EnterOpen),
		).
		State(StateClosing,
			librefsm.WithOnEnter(actions.EnterClosing),
		).

		// Toggle from the settled positions
		Transition(StateClosed, EvToggle, StateOpening).
		Transition(StateOpen, EvToggle, StateClosing).

		// Toggle mid-drive reverses
		Transition(StateOpening, EvToggle, StateClosing).
		Transition(StateClosing, EvToggle, StateOpening).

		// Drive countdown expiry settles the flap
		Transition(StateOpening, EvDriveDone, StateOpen).
		Transition(StateClosing, EvDriveDone, StateClosed).

		// Initial state
		Initial(StateClosed)
}
