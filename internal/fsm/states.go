package fsm

import "github.com/librescoot/librefsm"

// Flap states
const (
	StateClosed  librefsm.StateID = "closed"
	StateOpening librefsm.StateID = "opening"
	StateOpen    librefsm.StateID = "open"
	StateClosing librefsm.StateID = "closing"
)

// Flap events
const (
	// Toggle request, from the button or the external trigger
	EvToggle librefsm.EventID = "toggle"

	// Drive countdown expired
	EvDriveDone librefsm.EventID = "drive-done"
)
