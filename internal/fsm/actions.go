package fsm

import "github.com/librescoot/librefsm"

// Actions defines the interface for flap state machine actions.
// FlapSystem implements this interface to handle state entry behavior.
type Actions interface {
	// Drive states: start driving toward the new position
	EnterOpening(c *librefsm.Context) error
	EnterClosing(c *librefsm.Context) error

	// Settled states: cut the drive
	EnterOpen(c *librefsm.Context) error
	EnterClosed(c *librefsm.Context) error
}
