package core

import (
	"flap-service/internal/messaging"
	"flap-service/internal/motor"
	"flap-service/internal/types"
)

// MessagingClient defines the interface for Redis messaging operations needed by FlapSystem
type MessagingClient interface {
	SetCallbacks(callbacks messaging.Callbacks)
	Connect() error
	StartListening() error
	Close() error

	// State
	PublishFlapState(state types.FlapState, duty float64) error

	// Events
	PublishButtonEvent(button string) error
}

// Inputs defines the interface for the button inputs polled by FlapSystem
type Inputs interface {
	Initialize() error
	ReadButton(channel string) (bool, error)
	Cleanup()
}

// MotorController defines the interface for the local motor controller
type MotorController interface {
	Configuration() motor.Config
	SetDuty(duty float64) error
	SetControlCallback(fn func())
}

// PeerBus defines the interface for sending commands to peer controllers
// on the CAN bus
type PeerBus interface {
	SetDuty(controller uint8, duty float64) error
	SetCurrent(controller uint8, amps float64) error
	SetCurrentBrake(controller uint8, amps float64) error
}

// LivenessNotifier defines the interface for watchdog notifications
type LivenessNotifier interface {
	Ready()
	Ping()
	Stopping()
}
