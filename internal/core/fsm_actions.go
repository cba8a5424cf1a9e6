package core

import (
	"context"

	"flap-service/internal/fsm"
	"flap-service/internal/types"

	"github.com/librescoot/librefsm"
)

// Ensure FlapSystem implements fsm.Actions
var _ fsm.Actions = (*FlapSystem)(nil)

// stateIDToFlapState converts librefsm StateID to types.FlapState
func stateIDToFlapState(id librefsm.StateID) types.FlapState {
	switch id {
	case fsm.StateClosed:
		return types.StateClosed
	case fsm.StateOpening:
		return types.StateOpening
	case fsm.StateOpen:
		return types.StateOpen
	case fsm.StateClosing:
		return types.StateClosing
	default:
		return types.FlapState(string(id))
	}
}

// initFSM initializes and starts the librefsm machine
func (s *FlapSystem) initFSM(ctx context.Context) error {
	def := fsm.NewDefinition(s)
	machine, err := def.Build()
	if err != nil {
		return err
	}
	s.machine = machine

	// Publish every transition. The duty is read here rather than through
	// State() to avoid re-entering the FSM from its own callback.
	s.machine.OnStateChange(func(from, to librefsm.StateID) {
		newState := stateIDToFlapState(to)
		oldState := stateIDToFlapState(from)

		s.mu.RLock()
		duty := s.duty
		s.mu.RUnlock()

		s.logger.Infof("State transition: %s -> %s", oldState, newState)

		if err := s.redis.PublishFlapState(newState, duty); err != nil {
			s.logger.Errorf("Failed to publish state: %v", err)
		}
	})

	if err := s.machine.Start(ctx); err != nil {
		return err
	}

	s.logger.Infof("librefsm state machine started")
	return nil
}

// sendEvent sends an event to the FSM and waits for it to be processed
func (s *FlapSystem) sendEvent(event librefsm.EventID) error {
	return s.machine.SendSync(librefsm.Event{ID: event})
}

// === State Entry Actions ===

func (s *FlapSystem) EnterOpening(c *librefsm.Context) error {
	return s.startDrive(types.StateOpening)
}

func (s *FlapSystem) EnterClosing(c *librefsm.Context) error {
	return s.startDrive(types.StateClosing)
}

func (s *FlapSystem) EnterOpen(c *librefsm.Context) error {
	return s.settle(c, types.StateOpen)
}

func (s *FlapSystem) EnterClosed(c *librefsm.Context) error {
	return s.settle(c, types.StateClosed)
}

// startDrive arms the drive countdown and commands the drive duty to the
// peer controller and the local motor. Command failures are logged and
// ignored, the drive window still runs.
func (s *FlapSystem) startDrive(state types.FlapState) error {
	maxDuty := s.motor.Configuration().MaxDuty
	duty := dutyForDirection(state.Direction(), maxDuty)

	s.logger.Infof("New flap direction: %s (duty %.3f)", state, duty)

	s.mu.Lock()
	s.driveLeft = s.cfg.DriveTime
	s.duty = duty
	s.mu.Unlock()

	if err := s.peers.SetDuty(s.cfg.PeerID, duty); err != nil {
		s.logger.Warnf("Failed to send duty to peer %d: %v", s.cfg.PeerID, err)
	}
	if err := s.motor.SetDuty(duty); err != nil {
		s.logger.Warnf("Failed to set local motor duty: %v", err)
	}

	return nil
}

// settle cuts the drive after the countdown has expired. Skipped on the
// initial entry at machine start, when there is no drive to cut.
func (s *FlapSystem) settle(c *librefsm.Context, state types.FlapState) error {
	if c.FromState == "" {
		return nil
	}

	s.mu.Lock()
	s.driveLeft = 0
	s.duty = 0
	s.mu.Unlock()

	if err := s.motor.SetDuty(0); err != nil {
		s.logger.Warnf("Failed to cut local motor duty: %v", err)
	}

	s.logger.Infof("Flap drive complete: %s", state)
	return nil
}
