package core

import (
	"time"

	"flap-service/internal/fsm"
	"flap-service/internal/hardware"
)

// Current sent to the peer controller on rxpin/piopin commands, in amps.
const auxCommandCurrent = 1.0

// pollLoop is the polling task. It runs every step on a monotonic ticker
// until Stop is requested; the running flag is the handshake Stop waits on.
func (s *FlapSystem) pollLoop() {
	s.logger.Infof("Polling task started (tick %v)", s.cfg.TickInterval)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		if s.stopRequest.Load() {
			s.running.Store(false)
			s.logger.Infof("Polling task stopped")
			return
		}

		s.step()

		<-ticker.C
	}
}

// step is one iteration of the polling task.
func (s *FlapSystem) step() {
	s.liveness.Ping()

	s.flapHold.update(s.readButton(hardware.ChannelFlap))
	s.rxHold.update(s.readButton(hardware.ChannelRxpin))
	s.pioHold.update(s.readButton(hardware.ChannelPiopin))

	if s.flapHold.exceeds(s.cfg.FlapHoldTicks) || s.flapTrigger.Load() {
		s.flapHold.reset()
		s.flapTrigger.Store(false)

		s.logger.Infof("Flap button pressed")
		s.publishButton(hardware.ChannelFlap)

		if err := s.sendEvent(fsm.EvToggle); err != nil {
			s.logger.Errorf("Failed to toggle flap: %v", err)
		}

		s.hold()
	}

	if s.rxHold.exceeds(s.cfg.AuxHoldTicks) {
		s.rxHold.reset()

		s.logger.Infof("Rxpin button pressed")
		s.publishButton(hardware.ChannelRxpin)

		if err := s.peers.SetCurrent(s.cfg.PeerID, auxCommandCurrent); err != nil {
			s.logger.Warnf("Failed to send current to peer %d: %v", s.cfg.PeerID, err)
		}

		s.hold()
	}

	if s.pioHold.exceeds(s.cfg.AuxHoldTicks) {
		s.pioHold.reset()

		s.logger.Infof("Piopin button pressed")
		s.publishButton(hardware.ChannelPiopin)

		if err := s.peers.SetCurrentBrake(s.cfg.PeerID, auxCommandCurrent); err != nil {
			s.logger.Warnf("Failed to send brake current to peer %d: %v", s.cfg.PeerID, err)
		}

		s.hold()
	}

	s.mu.Lock()
	if s.driveLeft > 0 {
		s.driveLeft -= s.cfg.TickInterval
	}
	expired := s.driveLeft <= 0
	s.mu.Unlock()

	if expired {
		// Keep the motor cut on every tick outside the drive window
		if err := s.motor.SetDuty(0); err != nil {
			s.logger.Warnf("Failed to cut local motor duty: %v", err)
		}

		if s.State().Driving() {
			if err := s.sendEvent(fsm.EvDriveDone); err != nil {
				s.logger.Errorf("Failed to settle flap: %v", err)
			}
		}
	}
}

func (s *FlapSystem) readButton(channel string) bool {
	pressed, err := s.io.ReadButton(channel)
	if err != nil {
		s.logger.Warnf("Failed to read %s: %v", channel, err)
		return false
	}
	return pressed
}

func (s *FlapSystem) publishButton(channel string) {
	if err := s.redis.PublishButtonEvent(channel); err != nil {
		s.logger.Warnf("Failed to publish %s button event: %v", channel, err)
	}
}

// hold pauses the polling task after a fired command. Multiple commands
// firing on the same tick serialize their holds.
func (s *FlapSystem) hold() {
	if s.cfg.CommandHold > 0 {
		time.Sleep(s.cfg.CommandHold)
	}
}
