package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flap-service/internal/logger"
	"flap-service/internal/messaging"
	"flap-service/internal/types"

	"github.com/librescoot/librefsm"
	"go.uber.org/atomic"
)

// Config holds the tunables of the flap application.
type Config struct {
	TickInterval time.Duration // polling period
	CommandHold  time.Duration // pause after a fired command
	DriveTime    time.Duration // how long a toggle drives the motor

	FlapHoldTicks int // flap button hold threshold, in ticks
	AuxHoldTicks  int // rxpin/piopin hold threshold, in ticks

	PeerID uint8 // peer controller on the CAN bus
}

func DefaultConfig() Config {
	return Config{
		TickInterval:  10 * time.Millisecond,
		CommandHold:   500 * time.Millisecond,
		DriveTime:     8000 * time.Millisecond,
		FlapHoldTicks: 10,
		AuxHoldTicks:  5,
		PeerID:        99,
	}
}

// FlapSystem runs the flap application: a fixed-period polling task that
// debounces the three buttons, drives the flap state machine and forwards
// commands to the peer controller.
type FlapSystem struct {
	cfg    Config
	logger *logger.Logger

	io       Inputs
	motor    MotorController
	peers    PeerBus
	redis    MessagingClient
	liveness LivenessNotifier

	machine   *librefsm.Machine
	fsmCancel context.CancelFunc

	mu        sync.RWMutex
	driveLeft time.Duration // remaining drive window, guarded by mu
	duty      float64       // last commanded drive duty, guarded by mu

	flapTrigger *atomic.Bool
	stopRequest *atomic.Bool
	running     *atomic.Bool

	// Hold counters, owned by the polling goroutine
	flapHold holdCounter
	rxHold   holdCounter
	pioHold  holdCounter
}

func NewFlapSystem(cfg Config, io Inputs, m MotorController, peers PeerBus, redis MessagingClient, liveness LivenessNotifier, l *logger.Logger) *FlapSystem {
	return &FlapSystem{
		cfg:         cfg,
		logger:      l,
		io:          io,
		motor:       m,
		peers:       peers,
		redis:       redis,
		liveness:    liveness,
		flapTrigger: atomic.NewBool(false),
		stopRequest: atomic.NewBool(false),
		running:     atomic.NewBool(false),
	}
}

// Start brings the flap application up: connects to Redis, initializes the
// inputs, starts the state machine and spawns the polling task.
func (s *FlapSystem) Start() error {
	s.logger.Infof("Starting flap system")

	s.redis.SetCallbacks(messaging.Callbacks{
		FlapCallback: s.TriggerFlap,
	})

	if err := s.redis.Connect(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if err := s.io.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize hardware: %w", err)
	}

	// The control-cycle callback runs on every motor status broadcast.
	// The flap application has no per-cycle work, it only registers its
	// presence for the duration of the run.
	s.motor.SetControlCallback(s.controlCycle)

	ctx, cancel := context.WithCancel(context.Background())
	s.fsmCancel = cancel
	if err := s.initFSM(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to start state machine: %w", err)
	}

	// The running flag is raised here so a Stop racing with startup waits
	// for the polling task even before its goroutine is scheduled
	s.stopRequest.Store(false)
	s.running.Store(true)
	go s.pollLoop()

	// Start Redis listeners now that everything is initialized
	if err := s.redis.StartListening(); err != nil {
		return fmt.Errorf("failed to start Redis listeners: %w", err)
	}

	s.liveness.Ready()
	s.logger.Infof("Flap system started")
	return nil
}

// Stop shuts the flap application down. It blocks until the polling task
// has confirmed its exit; an in-flight command hold completes first, so
// shutdown latency is bounded by the hold time plus one tick.
func (s *FlapSystem) Stop() {
	s.logger.Infof("Stopping flap system")
	s.liveness.Stopping()

	s.motor.SetControlCallback(nil)

	if err := s.redis.Close(); err != nil {
		s.logger.Warnf("Failed to close Redis client: %v", err)
	}

	s.stopRequest.Store(true)
	for s.running.Load() {
		time.Sleep(time.Millisecond)
	}

	if s.fsmCancel != nil {
		s.fsmCancel()
	}

	s.io.Cleanup()
	s.logger.Infof("Flap system stopped")
}

// Configure accepts a new configuration. Reserved; the running
// configuration is fixed at Start.
func (s *FlapSystem) Configure(cfg Config) {
}

// TriggerFlap requests a flap toggle from outside the polling task. The
// flag coalesces: requests arriving before the next tick fold into one
// toggle.
func (s *FlapSystem) TriggerFlap() error {
	s.flapTrigger.Store(true)
	return nil
}

// State returns the current flap state.
func (s *FlapSystem) State() types.FlapState {
	return stateIDToFlapState(s.machine.CurrentState())
}

// controlCycle is invoked on every motor control cycle. No per-cycle work.
func (s *FlapSystem) controlCycle() {
}
