package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flap-service/internal/canbus"
	"flap-service/internal/core"
	"flap-service/internal/hardware"
	"flap-service/internal/logger"
	"flap-service/internal/messaging"
	"flap-service/internal/motor"
	"flap-service/internal/watchdog"
)

func main() {
	// Service log level
	var serviceLogLevel int
	flag.IntVar(&serviceLogLevel, "log", 3, "Service log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")

	redisHost := flag.String("redis-host", "127.0.0.1", "Redis host")
	redisPort := flag.Int("redis-port", 6379, "Redis port")
	canIface := flag.String("can", "can0", "CAN interface")
	nodeID := flag.Int("node", 0, "Local motor controller id")
	peerID := flag.Int("peer", 99, "Peer controller id")
	maxDuty := flag.Float64("max-duty", 0.95, "Maximum duty cycle magnitude")
	tick := flag.Duration("tick", 10*time.Millisecond, "Polling interval")
	hold := flag.Duration("hold", 500*time.Millisecond, "Pause after a fired command")
	driveTime := flag.Duration("drive", 8*time.Second, "Drive window per toggle")

	flag.Parse()

	// Create standard logger with appropriate format
	var stdLogger *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// Running under systemd, use minimal format
		stdLogger = log.New(os.Stdout, "", 0)
	} else {
		// Running interactively, use timestamps
		stdLogger = log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}

	// Create leveled logger
	l := logger.NewLogger(stdLogger, logger.LogLevel(serviceLogLevel))

	l.Infof("Starting flap service...")

	bus, err := canbus.Dial(context.Background(), *canIface, l.WithTag("can"))
	if err != nil {
		l.Fatalf("Failed to open CAN bus: %v", err)
	}

	motorClient, err := motor.NewClient(context.Background(), bus, uint8(*nodeID),
		motor.Config{MaxDuty: *maxDuty}, l.WithTag("motor"))
	if err != nil {
		l.Fatalf("Failed to create motor client: %v", err)
	}

	inputs := hardware.NewLinuxInputs(l.WithTag("gpio"))
	redisClient := messaging.NewRedisClient(*redisHost, *redisPort, l.WithTag("redis"))
	notifier := watchdog.New(l.WithTag("watchdog"))

	cfg := core.DefaultConfig()
	cfg.TickInterval = *tick
	cfg.CommandHold = *hold
	cfg.DriveTime = *driveTime
	cfg.PeerID = uint8(*peerID)

	system := core.NewFlapSystem(cfg, inputs, motorClient, bus, redisClient, notifier, l)
	if err := system.Start(); err != nil {
		l.Fatalf("Failed to start system: %v", err)
	}

	l.Infof("System started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	l.Infof("Received signal %v, shutting down...", sig)
	system.Stop()

	if err := motorClient.Close(); err != nil {
		l.Warnf("Failed to close motor client: %v", err)
	}
	if err := bus.Close(); err != nil {
		l.Warnf("Failed to close CAN bus: %v", err)
	}
	notifier.Close()

	l.Infof("Shutdown complete")
}
