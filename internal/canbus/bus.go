package canbus

import (
	"context"
	"fmt"
	"net"
	"time"

	"flap-service/internal/logger"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

const transmitTimeout = 100 * time.Millisecond

// Bus is the transmit side of a SocketCAN interface, used to send command
// frames to motor controllers on the bus. Sends are fire-and-forget: the
// frame is handed to the kernel and delivery is not acknowledged.
type Bus struct {
	iface  string
	conn   net.Conn
	tx     *socketcan.Transmitter
	logger *logger.Logger
}

func Dial(ctx context.Context, iface string, l *logger.Logger) (*Bus, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("failed to open CAN interface %s: %w", iface, err)
	}
	l.Infof("Opened CAN interface %s", iface)
	return &Bus{
		iface:  iface,
		conn:   conn,
		tx:     socketcan.NewTransmitter(conn),
		logger: l,
	}, nil
}

// Interface returns the name of the underlying CAN interface.
func (b *Bus) Interface() string {
	return b.iface
}

// SetDuty sends a duty cycle command to the given controller.
func (b *Bus) SetDuty(controller uint8, duty float64) error {
	b.logger.Debugf("Sending duty %.3f to controller %d", duty, controller)
	return b.send(DutyFrame(controller, duty))
}

// SetCurrent sends a motor current command to the given controller.
func (b *Bus) SetCurrent(controller uint8, amps float64) error {
	b.logger.Debugf("Sending current %.1fA to controller %d", amps, controller)
	return b.send(CurrentFrame(controller, amps))
}

// SetCurrentBrake sends a braking current command to the given controller.
func (b *Bus) SetCurrentBrake(controller uint8, amps float64) error {
	b.logger.Debugf("Sending brake current %.1fA to controller %d", amps, controller)
	return b.send(CurrentBrakeFrame(controller, amps))
}

func (b *Bus) send(f can.Frame) error {
	ctx, cancel := context.WithTimeout(context.Background(), transmitTimeout)
	defer cancel()
	if err := b.tx.TransmitFrame(ctx, f); err != nil {
		return fmt.Errorf("failed to transmit CAN frame %08x: %w", f.ID, err)
	}
	return nil
}

func (b *Bus) Close() error {
	b.logger.Infof("Closing CAN interface %s", b.iface)
	return b.conn.Close()
}
