package motor

import (
	"context"
	"fmt"
	"net"
	"sync"

	"flap-service/internal/canbus"
	"flap-service/internal/logger"

	"go.einride.tech/can/pkg/socketcan"
)

// Config holds the drive limits of the local motor controller.
type Config struct {
	MaxDuty float64 // duty magnitude limit, 0..1
}

// Client talks to the local motor controller node on the CAN bus. Commands
// go out through the shared transmit bus; status broadcasts from the node
// are consumed on a dedicated receive connection and drive the registered
// control-cycle callback.
type Client struct {
	cfg        Config
	controller uint8
	bus        *canbus.Bus
	conn       net.Conn
	recv       *socketcan.Receiver
	logger     *logger.Logger

	mu       sync.RWMutex
	callback func()
	status   canbus.Status

	wg sync.WaitGroup
}

func NewClient(ctx context.Context, bus *canbus.Bus, controller uint8, cfg Config, l *logger.Logger) (*Client, error) {
	conn, err := socketcan.DialContext(ctx, "can", bus.Interface())
	if err != nil {
		return nil, fmt.Errorf("failed to open CAN interface %s for status reception: %w", bus.Interface(), err)
	}

	c := &Client{
		cfg:        cfg,
		controller: controller,
		bus:        bus,
		conn:       conn,
		recv:       socketcan.NewReceiver(conn),
		logger:     l,
	}

	c.wg.Add(1)
	go c.receiveStatus()

	return c, nil
}

// Configuration returns the motor controller configuration.
func (c *Client) Configuration() Config {
	return c.cfg
}

// SetDuty commands the local motor duty cycle, clamped to the configured
// maximum magnitude.
func (c *Client) SetDuty(duty float64) error {
	if duty > c.cfg.MaxDuty {
		duty = c.cfg.MaxDuty
	} else if duty < -c.cfg.MaxDuty {
		duty = -c.cfg.MaxDuty
	}
	return c.bus.SetDuty(c.controller, duty)
}

// SetControlCallback registers a function invoked on every control cycle,
// i.e. each time the controller broadcasts a status frame. The callback must
// be cheap; it runs on the receive goroutine. Pass nil to remove it.
func (c *Client) SetControlCallback(fn func()) {
	c.mu.Lock()
	c.callback = fn
	c.mu.Unlock()
}

// Status returns the last received controller status.
func (c *Client) Status() canbus.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) receiveStatus() {
	defer c.wg.Done()
	c.logger.Infof("Starting status receiver for controller %d", c.controller)

	for c.recv.Receive() {
		frame := c.recv.Frame()
		if !canbus.IsStatusFrame(frame, c.controller) {
			continue
		}

		status := canbus.DecodeStatus(frame)
		c.mu.Lock()
		c.status = status
		fn := c.callback
		c.mu.Unlock()

		c.logger.Debugf("Controller %d status: erpm=%d current=%.1f duty=%.3f",
			c.controller, status.ERPM, status.Current, status.Duty)

		if fn != nil {
			fn()
		}
	}

	c.logger.Infof("Status receiver for controller %d stopped", c.controller)
}

func (c *Client) Close() error {
	err := c.conn.Close()
	c.wg.Wait()
	return err
}
