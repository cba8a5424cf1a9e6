package watchdog

import (
	"os"

	"flap-service/internal/logger"

	"golang.org/x/sys/unix"
)

// Notifier reports service liveness to systemd over the sd_notify socket.
// When NOTIFY_SOCKET is not set (service not run under systemd, or
// WatchdogSec not configured) all methods are no-ops.
type Notifier struct {
	fd      int
	addr    *unix.SockaddrUnix
	enabled bool
	logger  *logger.Logger
}

func New(l *logger.Logger) *Notifier {
	path := os.Getenv("NOTIFY_SOCKET")
	if path == "" {
		l.Infof("NOTIFY_SOCKET not set, watchdog notifications disabled")
		return &Notifier{logger: l}
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		l.Warnf("Failed to create notify socket: %v", err)
		return &Notifier{logger: l}
	}

	l.Infof("Watchdog notifications enabled via %s", path)
	return &Notifier{
		fd:      fd,
		addr:    &unix.SockaddrUnix{Name: path},
		enabled: true,
		logger:  l,
	}
}

// Ready signals that startup is complete.
func (n *Notifier) Ready() {
	n.send("READY=1")
}

// Ping resets the systemd watchdog timer. Called once per polling tick.
func (n *Notifier) Ping() {
	n.send("WATCHDOG=1")
}

// Stopping signals that shutdown has begun.
func (n *Notifier) Stopping() {
	n.send("STOPPING=1")
}

func (n *Notifier) send(state string) {
	if !n.enabled {
		return
	}
	if err := unix.Sendto(n.fd, []byte(state), 0, n.addr); err != nil {
		n.logger.Warnf("Failed to send %s: %v", state, err)
	}
}

func (n *Notifier) Close() {
	if n.enabled {
		unix.Close(n.fd)
	}
}
