package watchdog

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"flap-service/internal/logger"
)

func TestDisabledWithoutNotifySocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")

	n := New(logger.NewLogger(nil, logger.LogLevelNone))
	if n.enabled {
		t.Error("Expected notifier disabled without NOTIFY_SOCKET")
	}

	// Must be safe no-ops
	n.Ready()
	n.Ping()
	n.Stopping()
	n.Close()
}

func TestNotificationsReachSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenPacket("unixgram", path)
	if err != nil {
		t.Fatalf("Failed to create notify socket: %v", err)
	}
	defer conn.Close()

	t.Setenv("NOTIFY_SOCKET", path)

	n := New(logger.NewLogger(nil, logger.LogLevelNone))
	if !n.enabled {
		t.Fatal("Expected notifier enabled")
	}
	defer n.Close()

	n.Ready()
	n.Ping()
	n.Stopping()

	want := []string{"READY=1", "WATCHDOG=1", "STOPPING=1"}
	buf := make([]byte, 64)
	for _, expected := range want {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		cnt, _, err := conn.ReadFrom(buf)
		if err != nil {
			t.Fatalf("Failed to read datagram: %v", err)
		}
		if got := string(buf[:cnt]); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	}
}
