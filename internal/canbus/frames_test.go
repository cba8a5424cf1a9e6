package canbus

import (
	"encoding/binary"
	"testing"

	"go.einride.tech/can"
)

func TestDutyFrameEncoding(t *testing.T) {
	f := DutyFrame(99, 0.5)

	if !f.IsExtended {
		t.Error("Expected extended frame")
	}
	if f.ID != 99 { // CmdSetDuty<<8 | 99
		t.Errorf("Expected ID 99, got %d", f.ID)
	}
	if f.Length != 4 {
		t.Errorf("Expected length 4, got %d", f.Length)
	}
	if got := int32(binary.BigEndian.Uint32(f.Data[:4])); got != 50000 {
		t.Errorf("Expected payload 50000, got %d", got)
	}
}

func TestDutyFrameNegative(t *testing.T) {
	f := DutyFrame(99, -0.95)

	if got := int32(binary.BigEndian.Uint32(f.Data[:4])); got != -95000 {
		t.Errorf("Expected payload -95000, got %d", got)
	}
}

func TestCurrentFrameEncoding(t *testing.T) {
	f := CurrentFrame(99, 1)

	if f.ID != 1<<8|99 {
		t.Errorf("Expected ID 0x%x, got 0x%x", 1<<8|99, f.ID)
	}
	if got := int32(binary.BigEndian.Uint32(f.Data[:4])); got != 1000 {
		t.Errorf("Expected payload 1000, got %d", got)
	}
}

func TestCurrentBrakeFrameEncoding(t *testing.T) {
	f := CurrentBrakeFrame(99, 1)

	if f.ID != 2<<8|99 {
		t.Errorf("Expected ID 0x%x, got 0x%x", 2<<8|99, f.ID)
	}
	if got := int32(binary.BigEndian.Uint32(f.Data[:4])); got != 1000 {
		t.Errorf("Expected payload 1000, got %d", got)
	}
}

func TestStatusFrameDecoding(t *testing.T) {
	var f can.Frame
	f.ID = 9<<8 | 42
	f.IsExtended = true
	f.Length = 8
	binary.BigEndian.PutUint32(f.Data[0:4], uint32(int32(12345)))
	binary.BigEndian.PutUint16(f.Data[4:6], uint16(int16(155))) // 15.5 A
	binary.BigEndian.PutUint16(f.Data[6:8], uint16(int16(500))) // 0.5 duty

	if !IsStatusFrame(f, 42) {
		t.Error("Expected status frame for controller 42")
	}
	if IsStatusFrame(f, 99) {
		t.Error("Status frame should not match controller 99")
	}

	status := DecodeStatus(f)
	if status.ERPM != 12345 {
		t.Errorf("Expected ERPM 12345, got %d", status.ERPM)
	}
	if status.Current != 15.5 {
		t.Errorf("Expected current 15.5, got %f", status.Current)
	}
	if status.Duty != 0.5 {
		t.Errorf("Expected duty 0.5, got %f", status.Duty)
	}
}

func TestStatusFrameRequiresExtendedID(t *testing.T) {
	var f can.Frame
	f.ID = 9<<8 | 42
	f.IsExtended = false

	if IsStatusFrame(f, 42) {
		t.Error("Standard-id frame should not match")
	}
}
