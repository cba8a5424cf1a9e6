package canbus

import (
	"encoding/binary"

	"go.einride.tech/can"
)

// Command is a VESC CAN command id. Command frames use 29-bit extended
// arbitration ids of the form command<<8 | controller-id.
type Command uint8

const (
	CmdSetDuty         Command = 0
	CmdSetCurrent      Command = 1
	CmdSetCurrentBrake Command = 2
	CmdStatus          Command = 9
)

// Fixed-point scaling used by the command payloads.
const (
	dutyScale    = 100000
	currentScale = 1000

	statusCurrentScale = 10
	statusDutyScale    = 1000
)

func frameID(cmd Command, controller uint8) uint32 {
	return uint32(cmd)<<8 | uint32(controller)
}

func commandFrame(cmd Command, controller uint8, value int32) can.Frame {
	var f can.Frame
	f.ID = frameID(cmd, controller)
	f.IsExtended = true
	f.Length = 4
	binary.BigEndian.PutUint32(f.Data[:4], uint32(value))
	return f
}

// DutyFrame encodes a duty cycle command (-1..1) for the given controller.
func DutyFrame(controller uint8, duty float64) can.Frame {
	return commandFrame(CmdSetDuty, controller, int32(duty*dutyScale))
}

// CurrentFrame encodes a motor current command in amps.
func CurrentFrame(controller uint8, amps float64) can.Frame {
	return commandFrame(CmdSetCurrent, controller, int32(amps*currentScale))
}

// CurrentBrakeFrame encodes a braking current command in amps.
func CurrentBrakeFrame(controller uint8, amps float64) can.Frame {
	return commandFrame(CmdSetCurrentBrake, controller, int32(amps*currentScale))
}

// Status is the periodic status broadcast by a controller.
type Status struct {
	ERPM    int32
	Current float64
	Duty    float64
}

// IsStatusFrame reports whether f is a status broadcast from the given
// controller.
func IsStatusFrame(f can.Frame, controller uint8) bool {
	return f.IsExtended && f.ID == frameID(CmdStatus, controller)
}

// DecodeStatus decodes a status broadcast payload.
func DecodeStatus(f can.Frame) Status {
	return Status{
		ERPM:    int32(binary.BigEndian.Uint32(f.Data[0:4])),
		Current: float64(int16(binary.BigEndian.Uint16(f.Data[4:6]))) / statusCurrentScale,
		Duty:    float64(int16(binary.BigEndian.Uint16(f.Data[6:8]))) / statusDutyScale,
	}
}
