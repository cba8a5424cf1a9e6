package types

// FlapState is the observable state of the flap actuator. The opening and
// closing states cover the drive window during which the motor is commanded;
// open and closed are the settled positions once the drive has cut out.
type FlapState string

const (
	StateClosed  FlapState = "closed"
	StateOpening FlapState = "opening"
	StateOpen    FlapState = "open"
	StateClosing FlapState = "closing"
)

// Driving reports whether the flap motor is currently being driven.
func (s FlapState) Driving() bool {
	return s == StateOpening || s == StateClosing
}

// Direction returns the drive direction as the canonical {0, 1} value:
// 1 when moving toward (or resting at) open, 0 toward closed.
func (s FlapState) Direction() float64 {
	if s == StateOpen || s == StateOpening {
		return 1
	}
	return 0
}
