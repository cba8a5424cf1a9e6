package core

// mapRange linearly maps x from [inMin, inMax] to [outMin, outMax].
func mapRange(x, inMin, inMax, outMin, outMax float64) float64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// dutyForDirection maps the drive direction {closed=0, open=1} to the signed
// duty cycle {-maxDuty, +maxDuty}.
func dutyForDirection(direction, maxDuty float64) float64 {
	return mapRange(direction, 0, 1, -maxDuty, maxDuty)
}
