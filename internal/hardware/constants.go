package hardware

const Consumer = "flap-service"

// Input channel names polled by the flap application.
const (
	ChannelFlap   = "flap"
	ChannelRxpin  = "rxpin"
	ChannelPiopin = "piopin"
)

// DiMappings maps input channels to GPIO chip and line offsets. The buttons
// are wired active-low with external pull-ups; the internal pull-up is
// requested as well so unconnected lines read released.
var DiMappings = map[string]struct {
	Chip int
	Line int
}{
	ChannelFlap:   {0, 14},
	ChannelRxpin:  {0, 15},
	ChannelPiopin: {0, 25},
}
