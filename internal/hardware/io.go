package hardware

import (
	"fmt"

	"flap-service/internal/logger"

	"github.com/warthog618/go-gpiocdev"
)

// LinuxInputs reads the flap button inputs through the GPIO character
// device. Lines are requested once at Initialize and polled with ReadButton.
type LinuxInputs struct {
	logger *logger.Logger
	chips  map[int]*gpiocdev.Chip
	lines  map[string]*gpiocdev.Line
}

func NewLinuxInputs(l *logger.Logger) *LinuxInputs {
	return &LinuxInputs{
		logger: l,
		chips:  make(map[int]*gpiocdev.Chip),
		lines:  make(map[string]*gpiocdev.Line),
	}
}

func (io *LinuxInputs) Initialize() error {
	io.logger.Infof("Initializing digital inputs")

	for name, mapping := range DiMappings {
		chip, ok := io.chips[mapping.Chip]
		if !ok {
			var err error
			chip, err = gpiocdev.NewChip(fmt.Sprintf("gpiochip%d", mapping.Chip))
			if err != nil {
				return fmt.Errorf("failed to open GPIO chip %d: %w", mapping.Chip, err)
			}
			io.chips[mapping.Chip] = chip
		}

		line, err := chip.RequestLine(mapping.Line,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithConsumer(Consumer))
		if err != nil {
			return fmt.Errorf("failed to request GPIO line %d: %w", mapping.Line, err)
		}

		io.lines[name] = line
		io.logger.Infof("Configured DI %s: chip=%d, line=%d", name, mapping.Chip, mapping.Line)
	}

	return nil
}

// ReadButton returns true while the named button is pressed. The raw line
// value is inverted here so callers only ever see pressed/released.
func (io *LinuxInputs) ReadButton(channel string) (bool, error) {
	line, ok := io.lines[channel]
	if !ok {
		return false, fmt.Errorf("unknown input channel: %s", channel)
	}

	value, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read DI %s: %w", channel, err)
	}

	// Active low: pressed pulls the line to ground
	return value == 0, nil
}

func (io *LinuxInputs) Cleanup() {
	io.logger.Infof("Cleaning up hardware resources")

	for name, line := range io.lines {
		line.Close()
		io.logger.Debugf("Closed GPIO line for %s", name)
	}

	for id, chip := range io.chips {
		chip.Close()
		io.logger.Debugf("Closed GPIO chip %d", id)
	}

	io.logger.Infof("Hardware cleanup complete")
}
