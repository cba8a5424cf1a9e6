package core

// holdCounter tracks for how many consecutive-ish ticks a button has been
// held. Pressed ticks increment, released ticks decrement, saturating at
// zero, so short bounces cancel out instead of resetting the count.
type holdCounter struct {
	count int
}

func (c *holdCounter) update(pressed bool) {
	if pressed {
		c.count++
	} else if c.count > 0 {
		c.count--
	}
}

func (c *holdCounter) exceeds(threshold int) bool {
	return c.count > threshold
}

func (c *holdCounter) reset() {
	c.count = 0
}
