package core

import "testing"

func TestHoldCounterIncrements(t *testing.T) {
	var c holdCounter

	for i := 0; i < 5; i++ {
		c.update(true)
	}
	if c.count != 5 {
		t.Errorf("Expected count 5, got %d", c.count)
	}
}

func TestHoldCounterSaturatesAtZero(t *testing.T) {
	var c holdCounter

	c.update(false)
	c.update(false)
	if c.count != 0 {
		t.Errorf("Expected count to stay at 0, got %d", c.count)
	}

	c.update(true)
	c.update(false)
	c.update(false)
	if c.count != 0 {
		t.Errorf("Expected count clamped at 0, got %d", c.count)
	}
}

func TestHoldCounterExceeds(t *testing.T) {
	var c holdCounter

	for i := 0; i < 10; i++ {
		c.update(true)
	}
	if c.exceeds(10) {
		t.Error("Count equal to threshold must not exceed it")
	}

	c.update(true)
	if !c.exceeds(10) {
		t.Error("Count above threshold must exceed it")
	}
}

func TestHoldCounterReset(t *testing.T) {
	var c holdCounter

	for i := 0; i < 7; i++ {
		c.update(true)
	}
	c.reset()
	if c.count != 0 {
		t.Errorf("Expected count 0 after reset, got %d", c.count)
	}
}
