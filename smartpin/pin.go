// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smartpin

import (
	"errors"
)

// Mode is the function a pin was declared with. It never changes after
// construction.
type Mode uint8

// Valid Mode values.
const (
	DigitalOut Mode = iota
	DigitalIn
	// PWMOut is reserved. No pin in this module implements it.
	PWMOut
	AnalogIn
)

func (m Mode) String() string {
	switch m {
	case DigitalOut:
		return "DigitalOut"
	case DigitalIn:
		return "DigitalIn"
	case PWMOut:
		return "PWMOut"
	case AnalogIn:
		return "AnalogIn"
	default:
		return "Mode(?)"
	}
}

// Pin is the capability set every smart pin implements.
type Pin interface {
	// Setup puts the pin in its operative state. It must be called exactly
	// once, before any other call.
	Setup() error
	// Loop samples the pin and runs the change detection. It must be called
	// repeatedly.
	Loop()
	// Name returns the display label of the pin.
	Name() string
	// Mode returns the mode the pin was declared with.
	Mode() Mode
}

// Policy selects how a pin reacts to a query made before Setup().
type Policy uint8

const (
	// Degrade makes queries return a neutral value (false, 0) and report
	// ErrNotSetUp where the method has an error result.
	Degrade Policy = iota
	// Fatal makes queries panic with ErrNotSetUp.
	Fatal
)

// ErrNotSetUp is returned, or panicked with, when a pin is used before
// Setup().
var ErrNotSetUp = errors.New("smartpin: call Setup() first")
