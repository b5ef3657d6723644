// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package expander

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin is one port pin of a Dev.
type Pin struct {
	dev  *Dev
	n    int
	name string
}

func (p *Pin) String() string {
	return p.name
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.n
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	p.dev.mu.Lock()
	defer p.dev.mu.Unlock()
	if p.dev.outputs&p.bit() != 0 {
		return "Out"
	}
	return "In/PullUp"
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// In releases the pin high so it can be read.
//
// The weak pull up can't be disabled and there is no per pin edge detection.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull == gpio.PullDown {
		return fmt.Errorf("expander: %s: pull down not supported", p.name)
	}
	if edge != gpio.NoEdge {
		return fmt.Errorf("expander: %s: edge detection not supported", p.name)
	}
	return p.dev.set(p.bit(), p.bit(), false)
}

// Read implements gpio.PinIn.
//
// A failed read returns Low, the error is kept by Dev.Err().
func (p *Pin) Read() gpio.Level {
	on, _ := p.dev.level(p.n)
	return gpio.Level(on)
}

// WaitForEdge implements gpio.PinIn. It always returns false.
func (p *Pin) WaitForEdge(time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	return gpio.PullUp
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullUp
}

// Out latches l. High is the weak pull up, Low sinks current.
func (p *Pin) Out(l gpio.Level) error {
	var v uint16
	if l {
		v = p.bit()
	}
	return p.dev.set(v, p.bit(), true)
}

// PWM implements gpio.PinOut. It is not supported.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return errPWM
}

func (p *Pin) bit() uint16 {
	return 1 << p.n
}

var _ gpio.PinIO = &Pin{}
