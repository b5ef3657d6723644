// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smartpin

import (
	"strconv"
)

// Notifier is a Pin accepting change and loop callbacks. Every pin embedding
// Base implements it.
type Notifier interface {
	Pin
	SetOnChangeCallback(cb Callback)
	SetLoopCallback(cb Callback)
	SetForceOnChangeCallback(deferMs uint32)
	SetDeferOnChangeCallback(deferMs uint32)
	MillisSinceLastOnChangeCallback() uint32
}

// Status is a snapshot of a pin, for display.
type Status struct {
	Name  string
	Mode  Mode
	SetUp bool
	// On is the logical level of a digital pin.
	On bool
	// Raw and Percent are the reading of an analog pin.
	Raw     uint32
	Percent int
}

// StatusOf returns the current state of p.
//
// Digital pins are queried through State() and analog pins through
// ReadValue() and CalculateValue(), so reading the status of an analog pin
// may start a conversion if none ran in this Loop() iteration.
func StatusOf(p Pin) Status {
	s := Status{Name: p.Name(), Mode: p.Mode()}
	if u, ok := p.(interface{ IsSetUp() bool }); ok {
		s.SetUp = u.IsSetUp()
	}
	if !s.SetUp {
		return s
	}
	switch v := p.(type) {
	case interface{ State() (bool, error) }:
		s.On, _ = v.State()
	case interface {
		ReadValue() uint32
		CalculateValue(raw uint32) int
	}:
		s.Raw = v.ReadValue()
		s.Percent = v.CalculateValue(s.Raw)
	}
	return s
}

func (s Status) String() string {
	return s.Name + "=" + s.Value()
}

// Value formats the reading: "on" or "off" for digital pins, the percentage
// for analog ones and "-" before Setup().
func (s Status) Value() string {
	switch {
	case !s.SetUp:
		return "-"
	case s.Mode == AnalogIn:
		return strconv.Itoa(s.Percent) + "%"
	case s.On:
		return "on"
	default:
		return "off"
	}
}
