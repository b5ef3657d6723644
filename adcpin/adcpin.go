// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adcpin implements analog input smart pins on top of periph.io
// analog pins.
//
// The pin samples the converter at most once per Loop() iteration; every
// ReadValue() in the same iteration returns that sample. Change callbacks fire
// when the value converted to a percentage changes, so raw noise below one
// percent is not reported.
package adcpin

import (
	"math"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/smartgpio/clock"
	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// Scale converts raw samples to a percentage with a linear mapping.
type Scale struct {
	// Zero is the raw value mapped to 0%.
	Zero uint32
	// Full is the raw value mapped to FullPercent.
	Full uint32
	// FullPercent is the percentage at Full.
	FullPercent int
}

// CurrentLoop is the scale of a 4-20mA current loop read through a 165Ω
// shunt by a 12 bits converter at 3.3V: 4mA reads 819, 20mA reads 4096 and
// maps to 110%. Below 819 the value goes negative, down to -27% at 0.
var CurrentLoop = Scale{Zero: 819, Full: 4096, FullPercent: 110}

// LoopShunt is the usual burden resistor of a 4-20mA loop, 20mA across it
// reads 3.3V.
const LoopShunt = 165 * physic.Ohm

// CurrentLoopScale returns the scale of a 4-20mA current loop read by p
// across shunt: 4mA maps to 0% and 20mA to 100%.
//
// The raw values are derived from the full scale reported by p.Range().
// CurrentLoop is returned when p does not report a usable range.
func CurrentLoopScale(p analog.PinADC, shunt physic.ElectricResistance) Scale {
	_, hi := p.Range()
	if hi.V <= 0 || hi.Raw <= 0 || shunt <= 0 {
		return CurrentLoop
	}
	raw := func(i physic.ElectricCurrent) uint32 {
		// nA * nΩ / 1e9 is nV.
		v := float64(i) * float64(shunt) / 1e9
		return uint32(math.Round(v * float64(hi.Raw) / float64(hi.V)))
	}
	return Scale{Zero: raw(4 * physic.MilliAmpere), Full: raw(20 * physic.MilliAmpere), FullPercent: 100}
}

// Percent converts raw to a percentage, truncating toward zero.
func (s Scale) Percent(raw uint32) int {
	span := int64(s.Full) - int64(s.Zero)
	if span == 0 {
		return 0
	}
	return int(int64(s.FullPercent) * (int64(raw) - int64(s.Zero)) / span)
}

// CalculateValue converts raw to a percentage with the CurrentLoop scale.
func CalculateValue(raw uint32) int {
	return CurrentLoop.Percent(raw)
}

// Opts holds the construction settings of an Input.
type Opts struct {
	// Name is the display label. The analog pin name is used when empty.
	Name string
	// Scale converts samples to percentages. CurrentLoop is used when zero.
	Scale Scale
	// Clock is the millisecond source. clock.Default is used when nil.
	Clock clock.Clock
	// Policy selects the behavior of queries made before Setup().
	Policy smartpin.Policy
}

// Input is an analog input pin.
type Input struct {
	smartpin.Base
	adc   analog.PinADC
	scale Scale

	cached      uint32
	cacheOK     bool
	lastRaw     uint32
	err         error
	conversions int
}

// New returns an Input sampling p.
func New(p analog.PinADC, opts *Opts) *Input {
	if opts == nil {
		opts = &Opts{}
	}
	i := &Input{adc: p, scale: opts.Scale}
	if i.scale == (Scale{}) {
		i.scale = CurrentLoop
	}
	i.Init(i, smartpin.AnalogIn, p.Name(), &smartpin.Opts{Name: opts.Name, Clock: opts.Clock, Policy: opts.Policy}, smartpin.Strategy{
		Changed:  func() bool { return i.scale.Percent(i.lastRaw) != i.scale.Percent(i.value()) },
		Snapshot: func() { i.lastRaw = i.value() },
	})
	return i
}

// Setup implements smartpin.Pin.
func (i *Input) Setup() error {
	i.MarkSetUp()
	return nil
}

// Loop implements smartpin.Pin.
//
// It discards the sample of the previous iteration. It does nothing before
// Setup().
func (i *Input) Loop() {
	if !i.IsSetUp() {
		return
	}
	i.cacheOK = false
	i.BeginLoop()
	i.Evaluate()
}

// ReadValue returns the raw sample of the current Loop() iteration, sampling
// the converter on the first call.
//
// It returns 0 before Setup().
func (i *Input) ReadValue() uint32 {
	if err := i.Ready(); err != nil {
		return 0
	}
	return i.value()
}

// ReadCalculatedValue returns ReadValue() as a percentage.
func (i *Input) ReadCalculatedValue() int {
	return i.scale.Percent(i.ReadValue())
}

// CalculateValue converts raw to a percentage with the scale of the pin.
func (i *Input) CalculateValue(raw uint32) int {
	return i.scale.Percent(raw)
}

// Err returns the error of the most recent conversion, nil if it succeeded.
func (i *Input) Err() error {
	return i.err
}

// Conversions returns the number of conversions requested from the
// converter so far.
func (i *Input) Conversions() int {
	return i.conversions
}

func (i *Input) value() uint32 {
	if !i.cacheOK {
		i.cached = i.readRawFromHardware()
	}
	return i.cached
}

// readRawFromHardware runs one conversion. On failure the previous sample
// is kept, the iteration does not retry.
func (i *Input) readRawFromHardware() uint32 {
	i.conversions++
	i.cacheOK = true
	s, err := i.adc.Read()
	i.err = err
	if err != nil {
		return i.cached
	}
	if s.Raw < 0 {
		return 0
	}
	return uint32(s.Raw)
}

var _ smartpin.Pin = &Input{}
