// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adc adapts converters driven by a configure, start, poll, read,
// stop sequence to periph.io analog pins.
//
// A Dev serializes the conversions of one converter; each of its Channel
// implements analog.PinADC and performs a single conversion per Read(). The
// poll for the end of conversion is bounded by Opts.Timeout.
package adc

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Converter is the hardware side of an analog to digital converter.
type Converter interface {
	// Configure selects the input channel of the next conversion.
	Configure(channel int) error
	// Start starts a conversion.
	Start() error
	// Poll waits up to timeout for the conversion to complete. It returns
	// ErrTimeout, possibly wrapped, when the conversion is still running.
	Poll(timeout time.Duration) error
	// Value returns the result of the last conversion.
	Value() (uint32, error)
	// Stop ends the conversion and releases the converter.
	Stop() error
}

// Opts holds the settings of a converter.
type Opts struct {
	// Bits is the resolution of a conversion.
	Bits int
	// Reference is the voltage of a full scale conversion.
	Reference physic.ElectricPotential
	// Timeout bounds the poll for the end of a conversion.
	Timeout time.Duration
}

// DefaultOpts suits the 12 bits converter of a microcontroller running at
// 3.3V.
var DefaultOpts = Opts{
	Bits:      12,
	Reference: 3300 * physic.MilliVolt,
	Timeout:   100 * time.Millisecond,
}

// ErrTimeout is returned by Converter.Poll when the conversion did not
// complete in time.
var ErrTimeout = errors.New("adc: conversion timed out")

// TimeoutError is returned by Channel.Read when the poll timed out.
type TimeoutError struct {
	Channel int
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "adc: channel " + strconv.Itoa(e.Channel) + ": no conversion result after " + e.Timeout.String()
}

// Unwrap returns ErrTimeout.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// Dev is a converter shared by several channels.
type Dev struct {
	mu   sync.Mutex
	c    Converter
	opts Opts
}

// New returns a Dev driving c. DefaultOpts is used when opts is nil; zero
// fields of opts take their DefaultOpts value.
func New(c Converter, opts *Opts) *Dev {
	o := DefaultOpts
	if opts != nil {
		if opts.Bits != 0 {
			o.Bits = opts.Bits
		}
		if opts.Reference != 0 {
			o.Reference = opts.Reference
		}
		if opts.Timeout != 0 {
			o.Timeout = opts.Timeout
		}
	}
	return &Dev{c: c, opts: o}
}

// Channel returns the analog pin bound to the converter input number.
//
// The name defaults to "ADC<number>".
func (d *Dev) Channel(number int, name string) *Channel {
	if name == "" {
		name = "ADC" + strconv.Itoa(number)
	}
	return &Channel{dev: d, number: number, name: name}
}

// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.c.Stop()
}

func (d *Dev) String() string {
	if s, ok := d.c.(fmt.Stringer); ok {
		return s.String()
	}
	return "adc"
}

// max returns the raw value of a full scale conversion.
func (d *Dev) max() uint32 {
	return uint32(1)<<d.opts.Bits - 1
}

func (d *Dev) sample(raw uint32) analog.Sample {
	return analog.Sample{
		V:   physic.ElectricPotential(int64(d.opts.Reference) * int64(raw) / int64(d.max())),
		Raw: int32(raw),
	}
}

// convert runs one full conversion on channel ch.
func (d *Dev) convert(ch int) (v uint32, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err = d.c.Configure(ch); err != nil {
		return 0, fmt.Errorf("adc: configure channel %d: %w", ch, err)
	}
	if err = d.c.Start(); err != nil {
		return 0, fmt.Errorf("adc: start channel %d: %w", ch, err)
	}
	defer func() {
		if serr := d.c.Stop(); serr != nil && err == nil {
			err = fmt.Errorf("adc: stop channel %d: %w", ch, serr)
		}
	}()
	if err = d.c.Poll(d.opts.Timeout); err != nil {
		if errors.Is(err, ErrTimeout) {
			return 0, &TimeoutError{Channel: ch, Timeout: d.opts.Timeout}
		}
		return 0, fmt.Errorf("adc: poll channel %d: %w", ch, err)
	}
	if v, err = d.c.Value(); err != nil {
		return 0, fmt.Errorf("adc: read channel %d: %w", ch, err)
	}
	if m := d.max(); v > m {
		v = m
	}
	return v, nil
}

// Func is the function of a Channel.
const Func pin.Func = "ADC"

// Channel is one input of a Dev.
type Channel struct {
	dev    *Dev
	number int
	name   string
}

// Read implements analog.PinADC.
func (c *Channel) Read() (analog.Sample, error) {
	raw, err := c.dev.convert(c.number)
	if err != nil {
		return analog.Sample{}, err
	}
	return c.dev.sample(raw), nil
}

// Range implements analog.PinADC.
func (c *Channel) Range() (analog.Sample, analog.Sample) {
	return c.dev.sample(0), c.dev.sample(c.dev.max())
}

// Name implements pin.Pin.
func (c *Channel) Name() string {
	return c.name
}

// Number implements pin.Pin.
func (c *Channel) Number() int {
	return c.number
}

// Function implements pin.Pin.
//
// Deprecated: Use Func.
func (c *Channel) Function() string {
	return string(Func)
}

// Func implements pin.PinFunc.
func (c *Channel) Func() pin.Func {
	return Func
}

// SupportedFuncs implements pin.PinFunc.
func (c *Channel) SupportedFuncs() []pin.Func {
	return []pin.Func{Func}
}

// SetFunc implements pin.PinFunc.
func (c *Channel) SetFunc(f pin.Func) error {
	if f != Func {
		return errors.New("adc: function not supported: " + string(f))
	}
	return nil
}

// Halt implements conn.Resource.
func (c *Channel) Halt() error {
	return nil
}

func (c *Channel) String() string {
	return c.dev.String() + "/" + c.name
}

var _ analog.PinADC = &Channel{}
var _ pin.PinFunc = &Channel{}
