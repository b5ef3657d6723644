// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package board builds a set of smart pins from a YAML description and
// drives their cooperative loop.
//
// A description looks like:
//
//	name: demo
//	period: 20ms
//	pins:
//	  - name: button
//	    kind: digital-in
//	    gpio: GPIO17
//	    inverted: true
//	  - name: led
//	    kind: digital-out
//	    gpio: GPIO27
//	    follow: button
//	  - name: level
//	    kind: analog-in
//	    adc: {address: 0x48, channel: 0}
//	    defer: 500ms
package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/smartgpio/adcpin"
	"github.com/GermanBionicSystems/smartgpio/clock"
	"github.com/GermanBionicSystems/smartgpio/gpiopin"
	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// DefaultPeriod is the loop period used when neither Run nor the Config
// specify one.
const DefaultPeriod = 20 * time.Millisecond

// Opts holds the settings applied to every pin of a Board.
type Opts struct {
	// Clock is the millisecond source. clock.Default is used when nil.
	Clock clock.Clock
	// Policy selects the behavior of queries made before Setup().
	Policy smartpin.Policy
	// Logger receives the hardware errors. Nothing is logged when nil.
	Logger *log.Logger
	// AfterLoop is called at the end of every Loop().
	AfterLoop func(b *Board)
}

// Board is a set of pins looped together.
//
// A Board is not safe for concurrent use; Run owns it until it returns.
type Board struct {
	name      string
	period    time.Duration
	logger    *log.Logger
	afterLoop func(b *Board)
	pins      []*entry
	byName    map[string]smartpin.Notifier
}

type entry struct {
	cfg *PinConfig
	pin smartpin.Notifier
	// err is the last hardware error logged.
	err error
}

// New builds the pins declared by cfg, binding them to hardware through r.
func New(cfg *Config, r Resolver, opts *Opts) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Opts{}
	}
	b := &Board{
		name:      cfg.Name,
		period:    cfg.Period,
		logger:    opts.Logger,
		afterLoop: opts.AfterLoop,
		byName:    make(map[string]smartpin.Notifier, len(cfg.Pins)),
	}
	for i := range cfg.Pins {
		c := &cfg.Pins[i]
		p, err := newPin(c, r, opts)
		if err != nil {
			return nil, err
		}
		b.pins = append(b.pins, &entry{cfg: c, pin: p})
		b.byName[c.Name] = p
	}
	for _, e := range b.pins {
		if e.cfg.Follow != "" {
			follow(b.byName[e.cfg.Follow].(*gpiopin.Input), e.pin.(*gpiopin.Output))
		}
	}
	return b, nil
}

func newPin(c *PinConfig, r Resolver, opts *Opts) (smartpin.Notifier, error) {
	if c.Kind == AnalogIn {
		a, err := r.ADC(c.ADC, c.Name)
		if err != nil {
			return nil, err
		}
		return adcpin.New(a, &adcpin.Opts{Name: c.Name, Scale: c.Scale.scale(a), Clock: opts.Clock, Policy: opts.Policy}), nil
	}
	g, err := r.GPIO(c.GPIO)
	if err != nil {
		return nil, err
	}
	o := &gpiopin.Opts{Name: c.Name, Inverted: c.Inverted, Clock: opts.Clock, Policy: opts.Policy}
	if c.Kind == DigitalIn {
		return gpiopin.NewInput(g, o), nil
	}
	return gpiopin.NewOutput(g, o), nil
}

// follow makes out mirror in. It uses the closure slot of in, leaving the
// function slot to Notify.
func follow(in *gpiopin.Input, out *gpiopin.Output) {
	in.SetOnChangeCallback(smartpin.Closure(func() {
		if in.IsOn() {
			out.SetOn()
		} else {
			out.SetOff()
		}
	}))
}

// Name returns the board name.
func (b *Board) Name() string {
	return b.name
}

func (b *Board) String() string {
	return fmt.Sprintf("%s (%d pins)", b.name, len(b.pins))
}

// Pins returns the pins in declaration order.
func (b *Board) Pins() []smartpin.Pin {
	out := make([]smartpin.Pin, 0, len(b.pins))
	for _, e := range b.pins {
		out = append(out, e.pin)
	}
	return out
}

// ByName returns the pin called name, or nil.
func (b *Board) ByName(name string) smartpin.Notifier {
	return b.byName[name]
}

// Notify registers f as the change callback of every pin.
func (b *Board) Notify(f func(p smartpin.Pin)) {
	for _, e := range b.pins {
		e.pin.SetOnChangeCallback(smartpin.Func(f))
	}
}

// Setup sets up every pin, then applies the initial output commands.
//
// All the pins are attempted; the errors are joined.
func (b *Board) Setup() error {
	var errs []error
	for _, e := range b.pins {
		if err := e.pin.Setup(); err != nil {
			errs = append(errs, fmt.Errorf("board: %w", err))
			continue
		}
		out, ok := e.pin.(*gpiopin.Output)
		if !ok {
			continue
		}
		switch {
		case e.cfg.Blink != nil:
			out.SetBlink(millis(e.cfg.Blink.On), millis(e.cfg.Blink.Off))
		case e.cfg.On:
			out.SetOn()
		}
	}
	return errors.Join(errs...)
}

// Loop runs one Loop() iteration on every pin, in declaration order.
//
// ForceEvery and Defer apply from the second iteration, the first one
// announces the initial values. The outputs blinking from an analog input are
// updated once every pin looped.
func (b *Board) Loop() {
	for _, e := range b.pins {
		e.pin.Loop()
		b.checkErr(e)
		// A fire clears force and defer; arm them for the next iterations.
		if e.cfg.ForceEvery > 0 {
			e.pin.SetForceOnChangeCallback(millis(e.cfg.ForceEvery))
		}
		if e.cfg.Defer > 0 {
			e.pin.SetDeferOnChangeCallback(millis(e.cfg.Defer))
		}
	}
	for _, e := range b.pins {
		if e.cfg.BlinkFrom != "" {
			src := b.byName[e.cfg.BlinkFrom].(*adcpin.Input)
			e.pin.(*gpiopin.Output).SetBlink(src.ReadValue(), 0)
		}
	}
	if b.afterLoop != nil {
		b.afterLoop(b)
	}
}

// checkErr logs the hardware error of a pin when it differs from the last
// one logged.
func (b *Board) checkErr(e *entry) {
	p, ok := e.pin.(interface{ Err() error })
	if !ok {
		return
	}
	err := p.Err()
	if err == nil || (e.err != nil && err.Error() == e.err.Error()) {
		e.err = err
		return
	}
	e.err = err
	if b.logger != nil {
		b.logger.Printf("%s: %v", e.pin.Name(), err)
	}
}

// Run calls Loop every period until ctx is done. The Config period is used
// when period is 0, DefaultPeriod when both are 0.
//
// It returns ctx.Err().
func (b *Board) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		period = b.period
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	t := time.NewTicker(period)
	defer t.Stop()
	b.Loop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			b.Loop()
		}
	}
}

// Halt turns every output off.
func (b *Board) Halt() error {
	var errs []error
	for _, e := range b.pins {
		if out, ok := e.pin.(*gpiopin.Output); ok && out.IsSetUp() {
			out.SetOff()
			errs = append(errs, out.Err())
		}
	}
	return errors.Join(errs...)
}
