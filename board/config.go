// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/smartgpio/adc"
	"github.com/GermanBionicSystems/smartgpio/adcpin"
	"github.com/GermanBionicSystems/smartgpio/ads1015"
	"github.com/GermanBionicSystems/smartgpio/expander"
)

// Kind is the type of pin declared by a PinConfig.
type Kind string

// Valid Kind values.
const (
	DigitalIn  Kind = "digital-in"
	DigitalOut Kind = "digital-out"
	AnalogIn   Kind = "analog-in"
)

var kinds = []Kind{DigitalIn, DigitalOut, AnalogIn}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("board: invalid configuration")

// Config describes a board: its pins and loop period.
type Config struct {
	Name string `yaml:"name"`
	// Period is the Loop() period used by Run when it is given none.
	Period time.Duration `yaml:"period"`
	// Expanders declares the I²C GPIO expanders whose pins are named
	// "<expander>/P<n>" by the digital pins.
	Expanders []ExpanderConfig `yaml:"expanders"`
	Pins      []PinConfig      `yaml:"pins"`
}

// ExpanderConfig declares a PCF857x GPIO expander.
type ExpanderConfig struct {
	Name string `yaml:"name"`
	// Bus is the I²C bus name, as known by i2creg. Empty selects the first
	// bus.
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	// Chip is PCF8574, PCF8574A or PCF8575.
	Chip expander.Variant `yaml:"chip"`
}

// PinConfig declares one pin.
type PinConfig struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// GPIO is the name of the GPIO of a digital pin, as known by gpioreg, or
	// "<expander>/P<n>" for an expander pin.
	GPIO     string `yaml:"gpio"`
	Inverted bool   `yaml:"inverted"`
	// On turns a digital output on after Setup().
	On    bool         `yaml:"on"`
	Blink *BlinkConfig `yaml:"blink"`
	// Follow names a digital input mirrored by this digital output.
	Follow string `yaml:"follow"`
	// BlinkFrom names an analog input whose raw value sets the on and off
	// durations in milliseconds, updated every Loop().
	BlinkFrom string       `yaml:"blinkFrom"`
	ADC       *ADCConfig   `yaml:"adc"`
	Scale     *ScaleConfig `yaml:"scale"`
	// ForceEvery re-announces the value when no change was reported for
	// that long.
	ForceEvery time.Duration `yaml:"forceEvery"`
	// Defer is the minimum spacing of change reports.
	Defer time.Duration `yaml:"defer"`
}

// BlinkConfig is the blink cycle of a digital output.
type BlinkConfig struct {
	On  time.Duration `yaml:"on"`
	Off time.Duration `yaml:"off"`
}

// ADCConfig binds an analog input to an ADS1015 channel.
type ADCConfig struct {
	// Bus is the I²C bus name, as known by i2creg. Empty selects the first
	// bus.
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	Channel int    `yaml:"channel"`
	Bits    int    `yaml:"bits"`
	// Reference is the full scale voltage, e.g. "4.096V".
	Reference string        `yaml:"reference"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ScaleConfig overrides the 4-20mA percentage conversion of an analog
// input.
type ScaleConfig struct {
	Zero        uint32 `yaml:"zero"`
	Full        uint32 `yaml:"full"`
	FullPercent int    `yaml:"fullPercent"`
}

// Load decodes and validates a YAML board description.
func Load(r io.Reader) (*Config, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	cfg := &Config{}
	if err := d.Decode(cfg); err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile calls Load on the content of the file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the expander and pin declarations. Every error wraps
// ErrInvalid.
func (c *Config) Validate() error {
	if c.Period < 0 {
		return fmt.Errorf("%w: negative period %s", ErrInvalid, c.Period)
	}
	for i := range c.Expanders {
		e := &c.Expanders[i]
		if e.Name == "" || strings.Contains(e.Name, "/") {
			return fmt.Errorf("%w: expander #%d: invalid name %q", ErrInvalid, i, e.Name)
		}
		if c.findExpander(e.Name) != e {
			return fmt.Errorf("%w: duplicate expander %q", ErrInvalid, e.Name)
		}
		if err := e.Chip.Check(i2c.Addr(e.Address)); err != nil {
			return fmt.Errorf("%w: expander %q: %v", ErrInvalid, e.Name, err)
		}
	}
	names := make([]string, 0, len(c.Pins))
	for i := range c.Pins {
		p := &c.Pins[i]
		if p.Name == "" {
			return fmt.Errorf("%w: pin #%d has no name", ErrInvalid, i)
		}
		if slices.Contains(names, p.Name) {
			return fmt.Errorf("%w: duplicate pin %q", ErrInvalid, p.Name)
		}
		names = append(names, p.Name)
		if err := c.validatePin(p); err != nil {
			return fmt.Errorf("%w: pin %q: %v", ErrInvalid, p.Name, err)
		}
	}
	return nil
}

func (c *Config) validatePin(p *PinConfig) error {
	if !slices.Contains(kinds, p.Kind) {
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
	if p.ForceEvery < 0 || p.Defer < 0 {
		return errors.New("negative duration")
	}
	if p.Kind == AnalogIn {
		if p.ADC == nil {
			return errors.New("missing adc")
		}
		if p.GPIO != "" || p.Inverted || p.On || p.Blink != nil || p.Follow != "" || p.BlinkFrom != "" {
			return errors.New("digital settings on an analog pin")
		}
		if p.Scale != nil && p.Scale.Full == p.Scale.Zero {
			return errors.New("empty scale")
		}
		_, err := p.ADC.Opts()
		return err
	}
	if p.GPIO == "" {
		return errors.New("missing gpio")
	}
	if name, port, ok := strings.Cut(p.GPIO, "/"); ok {
		e := c.findExpander(name)
		if e == nil {
			return fmt.Errorf("unknown expander %q", name)
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(port, "P")); err != nil || !strings.HasPrefix(port, "P") || n < 0 || n >= e.Chip.Width() {
			return fmt.Errorf("%s has no pin %q", name, port)
		}
	}
	if p.ADC != nil || p.Scale != nil {
		return errors.New("analog settings on a digital pin")
	}
	if p.Kind == DigitalIn {
		if p.On || p.Blink != nil || p.Follow != "" || p.BlinkFrom != "" {
			return errors.New("output settings on an input")
		}
		return nil
	}
	if p.Blink != nil && (p.Blink.On <= 0 || p.Blink.Off < 0) {
		return errors.New("invalid blink timing")
	}
	if p.Follow != "" && p.BlinkFrom != "" {
		return errors.New("both follow and blinkFrom")
	}
	if p.Follow != "" && c.kind(p.Follow) != DigitalIn {
		return fmt.Errorf("follow %q is not a digital input", p.Follow)
	}
	if p.BlinkFrom != "" && c.kind(p.BlinkFrom) != AnalogIn {
		return fmt.Errorf("blinkFrom %q is not an analog input", p.BlinkFrom)
	}
	return nil
}

// findExpander returns the expander called name, nil if there is none.
func (c *Config) findExpander(name string) *ExpanderConfig {
	i := slices.IndexFunc(c.Expanders, func(e ExpanderConfig) bool { return e.Name == name })
	if i == -1 {
		return nil
	}
	return &c.Expanders[i]
}

// kind returns the kind of the pin called name, "" if there is none.
func (c *Config) kind(name string) Kind {
	i := slices.IndexFunc(c.Pins, func(o PinConfig) bool { return o.Name == name })
	if i == -1 {
		return ""
	}
	return c.Pins[i].Kind
}

// Opts returns the converter settings. Zero fields take their
// ads1015.ADCOpts value.
func (a *ADCConfig) Opts() (adc.Opts, error) {
	o := ads1015.ADCOpts
	if a.Address != 0 && (a.Address < 0x48 || a.Address > 0x4B) {
		return o, fmt.Errorf("invalid address %#x", a.Address)
	}
	if a.Channel < 0 || a.Channel >= ads1015.Channels {
		return o, fmt.Errorf("invalid channel %d", a.Channel)
	}
	if a.Bits < 0 || a.Bits > 16 {
		return o, fmt.Errorf("invalid bits %d", a.Bits)
	}
	if a.Bits != 0 {
		o.Bits = a.Bits
	}
	if a.Reference != "" {
		var v physic.ElectricPotential
		if err := v.Set(a.Reference); err != nil {
			return o, fmt.Errorf("reference: %w", err)
		}
		o.Reference = v
	}
	if a.Timeout != 0 {
		o.Timeout = a.Timeout
	}
	return o, nil
}

// scale returns the percentage conversion of p. Without an override it is a
// 4-20mA loop across adcpin.LoopShunt, at the resolution of p's converter.
func (s *ScaleConfig) scale(p analog.PinADC) adcpin.Scale {
	if s == nil {
		return adcpin.CurrentLoopScale(p, adcpin.LoopShunt)
	}
	return adcpin.Scale{Zero: s.Zero, Full: s.Full, FullPercent: s.FullPercent}
}

func millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
