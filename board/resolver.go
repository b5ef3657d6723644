// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/GermanBionicSystems/smartgpio/adc"
	"github.com/GermanBionicSystems/smartgpio/ads1015"
	"github.com/GermanBionicSystems/smartgpio/expander"
)

// Resolver binds pin declarations to hardware.
type Resolver interface {
	// GPIO returns the GPIO called name.
	GPIO(name string) (gpio.PinIO, error)
	// ADC returns the analog pin described by c, labeled name.
	ADC(c *ADCConfig, name string) (analog.PinADC, error)
}

// HostResolver resolves GPIOs with gpioreg, expander pins on the declared
// expanders and analog pins as ADS1015 channels. Devices are opened on first
// use.
//
// host.Init() must have been called unless Open is set. Close releases the
// opened buses.
type HostResolver struct {
	// Expanders are the expanders the "<expander>/P<n>" GPIO names refer to.
	Expanders []ExpanderConfig
	// Open opens an I²C bus. i2creg.Open is used when nil.
	Open func(name string) (i2c.BusCloser, error)

	mu        sync.Mutex
	buses     map[string]i2c.BusCloser
	devs      map[devKey]*adc.Dev
	expanders map[string]*expander.Dev
}

type devKey struct {
	bus  string
	addr i2c.Addr
}

// GPIO implements Resolver.
func (h *HostResolver) GPIO(name string) (gpio.PinIO, error) {
	if e, port, ok := strings.Cut(name, "/"); ok {
		return h.expanderPin(e, port)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("board: unknown gpio %q", name)
	}
	return p, nil
}

// ADC implements Resolver.
//
// Channels of the same device share one adc.Dev, so conversions on the
// device are serialized.
func (h *HostResolver) ADC(c *ADCConfig, name string) (analog.PinADC, error) {
	opts, err := c.Opts()
	if err != nil {
		return nil, fmt.Errorf("board: %s: %w", name, err)
	}
	addr := ads1015.DefaultAddress
	if c.Address != 0 {
		addr = i2c.Addr(c.Address)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	k := devKey{c.Bus, addr}
	d, ok := h.devs[k]
	if !ok {
		bus, err := h.bus(c.Bus)
		if err != nil {
			return nil, fmt.Errorf("board: %s: %w", name, err)
		}
		a, err := ads1015.New(bus, addr)
		if err != nil {
			return nil, fmt.Errorf("board: %s: %w", name, err)
		}
		d = adc.New(a, &opts)
		if h.devs == nil {
			h.devs = map[devKey]*adc.Dev{}
		}
		h.devs[k] = d
	}
	return d.Channel(c.Channel, name), nil
}

// expanderPin returns the pin port of the expander called name.
//
// Pins of the same expander share one expander.Dev, which keeps the port
// latch.
func (h *HostResolver) expanderPin(name, port string) (gpio.PinIO, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.expanders[name]
	if !ok {
		i := slices.IndexFunc(h.Expanders, func(e ExpanderConfig) bool { return e.Name == name })
		if i == -1 {
			return nil, fmt.Errorf("board: unknown expander %q", name)
		}
		c := &h.Expanders[i]
		bus, err := h.bus(c.Bus)
		if err != nil {
			return nil, fmt.Errorf("board: expander %s: %w", name, err)
		}
		if d, err = expander.New(bus, i2c.Addr(c.Address), c.Chip, name); err != nil {
			return nil, fmt.Errorf("board: %w", err)
		}
		if h.expanders == nil {
			h.expanders = map[string]*expander.Dev{}
		}
		h.expanders[name] = d
	}
	p, err := d.ByName(port)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	return p, nil
}

// bus returns the bus called name, opening it on first use. mu must be held.
func (h *HostResolver) bus(name string) (i2c.BusCloser, error) {
	if b, ok := h.buses[name]; ok {
		return b, nil
	}
	open := h.Open
	if open == nil {
		open = i2creg.Open
	}
	b, err := open(name)
	if err != nil {
		return nil, err
	}
	if h.buses == nil {
		h.buses = map[string]i2c.BusCloser{}
	}
	h.buses[name] = b
	return b, nil
}

// Close releases the expander pins and closes the opened buses.
func (h *HostResolver) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var errs []error
	for _, d := range h.expanders {
		errs = append(errs, d.Halt())
	}
	for _, b := range h.buses {
		errs = append(errs, b.Close())
	}
	h.buses = nil
	h.devs = nil
	h.expanders = nil
	return errors.Join(errs...)
}
