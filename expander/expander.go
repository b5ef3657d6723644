// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package expander

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// Variant is the chip model.
type Variant string

// Supported chips.
const (
	PCF8574  Variant = "PCF8574"
	PCF8574A Variant = "PCF8574A"
	PCF8575  Variant = "PCF8575"
)

// Width returns the number of pins of the chip, 0 for an unknown chip.
func (v Variant) Width() int {
	switch v {
	case PCF8574, PCF8574A:
		return 8
	case PCF8575:
		return 16
	default:
		return 0
	}
}

// Check returns an error when v is unknown or addr is not one of its
// addresses.
func (v Variant) Check(addr i2c.Addr) error {
	lo := i2c.Addr(0x20)
	switch v {
	case PCF8574, PCF8575:
	case PCF8574A:
		lo = 0x38
	default:
		return fmt.Errorf("expander: unknown chip %q", string(v))
	}
	if addr < lo || addr > lo+7 {
		return fmt.Errorf("expander: invalid %s address %#x", v, uint16(addr))
	}
	return nil
}

var errPWM = errors.New("expander: PWM not supported")

// Dev is a PCF857x GPIO expander.
type Dev struct {
	name    string
	variant Variant
	mask    uint16
	pins    []*Pin

	mu sync.Mutex
	d  i2c.Dev
	// latch is the last value written to the port, outputs the pins last
	// driven with Out().
	latch   uint16
	outputs uint16
	err     error
}

// New returns the expander at addr on bus.
//
// No transaction is made. The chip powers up with every pin released high,
// which is the initial state assumed by the Dev. name prefixes the pin names,
// "<variant>_<addr>" is used when empty.
func New(bus i2c.Bus, addr i2c.Addr, v Variant, name string) (*Dev, error) {
	if err := v.Check(addr); err != nil {
		return nil, err
	}
	if name == "" {
		name = fmt.Sprintf("%s_%x", v, uint16(addr))
	}
	w := v.Width()
	d := &Dev{
		name:    name,
		variant: v,
		mask:    uint16(1<<w - 1),
		d:       i2c.Dev{Bus: bus, Addr: uint16(addr)},
	}
	d.latch = d.mask
	d.pins = make([]*Pin, w)
	for i := range d.pins {
		d.pins[i] = &Pin{dev: d, n: i, name: fmt.Sprintf("%s/P%d", name, i)}
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Variant returns the chip model.
func (d *Dev) Variant() Variant {
	return d.variant
}

// Pins returns the pins, ordered by number.
func (d *Dev) Pins() []*Pin {
	return d.pins
}

// ByName returns the pin called "P<n>", or "<name>/P<n>".
func (d *Dev) ByName(name string) (*Pin, error) {
	s := strings.TrimPrefix(name, d.name+"/")
	n, err := strconv.Atoi(strings.TrimPrefix(s, "P"))
	if !strings.HasPrefix(s, "P") || err != nil || n < 0 || n >= len(d.pins) {
		return nil, fmt.Errorf("expander: %s has no pin %q", d.name, name)
	}
	return d.pins[n], nil
}

// Err returns the error of the last transaction, nil when it succeeded.
func (d *Dev) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Halt releases every pin high.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outputs = 0
	return d.write(d.mask, d.mask)
}

// set latches value on the pins in mask. out tells whether the pins become
// outputs or inputs.
func (d *Dev) set(value, mask uint16, out bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if out {
		d.outputs |= mask
	} else {
		d.outputs &^= mask
	}
	return d.write(value, mask)
}

// write must be called with mu held. Unchanged values are not written.
func (d *Dev) write(value, mask uint16) error {
	v := d.latch&^mask | value&mask
	if v == d.latch {
		return nil
	}
	w := make([]byte, d.variant.Width()/8)
	for i := range w {
		w[i] = byte(v >> (8 * i))
	}
	if d.err = d.d.Tx(w, nil); d.err != nil {
		return fmt.Errorf("expander: %s: %w", d.name, d.err)
	}
	d.latch = v
	return nil
}

// level returns the state of pin n. Outputs return their latch, inputs are
// sampled from the port.
func (d *Dev) level(n int) (bool, error) {
	bit := uint16(1) << n
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.outputs&bit != 0 {
		return d.latch&bit != 0, nil
	}
	r := make([]byte, d.variant.Width()/8)
	if d.err = d.d.Tx(nil, r); d.err != nil {
		return false, fmt.Errorf("expander: %s: %w", d.name, d.err)
	}
	var v uint16
	for i, b := range r {
		v |= uint16(b) << (8 * i)
	}
	return v&bit != 0, nil
}
