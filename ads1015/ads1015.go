// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1015

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/smartgpio/adc"
)

const (
	// DefaultAddress is the address with the ADDR pin tied to GND.
	DefaultAddress i2c.Addr = 0x48
	// Channels is the number of single ended inputs.
	Channels = 4

	regConversion byte = 0x00
	regConfig     byte = 0x01

	// Config MSB: OS=1, MUX=1xx (AINx vs GND), PGA=001 (±4.096V), MODE=1.
	cfgStart  byte = 0x80
	cfgPGA    byte = 0x02
	cfgSingle byte = 0x01
	muxGND    byte = 0x04
	// Config LSB: DR=100 (1600SPS), comparator disabled.
	cfgLow byte = 0x83

	pollInterval = 200 * time.Microsecond
)

// ADCOpts is the adc.Opts matching the fixed configuration of the Dev.
var ADCOpts = adc.Opts{
	Bits:      11,
	Reference: 4096 * physic.MilliVolt,
	Timeout:   10 * time.Millisecond,
}

var (
	errAddress = errors.New("ads1015: invalid address")
	errChannel = errors.New("ads1015: invalid channel")
)

// Dev is a handle to an ADS1015.
type Dev struct {
	d   i2c.Dev
	mux byte
}

// New returns a Dev on bus at addr. Valid addresses are 0x48 to 0x4B.
func New(bus i2c.Bus, addr i2c.Addr) (*Dev, error) {
	if addr < 0x48 || addr > 0x4B {
		return nil, fmt.Errorf("%w: %#x", errAddress, uint16(addr))
	}
	return &Dev{d: i2c.Dev{Bus: bus, Addr: uint16(addr)}}, nil
}

// Configure implements adc.Converter.
func (d *Dev) Configure(channel int) error {
	if channel < 0 || channel >= Channels {
		return fmt.Errorf("%w: %d", errChannel, channel)
	}
	d.mux = muxGND | byte(channel)
	return nil
}

// Start implements adc.Converter.
func (d *Dev) Start() error {
	w := []byte{regConfig, cfgStart | d.mux<<4 | cfgPGA | cfgSingle, cfgLow}
	if err := d.d.Tx(w, nil); err != nil {
		return fmt.Errorf("ads1015: %w", err)
	}
	return nil
}

// Poll implements adc.Converter.
//
// The config register reports OS=0 while the conversion runs.
func (d *Dev) Poll(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	r := make([]byte, 2)
	for {
		if err := d.d.Tx([]byte{regConfig}, r); err != nil {
			return fmt.Errorf("ads1015: %w", err)
		}
		if r[0]&cfgStart != 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return adc.ErrTimeout
		}
		time.Sleep(pollInterval)
	}
}

// Value implements adc.Converter.
//
// The conversion register holds a left aligned two's complement value.
func (d *Dev) Value() (uint32, error) {
	r := make([]byte, 2)
	if err := d.d.Tx([]byte{regConversion}, r); err != nil {
		return 0, fmt.Errorf("ads1015: %w", err)
	}
	v := int16(uint16(r[0])<<8|uint16(r[1])) >> 4
	if v < 0 {
		return 0, nil
	}
	return uint32(v), nil
}

// Stop implements adc.Converter. The device powers down by itself after a
// single-shot conversion.
func (d *Dev) Stop() error {
	return nil
}

func (d *Dev) String() string {
	return "ADS1015"
}

var _ adc.Converter = &Dev{}
