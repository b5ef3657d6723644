// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpiopin

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/smartgpio/clock/clocktest"
	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

func TestInputLevel(t *testing.T) {
	for _, test := range []struct {
		name     string
		inverted bool
		levels   []gpio.Level
		want     []bool
	}{
		{
			name:   "normal",
			levels: []gpio.Level{gpio.Low, gpio.High, gpio.High, gpio.Low},
			want:   []bool{false, true, true, false},
		},
		{
			name:     "inverted",
			inverted: true,
			levels:   []gpio.Level{gpio.Low, gpio.High, gpio.High, gpio.Low},
			want:     []bool{true, false, false, true},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			c := &clocktest.Clock{}
			p := &gpiotest.Pin{N: "GPIO17", Num: 17}
			in := NewInput(p, &Opts{Inverted: test.inverted, Clock: c})
			if err := in.Setup(); err != nil {
				t.Fatal(err)
			}
			for i, l := range test.levels {
				p.L = l
				c.Advance(10)
				in.Loop()
				if got := in.IsOn(); got != test.want[i] {
					t.Errorf("step %d: IsOn() = %t, want %t", i, got, test.want[i])
				}
				if got := in.IsOff(); got == test.want[i] {
					t.Errorf("step %d: IsOff() = %t, want %t", i, got, !test.want[i])
				}
			}
		})
	}
}

func TestInputName(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO4", Num: 4}
	if got := NewInput(p, nil).Name(); got != "GPIO4" {
		t.Errorf("Name() = %q, want GPIO4", got)
	}
	in := NewInput(p, &Opts{Name: "PB0"})
	if got := in.Name(); got != "PB0" {
		t.Errorf("Name() = %q, want PB0", got)
	}
	if got := in.Mode(); got != smartpin.DigitalIn {
		t.Errorf("Mode() = %s, want DigitalIn", got)
	}
}

func TestSetInvertedIsChangeNeutral(t *testing.T) {
	c := &clocktest.Clock{Ms: 100}
	p := &gpiotest.Pin{N: "GPIO17", L: gpio.Low}
	in := NewInput(p, &Opts{Clock: c})
	n := 0
	in.SetOnChangeCallback(smartpin.Closure(func() { n++ }))
	if err := in.Setup(); err != nil {
		t.Fatal(err)
	}
	in.Loop()
	if n != 1 {
		t.Fatalf("got %d fires, want the initial one", n)
	}
	in.SetInverted(true)
	if !in.IsOn() || !in.Inverted() {
		t.Fatal("inversion did not apply")
	}
	for i := 0; i < 3; i++ {
		c.Advance(20)
		in.Loop()
	}
	if n != 1 {
		t.Fatalf("got %d fires, inversion was reported as a change", n)
	}
	// Same value again is a no-op.
	in.SetInverted(true)
	in.Loop()
	if n != 1 {
		t.Fatalf("got %d fires", n)
	}
	// A real change is still reported.
	p.L = gpio.High
	in.Loop()
	if n != 2 {
		t.Fatalf("got %d fires, want 2", n)
	}
}

func TestInputTransitions(t *testing.T) {
	c := &clocktest.Clock{Ms: 1000}
	p := &gpiotest.Pin{N: "GPIO17"}
	in := NewInput(p, &Opts{Clock: c})
	var events []bool
	in.SetOnChangeCallback(smartpin.Func(func(pin smartpin.Pin) {
		events = append(events, pin.(*Input).IsOn())
	}))
	if err := in.Setup(); err != nil {
		t.Fatal(err)
	}
	in.Loop()

	c.Set(1200)
	p.L = gpio.High
	in.Loop()
	c.Set(1500)
	in.Loop()
	if got := in.MillisSinceLastOn(); got != 300 {
		t.Errorf("MillisSinceLastOn() = %d, want 300", got)
	}
	if got := in.MillisSinceLastChange(); got != 300 {
		t.Errorf("MillisSinceLastChange() = %d, want 300", got)
	}

	c.Set(1700)
	p.L = gpio.Low
	in.Loop()
	c.Set(1750)
	in.Loop()
	if got := in.MillisSinceLastChange(); got != 50 {
		t.Errorf("MillisSinceLastChange() = %d, want 50", got)
	}
	if got := in.MillisSinceLastOn(); got != 550 {
		t.Errorf("MillisSinceLastOn() = %d, want 550", got)
	}
	if got := in.MillisSinceLastOff(); got != 50 {
		t.Errorf("MillisSinceLastOff() = %d, want 50", got)
	}

	want := []bool{false, true, false}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestInputDefer(t *testing.T) {
	c := &clocktest.Clock{Ms: 0}
	p := &gpiotest.Pin{N: "GPIO17"}
	in := NewInput(p, &Opts{Clock: c})
	n := 0
	in.SetOnChangeCallback(smartpin.Closure(func() { n++ }))
	if err := in.Setup(); err != nil {
		t.Fatal(err)
	}
	in.Loop()
	in.SetDeferOnChangeCallback(200)
	p.L = gpio.High
	for ms := uint32(10); ms < 200; ms += 10 {
		c.Set(ms)
		in.Loop()
	}
	if n != 1 {
		t.Fatalf("fired within the defer window: %d fires", n)
	}
	c.Set(200)
	in.Loop()
	c.Set(210)
	in.Loop()
	if n != 2 {
		t.Fatalf("got %d fires, want exactly 2", n)
	}
}

func TestNotSetUp(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO17", L: gpio.High}
	in := NewInput(p, nil)
	if in.IsOn() || in.IsOff() {
		t.Error("queries before Setup() must return false")
	}
	if _, err := in.State(); !errors.Is(err, smartpin.ErrNotSetUp) {
		t.Errorf("State() = %v, want ErrNotSetUp", err)
	}
	n := 0
	in.SetLoopCallback(smartpin.Closure(func() { n++ }))
	in.Loop()
	if n != 0 {
		t.Error("Loop() ran before Setup()")
	}

	fatal := NewInput(p, &Opts{Policy: smartpin.Fatal})
	defer func() {
		if r := recover(); r != smartpin.ErrNotSetUp {
			t.Errorf("recover() = %v, want ErrNotSetUp", r)
		}
	}()
	fatal.IsOn()
	t.Error("IsOn() did not panic")
}

func TestLoopCallback(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO17"}
	in := NewInput(p, &Opts{Clock: &clocktest.Clock{}})
	var got []string
	in.SetLoopCallback(smartpin.Func(func(pin smartpin.Pin) { got = append(got, "func:"+pin.Name()) }))
	in.SetLoopCallback(smartpin.Closure(func() { got = append(got, "closure") }))
	if err := in.Setup(); err != nil {
		t.Fatal(err)
	}
	in.Loop()
	in.Loop()
	want := []string{"func:GPIO17", "closure", "func:GPIO17", "closure"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loop callbacks (-want +got):\n%s", diff)
	}
}
