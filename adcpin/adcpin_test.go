// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adcpin

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/smartgpio/adc"
	"github.com/GermanBionicSystems/smartgpio/ads1015"
	"github.com/GermanBionicSystems/smartgpio/clock/clocktest"
	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// fakeADC returns the queued raw values, repeating the last one.
type fakeADC struct {
	raw   []int32
	err   error
	reads int
}

func (f *fakeADC) Read() (analog.Sample, error) {
	f.reads++
	if f.err != nil {
		return analog.Sample{}, f.err
	}
	v := f.raw[0]
	if len(f.raw) > 1 {
		f.raw = f.raw[1:]
	}
	return analog.Sample{Raw: v}, nil
}

func (f *fakeADC) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{}, analog.Sample{Raw: 4095}
}

func (f *fakeADC) String() string   { return "fake" }
func (f *fakeADC) Halt() error      { return nil }
func (f *fakeADC) Name() string     { return "PA0" }
func (f *fakeADC) Number() int      { return 0 }
func (f *fakeADC) Function() string { return "ADC" }

func newInput(t *testing.T, f *fakeADC, c *clocktest.Clock) *Input {
	in := New(f, &Opts{Clock: c})
	if err := in.Setup(); err != nil {
		t.Fatal(err)
	}
	return in
}

func TestCalculateValue(t *testing.T) {
	for _, test := range []struct {
		raw  uint32
		want int
	}{
		{0, -27},
		{818, 0},
		{819, 0},
		{849, 1},
		{2457, 54},
		{4096, 110},
	} {
		if got := CalculateValue(test.raw); got != test.want {
			t.Errorf("CalculateValue(%d) = %d, want %d", test.raw, got, test.want)
		}
	}
	prev := CalculateValue(0)
	for raw := uint32(1); raw <= 4096; raw++ {
		v := CalculateValue(raw)
		if v < prev {
			t.Fatalf("CalculateValue(%d) = %d < CalculateValue(%d) = %d", raw, v, raw-1, prev)
		}
		prev = v
	}
}

func TestCurrentLoopScale(t *testing.T) {
	twelve := adc.Opts{Bits: 12, Reference: 3300 * physic.MilliVolt}
	for _, test := range []struct {
		name string
		opts adc.Opts
		want Scale
	}{
		{"ADS1015", ads1015.ADCOpts, Scale{Zero: 330, Full: 1649, FullPercent: 100}},
		{"12 bits 3.3V", twelve, Scale{Zero: 819, Full: 4095, FullPercent: 100}},
	} {
		p := adc.New(nil, &test.opts).Channel(0, "")
		got := CurrentLoopScale(p, LoopShunt)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: CurrentLoopScale() (-want +got):\n%s", test.name, diff)
		}
	}
	// 4mA, 12mA and 20mA read by an ADS1015 at 2mV per step.
	s := CurrentLoopScale(adc.New(nil, &ads1015.ADCOpts).Channel(0, ""), LoopShunt)
	for raw, want := range map[uint32]int{330: 0, 990: 50, 1649: 100} {
		if got := s.Percent(raw); got != want {
			t.Errorf("Percent(%d) = %d, want %d", raw, got, want)
		}
	}
	if got := CurrentLoopScale(&fakeADC{}, LoopShunt); got != CurrentLoop {
		t.Errorf("CurrentLoopScale() = %+v without a voltage range, want %+v", got, CurrentLoop)
	}
}

func TestScale(t *testing.T) {
	s := Scale{Zero: 0, Full: 2047, FullPercent: 100}
	if got := s.Percent(2047); got != 100 {
		t.Errorf("Percent(2047) = %d", got)
	}
	if got := (Scale{Zero: 5, Full: 5}).Percent(10); got != 0 {
		t.Errorf("empty scale Percent() = %d", got)
	}
	in := New(&fakeADC{raw: []int32{2047}}, &Opts{Scale: s})
	if got := in.CalculateValue(1024); got != 50 {
		t.Errorf("CalculateValue(1024) = %d, want 50", got)
	}
}

func TestSingleSamplePerLoop(t *testing.T) {
	f := &fakeADC{raw: []int32{1000, 2000, 3000}}
	in := newInput(t, f, &clocktest.Clock{})
	in.Loop()
	first := in.ReadValue()
	for i := 0; i < 5; i++ {
		if v := in.ReadValue(); v != first {
			t.Fatalf("ReadValue() = %d, want the cached %d", v, first)
		}
	}
	if f.reads != 1 || in.Conversions() != 1 {
		t.Fatalf("%d conversions in one iteration", f.reads)
	}
	in.Loop()
	if v := in.ReadValue(); v != 2000 {
		t.Fatalf("ReadValue() = %d, want a fresh sample", v)
	}
	if f.reads != 2 {
		t.Fatalf("got %d conversions, want 2", f.reads)
	}
}

func TestChangeAtPercentResolution(t *testing.T) {
	// 819 -> 0%, 840 -> 0%, 849 -> 1%, 860 -> 1%, 900 -> 2%
	f := &fakeADC{raw: []int32{819, 840, 849, 860, 900}}
	c := &clocktest.Clock{}
	in := newInput(t, f, c)
	var got []int
	in.SetOnChangeCallback(smartpin.Func(func(p smartpin.Pin) {
		got = append(got, p.(*Input).ReadCalculatedValue())
	}))
	for i := 0; i < 5; i++ {
		c.Advance(20)
		in.Loop()
	}
	if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
		t.Errorf("reported values (-want +got):\n%s", diff)
	}
}

func TestConversionError(t *testing.T) {
	f := &fakeADC{raw: []int32{3000}}
	in := newInput(t, f, &clocktest.Clock{})
	in.Loop()
	if v := in.ReadValue(); v != 3000 {
		t.Fatalf("ReadValue() = %d", v)
	}
	errTimeout := errors.New("timeout")
	f.err = errTimeout
	in.Loop()
	if v := in.ReadValue(); v != 3000 {
		t.Errorf("ReadValue() = %d, want the stale 3000", v)
	}
	if !errors.Is(in.Err(), errTimeout) {
		t.Errorf("Err() = %v", in.Err())
	}
	reads := f.reads
	in.ReadValue()
	if f.reads != reads {
		t.Error("a failed conversion was retried in the same iteration")
	}
	f.err = nil
	in.Loop()
	in.ReadValue()
	if in.Err() != nil {
		t.Errorf("Err() = %v after a good conversion", in.Err())
	}
}

func TestFirstConversionErrorReturnsZero(t *testing.T) {
	f := &fakeADC{raw: []int32{3000}, err: errors.New("timeout")}
	in := newInput(t, f, &clocktest.Clock{})
	in.Loop()
	if v := in.ReadValue(); v != 0 {
		t.Errorf("ReadValue() = %d, want 0", v)
	}
}

func TestNegativeSample(t *testing.T) {
	in := newInput(t, &fakeADC{raw: []int32{-12}}, &clocktest.Clock{})
	in.Loop()
	if v := in.ReadValue(); v != 0 {
		t.Errorf("ReadValue() = %d, want 0", v)
	}
}

func TestNotSetUp(t *testing.T) {
	f := &fakeADC{raw: []int32{3000}}
	in := New(f, nil)
	if v := in.ReadValue(); v != 0 {
		t.Errorf("ReadValue() = %d before Setup()", v)
	}
	in.Loop()
	if f.reads != 0 {
		t.Error("the converter was used before Setup()")
	}
	if in.Name() != "PA0" || in.Mode() != smartpin.AnalogIn {
		t.Errorf("Name() = %q, Mode() = %s", in.Name(), in.Mode())
	}
}
