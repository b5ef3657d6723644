// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adc

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

// fakeConverter records the calls it receives.
type fakeConverter struct {
	calls   []string
	values  map[int]uint32
	channel int
	pollErr error
	stopErr error
}

func (f *fakeConverter) Configure(ch int) error {
	f.calls = append(f.calls, "configure")
	f.channel = ch
	return nil
}

func (f *fakeConverter) Start() error {
	f.calls = append(f.calls, "start")
	return nil
}

func (f *fakeConverter) Poll(timeout time.Duration) error {
	f.calls = append(f.calls, "poll "+timeout.String())
	return f.pollErr
}

func (f *fakeConverter) Value() (uint32, error) {
	f.calls = append(f.calls, "value")
	return f.values[f.channel], nil
}

func (f *fakeConverter) Stop() error {
	f.calls = append(f.calls, "stop")
	return f.stopErr
}

func TestRead(t *testing.T) {
	f := &fakeConverter{values: map[int]uint32{0: 819, 3: 4095}}
	d := New(f, nil)
	ch := d.Channel(3, "PA3")
	s, err := ch.Read()
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 4095 || s.V != 3300*physic.MilliVolt {
		t.Errorf("Read() = %v", s)
	}
	want := []string{"configure", "start", "poll 100ms", "value", "stop"}
	if diff := cmp.Diff(want, f.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}

	s, err = d.Channel(0, "").Read()
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 819 {
		t.Errorf("Raw = %d, want 819", s.Raw)
	}
}

func TestReadClampsToRange(t *testing.T) {
	f := &fakeConverter{values: map[int]uint32{0: 5000}}
	s, err := New(f, &Opts{Bits: 10}).Channel(0, "").Read()
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 1023 {
		t.Errorf("Raw = %d, want 1023", s.Raw)
	}
}

func TestReadTimeout(t *testing.T) {
	f := &fakeConverter{pollErr: ErrTimeout}
	d := New(f, &Opts{Timeout: 5 * time.Millisecond})
	_, err := d.Channel(2, "").Read()
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("Read() = %v, want a *TimeoutError", err)
	}
	if te.Channel != 2 || te.Timeout != 5*time.Millisecond {
		t.Errorf("TimeoutError = %+v", te)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("TimeoutError must unwrap to ErrTimeout")
	}
	if last := f.calls[len(f.calls)-1]; last != "stop" {
		t.Errorf("the conversion was not stopped, last call %q", last)
	}
}

func TestReadStopError(t *testing.T) {
	errStop := errors.New("stuck")
	f := &fakeConverter{values: map[int]uint32{}, stopErr: errStop}
	if _, err := New(f, nil).Channel(0, "").Read(); !errors.Is(err, errStop) {
		t.Errorf("Read() = %v, want %v", err, errStop)
	}
}

func TestRange(t *testing.T) {
	ch := New(&fakeConverter{}, &Opts{Bits: 11, Reference: 4096 * physic.MilliVolt}).Channel(1, "")
	lo, hi := ch.Range()
	if lo.Raw != 0 || lo.V != 0 {
		t.Errorf("min = %v", lo)
	}
	if hi.Raw != 2047 || hi.V != 4096*physic.MilliVolt {
		t.Errorf("max = %v", hi)
	}
}

func TestChannelPin(t *testing.T) {
	ch := New(&fakeConverter{}, nil).Channel(1, "")
	if ch.Name() != "ADC1" || ch.Number() != 1 {
		t.Errorf("Name() = %q, Number() = %d", ch.Name(), ch.Number())
	}
	if ch.String() != "adc/ADC1" {
		t.Errorf("String() = %q", ch.String())
	}
	if ch.Func() != Func || ch.Function() != "ADC" {
		t.Errorf("Func() = %q", ch.Func())
	}
	if err := ch.SetFunc(Func); err != nil {
		t.Error(err)
	}
	if err := ch.SetFunc("I2C_SDA"); err == nil {
		t.Error("SetFunc() accepted an unsupported function")
	}
	if err := ch.Halt(); err != nil {
		t.Error(err)
	}
}
