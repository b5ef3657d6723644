// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinstrip shows the state of smart pins on a terminal, one ANSI
// color block per pin, like a 1D LED strip.
//
// Digital pins are green when on and dark when off, analog pins go from
// blue to red with their percentage, pins not set up yet are grey.
package pinstrip

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// Colors of the blocks.
var (
	On     = color.NRGBA{0, 220, 0, 255}
	Off    = color.NRGBA{24, 40, 24, 255}
	NotSet = color.NRGBA{96, 96, 96, 255}
	// Low and High are the ends of the analog gradient.
	Low  = color.NRGBA{0, 0, 255, 255}
	High = color.NRGBA{255, 0, 0, 255}
)

const maxPerc = 100

// Opts represents the options of a Dev.
type Opts struct {
	// Palette maps colors to ANSI codes. ansi256.Default is used when nil.
	Palette *ansi256.Palette
	// W receives the strip. A colorable stdout is used when nil.
	W io.Writer
	// Labels prints the pin values after the blocks.
	Labels bool
}

// Dev renders a set of pins to a terminal.
type Dev struct {
	w       io.Writer
	pins    []smartpin.Pin
	palette ansi256.Palette
	labels  bool

	pixels []color.NRGBA
	buf    bytes.Buffer
}

// New returns a Dev showing pins.
func New(pins []smartpin.Pin, opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		pins:    pins,
		palette: *p,
		labels:  opts.Labels,
		pixels:  make([]color.NRGBA, len(pins)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("PinStrip{%d}", len(d.pins))
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes and ends the line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Refresh reads the pins and redraws the strip.
func (d *Dev) Refresh() error {
	for i, p := range d.pins {
		d.pixels[i] = Color(smartpin.StatusOf(p))
	}
	return d.refresh()
}

// Color returns the block color of a pin status.
func Color(s smartpin.Status) color.NRGBA {
	switch {
	case !s.SetUp:
		return NotSet
	case s.Mode == smartpin.AnalogIn:
		return gradient(s.Percent)
	case s.On:
		return On
	default:
		return Off
	}
}

// gradient blends Low into High over 0..100%.
func gradient(percent int) color.NRGBA {
	if percent < 0 {
		percent = 0
	} else if percent > maxPerc {
		percent = maxPerc
	}
	mix := func(a, b uint8) uint8 {
		return uint8((int(a)*(maxPerc-percent) + int(b)*percent) / maxPerc)
	}
	return color.NRGBA{mix(Low.R, High.R), mix(Low.G, High.G), mix(Low.B, High.B), 255}
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: len(d.pixels), Y: 1}}
}

// Draw implements display.Drawer.
//
// It paints the first row of src over the blocks. The next Refresh() shows
// the pins again.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return errors.New("pinstrip: nothing to draw")
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		d.pixels[x] = color.NRGBAModel.Convert(src.At(sp.X+x-r.Min.X, sp.Y)).(color.NRGBA)
	}
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for _, c := range d.pixels {
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	if d.labels {
		for _, p := range d.pins {
			_, _ = fmt.Fprintf(&d.buf, " %s", smartpin.StatusOf(p))
		}
		// Clear what a longer previous line left.
		_, _ = d.buf.WriteString("\033[K")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
