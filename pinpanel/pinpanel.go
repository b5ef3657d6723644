// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinpanel renders the state of smart pins as an image, one row per
// pin with an indicator dot, the pin name and its value.
//
// The image can be sent to any display.Drawer, like a small OLED or e-paper
// panel, or saved as a PNG.
package pinpanel

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/smartgpio/smartpin"
)

// Opts represents the layout of a panel.
type Opts struct {
	// Width and Height of the image in pixels.
	Width  int
	Height int
	// Size is the font size in points.
	Size float64
	// Invert draws white on black.
	Invert bool
}

// DefaultOpts fits a 128x64 monochrome OLED.
var DefaultOpts = Opts{
	Width:  128,
	Height: 64,
	Size:   10,
}

const padding = 2.0

// Render draws the status of pins. DefaultOpts is used when opts is nil.
//
// Rows that do not fit in the height are dropped.
func Render(pins []smartpin.Pin, opts *Opts) (image.Image, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Size <= 0 {
		return nil, errors.New("pinpanel: invalid size")
	}
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	bg, fg := 1.0, 0.0
	if opts.Invert {
		bg, fg = fg, bg
	}
	dc.SetRGB(bg, bg, bg)
	dc.Clear()
	dc.SetRGB(fg, fg, fg)
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: opts.Size}))
	_, th := dc.MeasureString("Mg")
	row := th + padding
	r := th / 2
	w := float64(opts.Width)
	for i, p := range pins {
		y := padding + float64(i)*row
		if y+th > float64(opts.Height) {
			break
		}
		s := smartpin.StatusOf(p)
		cx, cy := padding+r, y+r
		dc.DrawCircle(cx, cy, r-0.5)
		if s.SetUp && (s.On || (s.Mode == smartpin.AnalogIn && s.Percent > 0)) {
			dc.Fill()
		} else {
			dc.Stroke()
		}
		dc.DrawStringAnchored(s.Name, cx+r+padding, cy, 0, 0.5)
		dc.DrawStringAnchored(s.Value(), w-padding, cy, 1, 0.5)
	}
	return dc.Image(), nil
}

// Draw renders pins at the size of dst and draws the result.
func Draw(dst display.Drawer, pins []smartpin.Pin, opts *Opts) error {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	b := dst.Bounds()
	o.Width, o.Height = b.Dx(), b.Dy()
	img, err := Render(pins, &o)
	if err != nil {
		return err
	}
	return dst.Draw(b, img, image.Point{})
}

// WritePNG renders pins and encodes the image as PNG to w.
func WritePNG(w io.Writer, pins []smartpin.Pin, opts *Opts) error {
	img, err := Render(pins, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
