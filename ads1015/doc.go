// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ads1015 drives a Texas Instruments ADS1015 12 bits I²C analog to
// digital converter in single-shot mode.
//
// Each conversion measures one of AIN0..AIN3 against GND with the ±4.096V
// full scale range at 1600 samples per second. Negative readings are
// reported as 0, so the usable resolution is 11 bits.
//
// The Dev implements adc.Converter; wrap it with adc.New to get analog pins.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/ads1015.pdf
package ads1015
