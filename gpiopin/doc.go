// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpiopin implements digital smart pins on top of periph.io GPIOs.
//
// An Input reports its logical level, the time of its last transitions and
// fires change callbacks when the level changes. An Output additionally
// drives the pin steadily on, steadily off, or blinking.
//
// The logical level is the electrical level XOR the inversion flag, so an
// active-low LED is declared with Opts.Inverted and then switched with
// SetOn().
package gpiopin
