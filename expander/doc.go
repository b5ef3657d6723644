// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package expander drives the PCF8574, PCF8574A and PCF8575 I²C GPIO
// expanders.
//
// The ports are quasi-bidirectional: a pin latched high is held by a weak
// pull up and can be pulled low from outside, so it doubles as an input. A pin
// latched low sinks current. Writing the port sets every pin at once, reading
// it samples every pin. The PCF8575 transfers 16 bits, low byte first.
//
// The pins implement gpio.PinIO and can back gpiopin inputs and outputs.
//
// # Datasheets
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
//
// https://www.ti.com/lit/ds/symlink/pcf8575.pdf
package expander
