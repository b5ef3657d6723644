// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package smartgpio is a container for smart pins: GPIO and ADC pins polled
// from a cooperative loop that report their changes through callbacks.
//
// The pins live in smartpin (common plumbing), gpiopin (digital inputs and
// outputs) and adcpin (analog inputs). board builds them from a YAML
// description and cmd/pinloop runs one on a periph host.
package smartgpio
