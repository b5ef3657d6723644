// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package smartpin contains the parts shared by every pin of a board: its
// identity and lifecycle, the callbacks and the change Scheduler that decides
// when a change callback may fire.
//
// Pins are driven cooperatively. Setup() is called once, then Loop() is
// called repeatedly, typically every few tens of milliseconds, from a single
// goroutine. Pins do no locking; a caller sharing a pin between goroutines
// must serialize the calls itself.
//
// The concrete pins live in packages gpiopin and adcpin.
package smartpin
