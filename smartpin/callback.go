// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package smartpin

// Callback is notified by a pin.
//
// Two shapes are provided: Func receives the pin that fired, Closure receives
// nothing and is expected to capture what it needs.
type Callback interface {
	Call(p Pin)
}

// Func is a Callback receiving the pin.
type Func func(p Pin)

// Call implements Callback.
func (f Func) Call(p Pin) {
	f(p)
}

// Closure is a Callback that takes no argument.
type Closure func()

// Call implements Callback.
func (f Closure) Call(Pin) {
	f()
}

// Callbacks holds the two callback slots of a notification.
//
// A Closure goes in the closure slot, any other Callback in the function
// slot. Both slots may be filled at the same time; Fire calls the function
// slot first.
type Callbacks struct {
	fn      Callback
	closure Callback
}

// Set stores cb in its slot, replacing the previous value of that slot.
//
// Set(nil) clears both slots. A nil Func or Closure clears its own slot.
func (c *Callbacks) Set(cb Callback) {
	switch v := cb.(type) {
	case nil:
		c.fn, c.closure = nil, nil
	case Closure:
		if v == nil {
			c.closure = nil
		} else {
			c.closure = v
		}
	case Func:
		if v == nil {
			c.fn = nil
		} else {
			c.fn = v
		}
	default:
		c.fn = cb
	}
}

// Fire calls the registered callbacks in order.
func (c *Callbacks) Fire(p Pin) {
	if c.fn != nil {
		c.fn.Call(p)
	}
	if c.closure != nil {
		c.closure.Call(p)
	}
}
