// Package engine is the per-device decision core: it owns the device
// graphs, the external value table, and the debounce state, and turns
// incoming sensor values into debounced boolean decisions for each device's
// final node.
//
// The engine is synchronous. Every operation runs to completion on the
// caller's goroutine, serialized by one internal mutex; the decision sink is
// invoked inline from whatever call triggered it. There is no internal
// timer: the host's scheduling loop supplies wall-clock time through the
// Clock and drives the periodic ProcessPending sweep.
package engine
