package engine

import "errors"

// Sentinel errors returned by on-demand evaluation. Everything else the
// engine encounters past a successful decode is absorbed with a
// deterministic fallback instead of failing.
var (
	// ErrUnknownDevice means no configuration has been loaded for the id.
	ErrUnknownDevice = errors.New("unknown device")
	// ErrUnknownNode means the device's graph has no node with the id.
	ErrUnknownNode = errors.New("unknown node")
)
