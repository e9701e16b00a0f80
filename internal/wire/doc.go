// Package wire defines the documents the engine exchanges with the outside
// world and the tagged value representation that flows between nodes.
//
// Everything a node produces or consumes is carried as a Value whose textual
// rendering is the canonical form: coercion to bool or float is always
// defined over that rendering, so the kind tag can never change a result.
// Tags exist for diagnostics only.
package wire
