package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// PassTokenGenerator produces the token stamped on one evaluation pass.
// The token correlates log lines, journal rows, and decision records that
// belong to the same value update or maintenance sweep.
type PassTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 pass tokens. Stateless and
// safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator produces "pass-1", "pass-2", ... for deterministic
// tests and golden traces.
type SequenceGenerator struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next token in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("pass-%d", g.n)
}
