package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestSequenceGenerator(t *testing.T) {
	gen := &SequenceGenerator{}
	assert.Equal(t, "pass-1", gen.Generate())
	assert.Equal(t, "pass-2", gen.Generate())
	assert.Equal(t, "pass-3", gen.Generate())
}
