package rasteriser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopBackend struct{ name string }

func (b nopBackend) Name() string     { return b.name }
func (b nopBackend) Available() error { return ErrUnavailable }
func (b nopBackend) Open(context.Context, string) (Document, error) {
	return nil, ErrUnavailable
}

func TestRegister(t *testing.T) {
	Register("test-nop", func() Backend { return nopBackend{name: "test-nop"} })

	b, err := Lookup("test-nop")
	require.NoError(t, err)
	assert.Equal(t, "test-nop", b.Name())
	assert.ErrorIs(t, b.Available(), ErrUnavailable)
	assert.Contains(t, Names(), "test-nop")

	assert.Panics(t, func() { Register("test-nop", func() Backend { return nopBackend{} }) })
	assert.Panics(t, func() { Register("", func() Backend { return nopBackend{} }) })
	assert.Panics(t, func() { Register("test-nil", nil) })
}

func TestLookup_unknown(t *testing.T) {
	_, err := Lookup("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknown)
}
