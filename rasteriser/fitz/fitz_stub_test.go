//go:build !cgo || nofitz || nocgo

package fitz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rusq/escimg"
	"github.com/rusq/escimg/rasteriser"
	"github.com/rusq/escimg/rasteriser/fitz"
)

func TestBackend_Available(t *testing.T) {
	b := fitz.New()
	assert.ErrorIs(t, b.Available(), rasteriser.ErrUnavailable)

	_, err := b.Open(t.Context(), "testdata/three.pdf")
	assert.ErrorIs(t, err, rasteriser.ErrUnavailable)

	registered, err := rasteriser.Lookup(fitz.Name)
	assert.NoError(t, err)
	assert.ErrorIs(t, registered.Available(), rasteriser.ErrUnavailable)
}

func TestBackend_LoadPDF(t *testing.T) {
	_, err := escimg.New(escimg.WithBackend(fitz.New())).LoadPDF(t.Context(), "testdata/three.pdf", 0)
	assert.ErrorIs(t, err, escimg.ErrCapabilityUnavailable)
	assert.ErrorIs(t, err, rasteriser.ErrUnavailable)
}
