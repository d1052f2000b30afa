//go:build !cgo || nofitz || nocgo

package fitz

import (
	"context"
	"fmt"

	"github.com/rusq/escimg/rasteriser"
)

// Name is the registered name of the backend.
const Name = "fitz"

func init() {
	rasteriser.Register(Name, func() rasteriser.Backend { return New() })
}

// Backend is a placeholder for the binaries built without MuPDF.
type Backend struct{}

// New returns the MuPDF backend.
func New() Backend {
	return Backend{}
}

func (Backend) Name() string {
	return Name
}

func (Backend) Available() error {
	return fmt.Errorf("%w: built without MuPDF (cgo disabled or nofitz tag)", rasteriser.ErrUnavailable)
}

func (b Backend) Open(context.Context, string) (rasteriser.Document, error) {
	return nil, b.Available()
}
