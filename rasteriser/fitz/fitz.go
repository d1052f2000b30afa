//go:build cgo && !nofitz && !nocgo

// Package fitz implements the document rasteriser on top of the MuPDF
// library.  It requires cgo.  Without cgo, or with the "nofitz" or "nocgo"
// tags, the backend is registered but reports that it is unavailable.
package fitz

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/gen2brain/go-fitz"

	"github.com/rusq/escimg/rasteriser"
)

// Name is the registered name of the backend.
const Name = "fitz"

func init() {
	rasteriser.Register(Name, func() rasteriser.Backend { return New() })
}

// Backend renders documents with MuPDF.
type Backend struct{}

var _ rasteriser.Backend = Backend{}

// New returns the MuPDF backend.
func New() Backend {
	return Backend{}
}

func (Backend) Name() string {
	return Name
}

// Available always returns nil, MuPDF is linked into the binary.
func (Backend) Available() error {
	return nil
}

func (Backend) Open(ctx context.Context, path string) (rasteriser.Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "opened document", "backend", Name, "path", path, "pages", doc.NumPage())
	return &document{doc: doc}, nil
}

type document struct {
	doc *fitz.Document
}

func (d *document) Pages() int {
	return d.doc.NumPage()
}

func (d *document) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid resolution: %f", dpi)
	}
	img, err := d.doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (d *document) Close() error {
	return d.doc.Close()
}
