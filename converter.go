// Package escimg converts images and multi-page documents to monochrome
// bitmaps for receipt printers.
//
// A raster image is decoded, composited onto white and thresholded.  A
// document is first rendered at a small probe resolution to learn the page
// width, and then every page is rendered at the resolution that makes the
// first page exactly as wide as the printer paper.
package escimg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/trace"

	"golang.org/x/sync/errgroup"

	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/rasteriser"
	"github.com/rusq/escimg/rasteriser/magick"
)

// Resolution is the result of the resolution solver.
type Resolution struct {
	DPI   float64 // resolution that renders the first page at the target width
	Pages int     // number of pages in the document
}

// Converter converts images and documents to monochrome bitmaps.  It is safe
// for concurrent use.
type Converter struct {
	decoder       ImageDecoder
	backend       rasteriser.Backend
	workers       int
	probeDPI      float64
	minProbeWidth int
	fitWidth      int
	flatten       []bitmap.FlattenOption
}

// New returns a new Converter.  By default it decodes images with the
// imaging package, renders documents with ImageMagick and converts pages one
// by one.
func New(opt ...Option) *Converter {
	c := &Converter{
		decoder:       imagingDecoder{},
		backend:       magick.New(),
		workers:       1,
		probeDPI:      ProbeResolution,
		minProbeWidth: DefaultMinProbeWidth,
	}
	for _, o := range opt {
		o(c)
	}
	return c
}

var std = New()

// LoadImage loads the image using the default converter.
func LoadImage(ctx context.Context, path string) (*bitmap.Image, error) {
	return std.LoadImage(ctx, path)
}

// LoadPDF loads the document using the default converter.
func LoadPDF(ctx context.Context, path string, targetWidth int) ([]*bitmap.Image, error) {
	return std.LoadPDF(ctx, path, targetWidth)
}

// LoadImage decodes the image file and converts it to monochrome.
func (c *Converter) LoadImage(ctx context.Context, path string) (*bitmap.Image, error) {
	ctx, task := trace.NewTask(ctx, "LoadImage")
	defer task.End()

	img, err := c.decoder.Decode(ctx, path)
	if err != nil {
		return nil, newError(opLoadImage, path, noPage, ErrImageLoad, err)
	}
	if img == nil {
		return nil, newError(opLoadImage, path, noPage, ErrDecode, bitmap.ErrDecode)
	}
	if c.fitWidth > 0 {
		img = bitmap.ResizeToFit(img, c.fitWidth)
	}
	m, err := bitmap.FlattenWith(img, c.flatten...)
	if err != nil {
		return nil, newError(opLoadImage, path, noPage, ErrDecode, err)
	}
	slog.DebugContext(ctx, "image loaded", "path", path, "width", m.Width, "height", m.Height)
	return m, nil
}

// Solve returns the resolution at which the first page of the document
// renders targetWidth dots wide, and the number of pages.  If targetWidth is
// not positive, DefaultPageWidth is used.
func (c *Converter) Solve(ctx context.Context, path string, targetWidth int) (Resolution, error) {
	ctx, task := trace.NewTask(ctx, "Solve")
	defer task.End()

	if err := c.backend.Available(); err != nil {
		return Resolution{}, newError(opSolve, path, noPage, ErrCapabilityUnavailable, err)
	}
	return c.solve(ctx, opSolve, path, targetWidth)
}

func (c *Converter) solve(ctx context.Context, op string, path string, targetWidth int) (res Resolution, err error) {
	if targetWidth <= 0 {
		targetWidth = DefaultPageWidth
	}
	doc, err := c.backend.Open(ctx, path)
	if err != nil {
		return Resolution{}, newError(op, path, noPage, ErrDocumentMeasurement, err)
	}
	defer closeDoc(ctx, doc, path)

	pages := doc.Pages()
	if pages <= 0 {
		return Resolution{}, newError(op, path, noPage, ErrDocumentMeasurement, errNoPages)
	}
	probe, err := doc.Render(ctx, 0, c.probeDPI)
	if err != nil {
		return Resolution{}, newError(op, path, 0, ErrDocumentMeasurement, err)
	}
	if probe == nil {
		return Resolution{}, newError(op, path, 0, ErrDocumentMeasurement, bitmap.ErrDecode)
	}
	measured := probe.Bounds().Dx()
	if measured < c.minProbeWidth {
		return Resolution{}, newError(op, path, 0, ErrDocumentMeasurement,
			fmt.Errorf("%w: %d < %d", errProbeTooNarrow, measured, c.minProbeWidth))
	}
	res = Resolution{
		DPI:   float64(targetWidth) / float64(measured) * c.probeDPI,
		Pages: pages,
	}
	slog.DebugContext(ctx, "resolution solved", "path", path, "probe_width", measured, "target_width", targetWidth, "dpi", res.DPI, "pages", res.Pages)
	return res, nil
}

// LoadPDF renders every page of the document so that the first page is
// targetWidth dots wide, and converts pages to monochrome.  Pages are
// returned in the document order.  If any of the pages fails, no pages are
// returned.  The name is historical, any format supported by the backend can
// be loaded.
func (c *Converter) LoadPDF(ctx context.Context, path string, targetWidth int) ([]*bitmap.Image, error) {
	ctx, task := trace.NewTask(ctx, "LoadPDF")
	defer task.End()

	if err := c.backend.Available(); err != nil {
		return nil, newError(opLoadPDF, path, noPage, ErrCapabilityUnavailable, err)
	}
	res, err := c.solve(ctx, opLoadPDF, path, targetWidth)
	if err != nil {
		return nil, err
	}
	pages, err := c.renderPages(ctx, path, res)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "document loaded", "path", path, "pages", len(pages), "dpi", res.DPI, "backend", c.backend.Name())
	return pages, nil
}

// renderPages renders pages with a fixed number of workers.  Each worker
// opens its own document handle.
func (c *Converter) renderPages(ctx context.Context, path string, res Resolution) ([]*bitmap.Image, error) {
	out := make([]*bitmap.Image, res.Pages)
	pageC := make(chan int)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(pageC)
		for i := range res.Pages {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case pageC <- i:
			}
		}
		return nil
	})
	for range min(c.workers, res.Pages) {
		eg.Go(func() error {
			doc, err := c.backend.Open(ctx, path)
			if err != nil {
				return newError(opLoadPDF, path, noPage, ErrDocumentRender, err)
			}
			defer closeDoc(ctx, doc, path)
			for page := range pageC {
				m, err := c.renderPage(ctx, doc, page, res.DPI)
				if err != nil {
					return newError(opLoadPDF, path, page, ErrDocumentRender, err)
				}
				out[page] = m
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, newError(opLoadPDF, path, noPage, ErrDocumentRender, err)
	}
	return out, nil
}

func (c *Converter) renderPage(ctx context.Context, doc rasteriser.Document, page int, dpi float64) (*bitmap.Image, error) {
	defer trace.StartRegion(ctx, "renderPage").End()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := doc.Render(ctx, page, dpi)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, bitmap.ErrDecode
	}
	m, err := bitmap.FlattenWith(img, c.flatten...)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "page rendered", "page", page, "width", m.Width, "height", m.Height)
	return m, nil
}

func closeDoc(ctx context.Context, doc rasteriser.Document, path string) {
	if err := doc.Close(); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "failed to close document", "path", path, "error", err)
	}
}
