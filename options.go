package escimg

import (
	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/rasteriser"
)

const (
	// DefaultPageWidth is the default target width of the rasterised
	// document pages, in dots.
	DefaultPageWidth = 550
	// ProbeResolution is the resolution, in dots per inch, of the
	// measurement render of the first page.
	ProbeResolution = 2.0
	// DefaultMinProbeWidth is the smallest acceptable width of the probe
	// render.
	DefaultMinProbeWidth = 1
)

// Option is the Converter option.
type Option func(*Converter)

// WithDecoder sets the image decoder used by LoadImage.
func WithDecoder(d ImageDecoder) Option {
	return func(c *Converter) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithBackend sets the document rasteriser used by LoadPDF and Solve.
func WithBackend(b rasteriser.Backend) Option {
	return func(c *Converter) {
		if b != nil {
			c.backend = b
		}
	}
}

// WithWorkers sets the number of pages that are rendered concurrently.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = max(n, 1)
	}
}

// WithProbeResolution sets the resolution of the measurement render.
func WithProbeResolution(dpi float64) Option {
	return func(c *Converter) {
		if dpi > 0 {
			c.probeDPI = dpi
		}
	}
}

// WithMinProbeWidth sets the minimum acceptable width of the measurement
// render.  Documents that render narrower fail with ErrDocumentMeasurement.
func WithMinProbeWidth(px int) Option {
	return func(c *Converter) {
		c.minProbeWidth = max(px, DefaultMinProbeWidth)
	}
}

// WithFitWidth makes LoadImage scale down images wider than px, and pad the
// narrower ones with white to px.  Zero disables scaling.
func WithFitWidth(px int) Option {
	return func(c *Converter) {
		c.fitWidth = max(px, 0)
	}
}

// WithFlattenOptions sets the options for converting the images to
// monochrome, i.e. dithering.
func WithFlattenOptions(opt ...bitmap.FlattenOption) Option {
	return func(c *Converter) {
		c.flatten = append(c.flatten, opt...)
	}
}
