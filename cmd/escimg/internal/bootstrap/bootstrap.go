// Package bootstrap creates the converter and writes the results according
// to the command line configuration.
package bootstrap

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rusq/escimg"
	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/cmd/escimg/internal/cfg"
	"github.com/rusq/escimg/rasteriser"
	"github.com/rusq/escimg/rasteriser/magick"

	_ "github.com/rusq/escimg/rasteriser/fitz"
)

// Converter returns the converter configured from the flags.
func Converter(opt ...escimg.Option) (*escimg.Converter, error) {
	backend, err := Backend()
	if err != nil {
		return nil, err
	}
	dfn, ok := bitmap.DitherFunction(cfg.Dither)
	if !ok {
		return nil, fmt.Errorf("unknown dithering function: %s", cfg.Dither)
	}
	opts := []escimg.Option{
		escimg.WithBackend(backend),
		escimg.WithWorkers(cfg.Workers),
		escimg.WithFlattenOptions(
			bitmap.WithDither(dfn),
			bitmap.WithGamma(cfg.Gamma),
			bitmap.WithAutoDither(cfg.AutoDither),
		),
	}
	return escimg.New(append(opts, opt...)...), nil
}

// Backend returns the document rasteriser selected with the -backend flag.
func Backend() (rasteriser.Backend, error) {
	if cfg.Backend == magick.Name {
		return magick.New(magick.WithBinary(cfg.MagickBinary)), nil
	}
	return rasteriser.Lookup(cfg.Backend)
}

// OutputName returns the output filename for the input file.  If page is
// negative, the page number is not included.
func OutputName(input string, page int) string {
	if cfg.Output != "" && page < 0 {
		return cfg.Output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if cfg.Output != "" {
		base = strings.TrimSuffix(cfg.Output, filepath.Ext(cfg.Output))
	}
	if page >= 0 {
		base += fmt.Sprintf("-%03d", page+1)
	}
	if cfg.Output != "" {
		return base + filepath.Ext(cfg.Output)
	}
	return base + ".mono." + extension(cfg.Format)
}

func extension(format string) string {
	if format == cfg.FormatRaster {
		return "bin"
	}
	return "png"
}

// WriteBitmap writes the bitmap to the file in the format selected with the
// -format flag.
func WriteBitmap(filename string, m *bitmap.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	switch cfg.Format {
	case cfg.FormatPNG:
		if err := png.Encode(f, m.Paletted()); err != nil {
			return fmt.Errorf("failed to encode %s: %w", filename, err)
		}
	case cfg.FormatRaster:
		if _, err := f.Write(m.RasterFormat()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format: %q", cfg.Format)
	}
	return f.Close()
}
