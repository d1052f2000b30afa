// Package cfg contains common configuration variables.
package cfg

import (
	"flag"
	"fmt"
	"log/slog"

	"github.com/rusq/osenv/v2"

	"github.com/rusq/escimg"
	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/rasteriser"
	"github.com/rusq/escimg/rasteriser/magick"
)

var (
	TraceFile   string = osenv.Value("TRACE_FILE", "")
	LogFile     string = osenv.Value("LOG_FILE", "")
	JSONHandler bool   = osenv.Value("JSON_LOG", false)
	Verbose     bool   = osenv.Value("DEBUG", false)

	Width        int    = osenv.Value("ESCIMG_WIDTH", escimg.DefaultPageWidth)
	Backend      string = osenv.Value("ESCIMG_BACKEND", magick.Name)
	MagickBinary string = osenv.Value("MAGICK_BINARY", magick.DefaultBinary)
	Workers      int    = 1

	Gamma      float64
	Dither     string
	AutoDither bool

	Output string
	Format string = FormatPNG

	Log *slog.Logger = slog.Default()
)

// Output formats.
const (
	FormatPNG    = "png"    // black and white PNG preview
	FormatRaster = "raster" // packed rows, MSB is the leftmost dot
)

type FlagMask uint16

const (
	DefaultFlags      FlagMask = 0
	OmitDocumentFlags FlagMask = 1 << (iota - 1)
	OmitCommonImageFlags
	OmitOutputFlags

	OmitAll = OmitDocumentFlags | OmitCommonImageFlags | OmitOutputFlags
)

// SetBaseFlags sets base flags.
func SetBaseFlags(fs *flag.FlagSet, mask FlagMask) {
	fs.StringVar(&TraceFile, "trace", TraceFile, "trace `filename`")
	fs.StringVar(&LogFile, "log", LogFile, "log `file`, if not specified, messages are printed to STDERR")
	fs.BoolVar(&JSONHandler, "log-json", JSONHandler, "log in JSON format")
	fs.BoolVar(&Verbose, "v", Verbose, "verbose messages")

	if mask&OmitDocumentFlags == 0 {
		fs.IntVar(&Width, "width", Width, "target page width in `dots`")
		fs.StringVar(&Backend, "backend", Backend, fmt.Sprintf("document rasteriser, one of: %v", rasteriser.Names()))
		fs.StringVar(&MagickBinary, "magick", MagickBinary, "ImageMagick executable `path`")
		fs.IntVar(&Workers, "workers", Workers, "number of pages rendered concurrently")
	}

	if mask&OmitCommonImageFlags == 0 {
		fs.Float64Var(&Gamma, "gamma", bitmap.DefaultGamma, "Gamma correction for dithering")
		fs.StringVar(&Dither, "dither", "", fmt.Sprintf("Dithering algorithm to use, one of: %v", bitmap.AllDitherFunctions()))
		fs.BoolVar(&AutoDither, "auto-dither", false, "automatically disables dithering if a document is detected")
	}

	if mask&OmitOutputFlags == 0 {
		fs.StringVar(&Output, "o", "", "output `filename`, by default derived from the input file name")
		fs.StringVar(&Format, "format", Format, "output format, one of: "+FormatPNG+", "+FormatRaster)
	}
}

// SetDebugLevel sets the debug level for the default logger.
func SetDebugLevel() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}
