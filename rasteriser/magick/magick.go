// Package magick implements the document rasteriser that runs ImageMagick.
// Any format that ImageMagick can read is supported, PDF and PostScript
// require Ghostscript to be installed.
package magick

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rusq/escimg/rasteriser"
)

// Name is the registered name of the backend.
const Name = "magick"

// DefaultBinary is the ImageMagick 7 executable.
const DefaultBinary = "magick"

// countDensity is the resolution used when counting pages, the pages are
// rendered to count them, so it's kept small.
const countDensity = "2"

func init() {
	rasteriser.Register(Name, func() rasteriser.Backend { return New() })
}

// Backend runs ImageMagick executable for each operation.
type Backend struct {
	binary string
}

var _ rasteriser.Backend = &Backend{}

// Option is the backend option.
type Option func(*Backend)

// WithBinary sets the path or name of the ImageMagick executable.
func WithBinary(path string) Option {
	return func(b *Backend) {
		if path != "" {
			b.binary = path
		}
	}
}

// New returns a new ImageMagick backend.
func New(opt ...Option) *Backend {
	b := &Backend{binary: DefaultBinary}
	for _, o := range opt {
		o(b)
	}
	return b
}

func (b *Backend) Name() string {
	return Name
}

// Available returns nil if the ImageMagick executable is found.
func (b *Backend) Available() error {
	if _, err := exec.LookPath(b.binary); err != nil {
		return fmt.Errorf("%w: %s: %w", rasteriser.ErrUnavailable, b.binary, err)
	}
	return nil
}

// Open counts the pages of the document.  The document file is read again by
// each Render call.
func (b *Backend) Open(ctx context.Context, path string) (rasteriser.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	out, err := b.run(ctx, "identify", "-density", countDensity, "-format", "%p\n", fileArg(path))
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	pages := countLines(out)
	slog.DebugContext(ctx, "opened document", "backend", Name, "path", path, "pages", pages)
	return &document{b: b, path: path, pages: pages}, nil
}

// run executes the binary and returns its standard output.  Standard error
// output is included in the returned error.
func (b *Backend) run(ctx context.Context, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.binary, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", b.binary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", b.binary, err)
	}
	return out, nil
}

// fileArg returns the path as a command line argument.  Relative paths get
// the "./" prefix, so that "-name.pdf" is not taken for an option.
func fileArg(path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		return path
	}
	return "./" + path
}

func countLines(out []byte) int {
	var n int
	s := bufio.NewScanner(bytes.NewReader(out))
	for s.Scan() {
		if strings.TrimSpace(s.Text()) != "" {
			n++
		}
	}
	return n
}

type document struct {
	b      *Backend
	path   string
	pages  int
	closed bool
}

func (d *document) Pages() int {
	return d.pages
}

func (d *document) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	if d.closed {
		return nil, os.ErrClosed
	}
	if page < 0 || page >= d.pages {
		return nil, fmt.Errorf("page %d out of range [0, %d)", page, d.pages)
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid resolution: %f", dpi)
	}
	density := strconv.FormatFloat(dpi, 'f', 4, 64)
	src := fileArg(d.path) + "[" + strconv.Itoa(page) + "]"
	out, err := d.b.run(ctx, "-density", density, src, "png:-")
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (d *document) Close() error {
	if d.closed {
		return errors.New("document already closed")
	}
	d.closed = true
	return nil
}
