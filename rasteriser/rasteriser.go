// Package rasteriser defines the document rasterisation capability: a
// Backend opens a multi-page document, and the Document renders its pages to
// images at the requested resolution.
package rasteriser

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
)

// ErrUnavailable is returned by the backends that can not run in the
// current environment, i.e. the external program is not installed.
var ErrUnavailable = errors.New("rasteriser is not available")

// ErrUnknown is returned by Lookup for the backend names that are not
// registered.
var ErrUnknown = errors.New("unknown rasteriser")

// Backend opens documents for rasterisation.
type Backend interface {
	// Name should return the registered name of the backend, e.g. "magick".
	Name() string
	// Available should return nil if the backend can be used, or an error
	// wrapping [ErrUnavailable] otherwise.  It must not touch any files.
	Available() error
	// Open should open the document at path.  Each call returns an
	// independent handle, that must be closed by the caller.
	Open(ctx context.Context, path string) (Document, error)
}

// Document is an open multi-page document.  Document is not required to be
// safe for concurrent use, callers should open one handle per goroutine.
type Document interface {
	// Pages should return the number of pages in the document.
	Pages() int
	// Render should rasterise the page (0-based) at the resolution of dpi
	// dots per inch.  The width of the image is proportional to dpi.
	Render(ctx context.Context, page int, dpi float64) (image.Image, error)
	// Close releases the resources held by the document.
	Close() error
}

var (
	mu       sync.RWMutex
	backends = map[string]func() Backend{}
)

// Register makes the backend constructor available by name.  It panics if
// the name is empty or already registered.
func Register(name string, fn func() Backend) {
	if name == "" {
		panic("rasteriser name cannot be empty")
	}
	if fn == nil {
		panic("rasteriser constructor cannot be nil")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[name]; exists {
		panic("rasteriser already registered: " + name)
	}
	backends[name] = fn
}

// Lookup returns a new instance of the registered backend.
func Lookup(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn(), nil
}

// Names returns a sorted list of registered backend names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for k := range backends {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
