package escimg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/rasteriser"
)

// Error kinds.  Every error returned by the package is an [*Error] that
// matches exactly one of these with errors.Is.
var (
	// ErrImageLoad is returned when the image file can not be read or decoded:
	// missing file, permission error, unsupported format.
	ErrImageLoad = errors.New("image load error")
	// ErrDocumentMeasurement is returned when the probe render of the first
	// page fails or yields an unusable width.
	ErrDocumentMeasurement = errors.New("document measurement error")
	// ErrDocumentRender is returned when any page of the document fails to
	// render at the solved resolution.
	ErrDocumentRender = errors.New("document render error")
	// ErrCapabilityUnavailable is returned when the document rasteriser can
	// not run in this environment.
	ErrCapabilityUnavailable = errors.New("rasterisation capability unavailable")
	// ErrDecode is returned when the pixels of a decoded image can not be
	// read.
	ErrDecode = errors.New("decode error")
)

var (
	errNoPages        = errors.New("document has no pages")
	errProbeTooNarrow = errors.New("probe render is too narrow")
)

const (
	opLoadImage = "load image"
	opSolve     = "solve resolution"
	opLoadPDF   = "load pdf"
)

// noPage is the Page value of errors that are not related to a page.
const noPage = -1

// Error describes a failed conversion.  Unwrap returns both the kind and the
// underlying cause, so that the caller can test for either of them.
type Error struct {
	Op   string // operation, i.e. "load image"
	Path string // source file
	Page int    // 0-based page index, or -1
	Kind error  // one of the Err* kinds
	Err  error  // underlying error, may be nil
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("escimg: ")
	sb.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&sb, " %q", e.Path)
	}
	if e.Page >= 0 {
		fmt.Fprintf(&sb, " page %d", e.Page)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// mapError returns the error kind for the err returned by a decoder or a
// rasteriser backend.  stage is the kind that is used when err is not
// recognised.
func mapError(stage error, err error) error {
	switch {
	case errors.Is(err, rasteriser.ErrUnavailable):
		return ErrCapabilityUnavailable
	case errors.Is(err, bitmap.ErrDecode):
		return ErrDecode
	default:
		return stage
	}
}

func newError(op, path string, page int, stage error, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Page: page,
		Kind: mapError(stage, err),
		Err:  err,
	}
}
