package escimg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rusq/escimg/bitmap"
	"github.com/rusq/escimg/rasteriser"
)

var errBackend = errors.New("backend exploded")

func Test_mapError(t *testing.T) {
	tests := []struct {
		name  string
		stage error
		err   error
		want  error
	}{
		{"unknown error keeps stage", ErrDocumentRender, errBackend, ErrDocumentRender},
		{"not exist", ErrImageLoad, fs.ErrNotExist, ErrImageLoad},
		{"unavailable", ErrDocumentMeasurement, fmt.Errorf("wrapped: %w", rasteriser.ErrUnavailable), ErrCapabilityUnavailable},
		{"decode", ErrDocumentRender, bitmap.ErrDecode, ErrDecode},
		{"context", ErrDocumentRender, context.Canceled, ErrDocumentRender},
		{"nil", ErrImageLoad, nil, ErrImageLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapError(tt.stage, tt.err))
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"full",
			newError(opLoadPDF, "a.pdf", 2, ErrDocumentRender, errBackend),
			`escimg: load pdf "a.pdf" page 2: document render error: backend exploded`,
		},
		{
			"no page",
			newError(opLoadImage, "a.png", noPage, ErrImageLoad, errBackend),
			`escimg: load image "a.png": image load error: backend exploded`,
		},
		{
			"no cause",
			&Error{Op: opSolve, Page: noPage, Kind: ErrDocumentMeasurement},
			`escimg: solve resolution: document measurement error`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := error(newError(opLoadImage, "x", noPage, ErrImageLoad, fmt.Errorf("open: %w", os.ErrNotExist)))
	assert.ErrorIs(t, err, ErrImageLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrDocumentRender)

	var e *Error
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &e)
	assert.Equal(t, "x", e.Path)

	unavail := newError(opLoadPDF, "x", noPage, ErrDocumentMeasurement, rasteriser.ErrUnavailable)
	assert.ErrorIs(t, unavail, ErrCapabilityUnavailable)
	assert.ErrorIs(t, unavail, rasteriser.ErrUnavailable)
	assert.NotErrorIs(t, unavail, ErrDocumentMeasurement)
}
