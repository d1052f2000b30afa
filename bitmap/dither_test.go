package bitmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDitherFunction(t *testing.T) {
	tests := []struct {
		name    string
		wantNil bool
		wantOK  bool
	}{
		{"", true, true},
		{NoDither, true, true},
		{"atkinson", false, true},
		{"floyd-steinberg", false, true},
		{"unknown", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := DitherFunction(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantNil, fn == nil)
		})
	}
}

func TestAllDitherFunctions(t *testing.T) {
	assert.Equal(t, []string{"atkinson", "bayer", "floyd-steinberg", "none", "stucki"}, AllDitherFunctions())
}

func TestRegisterDitherFunction(t *testing.T) {
	assert.Panics(t, func() { RegisterDitherFunction("", DAtkinson) })
	assert.Panics(t, func() { RegisterDitherFunction("x", nil) })
	assert.Panics(t, func() { RegisterDitherFunction("atkinson", DAtkinson) })
}

func TestDitherFuncs_blackAndWhiteOnly(t *testing.T) {
	src := testColorImage(image.Rect(0, 0, 16, 16), color.Gray{Y: 0x60})
	for _, name := range []string{"atkinson", "bayer", "floyd-steinberg", "stucki"} {
		t.Run(name, func(t *testing.T) {
			fn, ok := DitherFunction(name)
			require.True(t, ok)
			out := fn(src, DefaultGamma)
			assert.Equal(t, src.Bounds(), out.Bounds())
			b := out.Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					r, g, bl, _ := out.At(x, y).RGBA()
					assert.True(t, (r == 0 && g == 0 && bl == 0) || (r == 0xffff && g == 0xffff && bl == 0xffff),
						"pixel (%d,%d) is not black or white", x, y)
				}
			}
		})
	}
}
