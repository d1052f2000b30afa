// Package bitmap provides the monochrome bitmap used by the receipt printers
// and the functions to convert colour images to it.
package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Palette of the preview images, index 0 is white, index 1 is black, so
// that the colour index is equal to the bit value.
var Palette = color.Palette{color.White, color.Black}

// Image is a monochrome, row-major bitmap.  Each element of Bits is 1 for a
// black (printed) dot and 0 for a white one.  len(Bits) is always
// Width*Height.
type Image struct {
	Width  int
	Height int
	Bits   []byte
}

// New returns an empty bitmap.
func New() *Image {
	return &Image{Bits: []byte{}}
}

// Populate replaces the contents of the bitmap with the flattened img.  On
// error the bitmap is left unchanged.
func (m *Image) Populate(img image.Image, opt ...FlattenOption) error {
	flat, err := FlattenWith(img, opt...)
	if err != nil {
		return err
	}
	*m = *flat
	return nil
}

// Bounds returns the bitmap rectangle.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// BitAt returns true if the dot at (x, y) is black.  Points outside of the
// bitmap are white.
func (m *Image) BitAt(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x] == 1
}

func (m *Image) String() string {
	return fmt.Sprintf("Image(%dx%d)", m.Width, m.Height)
}

// WidthBytes returns the number of bytes needed to hold one row of the
// bitmap packed 8 dots per byte.
func (m *Image) WidthBytes() int {
	return (m.Width + 7) / 8
}

// RasterFormat packs the bitmap rows 8 dots per byte, most significant bit
// first.  Each row is padded with white dots to a byte boundary.
func (m *Image) RasterFormat() []byte {
	wb := m.WidthBytes()
	data := make([]byte, wb*m.Height)
	for y := range m.Height {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x, bit := range row {
			if bit == 1 {
				data[y*wb+x/8] |= 1 << (7 - (x % 8))
			}
		}
	}
	return data
}

// ColumnFormat slices the bitmap into horizontal stripes, 8 dots high, or 24
// if highDensity is set.  Each stripe holds 1 (or 3) bytes per column, the
// most significant bit is the topmost dot.  The last stripe is padded with
// white.
func (m *Image) ColumnFormat(highDensity bool) [][]byte {
	lineHeight := 1
	if highDensity {
		lineHeight = 3
	}
	dots := lineHeight * 8
	stripes := make([][]byte, 0, (m.Height+dots-1)/dots)
	for top := 0; top < m.Height; top += dots {
		stripe := make([]byte, m.Width*lineHeight)
		for x := range m.Width {
			for k := range dots {
				if m.BitAt(x, top+k) {
					stripe[x*lineHeight+k/8] |= 1 << (7 - (k % 8))
				}
			}
		}
		stripes = append(stripes, stripe)
	}
	return stripes
}

// Paletted returns the bitmap as a two colour image, suitable for encoding
// as a preview.
func (m *Image) Paletted() *image.Paletted {
	img := image.NewPaletted(m.Bounds(), Palette)
	copy(img.Pix, m.Bits) // stride equals width for 1 byte per pixel.
	return img
}

const (
	// DefaultDarkThreshold is the default upper bound of the dark pixels for
	// IsDocument.
	DefaultDarkThreshold = 50
	// DefaultLightThreshold is the default lower bound of the light pixels for
	// IsDocument.
	DefaultLightThreshold = 200
)

// IsDocument returns true if the image looks like a text document, that is
// most of its pixels are either very dark or very light.  Zero thresholds
// select the defaults.
func IsDocument(img image.Image, darkThreshold, lightThreshold uint8) bool {
	if img == nil {
		return false
	}
	if darkThreshold == 0 {
		darkThreshold = DefaultDarkThreshold
	}
	if lightThreshold == 0 {
		lightThreshold = DefaultLightThreshold
	}
	bounds := img.Bounds()
	dst := image.NewGray(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)
	// create histogram of pixel brightness
	histogram := make([]int, math.MaxUint8+1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histogram[dst.GrayAt(x, y).Y]++
		}
	}
	var (
		darkPixelCount  float64
		lightPixelCount float64
		totalPixelCount float64
	)
	for i, count := range histogram {
		totalPixelCount += float64(count)
		if i < int(darkThreshold) {
			darkPixelCount += float64(count)
		} else if i >= int(lightThreshold) {
			lightPixelCount += float64(count)
		}
	}
	if totalPixelCount == 0 {
		return false // no pixels to analyze
	}

	return (darkPixelCount+lightPixelCount)/totalPixelCount > 0.85
}
