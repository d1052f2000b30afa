package bitmap

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	// QuantumRange is the maximum value of a single colour channel as
	// reported by color.Color.RGBA.  Images with 8-bit channels are
	// thresholded on the 8-bit scale, see [Flatten].
	QuantumRange = 0xffff
	// Midpoint is the first grey level that is classified as white.  Grey
	// values below it are black.
	Midpoint = (QuantumRange + 1) / 2
	// DefaultGamma is a special value that instructs to use the default gamma
	// for the dithering algorithm.
	DefaultGamma = 0.0

	// midpointShift moves the most significant bit of a 16-bit grey value into
	// bit 0: grey >> midpointShift is 1 for white and 0 for black.
	midpointShift = 15
	// midpointShift8 is the same for 8-bit grey values.
	midpointShift8 = 7
	// bytesPerPixel of the image.RGBA64 canvas.
	bytesPerPixel = 8
)

// ErrDecode is returned when the pixel data of the source image can not be
// read.
var ErrDecode = errors.New("unable to read pixel data")

type flattenOptions struct {
	ditherFunc DitherFunc
	gamma      float64
	autoDither bool
}

// FlattenOption configures FlattenWith.
type FlattenOption func(*flattenOptions)

// WithDither sets the dithering function that is applied to the image after
// it has been composited over white, but before the threshold.  nil disables
// dithering.
func WithDither(fn DitherFunc) FlattenOption {
	return func(o *flattenOptions) {
		o.ditherFunc = fn
	}
}

// WithGamma sets the gamma passed to the dithering function.
func WithGamma(gamma float64) FlattenOption {
	return func(o *flattenOptions) {
		o.gamma = gamma
	}
}

// WithAutoDither disables dithering for images that look like text documents,
// see [IsDocument].
func WithAutoDither(enabled bool) FlattenOption {
	return func(o *flattenOptions) {
		o.autoDither = enabled
	}
}

// Flatten converts img to a monochrome bitmap of the same size.  Transparent
// regions become white, each pixel is black if the average of its red, green
// and blue channels is below [Midpoint].
//
// The average is taken on the channel scale of the source: images with 8-bit
// channels (RGBA, NRGBA, Gray, YCbCr, Paletted...) are averaged as 8-bit
// integers and compared with 128, 16-bit images are averaged as 16-bit
// integers and compared with [Midpoint].
//
// An image with empty bounds produces an empty bitmap.
func Flatten(img image.Image) (*Image, error) {
	return FlattenWith(img)
}

// FlattenWith is [Flatten] with options.
func FlattenWith(img image.Image, opt ...FlattenOption) (*Image, error) {
	if img == nil {
		return nil, ErrDecode
	}
	var opts flattenOptions
	for _, o := range opt {
		o(&opts)
	}

	b := img.Bounds()
	if b.Empty() {
		return New(), nil
	}
	canvas := overWhite(img)
	if opts.ditherFunc != nil && !(opts.autoDither && IsDocument(canvas, 0, 0)) {
		dithered := opts.ditherFunc(canvas, opts.gamma)
		draw.Draw(canvas, canvas.Bounds(), dithered, dithered.Bounds().Min, draw.Src)
	}

	width, height := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	bits := make([]byte, width*height)
	if is16bit(img) {
		threshold(bits, canvas)
	} else {
		threshold8(bits, canvas)
	}
	return &Image{Width: width, Height: height, Bits: bits}, nil
}

// overWhite composites img over an opaque white canvas of the same size.  The
// canvas origin is always at (0, 0).  The source image is not modified.
func overWhite(img image.Image) *image.RGBA64 {
	b := img.Bounds()
	canvas := image.NewRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)
	return canvas
}

// threshold writes one bit per canvas pixel into dst, row by row, reading the
// big-endian channel values straight from the canvas buffer.
func threshold(dst []byte, canvas *image.RGBA64) {
	width, height := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	for y := range height {
		off := y * canvas.Stride
		row := canvas.Pix[off : off+width*bytesPerPixel]
		out := dst[y*width : (y+1)*width]
		for x := range out {
			p := row[x*bytesPerPixel : x*bytesPerPixel+6 : x*bytesPerPixel+6]
			r := uint32(p[0])<<8 | uint32(p[1])
			g := uint32(p[2])<<8 | uint32(p[3])
			b := uint32(p[4])<<8 | uint32(p[5])
			grey := (r + g + b) / 3
			out[x] = byte(1 ^ grey>>midpointShift) // 1 for black, 0 for white
		}
	}
}

// threshold8 is threshold for sources with 8-bit channels, it uses the high
// byte of each canvas channel.
func threshold8(dst []byte, canvas *image.RGBA64) {
	width, height := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	for y := range height {
		off := y * canvas.Stride
		row := canvas.Pix[off : off+width*bytesPerPixel]
		out := dst[y*width : (y+1)*width]
		for x := range out {
			p := row[x*bytesPerPixel : x*bytesPerPixel+6 : x*bytesPerPixel+6]
			grey := (uint32(p[0]) + uint32(p[2]) + uint32(p[4])) / 3
			out[x] = byte(1 ^ grey>>midpointShift8)
		}
	}
}

// is16bit reports whether the colour model of img has 16-bit channels.
func is16bit(img image.Image) bool {
	switch img.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return true
	}
	return false
}
