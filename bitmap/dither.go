package bitmap

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// DitherFunc converts the image to black and white dots.  gamma is the gamma
// correction applied before dithering, [DefaultGamma] selects the function
// default.
type DitherFunc func(img image.Image, gamma float64) image.Image

// NoDither is the name that disables dithering.
const NoDither = "none"

var ditherFunctions = map[string]DitherFunc{
	"floyd-steinberg": DFloydSteinberg,
	"atkinson":        DAtkinson,
	"stucki":          DStucki,
	"bayer":           DBayer,
	NoDither:          nil,
}

// DitherFunction returns a registered dither function by name.  Empty name
// and [NoDither] return a nil function, which means plain thresholding.
func DitherFunction(name string) (DitherFunc, bool) {
	if name == "" {
		return nil, true
	}
	fn, ok := ditherFunctions[name]
	if !ok {
		return nil, false // function not found
	}
	return fn, true
}

// RegisterDitherFunction allows to register a new dither function by name.
func RegisterDitherFunction(name string, fn DitherFunc) {
	if name == "" {
		panic("dither function name cannot be empty")
	}
	if fn == nil {
		panic("dither function cannot be nil")
	}
	if _, exists := ditherFunctions[name]; exists {
		panic("dither function already registered: " + name)
	}
	ditherFunctions[name] = fn
}

// AllDitherFunctions returns a sorted list of all available dither function
// names.
func AllDitherFunctions() []string {
	keys := make([]string, 0, len(ditherFunctions))
	for k := range ditherFunctions {
		keys = append(keys, k)
	}
	sort.Strings(keys) // sort for consistent order
	return keys
}

var bw = []color.Color{color.Black, color.White}

// diffusionDither returns a dither function that applies error diffusion
// dithering using the specified matrix, with defaultGamma used if gamma is
// DefaultGamma.
func diffusionDither(matrix dither.ErrorDiffusionMatrix, defaultGamma float64) DitherFunc {
	return func(img image.Image, gamma float64) image.Image {
		if gamma == DefaultGamma {
			gamma = defaultGamma
		}
		dithered := image.NewRGBA(img.Bounds())
		d := dither.NewDitherer(bw)
		d.Matrix = matrix
		d.Draw(dithered, dithered.Bounds(), imaging.AdjustGamma(img, gamma), image.Point{})
		return dithered
	}
}

// patternDither returns a dither function that applies ordered dithering
// using the specified pixel mapper.
func patternDither(mapper dither.PixelMapper, defaultGamma float64) DitherFunc {
	return func(img image.Image, gamma float64) image.Image {
		if gamma == DefaultGamma {
			gamma = defaultGamma
		}
		dithered := image.NewRGBA(img.Bounds())
		d := dither.NewDitherer(bw)
		d.Mapper = mapper
		d.Draw(dithered, dithered.Bounds(), imaging.AdjustGamma(img, gamma), image.Point{})
		return dithered
	}
}

var (
	// DAtkinson applies Atkinson error diffusion dithering with a gamma value of 3.0.
	DAtkinson = diffusionDither(dither.Atkinson, 3.0)
	// DStucki applies Stucki error diffusion dithering with a gamma value of 3.5.
	DStucki = diffusionDither(dither.Stucki, 3.5)
	// DBayer applies Bayer ordered dithering with a gamma value of 3.5.
	DBayer = patternDither(dither.Bayer(8, 8, 1.0), 3.5) // 8x8 Bayer matrix
)

// DFloydSteinberg applies Floyd-Steinberg dithering from the x/image/draw
// package.
func DFloydSteinberg(img image.Image, gamma float64) image.Image {
	const defaultGamma = 1.5
	if gamma == DefaultGamma {
		gamma = defaultGamma
	}
	adjusted := imaging.AdjustGamma(img, gamma)
	dithered := image.NewPaletted(img.Bounds(), bw)
	draw.FloydSteinberg.Draw(dithered, dithered.Bounds(), adjusted, image.Point{})
	return dithered
}
