package bitmap

import (
	"image"

	"golang.org/x/image/draw"
)

// ResizeToFit returns the image exactly width dots wide.  Wider images are
// scaled down with the Catmull-Rom kernel, keeping the aspect ratio.
// Narrower images are never upscaled, they are placed in the top left corner
// of a white canvas.  The result always starts at the origin.
func ResizeToFit(img image.Image, width int) image.Image {
	return resizeToFit(img, width, draw.CatmullRom)
}

func resizeToFit(img image.Image, width int, scaler draw.Scaler) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Empty() {
		return img
	}
	if b.Dx() <= width {
		canvas := image.NewRGBA64(image.Rect(0, 0, width, b.Dy()))
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(canvas, b.Sub(b.Min), img, b.Min, draw.Over)
		return canvas
	}
	height := max(b.Dy()*width/b.Dx(), 1)
	canvas := image.NewRGBA64(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	scaler.Scale(canvas, canvas.Bounds(), img, b, draw.Over, nil)
	return canvas
}
