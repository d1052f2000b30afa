package escimg

import (
	"context"
	"image"

	"github.com/disintegration/imaging"

	// extra formats on top of the ones registered by imaging.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageDecoder reads an image file.
type ImageDecoder interface {
	Decode(ctx context.Context, path string) (image.Image, error)
}

// ImageDecoderFunc is an adapter to use ordinary functions as ImageDecoder.
type ImageDecoderFunc func(ctx context.Context, path string) (image.Image, error)

func (f ImageDecoderFunc) Decode(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

// imagingDecoder decodes files with the imaging package, applying the EXIF
// orientation of JPEG photos.
type imagingDecoder struct{}

func (imagingDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}
