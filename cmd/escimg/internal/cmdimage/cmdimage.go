// Package cmdimage provides image conversion subcommand.
package cmdimage

import (
	"context"
	"errors"

	"github.com/rusq/escimg"
	"github.com/rusq/escimg/cmd/escimg/internal/bootstrap"
	"github.com/rusq/escimg/cmd/escimg/internal/cfg"
	"github.com/rusq/escimg/cmd/escimg/internal/golang/base"
)

var CmdImage = &base.Command{
	Run:        runImage,
	UsageLine:  "escimg image [flags] <image file>",
	Short:      "converts an image file to monochrome",
	FlagMask:   cfg.OmitDocumentFlags,
	PrintFlags: true,
	Long: `
Converts an image to the black and white bitmap.  Transparent areas become
white, every pixel darker than the middle grey becomes black.

Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP.  Orientation of
JPEG photos is taken from the EXIF data.
`,
}

var fitWidth int

func init() {
	CmdImage.Flag.IntVar(&fitWidth, "fit", 0, "scale the image down to `dots` wide, 0 keeps the original size")
}

func runImage(ctx context.Context, cmd *base.Command, args []string) error {
	if len(args) != 1 {
		base.SetExitStatus(base.SInvalidParameters)
		return errors.New("expected only one image")
	}

	conv, err := bootstrap.Converter(escimg.WithFitWidth(fitWidth))
	if err != nil {
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}
	m, err := conv.LoadImage(ctx, args[0])
	if err != nil {
		base.SetExitStatus(base.SApplicationError)
		return err
	}
	out := bootstrap.OutputName(args[0], -1)
	if err := bootstrap.WriteBitmap(out, m); err != nil {
		base.SetExitStatus(base.SGenericError)
		return err
	}
	cfg.Log.InfoContext(ctx, "image converted", "input", args[0], "output", out, "width", m.Width, "height", m.Height)
	return nil
}
