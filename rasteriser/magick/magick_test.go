package magick

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusq/escimg/rasteriser"
)

func skipIfNoMagick(t *testing.T) *Backend {
	t.Helper()
	b := New()
	if err := b.Available(); err != nil {
		t.Skip("skipping: ImageMagick not found in PATH")
	}
	return b
}

func TestBackend_Available(t *testing.T) {
	b := New(WithBinary("definitely-not-imagemagick-binary"))
	err := b.Available()
	assert.ErrorIs(t, err, rasteriser.ErrUnavailable)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestWithBinary_empty(t *testing.T) {
	assert.Equal(t, DefaultBinary, New(WithBinary("")).binary)
}

func TestLookup(t *testing.T) {
	b, err := rasteriser.Lookup(Name)
	require.NoError(t, err)
	assert.Equal(t, Name, b.Name())
}

func Test_countLines(t *testing.T) {
	tests := []struct {
		name string
		out  []byte
		want int
	}{
		{"empty", nil, 0},
		{"one page", []byte("1\n"), 1},
		{"three pages", []byte("1\n2\n3\n"), 3},
		{"blank lines", []byte("\n1\n\n2"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countLines(tt.out))
		})
	}
}

func Test_fileArg(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "doc.pdf")
	tests := []struct {
		name string
		path string
		want string
	}{
		{"absolute", abs, abs},
		{"relative", "doc.pdf", "./doc.pdf"},
		{"dash", "-doc.pdf", "./-doc.pdf"},
		{"dot slash", "./doc.pdf", "./doc.pdf"},
		{"parent", "../doc.pdf", "../doc.pdf"},
		{"subdir", "docs/doc.pdf", "./docs/doc.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileArg(tt.path))
		})
	}
}

func TestBackend_Open_missing(t *testing.T) {
	b := New()
	_, err := b.Open(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocument_Render(t *testing.T) {
	b := skipIfNoMagick(t)

	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.Set(0, 0, color.Black)
	filename := filepath.Join(t.TempDir(), "page.png")
	f, err := os.Create(filename)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	ctx := context.Background()
	doc, err := b.Open(ctx, filename)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Pages())

	img, err := doc.Render(ctx, 0, 72)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())

	_, err = doc.Render(ctx, 1, 72)
	assert.Error(t, err)

	require.NoError(t, doc.Close())
	_, err = doc.Render(ctx, 0, 72)
	assert.ErrorIs(t, err, os.ErrClosed)
}

// writeFrames writes a 3 frame GIF, frame N has a black bar on the left,
// N*10 dots wide.
func writeFrames(t *testing.T, name string) {
	t.Helper()
	palette := color.Palette{color.White, color.Black}
	var anim gif.GIF
	for i := range 3 {
		frame := image.NewPaletted(image.Rect(0, 0, 40, 10), palette)
		for y := range 10 {
			for x := range (i + 1) * 10 {
				frame.SetColorIndex(x, y, 1)
			}
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 0)
	}
	f, err := os.Create(name)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, &anim))
	require.NoError(t, f.Close())
}

func TestDocument_Render_frames(t *testing.T) {
	b := skipIfNoMagick(t)

	// the dash checks that the file name is not taken for an option.
	dir := t.TempDir()
	t.Chdir(dir)
	writeFrames(t, "-frames.gif")

	ctx := t.Context()
	doc, err := b.Open(ctx, "-frames.gif")
	require.NoError(t, err)
	defer doc.Close()
	require.Equal(t, 3, doc.Pages())

	for page := range 3 {
		img, err := doc.Render(ctx, page, 72)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 40, 10), img.Bounds().Sub(img.Bounds().Min), "page %d", page)

		var black int
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			r, _, _, _ := img.At(x, img.Bounds().Min.Y).RGBA()
			if r < 0x8000 {
				black++
			}
		}
		assert.Equal(t, (page+1)*10, black, "page %d", page)
	}
}
