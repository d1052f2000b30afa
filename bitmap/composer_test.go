package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat(t *testing.T) {
	tests := []struct {
		name string
		imgs []*Image
		want *Image
	}{
		{
			name: "nothing",
			imgs: nil,
			want: &Image{Bits: []byte{}},
		},
		{
			name: "single",
			imgs: []*Image{fromRows("#.", ".#")},
			want: fromRows("#.", ".#"),
		},
		{
			name: "same width",
			imgs: []*Image{fromRows("##"), fromRows(".#", "#.")},
			want: fromRows("##", ".#", "#."),
		},
		{
			name: "narrower is padded",
			imgs: []*Image{fromRows("#"), nil, fromRows("###"), fromRows("..", "##")},
			want: fromRows("#..", "###", "...", "##."),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Concat(tt.imgs...)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got.Bits, got.Width*got.Height)
		})
	}
}

func TestComposer_Feed(t *testing.T) {
	c := NewComposer()
	c.Append(fromRows("##"))
	c.Feed(2)
	c.Append(fromRows("#."))
	assert.Equal(t, fromRows("##", "..", "..", "#."), c.Image())
}
