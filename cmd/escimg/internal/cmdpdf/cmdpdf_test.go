package cmdpdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusq/escimg/bitmap"
)

func Test_joinPages(t *testing.T) {
	a := &bitmap.Image{Width: 2, Height: 1, Bits: []byte{1, 1}}
	b := &bitmap.Image{Width: 1, Height: 1, Bits: []byte{1}}

	tests := []struct {
		name string
		feed int
		want *bitmap.Image
	}{
		{"no feed", 0, &bitmap.Image{Width: 2, Height: 2, Bits: []byte{1, 1, 1, 0}}},
		{"feed", 1, &bitmap.Image{Width: 2, Height: 3, Bits: []byte{1, 1, 0, 0, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinPages([]*bitmap.Image{a, b}, tt.feed))
		})
	}
}

func Test_printSummary(t *testing.T) {
	var buf bytes.Buffer
	m := &bitmap.Image{Width: 550, Height: 712, Bits: make([]byte, 550*712)}
	require.NoError(t, printSummary(&buf, [][]string{row("1", m, "doc-001.mono.png")}))
	assert.Contains(t, buf.String(), "doc-001.mono.png")
	assert.Contains(t, buf.String(), "712")
}
