package bitmap

// Composer stacks bitmaps one under another, producing a single continuous
// bitmap, i.e. to print all pages of a document as one receipt.
type Composer struct {
	width int
	rows  [][]byte // one slice per row, may be shorter than width.
}

// NewComposer returns a composer, the canvas width grows to fit the widest
// appended bitmap.
func NewComposer() *Composer {
	return &Composer{}
}

// Append appends the bitmap below the current content.  nil bitmaps are
// ignored.
func (c *Composer) Append(m *Image) {
	if m == nil {
		return // nothing to append
	}
	if m.Width > c.width {
		c.width = m.Width
	}
	for y := range m.Height {
		c.rows = append(c.rows, m.Bits[y*m.Width:(y+1)*m.Width])
	}
}

// Feed appends n white rows.
func (c *Composer) Feed(n int) {
	for range n {
		c.rows = append(c.rows, nil)
	}
}

// Image returns the composed bitmap.  Rows narrower than the canvas are
// padded with white on the right.
func (c *Composer) Image() *Image {
	bits := make([]byte, c.width*len(c.rows))
	for y, row := range c.rows {
		copy(bits[y*c.width:], row)
	}
	height := len(c.rows)
	if c.width == 0 {
		height = 0
	}
	return &Image{Width: c.width, Height: height, Bits: bits}
}

// Concat stacks the bitmaps vertically.
func Concat(imgs ...*Image) *Image {
	c := NewComposer()
	for _, m := range imgs {
		c.Append(m)
	}
	return c.Image()
}
