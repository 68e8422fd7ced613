package pixbuf

// A Snapshot is a read-only copy of a Buffer, taken when a filter starts.
// Neighbourhood filters read from it so pixels they have already written
// never feed back into later pixels of the same pass.
type Snapshot struct {
	width  int
	height int
	pix    []byte
}

func (b *Buffer) Snapshot() Snapshot {
	s := Snapshot{width: b.Width, height: b.Height, pix: make([]byte, len(b.Pix))}
	copy(s.pix, b.Pix)
	return s
}

func (s Snapshot) Width() int  { return s.width }
func (s Snapshot) Height() int { return s.height }

// At returns channel c of pixel (x,y). No bounds checking.
func (s Snapshot) At(x, y, c int) byte { return s.pix[Index(x, y, s.width, c)] }

// In reports whether (x,y) lies inside the image.
func (s Snapshot) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.width && y < s.height
}
