package piece

// Piece references a contiguous run of characters inside one chunk buffer.
// Start is a buffer-local offset (not a document offset — see the package
// doc comment); Length is the number of characters the piece covers.
type Piece struct {
	BufferID uint32
	Start    int64
	Length   int64
}

// End returns the buffer-local offset one past the last character the
// piece covers.
func (p Piece) End() int64 {
	return p.Start + p.Length
}

// IsEmpty reports whether the piece covers zero characters. A well-formed
// piece index never contains an empty piece (length must be > 0);
// this helper exists for the intermediate values produced while splitting.
func (p Piece) IsEmpty() bool {
	return p.Length <= 0
}
