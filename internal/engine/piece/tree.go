package piece

// None is the sentinel node index, meaning "no node". Index 0 in the arena
// is permanently reserved for it.
const None uint32 = 0

type color uint8

const (
	black color = iota
	red
)

type node struct {
	piece      Piece
	left       uint32
	right      uint32
	parent     uint32
	color      color
	subtreeLen int64 // piece.Length + subtree length of left + right
}

// Tree is a red-black tree of Pieces, ordered by in-order position rather
// than by a comparable key (see package doc comment).
type Tree struct {
	nodes []node
	root  uint32
	free  []uint32
}

// NewTree creates an empty piece index.
func NewTree() *Tree {
	t := &Tree{
		// nodes[None] is the sentinel: always black, zero length, and its
		// own child on both sides so traversal helpers never need a nil
		// check distinct from "index equals None".
		nodes: make([]node, 1, 64),
	}
	t.nodes[None] = node{left: None, right: None, parent: None, color: black}
	t.root = None
	return t
}

// Len returns the total character length across all pieces.
func (t *Tree) Len() int64 {
	return t.nodes[t.root].subtreeLen
}

// IsEmpty reports whether the tree holds no pieces.
func (t *Tree) IsEmpty() bool {
	return t.root == None
}

// Piece returns the piece stored at idx.
func (t *Tree) Piece(idx uint32) Piece {
	return t.nodes[idx].piece
}

// SetPiece replaces the piece stored at idx (used when an in-place edit
// grows or shrinks a piece's length) and refreshes cached subtree lengths
// up to the root.
func (t *Tree) SetPiece(idx uint32, p Piece) {
	t.nodes[idx].piece = p
	t.updateSizeChain(idx)
}

func (t *Tree) length(idx uint32) int64 {
	return t.nodes[idx].subtreeLen
}

func (t *Tree) updateSize(idx uint32) {
	n := &t.nodes[idx]
	n.subtreeLen = n.piece.Length + t.length(n.left) + t.length(n.right)
}

func (t *Tree) updateSizeChain(idx uint32) {
	for cur := idx; cur != None; cur = t.nodes[cur].parent {
		t.updateSize(cur)
	}
}

func (t *Tree) alloc(p Piece) uint32 {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.nodes))
		t.nodes = append(t.nodes, node{})
	}
	t.nodes[idx] = node{piece: p, left: None, right: None, parent: None, color: red, subtreeLen: p.Length}
	return idx
}

func (t *Tree) release(idx uint32) {
	t.nodes[idx] = node{}
	t.free = append(t.free, idx)
}

// --- rotations -------------------------------------------------------------

func (t *Tree) leftRotate(x uint32) {
	y := t.nodes[x].right
	t.nodes[x].right = t.nodes[y].left
	if t.nodes[y].left != None {
		t.nodes[t.nodes[y].left].parent = x
	}
	t.nodes[y].parent = t.nodes[x].parent
	if t.nodes[x].parent == None {
		t.root = y
	} else if x == t.nodes[t.nodes[x].parent].left {
		t.nodes[t.nodes[x].parent].left = y
	} else {
		t.nodes[t.nodes[x].parent].right = y
	}
	t.nodes[y].left = x
	t.nodes[x].parent = y

	t.updateSize(x)
	t.updateSize(y)
}

func (t *Tree) rightRotate(x uint32) {
	y := t.nodes[x].left
	t.nodes[x].left = t.nodes[y].right
	if t.nodes[y].right != None {
		t.nodes[t.nodes[y].right].parent = x
	}
	t.nodes[y].parent = t.nodes[x].parent
	if t.nodes[x].parent == None {
		t.root = y
	} else if x == t.nodes[t.nodes[x].parent].right {
		t.nodes[t.nodes[x].parent].right = y
	} else {
		t.nodes[t.nodes[x].parent].left = y
	}
	t.nodes[y].right = x
	t.nodes[x].parent = y

	t.updateSize(x)
	t.updateSize(y)
}

// --- traversal ---------------------------------------------------------

func (t *Tree) minimum(x uint32) uint32 {
	for t.nodes[x].left != None {
		x = t.nodes[x].left
	}
	return x
}

func (t *Tree) maximum(x uint32) uint32 {
	for t.nodes[x].right != None {
		x = t.nodes[x].right
	}
	return x
}

// MinUnder returns the leftmost descendant of the subtree rooted at idx.
func (t *Tree) MinUnder(idx uint32) uint32 {
	return t.minimum(idx)
}

// MaxUnder returns the rightmost descendant of the subtree rooted at idx.
func (t *Tree) MaxUnder(idx uint32) uint32 {
	return t.maximum(idx)
}

// First returns the first piece in document order.
func (t *Tree) First() (uint32, bool) {
	if t.root == None {
		return None, false
	}
	return t.minimum(t.root), true
}

// Last returns the last piece in document order.
func (t *Tree) Last() (uint32, bool) {
	if t.root == None {
		return None, false
	}
	return t.maximum(t.root), true
}

// Next returns the in-order successor of idx.
func (t *Tree) Next(idx uint32) (uint32, bool) {
	if t.nodes[idx].right != None {
		return t.minimum(t.nodes[idx].right), true
	}
	x := idx
	y := t.nodes[x].parent
	for y != None && x == t.nodes[y].right {
		x = y
		y = t.nodes[y].parent
	}
	if y == None {
		return None, false
	}
	return y, true
}

// Prev returns the in-order predecessor of idx.
func (t *Tree) Prev(idx uint32) (uint32, bool) {
	if t.nodes[idx].left != None {
		return t.maximum(t.nodes[idx].left), true
	}
	x := idx
	y := t.nodes[x].parent
	for y != None && x == t.nodes[y].left {
		x = y
		y = t.nodes[y].parent
	}
	if y == None {
		return None, false
	}
	return y, true
}

// DocOffset returns the document offset of the first character of the
// piece at idx, computed by accumulated left-subtree lengths rather than
// from Piece.Start (which is buffer-local — see package doc comment).
func (t *Tree) DocOffset(idx uint32) int64 {
	offset := t.length(t.nodes[idx].left)
	for cur, par := idx, t.nodes[idx].parent; par != None; cur, par = par, t.nodes[par].parent {
		if cur == t.nodes[par].right {
			offset += t.length(t.nodes[par].left) + t.nodes[par].piece.Length
		}
	}
	return offset
}

// Locate returns the piece containing the given document offset and the
// number of characters between the piece's logical start and offset (the
// "remainder"). offset must be in [0, Len()); offset == Len() is not
// locatable (callers append instead).
func (t *Tree) Locate(offset int64) (idx uint32, remainder int64, ok bool) {
	if offset < 0 || offset >= t.Len() {
		return None, 0, false
	}
	cur := t.root
	acc := offset
	for cur != None {
		n := &t.nodes[cur]
		leftLen := t.length(n.left)
		if acc < leftLen {
			cur = n.left
			continue
		}
		acc -= leftLen
		if acc < n.piece.Length {
			return cur, acc, true
		}
		acc -= n.piece.Length
		cur = n.right
	}
	return None, 0, false
}

// --- insertion -----------------------------------------------------------

// InsertFirst inserts p as the sole piece of an empty tree.
func (t *Tree) InsertFirst(p Piece) uint32 {
	z := t.alloc(p)
	t.nodes[z].color = black
	t.root = z
	return z
}

// InsertAfter inserts p as the in-order successor of the piece at idx.
func (t *Tree) InsertAfter(idx uint32, p Piece) uint32 {
	z := t.alloc(p)
	if t.nodes[idx].right == None {
		t.nodes[idx].right = z
		t.nodes[z].parent = idx
	} else {
		succ := t.minimum(t.nodes[idx].right)
		t.nodes[succ].left = z
		t.nodes[z].parent = succ
	}
	t.updateSizeChain(z)
	t.insertFixup(z)
	return z
}

// InsertBefore inserts p as the in-order predecessor of the piece at idx.
func (t *Tree) InsertBefore(idx uint32, p Piece) uint32 {
	z := t.alloc(p)
	if t.nodes[idx].left == None {
		t.nodes[idx].left = z
		t.nodes[z].parent = idx
	} else {
		pred := t.maximum(t.nodes[idx].left)
		t.nodes[pred].right = z
		t.nodes[z].parent = pred
	}
	t.updateSizeChain(z)
	t.insertFixup(z)
	return z
}

func (t *Tree) insertFixup(z uint32) {
	for t.nodes[t.nodes[z].parent].color == red {
		p := t.nodes[z].parent
		gp := t.nodes[p].parent
		if p == t.nodes[gp].left {
			u := t.nodes[gp].right
			if t.nodes[u].color == red {
				t.nodes[p].color = black
				t.nodes[u].color = black
				t.nodes[gp].color = red
				z = gp
				continue
			}
			if z == t.nodes[p].right {
				z = p
				t.leftRotate(z)
				p = t.nodes[z].parent
				gp = t.nodes[p].parent
			}
			t.nodes[p].color = black
			t.nodes[gp].color = red
			t.rightRotate(gp)
		} else {
			u := t.nodes[gp].left
			if t.nodes[u].color == red {
				t.nodes[p].color = black
				t.nodes[u].color = black
				t.nodes[gp].color = red
				z = gp
				continue
			}
			if z == t.nodes[p].left {
				z = p
				t.rightRotate(z)
				p = t.nodes[z].parent
				gp = t.nodes[p].parent
			}
			t.nodes[p].color = black
			t.nodes[gp].color = red
			t.leftRotate(gp)
		}
	}
	t.nodes[t.root].color = black
}

// Split splits the piece at idx at local position k (0 < k < piece.Length)
// into two adjacent pieces: the node at idx is shrunk to cover [0,k) of
// its original span, and a new node covering [k,length) is inserted as its
// immediate in-order successor. Returns (idx, newIdx) in document order.
func (t *Tree) Split(idx uint32, k int64) (uint32, uint32) {
	orig := t.nodes[idx].piece
	left := Piece{BufferID: orig.BufferID, Start: orig.Start, Length: k}
	right := Piece{BufferID: orig.BufferID, Start: orig.Start + k, Length: orig.Length - k}

	t.SetPiece(idx, left)
	newIdx := t.InsertAfter(idx, right)
	return idx, newIdx
}

// --- deletion --------------------------------------------------------------

func (t *Tree) transplant(u, v uint32) {
	up := t.nodes[u].parent
	if up == None {
		t.root = v
	} else if u == t.nodes[up].left {
		t.nodes[up].left = v
	} else {
		t.nodes[up].right = v
	}
	t.nodes[v].parent = up
}

// Delete removes the piece at idx from the tree.
func (t *Tree) Delete(idx uint32) {
	z := idx
	y := z
	yOriginalColor := t.nodes[y].color
	var x, xParent uint32

	if t.nodes[z].left == None {
		x = t.nodes[z].right
		xParent = t.nodes[z].parent
		t.transplant(z, t.nodes[z].right)
	} else if t.nodes[z].right == None {
		x = t.nodes[z].left
		xParent = t.nodes[z].parent
		t.transplant(z, t.nodes[z].left)
	} else {
		y = t.minimum(t.nodes[z].right)
		yOriginalColor = t.nodes[y].color
		x = t.nodes[y].right
		if t.nodes[y].parent == z {
			xParent = y
		} else {
			xParent = t.nodes[y].parent
			t.transplant(y, t.nodes[y].right)
			t.nodes[y].right = t.nodes[z].right
			t.nodes[t.nodes[y].right].parent = y
		}
		t.transplant(z, y)
		t.nodes[y].left = t.nodes[z].left
		t.nodes[t.nodes[y].left].parent = y
		t.nodes[y].color = t.nodes[z].color
	}

	if yOriginalColor == black {
		t.deleteFixup(x, xParent)
	}

	// Refresh cached subtree lengths from the lowest structurally-changed
	// position up to the root. Rotations inside deleteFixup already keep
	// their own two nodes consistent; this call recomputes every ancestor
	// whose child set changed as a result of the transplant(s) above.
	if xParent != None {
		t.updateSizeChain(xParent)
	} else if t.root != None {
		t.updateSize(t.root)
	}

	t.release(z)
}

// deleteFixup restores red-black invariants after a black node has been
// removed. x is the node that moved into y's original position (possibly
// None); xParent is tracked explicitly because x may be the sentinel,
// which has no stable parent of its own.
func (t *Tree) deleteFixup(x, xParent uint32) {
	for x != t.root && t.nodeColor(x) == black {
		if x == t.nodes[xParent].left {
			w := t.nodes[xParent].right
			if t.nodes[w].color == red {
				t.nodes[w].color = black
				t.nodes[xParent].color = red
				t.leftRotate(xParent)
				w = t.nodes[xParent].right
			}
			if t.nodeColor(t.nodes[w].left) == black && t.nodeColor(t.nodes[w].right) == black {
				t.nodes[w].color = red
				x = xParent
				xParent = t.nodes[x].parent
				continue
			}
			if t.nodeColor(t.nodes[w].right) == black {
				t.nodes[t.nodes[w].left].color = black
				t.nodes[w].color = red
				t.rightRotate(w)
				w = t.nodes[xParent].right
			}
			t.nodes[w].color = t.nodes[xParent].color
			t.nodes[xParent].color = black
			t.nodes[t.nodes[w].right].color = black
			t.leftRotate(xParent)
			x = t.root
			xParent = None
		} else {
			w := t.nodes[xParent].left
			if t.nodes[w].color == red {
				t.nodes[w].color = black
				t.nodes[xParent].color = red
				t.rightRotate(xParent)
				w = t.nodes[xParent].left
			}
			if t.nodeColor(t.nodes[w].right) == black && t.nodeColor(t.nodes[w].left) == black {
				t.nodes[w].color = red
				x = xParent
				xParent = t.nodes[x].parent
				continue
			}
			if t.nodeColor(t.nodes[w].left) == black {
				t.nodes[t.nodes[w].right].color = black
				t.nodes[w].color = red
				t.leftRotate(w)
				w = t.nodes[xParent].left
			}
			t.nodes[w].color = t.nodes[xParent].color
			t.nodes[xParent].color = black
			t.nodes[t.nodes[w].left].color = black
			t.rightRotate(xParent)
			x = t.root
			xParent = None
		}
	}
	t.setColorIfReal(x, black)
}

// nodeColor reports the color of idx, treating the sentinel as black.
func (t *Tree) nodeColor(idx uint32) color {
	return t.nodes[idx].color
}

// setColorIfReal sets the color of idx unless idx is the sentinel, whose
// color must always stay black.
func (t *Tree) setColorIfReal(idx uint32, c color) {
	if idx != None {
		t.nodes[idx].color = c
	}
}

// BlackHeight returns the black-height of the tree (the number of black
// nodes on any root-to-nil path), for invariant checking in tests.
func (t *Tree) BlackHeight() int {
	h := 0
	for cur := t.root; cur != None; cur = t.nodes[cur].left {
		if t.nodes[cur].color == black {
			h++
		}
	}
	return h
}

// CheckInvariants walks the tree and reports the first red-black or
// augmentation invariant violation found, for use in tests.
func (t *Tree) CheckInvariants() error {
	if t.nodes[None].color != black {
		return errInvariant("sentinel is not black")
	}
	if t.root != None && t.nodes[t.root].color != black {
		return errInvariant("root is not black")
	}
	_, _, err := t.checkSubtree(t.root)
	return err
}

func (t *Tree) checkSubtree(idx uint32) (blackHeight int, size int64, err error) {
	if idx == None {
		return 0, 0, nil
	}
	n := &t.nodes[idx]
	if n.piece.Length <= 0 {
		return 0, 0, errInvariant("piece with non-positive length")
	}
	if n.color == red {
		if t.nodes[n.left].color == red || t.nodes[n.right].color == red {
			return 0, 0, errInvariant("red node with red child")
		}
	}
	lh, lsize, err := t.checkSubtree(n.left)
	if err != nil {
		return 0, 0, err
	}
	rh, rsize, err := t.checkSubtree(n.right)
	if err != nil {
		return 0, 0, err
	}
	if lh != rh {
		return 0, 0, errInvariant("unequal black heights")
	}
	total := lsize + rsize + n.piece.Length
	if total != n.subtreeLen {
		return 0, 0, errInvariant("cached subtree length mismatch")
	}
	bh := lh
	if n.color == black {
		bh++
	}
	return bh, total, nil
}

type invariantError string

func (e invariantError) Error() string { return string(e) }

func errInvariant(msg string) error { return invariantError(msg) }
