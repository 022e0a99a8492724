package chunk

// Capacity bounds for a chunk buffer's configured size.
const (
	MinCapacity     = 32 * 1024
	MaxCapacity     = 32 * 1024 * 1024
	DefaultCapacity = 64 * 1024
	SingleBufferCap = 32 * 1024 * 1024
)

// ClampCapacity clamps a requested chunk capacity to [MinCapacity, MaxCapacity].
func ClampCapacity(c int) int {
	if c <= 0 {
		return DefaultCapacity
	}
	if c < MinCapacity {
		return MinCapacity
	}
	if c > MaxCapacity {
		return MaxCapacity
	}
	return c
}

// Pool owns an ordered collection of chunk buffers. Buffers are addressed
// by a stable id that is not reused before the next Reset, so a piece's
// buffer_id reference remains valid across chunk removal elsewhere in the
// pool.
//
// Pool order (the sequence returned by Order) reflects chunk creation
// order, which coincides with document order only for the simple
// single-append-per-chunk layout; general edits must resolve document
// order through the piece index, not through pool order.
type Pool struct {
	capacity     int
	singleBuffer bool
	chunks       map[uint32]*Buffer
	order        []uint32
	nextID       uint32
	refs         map[uint32]int
}

// NewPool creates a pool with the given per-chunk capacity. If
// singleBuffer is set, the capacity is forced to SingleBufferCap; that is
// the only effect of the flag. AppendChunk allocates a new chunk on every
// call in both modes, whether or not existing chunks still have room.
func NewPool(capacity int, singleBuffer bool) *Pool {
	c := ClampCapacity(capacity)
	if singleBuffer {
		c = SingleBufferCap
	}
	return &Pool{
		capacity:     c,
		singleBuffer: singleBuffer,
		chunks:       make(map[uint32]*Buffer),
		refs:         make(map[uint32]int),
	}
}

// Capacity returns the per-chunk capacity C.
func (p *Pool) Capacity() int {
	return p.capacity
}

// SingleBuffer reports whether the pool is in single-buffer mode.
func (p *Pool) SingleBuffer() bool {
	return p.singleBuffer
}

// Len returns the number of chunks currently held by the pool.
func (p *Pool) Len() int {
	return len(p.order)
}

// AppendChunk allocates a new, empty chunk and returns its id. The chunk
// starts with a reference count of 1: the caller is expected to link
// exactly one piece to it immediately.
func (p *Pool) AppendChunk() uint32 {
	id := p.nextID
	p.nextID++
	p.chunks[id] = NewBuffer(p.capacity)
	p.order = append(p.order, id)
	p.refs[id] = 1
	return id
}

// Retain records that one more piece now references id (e.g. a split
// turned one piece referencing id into two).
func (p *Pool) Retain(id uint32) {
	p.refs[id]++
}

// RefCount returns how many live pieces reference id.
func (p *Pool) RefCount(id uint32) int {
	return p.refs[id]
}

// Release records that one fewer piece references id. Once the count
// reaches zero the chunk is removed from the pool outright, regardless
// of any bytes still physically present in it — nothing addresses it
// any longer.
func (p *Pool) Release(id uint32) {
	p.refs[id]--
	if p.refs[id] <= 0 {
		delete(p.refs, id)
		p.RemoveChunk(id)
	}
}

// Chunk fetches a chunk by id.
func (p *Pool) Chunk(id uint32) (*Buffer, bool) {
	b, ok := p.chunks[id]
	return b, ok
}

// MustChunk fetches a chunk by id, for callers holding an id known to be
// valid (e.g. a piece's buffer_id).
func (p *Pool) MustChunk(id uint32) *Buffer {
	return p.chunks[id]
}

// RemoveChunk discards a chunk, whatever characters it still holds.
// Release calls it once no piece references the chunk any longer.
func (p *Pool) RemoveChunk(id uint32) {
	delete(p.chunks, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// TailID returns the id of the most recently appended chunk and true, or
// (0, false) if the pool holds no chunks.
func (p *Pool) TailID() (uint32, bool) {
	if len(p.order) == 0 {
		return 0, false
	}
	return p.order[len(p.order)-1], true
}

// Order returns chunk ids in pool (creation) order.
func (p *Pool) Order() []uint32 {
	out := make([]uint32, len(p.order))
	copy(out, p.order)
	return out
}

// Reset discards all chunks, restoring the pool to its empty state; ids
// are numbered from zero again afterwards.
func (p *Pool) Reset() {
	p.chunks = make(map[uint32]*Buffer)
	p.order = nil
	p.nextID = 0
	p.refs = make(map[uint32]int)
}
