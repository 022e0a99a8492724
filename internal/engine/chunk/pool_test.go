package chunk

import "testing"

func TestPoolClampsCapacity(t *testing.T) {
	p := NewPool(8, false)
	if p.Capacity() != MinCapacity {
		t.Fatalf("expected clamped capacity %d, got %d", MinCapacity, p.Capacity())
	}

	p = NewPool(1<<40, false)
	if p.Capacity() != MaxCapacity {
		t.Fatalf("expected clamped capacity %d, got %d", MaxCapacity, p.Capacity())
	}
}

func TestPoolSingleBufferForcesCapacity(t *testing.T) {
	p := NewPool(DefaultCapacity, true)
	if p.Capacity() != SingleBufferCap {
		t.Fatalf("expected single-buffer capacity %d, got %d", SingleBufferCap, p.Capacity())
	}
}

func TestPoolAppendAndRemoveChunk(t *testing.T) {
	p := NewPool(DefaultCapacity, false)
	id1 := p.AppendChunk()
	id2 := p.AppendChunk()

	if p.Len() != 2 {
		t.Fatalf("expected 2 chunks, got %d", p.Len())
	}

	tail, ok := p.TailID()
	if !ok || tail != id2 {
		t.Fatalf("expected tail %d, got %d (ok=%v)", id2, tail, ok)
	}

	p.RemoveChunk(id1)
	if p.Len() != 1 {
		t.Fatalf("expected 1 chunk after removal, got %d", p.Len())
	}
	if _, ok := p.Chunk(id1); ok {
		t.Fatal("expected removed chunk to be gone")
	}
	// id2 must stay addressable by its original id — ids are never reused.
	if _, ok := p.Chunk(id2); !ok {
		t.Fatal("expected surviving chunk to remain addressable")
	}
}

func TestPoolIDsNeverReused(t *testing.T) {
	p := NewPool(DefaultCapacity, false)
	id1 := p.AppendChunk()
	p.RemoveChunk(id1)
	id2 := p.AppendChunk()

	if id1 == id2 {
		t.Fatalf("expected fresh id after removal, got reused id %d", id2)
	}
}
