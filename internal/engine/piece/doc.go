// Package piece implements the piece index: a red-black tree of Piece
// records, each a reference to a contiguous run of characters inside one
// chunk buffer.
//
// The tree is NOT ordered by comparing a key field on Piece. Piece.Start is
// a buffer-local offset, not a document offset, so two pieces cannot be
// ordered by comparing Start values. Instead, the
// tree's in-order sequence IS the document order: pieces are always
// inserted at an explicit position (InsertAfter/InsertBefore/Split) rather
// than located by key comparison, and each node carries a cached subtree
// length so a document offset can be mapped to its piece in O(log n) by
// accumulating left-subtree lengths on the way down (an order-statistics
// tree, per CLRS 14.1) instead of relying on Start as an absolute offset.
//
// The tree is implemented as an arena: nodes live in a slice addressed by
// index, with a reserved sentinel at index 0 standing in for every nil
// child/parent link (the classic CLRS T.nil trick). This avoids pointer
// cycles and keeps deleted slots on a free list for reuse, well suited to
// arena-based storage in a language without automatic reclamation of
// cyclic structures.
package piece
