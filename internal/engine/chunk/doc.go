// Package chunk provides the fixed-capacity, insert/delete-capable character
// storage that backs the text engine's piece index.
//
// A Buffer is a mutable byte sequence with a configured capacity. Append
// and Insert do not check that capacity themselves; callers keep a buffer
// within it by consulting FreeSpace. A Buffer tracks the byte offsets of
// every newline it contains, in ascending order, so line-oriented queries
// never rescan the chunk's text.
//
// A Pool owns an ordered sequence of buffers. It is the only thing in the
// engine that allocates chunk storage: the edit engine asks the pool for
// a brand-new chunk or fetches an existing one by id, and never
// manipulates raw byte slices itself.
package chunk
