// Package engine provides the core in-memory text engine: a chunked
// buffer pool, an order-statistics piece index and an undo/redo journal,
// combined into a single thread-safe facade.
//
// # Architecture
//
// The engine is built on three sub-packages:
//
//   - chunk: fixed-capacity character buffers, pooled and addressed by a
//     stable id, each tracking its own newline positions
//   - piece: an order-statistics augmented red-black tree of Piece
//     records, each a (buffer_id, start, length) window into one chunk
//   - history: an array-plus-cursor undo/redo journal with grouping and
//     coalescing, replaying edits back through the engine via the
//     Replayer interface
//
// A document's content is never stored contiguously. It is the
// concatenation, in piece-tree order, of the character windows each
// piece names into its chunk. Editing moves pieces and chunk references
// around; it very rarely copies the bytes of unrelated text.
//
// # Thread Safety
//
// All Engine operations are thread-safe. A single mutex serializes
// mutation and reads; the *Locked method pattern (insertLocked,
// deleteLocked, ...) documents which methods assume that lock is already
// held, so the journal can replay an undo or redo without recursively
// acquiring it.
//
// # Basic Usage
//
//	e := engine.New()
//	e.Insert(0, "Hello, World!")
//	text := e.Text() // "Hello, World!"
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//	e.Undo() // "Hello, World!"
//
// # Loading Content
//
//	e := engine.New(engine.WithContent("initial content"))
//	e.Load("replacement content")
//
// # Undo/Redo
//
//	e := engine.New()
//	e.Insert(0, "World")
//	e.Insert(0, "Hello ")
//	e.Undo() // removes "Hello "
//	e.Undo() // removes "World"
//	e.Redo() // restores "World"
//
// An insert that starts where the previous one ended, within one second
// of it, coalesces into the same undo step.
//
// Group multiple edits into a single undo unit:
//
//	e.BeginBatch()
//	e.Delete(0, 5)
//	e.Insert(0, "fn")
//	e.Insert(2, " main()")
//	e.EndBatch()
//	e.Undo() // undoes all three edits at once
//
// Checkpoints let a caller undo or redo to a remembered position rather
// than one group at a time:
//
//	cp := e.Checkpoint()
//	e.Insert(0, "draft text")
//	e.UndoToCheckpoint(cp)
//
// # Construction Parameters
//
//	e := engine.New(
//	    engine.WithContent("initial"),
//	    engine.WithChunkCapacity(64*1024),
//	    engine.WithMaxHistoryGroups(500),
//	    engine.WithThrowOnError(),
//	)
//
// # Error Handling
//
// By default, a failed operation logs a tagged diagnostic through the
// configured logrus.Logger and returns one of the sentinel errors
// (ErrOutOfRange, ErrEmptyDocument, ErrInvalidPattern, ErrInternal).
// WithThrowOnError switches to raising a fatal panic carrying an *Error
// instead.
//
// # Listeners
//
// A Listener receives synchronous notification after every mutation
// completes, before the triggering method returns. A history.Listener
// installed via WithHistoryListener receives the journal's own
// on_undo/on_redo/on_change/on_stack_change notifications.
package engine
