// Package history implements the undo/redo journal.
//
// Rather than a Command-pattern stack where each undo entry is a
// polymorphic Command closing over buffer/cursor state, this journal is a
// flat, ordered slice of tagged Action records plus a cursor P that
// divides applied (undoable) actions from rolled-back (redoable) ones.
// Replay dispatches on Action.Kind with a plain switch instead of a
// polymorphic command hierarchy.
//
// # Grouping and coalescing
//
// Every capture is stamped with a group_id. Adjacent captures of the same
// kind, within a one-second merge window, that abut the previous action's
// boundary are coalesced into that action instead of appended as a new
// entry. A batch bracket (BeginBatch/EndBatch) freezes the group id so
// everything captured inside shares one group regardless of adjacency.
//
// # Replay
//
// The journal never touches the engine's buffers directly. Undo/Redo take
// a Replayer — the engine implements ApplyInsert/ApplyDelete — so this
// package stays free of an import cycle back to internal/engine.
package history
