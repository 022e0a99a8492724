package history

// BeginBatch opens a batch-edit bracket: every capture until the next
// EndBatch shares one group_id, regardless of coalescing adjacency. A
// BeginBatch while a bracket is already open does nothing, and brackets
// do not nest: the first EndBatch closes the bracket.
func (j *Journal) BeginBatch() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.batching {
		return
	}
	j.batching = true
	j.batchGroupUsed = false
}

// EndBatch closes the batch opened by BeginBatch. Captures after this call
// resume ordinary per-edit grouping and coalescing.
func (j *Journal) EndBatch() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.batching = false
	j.batchGroupUsed = false
}

// CancelBatch closes the current batch without altering anything already
// captured inside it — edits already applied to the document stay applied.
// It exists as a named counterpart to EndBatch for callers that open a
// batch speculatively and decide partway through not to treat it as one
// unit going forward.
func (j *Journal) CancelBatch() {
	j.EndBatch()
}

// GroupScope runs fn with a batch bracket open around it, closing the
// bracket even if fn panics.
func (j *Journal) GroupScope(fn func()) {
	j.BeginBatch()
	defer j.EndBatch()
	fn()
}

// Checkpoint is an opaque marker for the journal's cursor at the moment
// it was taken. It is only meaningful against the Journal that produced
// it, and only until that journal's history is truncated or trimmed
// enough to evict the recorded position.
type Checkpoint int

// Checkpoint returns a marker for the journal's current cursor position.
func (j *Journal) Checkpoint() Checkpoint {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Checkpoint(j.cursor)
}

// UndoToCheckpoint undoes groups against r until the cursor reaches cp
// (or the start of the history, if cp is no longer reachable because the
// journal trimmed past it).
func (j *Journal) UndoToCheckpoint(r Replayer, cp Checkpoint) error {
	for {
		j.mu.Lock()
		reached := j.cursor <= int(cp)
		j.mu.Unlock()
		if reached {
			return nil
		}
		if _, err := j.Undo(r); err != nil {
			return err
		}
	}
}

// RedoToCheckpoint redoes groups against r until the cursor reaches cp
// (or the end of the history, if cp is beyond what remains).
func (j *Journal) RedoToCheckpoint(r Replayer, cp Checkpoint) error {
	for {
		j.mu.Lock()
		reached := j.cursor >= int(cp)
		j.mu.Unlock()
		if reached {
			return nil
		}
		if _, err := j.Redo(r); err != nil {
			return err
		}
	}
}

// GroupInfo describes a run of actions sharing one group_id, for callers
// that want to preview or label an undo/redo step without replaying it
// (e.g. "Undo: insert 14 chars").
type GroupInfo struct {
	GroupID uint64
	Kind    Kind
	Start   int64
	End     int64
	Count   int
}

// PeekUndo describes the group Undo would replay next, without replaying
// it. The second result is false when there is nothing to undo.
func (j *Journal) PeekUndo() (GroupInfo, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cursor == 0 {
		return GroupInfo{}, false
	}
	group := j.history[j.cursor-1].GroupID
	info := GroupInfo{GroupID: group, Kind: j.history[j.cursor-1].Kind}
	info.Start, info.End = j.history[j.cursor-1].Start, j.history[j.cursor-1].Start
	for i := j.cursor - 1; i >= 0 && j.history[i].GroupID == group; i-- {
		info.Count++
		if j.history[i].Start < info.Start {
			info.Start = j.history[i].Start
		}
		if j.history[i].End > info.End {
			info.End = j.history[i].End
		}
	}
	return info, true
}

// PeekRedo describes the group Redo would replay next, without replaying
// it. The second result is false when there is nothing to redo.
func (j *Journal) PeekRedo() (GroupInfo, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cursor == len(j.history) {
		return GroupInfo{}, false
	}
	group := j.history[j.cursor].GroupID
	info := GroupInfo{GroupID: group, Kind: j.history[j.cursor].Kind}
	info.Start, info.End = j.history[j.cursor].Start, j.history[j.cursor].Start
	for i := j.cursor; i < len(j.history) && j.history[i].GroupID == group; i++ {
		info.Count++
		if j.history[i].Start < info.Start {
			info.Start = j.history[i].Start
		}
		if j.history[i].End > info.End {
			info.End = j.history[i].End
		}
	}
	return info, true
}
