package history

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultMaxGroups is the bound on distinct groups retained in the
// journal when no explicit limit is configured.
const DefaultMaxGroups = 200

// MergeWindow is how long after the previous action a new action of the
// same kind may still coalesce into it.
const MergeWindow = time.Second

// ErrNothingToUndo is returned by Undo when the cursor is already at the
// start of the history.
var ErrNothingToUndo = errors.New("history: nothing to undo")

// ErrNothingToRedo is returned by Redo when the cursor is already at the
// end of the history.
var ErrNothingToRedo = errors.New("history: nothing to redo")

// Journal is the undo/redo log: an ordered slice of Action records plus
// a cursor that splits applied history (left of the cursor) from undone,
// redoable history (right of the cursor).
type Journal struct {
	mu sync.Mutex

	history []Action
	cursor  int

	groupSeq   uint64
	groupCount int
	maxGroups  int
	unlimited  bool

	batching       bool
	batchGroup     uint64
	batchGroupUsed bool

	listener Listener
}

// NewJournal creates a journal bounded to maxGroups distinct groups. A
// non-positive maxGroups falls back to DefaultMaxGroups.
func NewJournal(maxGroups int) *Journal {
	if maxGroups <= 0 {
		maxGroups = DefaultMaxGroups
	}
	return &Journal{
		maxGroups: maxGroups,
		listener:  NopListener{},
	}
}

// SetListener installs l as the journal's notification sink. A nil l
// restores NopListener.
func (j *Journal) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	j.mu.Lock()
	j.listener = l
	j.mu.Unlock()
}

// SetUnlimited disables the group bound when v is true.
func (j *Journal) SetUnlimited(v bool) {
	j.mu.Lock()
	j.unlimited = v
	j.mu.Unlock()
}

// Len returns the number of action records currently retained.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.history)
}

// CanUndo reports whether Undo would have an action to replay.
func (j *Journal) CanUndo() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cursor > 0
}

// CanRedo reports whether Redo would have an action to replay.
func (j *Journal) CanRedo() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cursor < len(j.history)
}

// Clear discards the entire history and resets the cursor and group
// counters.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.history = nil
	j.cursor = 0
	j.groupCount = 0
	j.batching = false
	j.batchGroupUsed = false
}

// Capture records a single edit. Truncates any redoable tail first (
// a new capture with the cursor short of the end discards the undone
// entries it would otherwise sit in front of), then either coalesces
// into the previous action or appends a new one, per the merge predicate
// decided for this engine (see canCoalesce).
func (j *Journal) Capture(kind Kind, start, end int64, capturedText string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()

	if j.cursor < len(j.history) {
		for i := j.cursor; i < len(j.history); i++ {
			if i == 0 || j.history[i].GroupID != j.history[i-1].GroupID {
				j.groupCount--
			}
		}
		j.history = j.history[:j.cursor]
	}

	groupID, merged := j.resolveGroup(kind, start, end, now)
	if merged {
		j.mergeInto(&j.history[len(j.history)-1], kind, start, end, capturedText, now)
	} else {
		j.history = append(j.history, Action{
			Kind:         kind,
			Start:        start,
			End:          end,
			CapturedText: capturedText,
			GroupID:      groupID,
			Timestamp:    now,
		})
	}
	j.cursor = len(j.history)
	j.enforceBound()

	j.listener.OnChange(start, end, now)
	j.listener.OnStackChange(len(j.history))
}

// resolveGroup decides which group_id a newly captured action belongs
// to, and whether it should merge into the action already at the top of
// the history instead of appending.
func (j *Journal) resolveGroup(kind Kind, start, end int64, now time.Time) (uint64, bool) {
	if j.batching {
		if !j.batchGroupUsed {
			j.groupSeq++
			j.batchGroup = j.groupSeq
			j.batchGroupUsed = true
			j.groupCount++
		}
		return j.batchGroup, false
	}
	if j.canCoalesce(kind, start, end, now) {
		return j.history[len(j.history)-1].GroupID, true
	}
	j.groupSeq++
	j.groupCount++
	return j.groupSeq, false
}

// canCoalesce implements the merge predicate: same kind, within the
// merge window, and abutting the previous action's boundary. Insert runs
// continue where the last one ended; Delete runs continue either
// backspace-style (new.End meets prev.Start) or forward-delete-style
// (new.Start repeats prev.Start).
func (j *Journal) canCoalesce(kind Kind, start, end int64, now time.Time) bool {
	if len(j.history) == 0 {
		return false
	}
	prev := j.history[len(j.history)-1]
	if prev.Kind != kind {
		return false
	}
	if now.Sub(prev.Timestamp) > MergeWindow {
		return false
	}
	switch kind {
	case KindInsert:
		return start == prev.End
	case KindDelete:
		return end == prev.Start || start == prev.Start
	default:
		return false
	}
}

// mergeInto extends prev in place to absorb a newly coalesced action.
func (j *Journal) mergeInto(prev *Action, kind Kind, start, end int64, capturedText string, now time.Time) {
	switch kind {
	case KindInsert:
		prev.End = end
		prev.CapturedText += capturedText
	case KindDelete:
		if end == prev.Start {
			// Backspace-style: the new deletion abuts the left edge of
			// the run. CapturedText order must mirror document order.
			prev.Start = start
			prev.CapturedText = capturedText + prev.CapturedText
		} else {
			// Forward-delete-style: the cursor stayed put, so the run
			// grows to the right by however much this capture removed.
			prev.End += end - start
			prev.CapturedText += capturedText
		}
	}
	prev.Timestamp = now
}

// enforceBound drops the oldest group, entry by entry, until the journal
// holds no more than maxGroups distinct groups. Unbounded journals (set
// via SetUnlimited) skip this entirely.
func (j *Journal) enforceBound() {
	if j.unlimited {
		return
	}
	for j.groupCount > j.maxGroups && len(j.history) > 0 {
		oldest := j.history[0].GroupID
		n := 0
		for n < len(j.history) && j.history[n].GroupID == oldest {
			n++
		}
		j.history = j.history[n:]
		j.cursor -= n
		if j.cursor < 0 {
			j.cursor = 0
		}
		j.groupCount--
	}
}

// Undo replays every action in the most recently applied group, in
// reverse order, against r. Returns the caret position the engine should
// place the cursor at afterward.
func (j *Journal) Undo(r Replayer) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cursor == 0 {
		return 0, ErrNothingToUndo
	}

	group := j.history[j.cursor-1].GroupID
	var last Action
	for j.cursor > 0 && j.history[j.cursor-1].GroupID == group {
		act := j.history[j.cursor-1]
		if err := replayUndo(r, act); err != nil {
			return 0, fmt.Errorf("history: undo group %d: %w", group, err)
		}
		j.cursor--
		last = act
	}

	caret := last.Start
	if last.Kind == KindDelete {
		caret = last.End
	}
	j.listener.OnUndo(caret)
	j.listener.OnStackChange(len(j.history))
	return caret, nil
}

// Redo replays every action in the next group past the cursor, in
// forward order, against r.
func (j *Journal) Redo(r Replayer) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cursor == len(j.history) {
		return 0, ErrNothingToRedo
	}

	group := j.history[j.cursor].GroupID
	var last Action
	for j.cursor < len(j.history) && j.history[j.cursor].GroupID == group {
		act := j.history[j.cursor]
		if err := replayRedo(r, act); err != nil {
			return 0, fmt.Errorf("history: redo group %d: %w", group, err)
		}
		j.cursor++
		last = act
	}

	caret := last.End
	if last.Kind == KindDelete {
		caret = last.Start
	}
	j.listener.OnRedo(caret)
	j.listener.OnStackChange(len(j.history))
	return caret, nil
}

func replayUndo(r Replayer, act Action) error {
	switch act.Kind {
	case KindInsert:
		return r.ApplyDelete(act.Start, act.End)
	case KindDelete:
		return r.ApplyInsert(act.Start, act.CapturedText)
	default:
		return fmt.Errorf("history: unknown action kind %v", act.Kind)
	}
}

func replayRedo(r Replayer, act Action) error {
	switch act.Kind {
	case KindInsert:
		return r.ApplyInsert(act.Start, act.CapturedText)
	case KindDelete:
		return r.ApplyDelete(act.Start, act.End)
	default:
		return fmt.Errorf("history: unknown action kind %v", act.Kind)
	}
}
