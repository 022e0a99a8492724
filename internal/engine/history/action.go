package history

import "time"

// Kind tags what an Action does: a plain enum the journal can switch on
// instead of a polymorphic Command interface.
type Kind uint8

const (
	// KindInsert records that text was inserted into the document.
	KindInsert Kind = iota
	// KindDelete records that text was removed from the document.
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is one entry in the journal. Start and End are document offsets
// at the time the action was captured. CapturedText holds whatever text
// must be replayed to reverse or repeat the action:
//
//   - Insert: the text that was inserted — reinserted on redo.
//   - Delete: the text that was removed — reinserted on undo.
//
// GroupID partitions the history into atomically undoable/redoable runs;
// Timestamp feeds the coalescing window check.
type Action struct {
	Kind         Kind
	Start        int64
	End          int64
	CapturedText string
	GroupID      uint64
	Timestamp    time.Time
}

func (a Action) length() int64 {
	return a.End - a.Start
}
