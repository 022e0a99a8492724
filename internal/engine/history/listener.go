package history

import "time"

// Replayer is implemented by the engine so the journal can reverse or
// repeat an action without importing the engine package. ApplyInsert and
// ApplyDelete must perform the edit directly, without themselves
// capturing a new journal entry.
type Replayer interface {
	ApplyInsert(start int64, text string) error
	ApplyDelete(start, end int64) error
}

// Listener receives journal notifications, mirroring the on_undo,
// on_redo, on_change and on_stack_change hooks of the engine's listener
// interface. The journal never requires a listener — NopListener
// is the default.
type Listener interface {
	OnUndo(caret int64)
	OnRedo(caret int64)
	OnChange(start, end int64, at time.Time)
	OnStackChange(size int)
}

// NopListener discards every notification.
type NopListener struct{}

func (NopListener) OnUndo(int64)                   {}
func (NopListener) OnRedo(int64)                    {}
func (NopListener) OnChange(int64, int64, time.Time) {}
func (NopListener) OnStackChange(int)               {}
