package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/textengine/internal/engine/chunk"
	"github.com/dshills/textengine/internal/engine/history"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content loaded at construction time via
// Load.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithChunkCapacity sets the per-chunk capacity C, clamped to
// [chunk.MinCapacity, chunk.MaxCapacity].
func WithChunkCapacity(capacity int) Option {
	return func(e *Engine) {
		e.chunkCapacity = chunk.ClampCapacity(capacity)
	}
}

// WithSingleBuffer forces the chunk capacity to chunk.SingleBufferCap.
// Appends fill the tail chunk before another is allocated, as in every
// mode; a mid-document insert still places its text in a newly allocated
// chunk.
func WithSingleBuffer() Option {
	return func(e *Engine) {
		e.singleBuffer = true
	}
}

// WithThrowOnError switches the error policy from log-and-return-sentinel
// to raise-fatal.
func WithThrowOnError() Option {
	return func(e *Engine) {
		e.throwOnError = true
	}
}

// WithLogger installs the logrus.Logger used for tagged diagnostics. The
// default is logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMaxHistoryGroups bounds the undo/redo journal to at most n distinct
// groups. Non-positive values fall back to
// history.DefaultMaxGroups.
func WithMaxHistoryGroups(n int) Option {
	return func(e *Engine) {
		e.maxHistoryGroups = n
	}
}

// WithListener installs l as the engine's content listener.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		if l != nil {
			e.listener = l
		}
	}
}

// WithHistoryListener installs l as the journal's notification sink
// (on_undo, on_redo, on_change, on_stack_change).
func WithHistoryListener(l history.Listener) Option {
	return func(e *Engine) {
		e.historyListener = l
	}
}
