package persist

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/textengine/internal/engine"
)

// Snapshot serializes e's current document content, construction
// options and undo/redo journal to a single compact JSON document.
func Snapshot(e *engine.Engine) ([]byte, error) {
	data := []byte("{}")
	var err error
	set := func(path string, v interface{}) {
		if err != nil {
			return
		}
		data, err = sjson.SetBytes(data, path, v)
	}

	set("content", e.Text())
	set("options.chunk_capacity", e.ChunkCapacity())
	set("options.single_buffer", e.SingleBuffer())
	set("options.throw_on_error", e.ThrowOnError())
	set("options.max_history_groups", e.MaxHistoryGroups())
	if err != nil {
		return nil, err
	}

	history, err := e.HistorySnapshot()
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(data, "history", history)
}

// Restore builds a fresh *engine.Engine from a snapshot produced by
// Snapshot, including its undo/redo journal.
func Restore(data []byte) (*engine.Engine, error) {
	root := gjson.ParseBytes(data)

	opts := []engine.Option{
		engine.WithContent(root.Get("content").String()),
	}
	if v := root.Get("options.chunk_capacity"); v.Exists() {
		opts = append(opts, engine.WithChunkCapacity(int(v.Int())))
	}
	if root.Get("options.single_buffer").Bool() {
		opts = append(opts, engine.WithSingleBuffer())
	}
	if root.Get("options.throw_on_error").Bool() {
		opts = append(opts, engine.WithThrowOnError())
	}
	if v := root.Get("options.max_history_groups"); v.Exists() {
		opts = append(opts, engine.WithMaxHistoryGroups(int(v.Int())))
	}

	e := engine.New(opts...)

	if h := root.Get("history"); h.Exists() {
		if err := e.RestoreHistorySnapshot([]byte(h.Raw)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Pretty formats a snapshot for display, e.g. by cmd/textengine's save
// command.
func Pretty(data []byte) []byte {
	return pretty.Pretty(data)
}
