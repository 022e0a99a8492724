// Package persist provides an out-of-band JSON export/import for an
// engine's document content, construction options and undo/redo
// journal. It is not part of the engine's operation contract — nothing
// in internal/engine calls into persist — and exists purely as an
// opt-in convenience for a host that wants to save and restore a
// session.
//
// The export is built with github.com/tidwall/sjson and read back with
// github.com/tidwall/gjson rather than encoding/json, matching how the
// corpus's own dependency graph already carries these two libraries
// for JSON path manipulation. github.com/tidwall/pretty formats a
// snapshot for human-readable display.
package persist
