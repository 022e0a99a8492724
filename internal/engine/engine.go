package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/match"
	"golang.org/x/text/cases"

	"github.com/dshills/textengine/internal/engine/chunk"
	"github.com/dshills/textengine/internal/engine/history"
	"github.com/dshills/textengine/internal/engine/piece"
)

var foldCaser = cases.Fold()

// Match is a single search hit, expressed as a document offset range.
type Match struct {
	Start int64
	End   int64
}

// Engine is the facade over the chunk pool, the piece index and the
// undo/redo journal. All operations are thread-safe; a single mutex
// serializes every mutation and read against the underlying structures.
type Engine struct {
	mu sync.Mutex

	pool    *chunk.Pool
	tree    *piece.Tree
	journal *history.Journal

	// bufPieces tracks, for every chunk buffer, which piece-tree slots
	// currently reference it. A buffer with more than one entry here is
	// shared by sibling pieces produced by Split; physical mutation of
	// such a buffer must shift every other referencing piece's Start to
	// match (see shiftSiblings).
	bufPieces map[uint32]map[uint32]struct{}

	chunkCapacity    int
	singleBuffer     bool
	throwOnError     bool
	maxHistoryGroups int
	initContent      string

	log             *logrus.Logger
	listener        Listener
	historyListener history.Listener
}

// New creates an Engine from the given options. With no options the
// engine starts empty, with a default chunk capacity, a 200-group
// history bound and a log-and-return-sentinel error policy.
func New(opts ...Option) *Engine {
	e := &Engine{
		chunkCapacity: chunk.DefaultCapacity,
		log:           logrus.StandardLogger(),
		listener:      NopListener{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.pool = chunk.NewPool(e.chunkCapacity, e.singleBuffer)
	e.tree = piece.NewTree()
	e.bufPieces = make(map[uint32]map[uint32]struct{})
	e.journal = history.NewJournal(e.maxHistoryGroups)
	if e.historyListener != nil {
		e.journal.SetListener(e.historyListener)
	}

	if e.initContent != "" {
		e.Load(e.initContent)
	}

	return e
}

// fail applies the dual error policy: raise a fatal panic when the
// engine was constructed with WithThrowOnError, otherwise log a tagged
// diagnostic and return the sentinel matching err's kind.
func (e *Engine) fail(err *Error) error {
	if e.throwOnError {
		panic(err)
	}
	e.log.WithField("op", err.Op).WithField("error_kind", err.Kind.String()).Warn(err.Error())
	switch err.Kind {
	case ErrKindOutOfRange:
		return ErrOutOfRange
	case ErrKindEmptyDocument:
		return ErrEmptyDocument
	case ErrKindInvalidPattern:
		return ErrInvalidPattern
	default:
		return ErrInternal
	}
}

// ============================================================================
// Piece/buffer bookkeeping
// ============================================================================

// linkFirst registers idx as the sole piece referencing bufID. Used when
// bufID was just allocated (AppendChunk already seeded its ref count at
// one), so the pool's count is not touched here.
func (e *Engine) linkFirst(bufID, idx uint32) {
	e.bufPieces[bufID] = map[uint32]struct{}{idx: {}}
}

// linkSibling registers idx as an additional piece referencing bufID,
// e.g. the right half of a Split. Retains bufID in the pool to keep its
// ref count in step with bufPieces.
func (e *Engine) linkSibling(bufID, idx uint32) {
	if e.bufPieces[bufID] == nil {
		e.bufPieces[bufID] = make(map[uint32]struct{})
	}
	e.bufPieces[bufID][idx] = struct{}{}
	e.pool.Retain(bufID)
}

// unlinkPiece removes idx from bufID's referencing set and releases the
// pool's ref count, discarding the chunk outright once nothing
// references it any longer.
func (e *Engine) unlinkPiece(bufID, idx uint32) {
	delete(e.bufPieces[bufID], idx)
	if len(e.bufPieces[bufID]) == 0 {
		delete(e.bufPieces, bufID)
	}
	e.pool.Release(bufID)
}

// shiftSiblings moves every other piece referencing bufID whose Start is
// at or past threshold back by overlap characters, matching the physical
// left-shift a chunk.Buffer.Delete just performed on that buffer. self is
// excluded, though in practice self's own Start is always below
// threshold and would be skipped regardless.
func (e *Engine) shiftSiblings(bufID, self uint32, threshold, overlap int64) {
	for other := range e.bufPieces[bufID] {
		if other == self {
			continue
		}
		op := e.tree.Piece(other)
		if op.Start >= threshold {
			op.Start -= overlap
			e.tree.SetPiece(other, op)
		}
	}
}

// extendOrAppendPiece grows the last piece in document order if it is
// contiguous with [localStart, localStart+length) in bufID, otherwise
// inserts a brand-new piece at the tail. The non-contiguous branch is
// only reached with a bufID that nothing else references yet (see
// tailAppendTarget), so linkFirst is always correct here.
func (e *Engine) extendOrAppendPiece(bufID uint32, localStart, length int64) {
	if idx, ok := e.tree.Last(); ok {
		p := e.tree.Piece(idx)
		if p.BufferID == bufID && p.Start+p.Length == localStart {
			p.Length += length
			e.tree.SetPiece(idx, p)
			return
		}
		newIdx := e.tree.InsertAfter(idx, piece.Piece{BufferID: bufID, Start: localStart, Length: length})
		e.linkFirst(bufID, newIdx)
		return
	}
	newIdx := e.tree.InsertFirst(piece.Piece{BufferID: bufID, Start: localStart, Length: length})
	e.linkFirst(bufID, newIdx)
}

// tailAppendTarget picks the buffer an append should grow: the document's
// last piece's buffer, but only when that piece still reaches the
// buffer's current end (nothing was appended to it after the piece was
// cut) and the buffer still has room. The pool's most-recently-created
// chunk is not a safe substitute for this — after a mid-document insert
// it belongs to a piece that is not the document's last piece, and
// reusing it here would leave it referenced by two pieces without
// retaining it in bufPieces/the pool's ref count.
func (e *Engine) tailAppendTarget() (uint32, int) {
	if idx, ok := e.tree.Last(); ok {
		p := e.tree.Piece(idx)
		buf := e.pool.MustChunk(p.BufferID)
		if p.Start+p.Length == int64(buf.Len()) && buf.FreeSpace() > 0 {
			return p.BufferID, buf.Len()
		}
	}
	bufID := e.pool.AppendChunk()
	return bufID, 0
}

// appendLocked grows the document by text, reusing the document tail
// piece's buffer free space before allocating new chunks. It never
// touches any piece other than the last one, so it cannot disturb a
// shared buffer.
func (e *Engine) appendLocked(text string) {
	remaining := text
	for len(remaining) > 0 {
		bufID, localStart := e.tailAppendTarget()
		buf := e.pool.MustChunk(bufID)
		n := buf.FreeSpace()
		if n > len(remaining) {
			n = len(remaining)
		}
		buf.Append(remaining[:n])
		remaining = remaining[n:]
		e.extendOrAppendPiece(bufID, int64(localStart), int64(n))
	}
}

// insertPiecesBefore splits text across fresh chunks and links each one
// immediately before anchor. Repeated InsertBefore calls against the
// same anchor land in left-to-right order, so the pieces end up in
// document order without ever touching anchor's own chunk.
func (e *Engine) insertPiecesBefore(anchor uint32, text string) {
	remaining := text
	for len(remaining) > 0 {
		bufID := e.pool.AppendChunk()
		buf := e.pool.MustChunk(bufID)
		n := buf.FreeSpace()
		if n > len(remaining) {
			n = len(remaining)
		}
		buf.Append(remaining[:n])
		remaining = remaining[n:]
		newIdx := e.tree.InsertBefore(anchor, piece.Piece{BufferID: bufID, Start: 0, Length: int64(n)})
		e.linkFirst(bufID, newIdx)
	}
}

// ============================================================================
// Construction-time content
// ============================================================================

// Load discards any existing content, history and piece index and
// installs content as the entire document.
func (e *Engine) Load(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pool.Reset()
	e.tree = piece.NewTree()
	e.bufPieces = make(map[uint32]map[uint32]struct{})
	e.journal.Clear()

	if content != "" {
		e.appendLocked(content)
	}
	e.listener.OnContentLoaded()
}

// ============================================================================
// Mutations
// ============================================================================

// Insert inserts text at offset, returning the offset one past the
// inserted run. offset == Len() delegates to the tail-append path rather
// than locating a piece.
func (e *Engine) Insert(offset int64, text string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insertLocked(offset, text, true)
}

func (e *Engine) insertLocked(offset int64, text string, capture bool) (int64, error) {
	length := e.tree.Len()
	if offset < 0 || offset > length {
		return 0, e.fail(newErr(ErrKindOutOfRange, "Insert", ErrOutOfRange))
	}
	if text == "" {
		return offset, nil
	}

	if offset == length {
		e.appendLocked(text)
	} else {
		idx, r, ok := e.tree.Locate(offset)
		if !ok {
			return 0, e.fail(newErr(ErrKindInternal, "Insert", ErrInternal))
		}
		anchor := idx
		if r > 0 {
			p := e.tree.Piece(idx)
			_, right := e.tree.Split(idx, r)
			e.linkSibling(p.BufferID, right)
			anchor = right
		}
		e.insertPiecesBefore(anchor, text)
	}

	end := offset + int64(len(text))
	if capture {
		e.journal.Capture(history.KindInsert, offset, end, text)
	}
	e.listener.OnTextInserted(offset, text)
	return end, nil
}

// Delete removes [start, end) from the document.
func (e *Engine) Delete(start, end int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteLocked(start, end, true)
}

func (e *Engine) deleteLocked(start, end int64, capture bool) error {
	length := e.tree.Len()
	if start < 0 || end > length || start > end {
		return e.fail(newErr(ErrKindOutOfRange, "Delete", ErrOutOfRange))
	}
	if start == end {
		return nil
	}

	var captured string
	if capture {
		captured = e.textRangeLocked(start, end)
	}

	remaining := end - start
	for remaining > 0 {
		idx, r, ok := e.tree.Locate(start)
		if !ok {
			return e.fail(newErr(ErrKindInternal, "Delete", ErrInternal))
		}
		p := e.tree.Piece(idx)
		overlap := p.Length - r
		if overlap > remaining {
			overlap = remaining
		}
		bufID := p.BufferID
		localStart := p.Start + r
		wholePiece := overlap == p.Length
		discardBuffer := wholePiece && e.pool.RefCount(bufID) == 1

		if !discardBuffer {
			buf := e.pool.MustChunk(bufID)
			if err := buf.Delete(int(localStart), int(overlap)); err != nil {
				return e.fail(newErr(ErrKindInternal, "Delete", err))
			}
			e.shiftSiblings(bufID, idx, localStart+overlap, overlap)
		}

		switch {
		case wholePiece:
			e.tree.Delete(idx)
			e.unlinkPiece(bufID, idx)
		case r == 0:
			p.Length -= overlap
			e.tree.SetPiece(idx, p)
		case r+overlap == p.Length:
			p.Length -= overlap
			e.tree.SetPiece(idx, p)
		default:
			left := p
			left.Length = r
			e.tree.SetPiece(idx, left)
			right := piece.Piece{BufferID: bufID, Start: p.Start + r, Length: p.Length - r - overlap}
			newIdx := e.tree.InsertAfter(idx, right)
			e.linkSibling(bufID, newIdx)
		}

		remaining -= overlap
	}

	if capture {
		e.journal.Capture(history.KindDelete, start, end, captured)
	}
	e.listener.OnTextDeleted(start, end)
	return nil
}

// Replace deletes [start, end) and inserts text in its place, as one
// undo group.
func (e *Engine) Replace(start, end int64, text string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if start < 0 || end > e.tree.Len() || start > end {
		return 0, e.fail(newErr(ErrKindOutOfRange, "Replace", ErrOutOfRange))
	}

	e.journal.BeginBatch()
	defer e.journal.EndBatch()

	if end > start {
		if err := e.deleteLocked(start, end, true); err != nil {
			return 0, err
		}
	}
	return e.insertLocked(start, text, true)
}

// ============================================================================
// history.Replayer
// ============================================================================

// ApplyInsert performs a raw insertion for the journal's Undo/Redo
// replay. It must not capture a new journal entry.
func (e *Engine) ApplyInsert(start int64, text string) error {
	_, err := e.insertLocked(start, text, false)
	return err
}

// ApplyDelete performs a raw deletion for the journal's Undo/Redo
// replay. It must not capture a new journal entry.
func (e *Engine) ApplyDelete(start, end int64) error {
	return e.deleteLocked(start, end, false)
}

// ============================================================================
// Undo/redo
// ============================================================================

// Undo replays the most recently applied group in reverse, returning
// the caret position the caller should move to.
func (e *Engine) Undo() (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.Undo(e)
}

// Redo replays the next undone group forward.
func (e *Engine) Redo() (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.Redo(e)
}

// CanUndo reports whether Undo has a group to replay.
func (e *Engine) CanUndo() bool {
	return e.journal.CanUndo()
}

// CanRedo reports whether Redo has a group to replay.
func (e *Engine) CanRedo() bool {
	return e.journal.CanRedo()
}

// ClearHistory discards the entire undo/redo journal.
func (e *Engine) ClearHistory() {
	e.journal.Clear()
}

// BeginBatch opens an undo-group bracket; every edit until the next
// EndBatch undoes and redoes as one unit. Brackets do not nest: Replace
// opens and closes a bracket of its own, so a Replace inside an open
// bracket closes it when Replace returns.
func (e *Engine) BeginBatch() {
	e.journal.BeginBatch()
}

// EndBatch closes the bracket opened by BeginBatch.
func (e *Engine) EndBatch() {
	e.journal.EndBatch()
}

// CancelBatch closes the bracket without altering anything captured
// inside it.
func (e *Engine) CancelBatch() {
	e.journal.CancelBatch()
}

// GroupScope runs fn with a batch bracket open around it.
func (e *Engine) GroupScope(fn func()) {
	e.journal.GroupScope(fn)
}

// Checkpoint returns a marker for the journal's current position.
func (e *Engine) Checkpoint() history.Checkpoint {
	return e.journal.Checkpoint()
}

// UndoToCheckpoint undoes groups until the journal reaches cp.
func (e *Engine) UndoToCheckpoint(cp history.Checkpoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.UndoToCheckpoint(e, cp)
}

// RedoToCheckpoint redoes groups until the journal reaches cp.
func (e *Engine) RedoToCheckpoint(cp history.Checkpoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.RedoToCheckpoint(e, cp)
}

// PeekUndo describes the group Undo would replay next, without
// replaying it.
func (e *Engine) PeekUndo() (history.GroupInfo, bool) {
	return e.journal.PeekUndo()
}

// PeekRedo describes the group Redo would replay next, without
// replaying it.
func (e *Engine) PeekRedo() (history.GroupInfo, bool) {
	return e.journal.PeekRedo()
}

// ============================================================================
// Construction parameter accessors (for persist)
// ============================================================================

// ChunkCapacity returns the per-chunk capacity the engine was built with.
func (e *Engine) ChunkCapacity() int { return e.chunkCapacity }

// SingleBuffer reports whether the engine was built with WithSingleBuffer.
func (e *Engine) SingleBuffer() bool { return e.singleBuffer }

// ThrowOnError reports whether the engine was built with WithThrowOnError.
func (e *Engine) ThrowOnError() bool { return e.throwOnError }

// MaxHistoryGroups returns the value given to WithMaxHistoryGroups, or
// zero when none was given; the journal then uses
// history.DefaultMaxGroups.
func (e *Engine) MaxHistoryGroups() int { return e.maxHistoryGroups }

// HistorySnapshot serializes the undo/redo journal to JSON.
func (e *Engine) HistorySnapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.MarshalSnapshot()
}

// RestoreHistorySnapshot replaces the undo/redo journal's state with one
// produced by HistorySnapshot.
func (e *Engine) RestoreHistorySnapshot(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journal.UnmarshalSnapshot(data)
}

// ============================================================================
// Reads
// ============================================================================

// Len returns the document length in characters.
func (e *Engine) Len() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Len()
}

// IsEmpty reports whether the document holds no characters.
func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.IsEmpty()
}

// Text returns the full document content.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.textRangeLocked(0, e.tree.Len())
}

// TextRange returns the document content in [start, end).
func (e *Engine) TextRange(start, end int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	length := e.tree.Len()
	if start < 0 || end > length || start > end {
		return "", e.fail(newErr(ErrKindOutOfRange, "TextRange", ErrOutOfRange))
	}
	return e.textRangeLocked(start, end), nil
}

func (e *Engine) textRangeLocked(start, end int64) string {
	if start >= end || e.tree.IsEmpty() {
		return ""
	}
	idx, r, ok := e.tree.Locate(start)
	if !ok {
		return ""
	}
	var sb strings.Builder
	docOffset := start - r
	for ok {
		p := e.tree.Piece(idx)
		docEnd := docOffset + p.Length
		if docOffset >= end {
			break
		}
		lo := int64(0)
		if start > docOffset {
			lo = start - docOffset
		}
		hi := p.Length
		if end < docEnd {
			hi = end - docOffset
		}
		buf := e.pool.MustChunk(p.BufferID)
		sb.WriteString(buf.MustSub(int(p.Start+lo), int(p.Start+hi)))
		docOffset = docEnd
		idx, ok = e.tree.Next(idx)
	}
	return sb.String()
}

// ============================================================================
// Line queries
// ============================================================================

// newlineDocOffsetsLocked walks the piece index in document order,
// reading each piece's slice of its chunk's per-chunk newline table.
// Pieces never overlap and are visited in ascending document order, so
// the result is sorted.
func (e *Engine) newlineDocOffsetsLocked() []int64 {
	var out []int64
	idx, ok := e.tree.First()
	docOffset := int64(0)
	for ok {
		p := e.tree.Piece(idx)
		buf := e.pool.MustChunk(p.BufferID)
		ls := buf.LineStarts()
		lo := sort.SearchInts(ls, int(p.Start))
		hi := sort.SearchInts(ls, int(p.Start+p.Length))
		for _, off := range ls[lo:hi] {
			out = append(out, docOffset+int64(off)-p.Start)
		}
		docOffset += p.Length
		idx, ok = e.tree.Next(idx)
	}
	return out
}

// LineCount returns the number of newline characters in the document.
func (e *Engine) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.newlineDocOffsetsLocked())
}

// LineOfOffset returns the 0-based line index containing offset: the
// count of newlines strictly before it.
func (e *Engine) LineOfOffset(offset int64) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if offset < 0 || offset > e.tree.Len() {
		return 0, e.fail(newErr(ErrKindOutOfRange, "LineOfOffset", ErrOutOfRange))
	}
	nls := e.newlineDocOffsetsLocked()
	return sort.Search(len(nls), func(i int) bool { return nls[i] >= offset }), nil
}

// lineRangeLocked returns the [start, end) document span of line i,
// excluding its trailing newline.
func (e *Engine) lineRangeLocked(i int, nls []int64) (int64, int64, error) {
	if i < 0 || i > len(nls) {
		return 0, 0, e.fail(newErr(ErrKindOutOfRange, "LineRange", ErrOutOfRange))
	}
	var start int64
	if i > 0 {
		start = nls[i-1] + 1
	}
	end := e.tree.Len()
	if i < len(nls) {
		end = nls[i]
	}
	return start, end, nil
}

// LineRange returns the [start, end) document span of line i.
func (e *Engine) LineRange(i int) (int64, int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineRangeLocked(i, e.newlineDocOffsetsLocked())
}

// LineContent returns the text of line i, excluding its newline.
func (e *Engine) LineContent(i int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end, err := e.lineRangeLocked(i, e.newlineDocOffsetsLocked())
	if err != nil {
		return "", err
	}
	return e.textRangeLocked(start, end), nil
}

// LineLength returns the character length of line i, excluding its
// newline.
func (e *Engine) LineLength(i int) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end, err := e.lineRangeLocked(i, e.newlineDocOffsetsLocked())
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// ============================================================================
// Search
// ============================================================================

// SearchSingle returns the first match for pattern at or after
// startOffset. Invalid regular expressions fall back to a literal scan
// of pattern itself, tagged via a logged diagnostic.
func (e *Engine) SearchSingle(pattern string, startOffset int64, caseSensitive, isRegex bool) (Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	matches := e.searchLocked(pattern, startOffset, caseSensitive, isRegex, 1)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// SearchMulti returns every match for pattern across the whole document.
// Each piece is scanned on its own, so a match that straddles the
// boundary between two pieces is not found.
func (e *Engine) SearchMulti(pattern string, caseSensitive, isRegex bool) []Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchLocked(pattern, 0, caseSensitive, isRegex, 0)
}

// searchLocked scans the document piece by piece in document order,
// starting from the piece containing startOffset. limit caps the number
// of matches returned; zero means unbounded.
func (e *Engine) searchLocked(pattern string, startOffset int64, caseSensitive, isRegex bool, limit int) []Match {
	if pattern == "" {
		return nil
	}

	var re *regexp2.Regexp
	usingRegex := isRegex
	if isRegex {
		opts := regexp2.None
		if !caseSensitive {
			opts |= regexp2.IgnoreCase
		}
		compiled, err := regexp2.Compile(pattern, opts)
		if err != nil {
			e.log.WithField("op", "Search").WithField("error_kind", ErrKindInvalidPattern.String()).
				Warn("invalid search pattern, falling back to literal match")
			usingRegex = false
		} else {
			re = compiled
		}
	}
	// A pattern with no regex metacharacters behaves as a literal even
	// when is_regex is set, so a piece can be glob-rejected before
	// handing it to regexp2.
	quickGlob := ""
	if usingRegex && caseSensitive && !strings.ContainsAny(pattern, `\.+*?()|[]{}^$`) {
		quickGlob = "*" + pattern + "*"
	}

	var results []Match
	idx, ok := e.tree.First()
	docOffset := int64(0)
	for ok {
		p := e.tree.Piece(idx)
		pieceEnd := docOffset + p.Length
		if pieceEnd > startOffset {
			text := e.pool.MustChunk(p.BufferID).MustSub(int(p.Start), int(p.Start+p.Length))
			from := 0
			if startOffset > docOffset {
				from = int(startOffset - docOffset)
			}
			var found []Match
			if quickGlob != "" && !match.Match(text, quickGlob) {
				found = nil
			} else if usingRegex {
				found = findRegexMatches(re, text, from, docOffset)
			} else {
				found = findLiteralMatches(text, pattern, from, docOffset, caseSensitive)
			}
			for _, m := range found {
				results = append(results, m)
				if limit > 0 && len(results) >= limit {
					return results
				}
			}
		}
		docOffset = pieceEnd
		idx, ok = e.tree.Next(idx)
	}
	return results
}

func findRegexMatches(re *regexp2.Regexp, text string, from int, base int64) []Match {
	var out []Match
	m, _ := re.FindStringMatch(text)
	for m != nil {
		if m.Index >= from {
			out = append(out, Match{Start: base + int64(m.Index), End: base + int64(m.Index+m.Length)})
		}
		m, _ = re.FindNextMatch(m)
	}
	return out
}

// findLiteralMatches scans haystack for non-overlapping occurrences of
// needle at or after from. Case folding uses golang.org/x/text/cases,
// which can change a match's byte length for a handful of non-ASCII
// characters; offsets reported for such matches track the folded
// haystack rather than the original, a known limitation of this search
// path.
func findLiteralMatches(haystack, needle string, from int, base int64, caseSensitive bool) []Match {
	h, n := haystack, needle
	if !caseSensitive {
		h = foldCaser.String(h)
		n = foldCaser.String(n)
	}
	var out []Match
	pos := from
	for {
		i := strings.Index(h[pos:], n)
		if i < 0 {
			return out
		}
		start := pos + i
		out = append(out, Match{Start: base + int64(start), End: base + int64(start+len(n))})
		pos = start + len(n)
	}
}
