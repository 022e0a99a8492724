package engine

import (
	"strings"
	"testing"

	"github.com/dshills/textengine/internal/engine/chunk"
)

// ============================================================================
// Basic operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got len %d", e.Len())
	}
	if e.Text() != "" {
		t.Errorf("expected empty text, got %q", e.Text())
	}
}

func TestNewWithContent(t *testing.T) {
	e := New(WithContent("Hello, World!"))
	if e.Text() != "Hello, World!" {
		t.Errorf("expected %q, got %q", "Hello, World!", e.Text())
	}
	if e.Len() != 13 {
		t.Errorf("expected len 13, got %d", e.Len())
	}
}

func TestInsertAtEnd(t *testing.T) {
	e := New()

	end, err := e.Insert(0, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 5 {
		t.Errorf("expected end 5, got %d", end)
	}

	if _, err := e.Insert(5, ", World!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello, World!" {
		t.Errorf("expected %q, got %q", "Hello, World!", e.Text())
	}
}

func TestInsertMidDocument(t *testing.T) {
	e := New(WithContent("Hllo"))

	if _, err := e.Insert(1, "e"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", e.Text())
	}
}

func TestInsertOutOfRange(t *testing.T) {
	e := New(WithContent("Hello"))

	if _, err := e.Insert(-1, "x"); err == nil {
		t.Error("expected error for negative offset")
	}
	if _, err := e.Insert(100, "x"); err == nil {
		t.Error("expected error for offset past end")
	}
}

func TestDeleteWholePieceAndPartial(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	if err := e.Delete(5, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "HelloWorld!" {
		t.Errorf("expected %q, got %q", "HelloWorld!", e.Text())
	}

	if err := e.Delete(0, e.Len()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "" {
		t.Errorf("expected empty text after full delete, got %q", e.Text())
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	e := New(WithContent("abc"))

	if err := e.Delete(2, 1); err == nil {
		t.Error("expected error when start > end")
	}
	if err := e.Delete(0, 100); err == nil {
		t.Error("expected error when end exceeds length")
	}
}

func TestReplace(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	end, err := e.Replace(7, 12, "Gophers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello, Gophers!" {
		t.Errorf("expected %q, got %q", "Hello, Gophers!", e.Text())
	}
	if end != 7+int64(len("Gophers")) {
		t.Errorf("expected end %d, got %d", 7+len("Gophers"), end)
	}
}

// ============================================================================
// Split / shared buffer correctness
// ============================================================================

// TestDeleteAfterSplitDoesNotCorruptSibling exercises the scenario the
// engine's bufPieces/shiftSiblings bookkeeping exists for: an insert in
// the middle of a piece splits it into two pieces sharing one buffer,
// then a delete that physically shifts the buffer's bytes must keep the
// sibling's Start in sync.
func TestDeleteAfterSplitDoesNotCorruptSibling(t *testing.T) {
	e := New(WithContent("0123456789"))

	if _, err := e.Insert(5, "XX"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "01234XX56789" {
		t.Fatalf("expected %q, got %q", "01234XX56789", e.Text())
	}

	if err := e.Delete(0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "34XX56789" {
		t.Errorf("expected %q, got %q", "34XX56789", e.Text())
	}
}

// TestAppendAfterMidInsertDoesNotCorruptBuffer guards against appendLocked
// reusing the pool's most-recently-created chunk (creation order) as an
// append target when it isn't the document's last piece's buffer. Picking
// the wrong buffer here would alias two pieces onto one chunk without the
// second one being tracked in bufPieces, so a later whole-piece delete of
// either piece frees a chunk the other still points at.
func TestAppendAfterMidInsertDoesNotCorruptBuffer(t *testing.T) {
	e := New(WithContent("ABC"))

	if _, err := e.Insert(1, "X"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "AXBC" {
		t.Fatalf("expected %q, got %q", "AXBC", e.Text())
	}

	if _, err := e.Insert(4, "Y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "AXBCY" {
		t.Fatalf("expected %q, got %q", "AXBCY", e.Text())
	}

	if err := e.Delete(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "ABCY" {
		t.Errorf("expected %q, got %q", "ABCY", e.Text())
	}
}

func TestDeleteSpanningMultiplePieces(t *testing.T) {
	e := New(WithContent("abc"))
	if _, err := e.Insert(3, "def"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Insert(0, "xyz"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "xyzabcdef" {
		t.Fatalf("expected %q, got %q", "xyzabcdef", e.Text())
	}

	if err := e.Delete(2, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "xyef" {
		t.Errorf("expected %q, got %q", "xyef", e.Text())
	}
}

// ============================================================================
// Chunk boundary / append behavior
//
// WithChunkCapacity clamps to chunk.MinCapacity (32 KiB), so exercising
// the chunk-spilling logic in appendLocked/insertPiecesBefore genuinely
// requires content past that floor rather than a tiny requested capacity.
// ============================================================================

func TestAppendFillsTailChunkBeforeSpawning(t *testing.T) {
	e := New(WithChunkCapacity(4))

	if _, err := e.Insert(0, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Insert(3, "def"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "abcdef" {
		t.Errorf("expected %q, got %q", "abcdef", e.Text())
	}
}

func TestAppendSpansMultipleChunks(t *testing.T) {
	e := New(WithChunkCapacity(4))

	content := strings.Repeat("a", chunk.MinCapacity) + strings.Repeat("b", 10)
	if _, err := e.Insert(0, content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Len() != int64(len(content)) {
		t.Fatalf("expected len %d, got %d", len(content), e.Len())
	}
	if e.Text() != content {
		t.Fatal("expected appended text to survive spilling into a second chunk unchanged")
	}
}

func TestInsertMidDocumentSpansMultipleChunks(t *testing.T) {
	e := New(WithContent("head|tail"), WithChunkCapacity(4))

	middle := strings.Repeat("x", chunk.MinCapacity+10)
	if _, err := e.Insert(5, middle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "head|" + middle + "tail"; e.Text() != want {
		t.Fatal("expected mid-document insert spanning multiple chunks to preserve content")
	}
}

// ============================================================================
// Line queries
// ============================================================================

func TestLineQueries(t *testing.T) {
	e := New(WithContent("a\nb\nc"))

	if got := e.LineCount(); got != 2 {
		t.Errorf("expected line count 2, got %d", got)
	}

	line, err := e.LineOfOffset(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != 0 {
		t.Errorf("expected line 0, got %d", line)
	}

	line, err = e.LineOfOffset(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != 1 {
		t.Errorf("expected line 1, got %d", line)
	}

	start, end, err := e.LineRange(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 2 || end != 3 {
		t.Errorf("expected (2, 3), got (%d, %d)", start, end)
	}

	content, err := e.LineContent(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "b" {
		t.Errorf("expected %q, got %q", "b", content)
	}
}

func TestLineCountStaysCorrectAfterFragmentingEdits(t *testing.T) {
	e := New(WithContent("line1\nline2\nline3"))

	if _, err := e.Insert(6, "inserted\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Delete(0, 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 0
	for _, c := range e.Text() {
		if c == '\n' {
			want++
		}
	}
	if got := e.LineCount(); got != want {
		t.Errorf("expected line count %d, got %d", want, got)
	}
}

// ============================================================================
// Undo/redo
// ============================================================================

func TestUndoRedoInsertDelete(t *testing.T) {
	e := New(WithContent("xxx"))

	if err := e.Delete(0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "" {
		t.Fatalf("expected empty text, got %q", e.Text())
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "xxx" {
		t.Errorf("expected %q after undo, got %q", "xxx", e.Text())
	}

	if _, err := e.Redo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "" {
		t.Errorf("expected empty text after redo, got %q", e.Text())
	}
}

// TestInsertUndoRedoRoundTrips guards against redo silently dropping the
// inserted text: Insert must capture the inserted run itself, not an
// empty string, since redo replays it via ApplyInsert(start, capturedText).
func TestInsertUndoRedoRoundTrips(t *testing.T) {
	e := New()

	if _, err := e.Insert(0, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "" {
		t.Fatalf("expected empty text after undo, got %q", e.Text())
	}

	if _, err := e.Redo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "hello" {
		t.Errorf("expected %q after redo, got %q", "hello", e.Text())
	}
}

func TestReplaceUndoesAsOneGroup(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	if _, err := e.Replace(7, 12, "Gophers"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.CanUndo() {
		t.Fatal("expected an undo entry after Replace")
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello, World!" {
		t.Errorf("expected original text restored in one undo, got %q", e.Text())
	}
	if e.CanUndo() {
		t.Error("expected no further undo after a single Replace group is unwound")
	}
}

func TestUndoWithNothingToUndo(t *testing.T) {
	e := New(WithContent("abc"))
	if e.CanUndo() {
		t.Fatal("expected no undo entries on a fresh engine")
	}
	if _, err := e.Undo(); err == nil {
		t.Error("expected an error undoing an empty journal")
	}
}

// ============================================================================
// Search
// ============================================================================

func TestSearchMultiLiteral(t *testing.T) {
	e := New(WithContent("foo bar foo"))

	matches := e.SearchMulti("foo", false, false)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0] != (Match{Start: 0, End: 3}) {
		t.Errorf("expected first match (0,3), got %+v", matches[0])
	}
	if matches[1] != (Match{Start: 8, End: 11}) {
		t.Errorf("expected second match (8,11), got %+v", matches[1])
	}
}

func TestSearchSingleCaseInsensitive(t *testing.T) {
	e := New(WithContent("Hello World"))

	m, found := e.SearchSingle("world", 0, false, false)
	if !found {
		t.Fatal("expected a case-insensitive match")
	}
	if m.Start != 6 || m.End != 11 {
		t.Errorf("expected (6, 11), got (%d, %d)", m.Start, m.End)
	}
}

func TestSearchRegex(t *testing.T) {
	e := New(WithContent("a1 b22 c333"))

	matches := e.SearchMulti(`[a-z]\d+`, true, true)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
}

func TestSearchInvalidRegexFallsBackToLiteral(t *testing.T) {
	e := New(WithContent("a(b"))

	matches := e.SearchMulti("a(b", true, true)
	if len(matches) != 1 {
		t.Fatalf("expected 1 literal match after fallback, got %d", len(matches))
	}
}

// ============================================================================
// Load
// ============================================================================

func TestLoadResetsContentAndHistory(t *testing.T) {
	e := New(WithContent("abc"))
	if _, err := e.Insert(3, "def"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.Load("xyz")

	if e.Text() != "xyz" {
		t.Errorf("expected %q, got %q", "xyz", e.Text())
	}
	if e.CanUndo() {
		t.Error("expected Load to clear the undo journal")
	}
}

// ============================================================================
// Error policy
// ============================================================================

func TestThrowOnErrorPanics(t *testing.T) {
	e := New(WithContent("abc"), WithThrowOnError())

	defer func() {
		if recover() == nil {
			t.Error("expected a panic with WithThrowOnError")
		}
	}()
	_, _ = e.Insert(100, "x")
}

// ============================================================================
// Listener
// ============================================================================

type recordingListener struct {
	loaded   bool
	inserted []string
	deleted  [][2]int64
}

func (r *recordingListener) OnContentLoaded()                     { r.loaded = true }
func (r *recordingListener) OnTextInserted(start int64, text string) {
	r.inserted = append(r.inserted, text)
}
func (r *recordingListener) OnTextDeleted(start, end int64) {
	r.deleted = append(r.deleted, [2]int64{start, end})
}

func TestListenerNotifications(t *testing.T) {
	l := &recordingListener{}
	e := New(WithListener(l))

	e.Load("abc")
	if !l.loaded {
		t.Error("expected OnContentLoaded to fire")
	}

	if _, err := e.Insert(3, "def"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.inserted) != 1 || l.inserted[0] != "def" {
		t.Errorf("expected insert notification for %q, got %+v", "def", l.inserted)
	}

	if err := e.Delete(0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.deleted) != 1 || l.deleted[0] != [2]int64{0, 1} {
		t.Errorf("expected delete notification for (0,1), got %+v", l.deleted)
	}
}
