package editor

import (
	"strings"
	"unicode/utf8"
)

// Position is a zero-based row and rune column
type Position struct {
	Row int
	Col int
}

// TextBuffer is the editing surface the structural commands act on
type TextBuffer interface {
	Value() string
	Cursor() Position
	HasSelection() bool
	SetValue(text string)
	SetCursor(pos Position)
}

// MemoryBuffer is a TextBuffer backed by a string. The CLI and tests use
// it; the TUI adapts the textarea instead.
type MemoryBuffer struct {
	text      string
	cursor    Position
	selection bool
}

// NewMemoryBuffer creates a buffer with the cursor at pos
func NewMemoryBuffer(text string, pos Position) *MemoryBuffer {
	b := &MemoryBuffer{text: text}
	b.SetCursor(pos)
	return b
}

func (b *MemoryBuffer) Value() string      { return b.text }
func (b *MemoryBuffer) Cursor() Position   { return b.cursor }
func (b *MemoryBuffer) HasSelection() bool { return b.selection }

// SetSelection marks the buffer as having a non-empty selection
func (b *MemoryBuffer) SetSelection(active bool) { b.selection = active }

// SetValue replaces the text and clamps the cursor into it
func (b *MemoryBuffer) SetValue(text string) {
	b.text = text
	b.SetCursor(b.cursor)
}

// SetCursor moves the cursor, clamped to the text
func (b *MemoryBuffer) SetCursor(pos Position) {
	b.cursor = ClampPosition(b.text, pos)
}

// ClampPosition keeps pos inside text
func ClampPosition(text string, pos Position) Position {
	lines := strings.Split(text, "\n")
	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row >= len(lines) {
		pos.Row = len(lines) - 1
	}
	width := utf8.RuneCountInString(lines[pos.Row])
	if pos.Col < 0 {
		pos.Col = 0
	}
	if pos.Col > width {
		pos.Col = width
	}
	return pos
}
