package tui

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"

	"github.com/fitchpad/fitchpad-cli/pkg/editor"
)

// textareaBuffer exposes a textarea as an editor.TextBuffer. The textarea
// has no selection, so commands always run.
type textareaBuffer struct {
	ta *textarea.Model
}

func (b textareaBuffer) Value() string {
	return b.ta.Value()
}

// Cursor returns the logical row and rune column. LineInfo reports the
// column relative to the soft-wrapped segment the cursor is in.
func (b textareaBuffer) Cursor() editor.Position {
	info := b.ta.LineInfo()
	return editor.Position{Row: b.ta.Line(), Col: info.StartColumn + info.ColumnOffset}
}

func (b textareaBuffer) HasSelection() bool {
	return false
}

// SetValue replaces the text and keeps the cursor where it was, clamped.
// textarea.SetValue alone leaves the cursor at the end of the text.
func (b textareaBuffer) SetValue(text string) {
	pos := b.Cursor()
	b.ta.SetValue(text)
	b.SetCursor(pos)
}

// SetCursor walks the textarea to the row, then sets the column
func (b textareaBuffer) SetCursor(pos editor.Position) {
	value := b.ta.Value()
	pos = editor.ClampPosition(value, pos)

	// each step moves at least one visual line
	steps := utf8.RuneCountInString(value) + b.ta.LineCount() + 1
	for i := 0; b.ta.Line() > pos.Row && i < steps; i++ {
		b.ta.CursorUp()
	}
	for i := 0; b.ta.Line() < pos.Row && i < steps; i++ {
		b.ta.CursorDown()
	}
	b.ta.SetCursor(pos.Col)
}
