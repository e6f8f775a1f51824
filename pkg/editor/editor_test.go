package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndent(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     Position
		wantText   string
		wantCursor Position
		wantOK     bool
	}{
		{
			name:       "top level line",
			text:       "1 | A",
			cursor:     Position{0, 5},
			wantText:   "1 | | A",
			wantCursor: Position{0, 6},
			wantOK:     true,
		},
		{
			name:       "second line of document",
			text:       "1 | A\n2 | | B",
			cursor:     Position{1, 0},
			wantText:   "1 | A\n2 | | | B",
			wantCursor: Position{1, 8},
			wantOK:     true,
		},
		{
			name:       "line without separator",
			text:       "A",
			cursor:     Position{0, 1},
			wantText:   "A",
			wantCursor: Position{0, 1},
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewMemoryBuffer(tt.text, tt.cursor)
			ok := New(nil).Indent(buf)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantText, buf.Value())
			assert.Equal(t, tt.wantCursor, buf.Cursor())
		})
	}
}

func TestOutdent(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     Position
		wantText   string
		wantCursor Position
		wantOK     bool
	}{
		{
			name:       "nested line",
			text:       "1 | | A",
			cursor:     Position{0, 7},
			wantText:   "1 | A",
			wantCursor: Position{0, 4},
			wantOK:     true,
		},
		{
			name:       "separator just past the threshold",
			text:       " | | A",
			cursor:     Position{0, 6},
			wantText:   " | A",
			wantCursor: Position{0, 3},
			wantOK:     true,
		},
		{
			name:       "single scope is kept",
			text:       "1 | A",
			cursor:     Position{0, 5},
			wantText:   "1 | A",
			wantCursor: Position{0, 5},
			wantOK:     false,
		},
		{
			name:       "no separator",
			text:       "hello",
			cursor:     Position{0, 2},
			wantText:   "hello",
			wantCursor: Position{0, 2},
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewMemoryBuffer(tt.text, tt.cursor)
			ok := New(nil).Outdent(buf)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantText, buf.Value())
			assert.Equal(t, tt.wantCursor, buf.Cursor())
		})
	}
}

func TestIndentOutdentRoundTrip(t *testing.T) {
	ed := New(nil)
	buf := NewMemoryBuffer("1 | A\n2 | | B", Position{1, 3})

	assert.True(t, ed.Indent(buf))
	assert.True(t, ed.Outdent(buf))
	assert.Equal(t, "1 | A\n2 | | B", buf.Value())
}

func TestContinue(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     Position
		invert     bool
		wantText   string
		wantCursor Position
	}{
		{
			name:       "top level premise continues without bar",
			text:       "1 | A",
			cursor:     Position{0, 5},
			wantText:   "1 | A\n2 | ",
			wantCursor: Position{1, 4},
		},
		{
			name:       "top level premise with modifier adds bar",
			text:       "1 | A",
			cursor:     Position{0, 5},
			invert:     true,
			wantText:   "1 | A\n  |---\n2 | ",
			wantCursor: Position{2, 4},
		},
		{
			name:       "nested premise adds bar",
			text:       "1 | A\n  |----\n2 | | B",
			cursor:     Position{2, 7},
			wantText:   "1 | A\n  |----\n2 | | B\n  | |---\n3 | | ",
			wantCursor: Position{4, 6},
		},
		{
			name:       "nested premise with modifier skips bar",
			text:       "1 | A\n  |----\n2 | | B",
			cursor:     Position{2, 7},
			invert:     true,
			wantText:   "1 | A\n  |----\n2 | | B\n3 | | ",
			wantCursor: Position{3, 6},
		},
		{
			name:       "conclusion continues the scope",
			text:       "1 | A\n  |----\n2 | A",
			cursor:     Position{2, 5},
			wantText:   "1 | A\n  |----\n2 | A\n3 | ",
			wantCursor: Position{3, 4},
		},
		{
			name:       "conclusion with modifier adds continuation line",
			text:       "1 | A\n  |----\n2 | A ∧",
			cursor:     Position{2, 7},
			invert:     true,
			wantText:   "1 | A\n  |----\n2 | A ∧\n  | ",
			wantCursor: Position{3, 4},
		},
		{
			name:       "inserts at end of line whatever the column",
			text:       "1 | A\n  |----\n2 | A",
			cursor:     Position{2, 1},
			wantText:   "1 | A\n  |----\n2 | A\n3 | ",
			wantCursor: Position{3, 4},
		},
		{
			name:       "empty document numbers from zero",
			text:       "",
			cursor:     Position{0, 0},
			wantText:   "\n1 | ",
			wantCursor: Position{1, 4},
		},
		{
			name:       "unnumbered document numbers from zero",
			text:       "  |----",
			cursor:     Position{0, 7},
			wantText:   "  |----\n1 | ",
			wantCursor: Position{1, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewMemoryBuffer(tt.text, tt.cursor)
			ok := New(nil).Continue(buf, tt.invert)

			assert.True(t, ok)
			assert.Equal(t, tt.wantText, buf.Value())
			assert.Equal(t, tt.wantCursor, buf.Cursor())
		})
	}
}

func TestCommandsIgnoreSelections(t *testing.T) {
	ed := New(nil)
	commands := map[string]func(TextBuffer) bool{
		"indent":   ed.Indent,
		"outdent":  ed.Outdent,
		"continue": func(b TextBuffer) bool { return ed.Continue(b, false) },
	}

	for name, run := range commands {
		t.Run(name, func(t *testing.T) {
			buf := NewMemoryBuffer("1 | | A", Position{0, 3})
			buf.SetSelection(true)

			assert.False(t, run(buf))
			assert.Equal(t, "1 | | A", buf.Value())
			assert.Equal(t, Position{0, 3}, buf.Cursor())
		})
	}
}

func TestSubstitute(t *testing.T) {
	ed := New(nil)

	t.Run("cursor fix is deferred until applied", func(t *testing.T) {
		buf := NewMemoryBuffer("fa x", Position{0, 2})

		pending, ok := ed.Substitute(buf)
		assert.True(t, ok)
		assert.Equal(t, "∀ x", buf.Value())
		assert.Equal(t, Position{0, 2}, buf.Cursor())

		pending.Apply(buf)
		assert.Equal(t, Position{0, 1}, buf.Cursor())
	})

	t.Run("no token leaves cursor alone", func(t *testing.T) {
		buf := NewMemoryBuffer("1 | A ∧ B", Position{0, 4})

		pending, ok := ed.Substitute(buf)
		assert.False(t, ok)
		assert.Equal(t, PendingCursor{}, pending)
		assert.Equal(t, "1 | A ∧ B", buf.Value())
		assert.Equal(t, Position{0, 4}, buf.Cursor())
	})

	t.Run("cursor never goes negative", func(t *testing.T) {
		buf := NewMemoryBuffer("A impl B", Position{0, 1})

		pending, ok := ed.Substitute(buf)
		assert.True(t, ok)
		assert.Equal(t, 0, pending.Pos.Col)
	})
}

func TestSubstituteField(t *testing.T) {
	value, cursor := SubstituteField("A -> B", 4)
	assert.Equal(t, "A → B", value)
	assert.Equal(t, 3, cursor)

	value, cursor = SubstituteField("A → B", 3)
	assert.Equal(t, "A → B", value)
	assert.Equal(t, 3, cursor)
}

func TestReplace(t *testing.T) {
	ed := New(nil)

	buf := NewMemoryBuffer("1 | A\n2 | B", Position{1, 1})
	ed.Replace(buf, "1 | A\n2 | Bcd")
	assert.Equal(t, Position{1, 7}, buf.Cursor())

	buf = NewMemoryBuffer("1 | A\n2 | B\n3 | C", Position{2, 0})
	ed.Replace(buf, "1 | A")
	assert.Equal(t, Position{0, 5}, buf.Cursor())
}

func TestClampPosition(t *testing.T) {
	assert.Equal(t, Position{0, 0}, ClampPosition("", Position{3, 9}))
	assert.Equal(t, Position{1, 3}, ClampPosition("ab\n∀∃¬", Position{1, 10}))
	assert.Equal(t, Position{0, 0}, ClampPosition("abc", Position{-1, -1}))
}
