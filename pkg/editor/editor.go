package editor

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fitchpad/fitchpad-cli/pkg/fitch"
)

const (
	// scopeSegment is inserted by Indent in front of the innermost separator
	scopeSegment = " | "
	// minOutdentColumn is the zero-based rune column of the innermost
	// separator at or below which Outdent does nothing (column 3 when
	// counting from 1). It keeps at least one scope segment on the line.
	minOutdentColumn = 2
)

// Editor runs the structure-preserving editing commands
type Editor struct {
	logger *slog.Logger
}

// New creates an editor. A nil logger discards output.
func New(logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{logger: logger}
}

// cursorLine returns the document rows, the clamped cursor row and its runes
func cursorLine(buf TextBuffer) ([]string, int, []rune) {
	lines := fitch.SplitLines(buf.Value())
	pos := ClampPosition(buf.Value(), buf.Cursor())
	return lines, pos.Row, []rune(lines[pos.Row])
}

func lastSeparator(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '|' {
			return i
		}
	}
	return -1
}

func (e *Editor) singleCursor(buf TextBuffer, command string) bool {
	if buf.HasSelection() {
		e.logger.Debug("ignoring command with active selection", "command", command)
		return false
	}
	return true
}

// Indent opens one more scope level in front of the innermost separator
// of the cursor line.
func (e *Editor) Indent(buf TextBuffer) bool {
	if !e.singleCursor(buf, "indent") {
		return false
	}
	lines, row, runes := cursorLine(buf)
	p := lastSeparator(runes)
	if p < 0 {
		return false
	}

	start := p - 1
	if start < 0 {
		start = 0
	}
	lines[row] = string(runes[:start]) + scopeSegment + string(runes[p:])
	buf.SetValue(strings.Join(lines, "\n"))
	buf.SetCursor(Position{Row: row, Col: p + 4})
	return true
}

// Outdent removes the scope segment in front of the innermost separator.
// Lines with a single scope level are left alone.
func (e *Editor) Outdent(buf TextBuffer) bool {
	if !e.singleCursor(buf, "outdent") {
		return false
	}
	lines, row, runes := cursorLine(buf)
	p := lastSeparator(runes)
	if p <= minOutdentColumn {
		return false
	}

	lines[row] = string(runes[:p-2]) + string(runes[p:])
	buf.SetValue(strings.Join(lines, "\n"))
	buf.SetCursor(Position{Row: row, Col: p})
	return true
}

// Continue starts the next proof line below the cursor line.
//
// Below a premise a scope bar is added first when the premise is nested;
// invert flips that choice. Below anything else the next numbered line
// continues the scope, or with invert an unnumbered continuation line is
// added for wrapping a long formula.
func (e *Editor) Continue(buf TextBuffer, invert bool) bool {
	if !e.singleCursor(buf, "continue") {
		return false
	}
	lines, row, _ := cursorLine(buf)

	number, ok := fitch.DeclaredLineNumber(lines, row)
	if !ok {
		e.logger.Debug("no line number above cursor, numbering from zero", "row", row)
	}
	depth := fitch.DepthOf(lines[row])
	role := fitch.RoleOf(lines, row)
	segments := strings.Repeat("| ", depth)

	text := fmt.Sprintf("\n%d %s", number+1, segments)
	advance := 1
	if role == fitch.RolePremise {
		if (depth > 1) != invert {
			text = "\n " + strings.Repeat(" |", depth) + "---" + text
			advance = 2
		}
	} else if invert {
		text = "\n" + strings.Repeat(" ", len(strconv.Itoa(number))) + " " + segments
	}

	lines[row] += text
	value := strings.Join(lines, "\n")
	buf.SetValue(value)

	target := fitch.SplitLines(value)[row+advance]
	buf.SetCursor(Position{Row: row + advance, Col: utf8.RuneCountInString(target)})
	return true
}

// PendingCursor is a cursor position computed from a full-text replacement.
// It must be applied only after the widget has finished laying out the
// new text.
type PendingCursor struct {
	Pos Position
}

// Apply moves the buffer cursor to the pending position
func (p PendingCursor) Apply(buf TextBuffer) {
	buf.SetCursor(p.Pos)
}

// Substitute replaces one typed mnemonic with its glyph. When the text
// changed it returns the cursor position that keeps the cursor behind the
// same characters; the caller applies it in a later step.
func (e *Editor) Substitute(buf TextBuffer) (PendingCursor, bool) {
	text, offset := fitch.ReplaceWithSymbols(buf.Value())
	if offset == fitch.NoSubstitution {
		return PendingCursor{}, false
	}

	pos := buf.Cursor()
	buf.SetValue(text)
	col := pos.Col - offset
	if col < 0 {
		col = 0
	}
	e.logger.Debug("substituted symbol", "row", pos.Row, "offset", offset)
	return PendingCursor{Pos: Position{Row: pos.Row, Col: col}}, true
}

// SubstituteField runs one substitution over a single-line input field and
// returns the new value with the adjusted rune cursor.
func SubstituteField(value string, cursor int) (string, int) {
	text, offset := fitch.ReplaceWithSymbols(value)
	if offset == fitch.NoSubstitution {
		return value, cursor
	}
	cursor -= offset
	if cursor < 0 {
		cursor = 0
	}
	return text, cursor
}

// Replace swaps the whole text, for reformatting and renumbering, and moves
// the cursor to the end of the row it was on.
func (e *Editor) Replace(buf TextBuffer, text string) {
	row := buf.Cursor().Row
	buf.SetValue(text)
	lines := fitch.SplitLines(text)
	if row >= len(lines) {
		row = len(lines) - 1
	}
	buf.SetCursor(Position{Row: row, Col: utf8.RuneCountInString(lines[row])})
}
