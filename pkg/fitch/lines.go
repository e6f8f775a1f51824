package fitch

import (
	"strconv"
	"strings"
)

// Role is the structural role of a line relative to its enclosing scope bar
type Role int

const (
	// RolePremise lines precede the scope bar of their scope
	RolePremise Role = iota
	// RoleConclusion lines follow a scope bar at the same depth or close a deeper scope
	RoleConclusion
	// RoleScopeBar is the horizontal bar separating premises from conclusions
	RoleScopeBar
)

func (r Role) String() string {
	switch r {
	case RolePremise:
		return "premise"
	case RoleConclusion:
		return "conclusion"
	case RoleScopeBar:
		return "scope-bar"
	default:
		return "unknown"
	}
}

const (
	// ScopeSeparator marks one level of nesting
	ScopeSeparator = "|"
	// ScopeBarMarker is contained in every scope bar line
	ScopeBarMarker = "|-"
)

// SplitLines splits document text into rows
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// lineAt returns the row, or "" for rows outside the document
func lineAt(lines []string, row int) string {
	if row < 0 || row >= len(lines) {
		return ""
	}
	return lines[row]
}

// DepthOf returns the number of scope separators in the line.
// An empty line has depth 1 so scans past the document edge stay at top level.
func DepthOf(line string) int {
	if line == "" {
		return 1
	}
	return strings.Count(line, ScopeSeparator)
}

// IsScopeBar reports whether the line is a scope bar
func IsScopeBar(line string) bool {
	return strings.Contains(line, ScopeBarMarker)
}

// RoleOf classifies the line at row by scanning upward until a line of
// different depth, or a scope bar of equal depth, settles it.
func RoleOf(lines []string, row int) Role {
	target := lineAt(lines, row)
	if IsScopeBar(target) {
		return RoleScopeBar
	}
	depth := DepthOf(target)

	for r := row; r >= 0; r-- {
		line := lineAt(lines, r)
		d := DepthOf(line)
		switch {
		case d < depth:
			return RolePremise
		case d > depth:
			return RoleConclusion
		case IsScopeBar(line):
			return RoleConclusion
		}
	}
	return RolePremise
}

// leadingNumber parses the positive integer the line's first token starts with
func leadingNumber(line string) (int, bool) {
	token, _, _ := strings.Cut(line, " ")
	end := 0
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(token[:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// DeclaredLineNumber scans upward from row for the nearest line that starts
// with a line number. Lines with a missing, zero or malformed number are
// skipped. When nothing is found it returns (0, false); callers continue
// numbering from 0.
func DeclaredLineNumber(lines []string, row int) (int, bool) {
	if row >= len(lines) {
		row = len(lines) - 1
	}
	for r := row; r >= 0; r-- {
		if n, ok := leadingNumber(lines[r]); ok {
			return n, true
		}
	}
	return 0, false
}

// EditorRow finds the first row declaring the given proof line number
func EditorRow(lines []string, number int) (int, bool) {
	for r, line := range lines {
		if n, ok := leadingNumber(line); ok && n == number {
			return r, true
		}
	}
	return 0, false
}

// Formula returns the text after the last scope separator, left-trimmed
func Formula(line string) string {
	if i := strings.LastIndex(line, ScopeSeparator); i >= 0 {
		line = line[i+len(ScopeSeparator):]
	}
	return strings.TrimLeft(line, " \t")
}

// Premises collects the formulas written above the first scope bar
func Premises(lines []string) []string {
	var premises []string
	for _, line := range lines {
		if IsScopeBar(line) {
			break
		}
		if f := Formula(line); f != "" {
			premises = append(premises, f)
		}
	}
	return premises
}
