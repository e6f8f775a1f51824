package fitch

// Layout holds the depth and role of every row of one document text.
// Roles agree with RoleOf but are computed in one forward pass.
type Layout struct {
	text   string
	lines  []string
	depths []int
	roles  []Role
}

// Analyze builds the layout of a document
func Analyze(text string) *Layout {
	lines := SplitLines(text)
	l := &Layout{
		text:   text,
		lines:  lines,
		depths: make([]int, len(lines)),
		roles:  make([]Role, len(lines)),
	}
	for r, line := range lines {
		l.depths[r] = DepthOf(line)
	}

	// decider[r] is the nearest row above r that ends the upward scan from
	// r: a row of different depth or a scope bar of the same depth. A run
	// of plain rows at one depth shares a single decider.
	decider := make([]int, len(lines))
	for r, line := range lines {
		d := l.depths[r]
		decider[r] = -1
		if r > 0 {
			prev := r - 1
			if l.depths[prev] == d && !IsScopeBar(lines[prev]) {
				decider[r] = decider[prev]
			} else {
				decider[r] = prev
			}
		}

		switch {
		case IsScopeBar(line):
			l.roles[r] = RoleScopeBar
		case decider[r] < 0:
			l.roles[r] = RolePremise
		case l.depths[decider[r]] < d:
			l.roles[r] = RolePremise
		default:
			l.roles[r] = RoleConclusion
		}
	}
	return l
}

// Text returns the analysed text
func (l *Layout) Text() string { return l.text }

// Len returns the number of rows
func (l *Layout) Len() int { return len(l.lines) }

// Line returns the row text, "" outside the document
func (l *Layout) Line(row int) string { return lineAt(l.lines, row) }

// Depth of the given row, 1 for rows outside the document
func (l *Layout) Depth(row int) int {
	if row < 0 || row >= len(l.depths) {
		return 1
	}
	return l.depths[row]
}

// Role of the given row
func (l *Layout) Role(row int) Role {
	if row < 0 || row >= len(l.roles) {
		return RoleOf(l.lines, row)
	}
	return l.roles[row]
}

// LayoutCache memoizes the layout of the last text it was asked about
type LayoutCache struct {
	layout *Layout
}

// Get returns the layout for text, recomputing only when the text changed
func (c *LayoutCache) Get(text string) *Layout {
	if c.layout == nil || c.layout.text != text {
		c.layout = Analyze(text)
	}
	return c.layout
}

// Invalidate drops the cached layout
func (c *LayoutCache) Invalidate() {
	c.layout = nil
}
