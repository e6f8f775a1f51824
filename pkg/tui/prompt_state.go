package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitchpad/fitchpad-cli/pkg/editor"
)

// PromptKind selects what a submitted prompt changes
type PromptKind int

const (
	PromptRename PromptKind = iota
	PromptTarget
	PromptVariables
)

func (k PromptKind) label() string {
	switch k {
	case PromptRename:
		return "Rename tab"
	case PromptTarget:
		return "Proof target"
	default:
		return "Allowed variables"
	}
}

// PromptSubmitMsg carries the accepted value of a prompt
type PromptSubmitMsg struct {
	Kind     PromptKind
	TabIndex int
	Value    string
}

// PromptState is the single-line input shown under the tab bar
type PromptState struct {
	Active          bool
	Kind            PromptKind
	TabIndex        int    // tab the prompt applies to
	Original        string // value when the prompt opened
	Value           string
	CursorPos       int // rune index into Value
	ValidationError string

	// substitute runs symbol substitution after every edit
	substitute bool
	validator  func(string) error
}

// NewPromptState creates an inactive prompt
func NewPromptState() *PromptState {
	return &PromptState{}
}

// Start opens the prompt pre-filled with value and the cursor at its end
func (ps *PromptState) Start(kind PromptKind, tabIndex int, value string, substitute bool, validator func(string) error) {
	ps.Active = true
	ps.Kind = kind
	ps.TabIndex = tabIndex
	ps.Original = value
	ps.Value = value
	ps.CursorPos = len([]rune(value))
	ps.substitute = substitute
	ps.validator = validator
	ps.ValidationError = ""
}

// Reset closes the prompt
func (ps *PromptState) Reset() {
	*ps = PromptState{}
}

// IsActive returns whether the prompt takes input
func (ps *PromptState) IsActive() bool {
	return ps.Active
}

// HandleInput processes keyboard input while the prompt is active
func (ps *PromptState) HandleInput(msg tea.KeyMsg) (handled bool, cmd tea.Cmd) {
	if !ps.Active {
		return false, nil
	}

	runes := []rune(ps.Value)
	switch msg.String() {
	case "esc":
		ps.Reset()
		return true, nil

	case "enter":
		if ps.ValidationError != "" {
			return true, nil
		}
		submit := PromptSubmitMsg{Kind: ps.Kind, TabIndex: ps.TabIndex, Value: ps.Value}
		ps.Reset()
		return true, func() tea.Msg { return submit }

	case "backspace":
		if ps.CursorPos > 0 {
			ps.Value = string(runes[:ps.CursorPos-1]) + string(runes[ps.CursorPos:])
			ps.CursorPos--
			ps.edited()
		}
		return true, nil

	case "delete":
		if ps.CursorPos < len(runes) {
			ps.Value = string(runes[:ps.CursorPos]) + string(runes[ps.CursorPos+1:])
			ps.edited()
		}
		return true, nil

	case "left", "ctrl+b":
		if ps.CursorPos > 0 {
			ps.CursorPos--
		}
		return true, nil

	case "right", "ctrl+f":
		if ps.CursorPos < len(runes) {
			ps.CursorPos++
		}
		return true, nil

	case "home", "ctrl+a":
		ps.CursorPos = 0
		return true, nil

	case "end", "ctrl+e":
		ps.CursorPos = len(runes)
		return true, nil

	case "ctrl+u":
		ps.Value = string(runes[ps.CursorPos:])
		ps.CursorPos = 0
		ps.edited()
		return true, nil

	case "ctrl+k":
		ps.Value = string(runes[:ps.CursorPos])
		ps.edited()
		return true, nil

	case "tab":
		return true, nil

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			inserted := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				inserted = " "
			}
			ps.Value = string(runes[:ps.CursorPos]) + inserted + string(runes[ps.CursorPos:])
			ps.CursorPos += len([]rune(inserted))
			ps.edited()
			return true, nil
		}
	}

	// other keys never reach the editor while the prompt is open
	return true, nil
}

func (ps *PromptState) edited() {
	if ps.substitute {
		ps.Value, ps.CursorPos = editor.SubstituteField(ps.Value, ps.CursorPos)
	}
	ps.ValidationError = ""
	if ps.validator != nil {
		if err := ps.validator(ps.Value); err != nil {
			ps.ValidationError = err.Error()
		}
	}
}

// View renders the prompt line with a block cursor
func (ps *PromptState) View(width int) string {
	if !ps.Active {
		return ""
	}

	runes := []rune(ps.Value)
	var b strings.Builder
	b.WriteString(PromptLabelStyle.Render(ps.Kind.label() + ": "))
	b.WriteString(string(runes[:ps.CursorPos]))
	if ps.CursorPos < len(runes) {
		b.WriteString(PromptCursorStyle.Render(string(runes[ps.CursorPos])))
		b.WriteString(string(runes[ps.CursorPos+1:]))
	} else {
		b.WriteString(PromptCursorStyle.Render(" "))
	}
	if ps.ValidationError != "" {
		b.WriteString("  ")
		b.WriteString(ErrorTextStyle.Render(ps.ValidationError))
	}
	return b.String()
}
