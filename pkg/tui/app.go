package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitchpad/fitchpad-cli/pkg/editor"
	"github.com/fitchpad/fitchpad-cli/pkg/exercises"
	"github.com/fitchpad/fitchpad-cli/pkg/files"
	"github.com/fitchpad/fitchpad-cli/pkg/fitch"
	"github.com/fitchpad/fitchpad-cli/pkg/models"
	"github.com/fitchpad/fitchpad-cli/pkg/oracle"
	"github.com/fitchpad/fitchpad-cli/pkg/session"
)

// Options wires the application to its collaborators
type Options struct {
	Session  *session.Session
	Codec    *files.Codec  // nil disables explicit saves and reloads
	Oracle   oracle.Oracle // nil runs the configured checker command
	Settings *models.Settings
	Logger   *slog.Logger

	// WorkDir is where downloads go and the file picker starts
	WorkDir string
	// CopyToClipboard defaults to the system clipboard
	CopyToClipboard func(string) error
}

// App is the bubbletea model hosting the proof editor
type App struct {
	session  *session.Session
	codec    *files.Codec
	oracle   oracle.Oracle
	checker  *oracle.Checker
	editor   *editor.Editor
	settings *models.Settings
	logger   *slog.Logger
	workDir  string
	copyText func(string) error

	textarea textarea.Model
	picker   filepicker.Model
	picking  bool
	prompt   *PromptState

	layouts fitch.LayoutCache
	layout  *fitch.Layout

	report        oracle.Report
	checked       bool
	checkedText   string
	checkedTarget string

	statusMsg string
	statusSeq int
	width     int
	height    int
}

// NewApp creates the application and shows the session's current tab
func NewApp(opts Options) *App {
	settings := opts.Settings
	if settings == nil {
		settings = models.DefaultSettings()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(session.WithLogger(logger))
	}
	workDir := opts.WorkDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		} else {
			workDir = "."
		}
	}
	copyText := opts.CopyToClipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	checker := opts.Oracle
	if checker == nil {
		checker = oracle.NewExecOracle(settings.Oracle, logger.With("component", "oracle"))
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(80)
	ta.SetHeight(20)
	ta.Focus()

	fp := filepicker.New()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AllowedTypes = []string{".txt", ".fitch"}

	a := &App{
		session:  sess,
		codec:    opts.Codec,
		oracle:   checker,
		checker:  oracle.NewChecker(checker, settings.Proof.AllowedVariables, logger.With("component", "checker")),
		editor:   editor.New(logger.With("component", "editor")),
		settings: settings,
		logger:   logger,
		workDir:  workDir,
		copyText: copyText,
		textarea: ta,
		picker:   fp,
		prompt:   NewPromptState(),
	}

	if settings.Editor.ShowRoles {
		a.textarea.SetPromptFunc(gutterWidth, func(row int) string {
			return gutterMarker(a.layout, a.report, row)
		})
	} else {
		a.textarea.Prompt = "  "
	}

	a.loadCurrent()
	return a
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) buffer() editor.TextBuffer {
	return textareaBuffer{ta: &a.textarea}
}

// Text returns the editor contents
func (a *App) Text() string {
	return a.textarea.Value()
}

// Report returns the feedback for the current text
func (a *App) Report() oracle.Report {
	return a.report
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		if a.picking {
			var cmd tea.Cmd
			a.picker, cmd = a.picker.Update(msg)
			return a, cmd
		}
		return a, nil

	case StatusMsg:
		return a, a.setStatus(string(msg))

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
		}
		return a, nil

	case cursorFixMsg:
		if msg.uri != a.session.CurrentTab().URI || msg.text != a.textarea.Value() {
			a.logger.Debug("dropped stale cursor fix", "uri", msg.uri)
			return a, nil
		}
		msg.pending.Apply(a.buffer())
		return a, nil

	case disposeMsg:
		if disposed := a.session.FlushDisposals(); len(disposed) > 0 {
			a.logger.Debug("disposed documents", "count", len(disposed))
		}
		return a, nil

	case StorageChangedMsg:
		return a, a.reloadFromStore(msg.Key)

	case PromptSubmitMsg:
		return a, a.submitPrompt(msg)

	case tea.KeyMsg:
		if Keys.Quit.Matches(msg.String()) {
			return a, tea.Quit
		}
		if a.prompt.IsActive() {
			_, cmd := a.prompt.HandleInput(msg)
			return a, cmd
		}
		if a.picking {
			return a, a.handlePickerKey(msg)
		}
		return a, a.handleKey(msg)
	}

	// internal messages of the picker (directory reads) and the textarea
	// (cursor blink)
	var cmd tea.Cmd
	if a.picking {
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	}
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); {
	case Keys.Indent.Matches(key):
		return a.runEdit(a.editor.Indent)
	case Keys.Outdent.Matches(key):
		return a.runEdit(a.editor.Outdent)
	case Keys.Continue.Matches(key):
		return a.runEdit(func(buf editor.TextBuffer) bool { return a.editor.Continue(buf, false) })
	case Keys.ContinueAlt.Matches(key):
		return a.runEdit(func(buf editor.TextBuffer) bool { return a.editor.Continue(buf, true) })
	case Keys.Format.Matches(key):
		return a.format()
	case Keys.FixNumbers.Matches(key):
		return a.fixLineNumbers()
	case Keys.Latex.Matches(key):
		return a.exportLatex()
	case Keys.Download.Matches(key):
		return a.download()
	case Keys.NewTab.Matches(key):
		a.session.NewTab()
		return a.loadCurrent()
	case Keys.Open.Matches(key):
		return a.startPicker()
	case Keys.Close.Matches(key):
		return a.closeTab()
	case Keys.PrevTab.Matches(key):
		return a.selectTab(a.session.Current - 1)
	case Keys.NextTab.Matches(key):
		return a.selectTab(a.session.Current + 1)
	case Keys.Exercise.Matches(key):
		ex := exercises.Random(nil)
		ex.Open(a.session)
		return tea.Batch(a.loadCurrent(), a.setStatus("New exercise: derive "+ex.Conclusion))
	case Keys.Rename.Matches(key):
		index := a.session.Current
		a.prompt.Start(PromptRename, index, a.session.CurrentTab().Name, false, a.validateTabName(index))
		return nil
	case Keys.Target.Matches(key):
		a.prompt.Start(PromptTarget, a.session.Current, a.session.CurrentTab().ProofTarget, a.settings.Editor.SubstituteSymbols, nil)
		return nil
	case Keys.Variables.Matches(key):
		if !oracle.SupportsAllowedVariables(a.oracle) {
			return a.setStatus(allowedVariablesUnsupported)
		}
		a.prompt.Start(PromptVariables, a.session.Current, a.checker.AllowedVariables(), false, oracle.ValidateAllowedVariables)
		return nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return tea.Batch(cmd, a.afterEdit())
}

// runEdit applies a structural command and syncs the result
func (a *App) runEdit(command func(editor.TextBuffer) bool) tea.Cmd {
	if !command(a.buffer()) {
		return nil
	}
	return a.syncText()
}

// afterEdit substitutes a typed mnemonic and syncs the text. The cursor
// correction for the substitution arrives as a later message.
func (a *App) afterEdit() tea.Cmd {
	var fix tea.Cmd
	if a.settings.Editor.SubstituteSymbols {
		if pending, ok := a.editor.Substitute(a.buffer()); ok {
			uri := a.session.CurrentTab().URI
			text := a.textarea.Value()
			fix = func() tea.Msg { return cursorFixMsg{uri: uri, text: text, pending: pending} }
		}
	}
	return tea.Batch(fix, a.syncText())
}

// syncText copies the editor text into the session, refreshes the layout
// and checks the proof when text or target changed
func (a *App) syncText() tea.Cmd {
	text := a.textarea.Value()
	tab := a.session.CurrentTab()
	a.session.SetText(tab.URI, text)
	a.layout = a.layouts.Get(text)

	if a.checked && text == a.checkedText && tab.ProofTarget == a.checkedTarget {
		return nil
	}
	return a.check()
}

func (a *App) check() tea.Cmd {
	text := a.textarea.Value()
	tab := a.session.CurrentTab()

	a.report = a.checker.Check(context.Background(), text, tab.ProofTarget)
	a.checked = true
	a.checkedText = text
	a.checkedTarget = tab.ProofTarget

	if a.report.TargetReached && a.session.MarkTargetReached(a.session.Current) {
		a.logger.Info("proof target reached", "tab", tab.Name, "target", tab.ProofTarget)
		return a.setStatus("🎉 Proof target reached: " + tab.ProofTarget)
	}
	return nil
}

// loadCurrent shows the current tab's document in the editor
func (a *App) loadCurrent() tea.Cmd {
	doc := a.session.CurrentDocument()
	text := ""
	if doc != nil {
		text = doc.Text
	}
	if a.textarea.Value() != text {
		a.textarea.SetValue(text)
	}
	a.checked = false
	return a.syncText()
}

func (a *App) selectTab(index int) tea.Cmd {
	if index < 0 || index >= len(a.session.Tabs) || index == a.session.Current {
		return nil
	}
	if err := a.session.SelectTab(index); err != nil {
		return a.setStatus(err.Error())
	}
	return tea.Batch(a.loadCurrent(), disposeCmd)
}

func (a *App) closeTab() tea.Cmd {
	if len(a.session.Tabs) < 2 {
		return a.setStatus("Cannot close the last tab")
	}
	name := a.session.CurrentTab().Name
	a.session.CloseTab(a.session.Current)
	return tea.Batch(a.loadCurrent(), disposeCmd, a.setStatus("Closed "+name))
}

func (a *App) validateTabName(index int) func(string) error {
	return func(name string) error {
		if name == "" {
			return session.ErrEmptyName
		}
		if i := a.session.IndexOfName(name); i >= 0 && i != index {
			return session.ErrNameConflict
		}
		return nil
	}
}

func (a *App) submitPrompt(msg PromptSubmitMsg) tea.Cmd {
	switch msg.Kind {
	case PromptRename:
		err := a.session.RenameTab(msg.TabIndex, msg.Value)
		switch {
		case errors.Is(err, session.ErrNameUnchanged):
			return nil
		case err != nil:
			return a.setStatus("Rename failed: " + err.Error())
		}
		return a.setStatus("Renamed to " + a.session.Tabs[msg.TabIndex].Name)

	case PromptTarget:
		if err := a.session.SetProofTarget(msg.TabIndex, msg.Value); err != nil {
			return a.setStatus(err.Error())
		}
		return a.syncText()

	case PromptVariables:
		a.checker.SetAllowedVariables(msg.Value)
		a.checked = false
		return a.syncText()
	}
	return nil
}

// format replaces the text with the formatter's output and flushes the
// session to the store
func (a *App) format() tea.Cmd {
	formatted, err := oracle.Format(context.Background(), a.oracle, a.textarea.Value())
	switch {
	case errors.Is(err, oracle.ErrUnformattable):
		return a.setStatus("✗ The proof is not valid and cannot be formatted")
	case errors.Is(err, oracle.ErrUnsupported):
		return tea.Batch(a.save(), a.setStatus("Saved (no formatter configured)"))
	case err != nil:
		a.logger.Warn("format failed", "error", err)
		return a.setStatus("Format failed: " + err.Error())
	}

	a.editor.Replace(a.buffer(), formatted)
	return tea.Batch(a.syncText(), a.save(), a.setStatus("Formatted"))
}

func (a *App) save() tea.Cmd {
	if a.codec == nil {
		return nil
	}
	if err := a.codec.Save(a.session); err != nil {
		a.logger.Error("save failed", "error", err)
		return a.setStatus("Save failed: " + err.Error())
	}
	return nil
}

func (a *App) fixLineNumbers() tea.Cmd {
	fixed, err := a.oracle.FixLineNumbers(context.Background(), a.textarea.Value())
	if err != nil {
		return a.setStatus("Renumbering failed: " + err.Error())
	}
	if fixed == oracle.InvalidSentinel {
		return a.setStatus("✗ The proof is not valid and cannot be renumbered")
	}
	a.editor.Replace(a.buffer(), fixed)
	return tea.Batch(a.syncText(), a.setStatus("Line numbers fixed"))
}

func (a *App) exportLatex() tea.Cmd {
	latex, err := a.oracle.ExportLatex(context.Background(), a.textarea.Value())
	if err != nil {
		return a.setStatus("LaTeX export failed: " + err.Error())
	}
	if err := a.copyText(latex); err != nil {
		return a.setStatus("Failed to copy to clipboard: " + err.Error())
	}
	return a.setStatus("✓ LaTeX copied to clipboard!")
}

// download writes the tab's text to a file named after the tab
func (a *App) download() tea.Cmd {
	name := filepath.Base(a.session.CurrentTab().Name)
	path := filepath.Join(a.workDir, name)
	if err := os.WriteFile(path, []byte(a.textarea.Value()), 0644); err != nil {
		return a.setStatus("Download failed: " + err.Error())
	}
	return a.setStatus("Saved " + path)
}

func (a *App) startPicker() tea.Cmd {
	a.picking = true
	a.picker.CurrentDirectory = a.workDir
	a.picker.AutoHeight = false
	a.picker.Height = max(a.height-6, 5)
	return a.picker.Init()
}

func (a *App) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		a.picking = false
		return nil
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	if ok, path := a.picker.DidSelectFile(msg); ok {
		a.picking = false
		return tea.Batch(cmd, a.openFile(path))
	}
	return cmd
}

func (a *App) openFile(path string) tea.Cmd {
	data, err := os.ReadFile(path)
	if err != nil {
		return a.setStatus(fmt.Sprintf("Failed to open %s: %v", path, err))
	}
	a.session.OpenTab(string(data), filepath.Base(path))
	return tea.Batch(a.loadCurrent(), disposeCmd, a.setStatus("Opened "+filepath.Base(path)))
}

// reloadFromStore adopts a session another process saved
func (a *App) reloadFromStore(key string) tea.Cmd {
	if a.codec == nil || key != a.codec.Key() {
		return nil
	}
	if !a.codec.Load(a.session) {
		return nil
	}
	return tea.Batch(a.loadCurrent(), a.setStatus("Session updated from another window"))
}

func (a *App) setStatus(msg string) tea.Cmd {
	a.statusMsg = msg
	a.statusSeq++
	seq := a.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (a *App) resize() {
	// tab bar, target line, feedback and status bar
	chrome := 2 + feedbackLines + 1
	a.textarea.SetWidth(a.width)
	a.textarea.SetHeight(max(a.height-chrome, 3))
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	sections := []string{renderTabBar(a.session.Tabs, a.session.Current, a.width)}

	if a.prompt.IsActive() {
		sections = append(sections, a.prompt.View(a.width))
	} else {
		sections = append(sections, renderTarget(a.session.CurrentTab()))
	}

	if a.picking {
		sections = append(sections, a.picker.View())
	} else {
		sections = append(sections, a.textarea.View())
	}

	feedback := lipgloss.NewStyle().Height(feedbackLines).Render(renderFeedback(a.report, a.width))
	sections = append(sections, feedback)

	if a.statusMsg != "" {
		sections = append(sections, StatusBarStyle.Render(a.statusMsg))
	} else {
		sections = append(sections, HelpStyle.Render(truncateHelp(a.width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
