package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitchpad/fitchpad-cli/pkg/editor"
	"github.com/fitchpad/fitchpad-cli/pkg/files"
	"github.com/fitchpad/fitchpad-cli/pkg/models"
	"github.com/fitchpad/fitchpad-cli/pkg/oracle"
	"github.com/fitchpad/fitchpad-cli/pkg/session"
)

// stubOracle answers every check with fixed text
type stubOracle struct {
	check    string
	template string
	format   string
	fixed    string
	latex    string
	checks   int
}

func (s *stubOracle) CheckProof(ctx context.Context, proof, allowed string) (string, error) {
	s.checks++
	return s.check, nil
}

func (s *stubOracle) CheckProofWithTemplate(ctx context.Context, proof string, template []string, allowed string) (string, error) {
	return s.template, nil
}

func (s *stubOracle) FormatProof(ctx context.Context, proof string) (string, error) {
	if s.format == "" {
		return "", oracle.ErrUnsupported
	}
	return s.format, nil
}

func (s *stubOracle) FixLineNumbers(ctx context.Context, proof string) (string, error) {
	return s.fixed, nil
}

func (s *stubOracle) ExportLatex(ctx context.Context, proof string) (string, error) {
	return s.latex, nil
}

func newTestApp(t *testing.T, o *stubOracle) *App {
	t.Helper()
	if o == nil {
		o = &stubOracle{check: "The proof is correct!"}
	}
	app := NewApp(Options{
		Session:         session.New(),
		Oracle:          o,
		Settings:        models.DefaultSettings(),
		WorkDir:         t.TempDir(),
		CopyToClipboard: func(string) error { return nil },
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func typeText(app *App, text string) {
	for _, r := range text {
		press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func lastLine(text string) string {
	lines := strings.Split(text, "\n")
	return lines[len(lines)-1]
}

func TestNewApp_ShowsCurrentTab(t *testing.T) {
	o := &stubOracle{check: "The proof is correct!"}
	app := newTestApp(t, o)

	if app.Text() != session.DefaultContent {
		t.Errorf("text = %q, want default content", app.Text())
	}
	if app.Report().Status != oracle.StatusCorrect {
		t.Errorf("status = %v, want correct", app.Report().Status)
	}
	if o.checks != 1 {
		t.Errorf("checks = %d, want 1", o.checks)
	}

	view := app.View()
	for _, want := range []string{"new.txt", "The proof is correct!", "No proof target"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
}

func TestApp_StructuralKeys(t *testing.T) {
	tests := []struct {
		name     string
		key      tea.KeyMsg
		wantLast string
		wantPos  editor.Position
	}{
		{
			name:     "tab indents",
			key:      tea.KeyMsg{Type: tea.KeyTab},
			wantLast: "2 | | A           Reit: 1",
			wantPos:  editor.Position{Row: 2, Col: 6},
		},
		{
			name:     "enter continues",
			key:      tea.KeyMsg{Type: tea.KeyEnter},
			wantLast: "3 | ",
			wantPos:  editor.Position{Row: 3, Col: 4},
		},
		{
			name:     "alt+enter adds a continuation line",
			key:      tea.KeyMsg{Type: tea.KeyEnter, Alt: true},
			wantLast: "  | ",
			wantPos:  editor.Position{Row: 3, Col: 4},
		},
		{
			name:     "shift+tab leaves a single level alone",
			key:      tea.KeyMsg{Type: tea.KeyShiftTab},
			wantLast: "2 | A           Reit: 1",
			wantPos:  editor.Position{Row: 2, Col: 23},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, nil)
			press(app, tt.key)

			if got := lastLine(app.Text()); got != tt.wantLast {
				t.Errorf("last line = %q, want %q", got, tt.wantLast)
			}
			if got := app.buffer().Cursor(); got != tt.wantPos {
				t.Errorf("cursor = %+v, want %+v", got, tt.wantPos)
			}
			if doc := app.session.CurrentDocument(); doc.Text != app.Text() {
				t.Errorf("session text %q not synced with editor %q", doc.Text, app.Text())
			}
		})
	}
}

// collectMsgs runs cmd and the commands of any batch it yields. Commands
// that do not answer quickly, like timers, are skipped.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var msgs []tea.Msg
			for _, c := range batch {
				msgs = append(msgs, collectMsgs(c)...)
			}
			return msgs
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func cursorFixFrom(cmd tea.Cmd) *cursorFixMsg {
	for _, msg := range collectMsgs(cmd) {
		if fix, ok := msg.(cursorFixMsg); ok {
			return &fix
		}
	}
	return nil
}

func pressRune(app *App, r rune) tea.Cmd {
	return press(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestApp_SymbolSubstitution(t *testing.T) {
	app := newTestApp(t, nil)

	if fix := cursorFixFrom(pressRune(app, ' ')); fix != nil {
		t.Errorf("cursor fix %+v emitted without a substitution", *fix)
	}
	pressRune(app, 'f')

	fix := cursorFixFrom(pressRune(app, 'a'))
	if fix == nil {
		t.Fatal("no cursor fix emitted for a substitution")
	}
	if !strings.HasSuffix(app.Text(), "Reit: 1 ∀") {
		t.Fatalf("text = %q, want substituted glyph", app.Text())
	}

	// the cursor stays behind the glyph
	app.Update(*fix)
	want := editor.Position{Row: 2, Col: 25}
	if got := app.buffer().Cursor(); got != want {
		t.Errorf("cursor = %+v, want %+v", got, want)
	}

	// a fix for another tab is ignored
	app.Update(cursorFixMsg{uri: "inmemory://other", text: app.Text(), pending: editor.PendingCursor{}})
	if got := app.buffer().Cursor(); got != want {
		t.Errorf("cursor moved to %+v for another tab's fix", got)
	}
}

func TestApp_StaleCursorFix(t *testing.T) {
	app := newTestApp(t, nil)
	typeText(app, " f")

	fix := cursorFixFrom(pressRune(app, 'a'))
	if fix == nil {
		t.Fatal("no cursor fix emitted for a substitution")
	}

	// more keys arrive before the fix is delivered
	typeText(app, " x")
	before := app.buffer().Cursor()
	if before != (editor.Position{Row: 2, Col: 27}) {
		t.Fatalf("cursor before fix = %+v", before)
	}

	app.Update(*fix)
	if got := app.buffer().Cursor(); got != before {
		t.Errorf("stale fix moved cursor from %+v to %+v", before, got)
	}

	typeText(app, "Y")
	if !strings.HasSuffix(app.Text(), "Reit: 1 ∀ xY") {
		t.Errorf("text = %q, want input at the end of the line", app.Text())
	}
}

// fixedVariablesOracle is a checker that ignores allowed variable names
type fixedVariablesOracle struct {
	*stubOracle
}

func (fixedVariablesOracle) SupportsAllowedVariables() bool {
	return false
}

func TestApp_AllowedVariables(t *testing.T) {
	app := newTestApp(t, nil)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !app.prompt.IsActive() {
		t.Error("variables prompt did not open")
	}

	app = NewApp(Options{
		Session:  session.New(),
		Oracle:   fixedVariablesOracle{&stubOracle{check: "The proof is correct!"}},
		Settings: models.DefaultSettings(),
	})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	if app.prompt.IsActive() {
		t.Error("variables prompt opened for a checker without variable support")
	}
	if app.statusMsg != allowedVariablesUnsupported {
		t.Errorf("status = %q", app.statusMsg)
	}
}

func TestApp_SubstitutionDisabled(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Editor.SubstituteSymbols = false
	app := NewApp(Options{Session: session.New(), Oracle: &stubOracle{}, Settings: settings})

	typeText(app, "&")
	if !strings.HasSuffix(app.Text(), "&") {
		t.Errorf("text = %q, want the typed character kept", app.Text())
	}
}

func TestApp_Tabs(t *testing.T) {
	app := newTestApp(t, nil)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlN})
	if len(app.session.Tabs) != 2 || app.session.Current != 1 {
		t.Fatalf("tabs = %d current = %d, want 2 and 1", len(app.session.Tabs), app.session.Current)
	}
	if app.session.CurrentTab().Name != "new-1.txt" {
		t.Errorf("name = %q, want new-1.txt", app.session.CurrentTab().Name)
	}

	typeText(app, "X")
	press(app, tea.KeyMsg{Type: tea.KeyCtrlLeft})
	if app.session.Current != 0 || app.Text() != session.DefaultContent {
		t.Errorf("switching left showed tab %d with %q", app.session.Current, app.Text())
	}

	press(app, tea.KeyMsg{Type: tea.KeyCtrlRight})
	if !strings.HasSuffix(app.Text(), "X") {
		t.Errorf("switching back lost the edit: %q", app.Text())
	}

	closedURI := app.session.CurrentTab().URI
	press(app, tea.KeyMsg{Type: tea.KeyCtrlW})
	if len(app.session.Tabs) != 1 {
		t.Fatalf("tabs = %d after close, want 1", len(app.session.Tabs))
	}
	if _, ok := app.session.Document(closedURI); !ok {
		t.Error("document disposed before the deferred step")
	}
	app.Update(disposeMsg{})
	if _, ok := app.session.Document(closedURI); ok {
		t.Error("document still present after disposal")
	}

	press(app, tea.KeyMsg{Type: tea.KeyCtrlW})
	if len(app.session.Tabs) != 1 || !strings.Contains(app.statusMsg, "last tab") {
		t.Errorf("closing the last tab: tabs = %d status = %q", len(app.session.Tabs), app.statusMsg)
	}
}

func TestApp_RenamePrompt(t *testing.T) {
	app := newTestApp(t, nil)
	app.session.NewTab()
	app.loadCurrent()

	press(app, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !app.prompt.IsActive() {
		t.Fatal("rename prompt not active")
	}
	press(app, tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(app, "new.txt")
	if app.prompt.ValidationError == "" {
		t.Error("expected a conflict error for an existing name")
	}

	press(app, tea.KeyMsg{Type: tea.KeyBackspace})
	press(app, tea.KeyMsg{Type: tea.KeyBackspace})
	press(app, tea.KeyMsg{Type: tea.KeyBackspace})
	typeText(app, "fitch")
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not submit the prompt")
	}
	app.Update(cmd())

	if got := app.session.CurrentTab().Name; got != "new.fitch" {
		t.Errorf("name = %q, want new.fitch", got)
	}
	if app.prompt.IsActive() {
		t.Error("prompt still active after submit")
	}
}

func TestApp_ProofTarget(t *testing.T) {
	o := &stubOracle{check: "The proof is correct!", template: "The proof is correct!"}
	app := newTestApp(t, o)

	press(app, tea.KeyMsg{Type: tea.KeyCtrlT})
	typeText(app, "A or B")
	if app.prompt.Value != "A ∨ B" {
		t.Errorf("prompt value = %q, want substituted target", app.prompt.Value)
	}
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(cmd())

	tab := app.session.CurrentTab()
	if tab.ProofTarget != "A ∨ B" {
		t.Errorf("target = %q", tab.ProofTarget)
	}
	if !tab.ConfettiPlayed {
		t.Error("target not marked reached")
	}
	if !strings.Contains(app.statusMsg, "Proof target reached") {
		t.Errorf("status = %q, want celebration", app.statusMsg)
	}

	app.statusMsg = ""
	typeText(app, " ")
	if app.statusMsg != "" {
		t.Errorf("celebration repeated: %q", app.statusMsg)
	}
}

func TestApp_Format(t *testing.T) {
	t.Run("invalid sentinel keeps text", func(t *testing.T) {
		app := newTestApp(t, &stubOracle{format: oracle.InvalidSentinel})
		press(app, tea.KeyMsg{Type: tea.KeyCtrlS})

		if app.Text() != session.DefaultContent {
			t.Errorf("text changed to %q", app.Text())
		}
		if !strings.Contains(app.statusMsg, "cannot be formatted") {
			t.Errorf("status = %q", app.statusMsg)
		}
	})

	t.Run("formatted text replaces buffer", func(t *testing.T) {
		app := newTestApp(t, &stubOracle{format: "1 | A\n  |---\n2 | A    Reit: 1"})
		press(app, tea.KeyMsg{Type: tea.KeyCtrlS})

		if app.Text() != "1 | A\n  |---\n2 | A    Reit: 1" {
			t.Errorf("text = %q", app.Text())
		}
		if got := app.buffer().Cursor(); got.Row != 2 || got.Col != 16 {
			t.Errorf("cursor = %+v, want end of row 2", got)
		}
	})
}

func TestApp_FixLineNumbers(t *testing.T) {
	app := newTestApp(t, &stubOracle{fixed: oracle.InvalidSentinel})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	if app.Text() != session.DefaultContent {
		t.Errorf("text changed to %q", app.Text())
	}
	if !strings.Contains(app.statusMsg, "cannot be renumbered") {
		t.Errorf("status = %q", app.statusMsg)
	}

	app = newTestApp(t, &stubOracle{fixed: "1 | A\n  |---\n2 | A    Reit: 1"})
	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	if app.Text() != "1 | A\n  |---\n2 | A    Reit: 1" {
		t.Errorf("text = %q", app.Text())
	}
	if app.statusMsg != "Line numbers fixed" {
		t.Errorf("status = %q", app.statusMsg)
	}
}

func TestApp_LatexAndDownload(t *testing.T) {
	var copied string
	dir := t.TempDir()
	app := NewApp(Options{
		Session:         session.New(),
		Oracle:          &stubOracle{latex: `\begin{fitch}`},
		WorkDir:         dir,
		CopyToClipboard: func(s string) error { copied = s; return nil },
	})

	press(app, tea.KeyMsg{Type: tea.KeyCtrlX})
	if copied != `\begin{fitch}` {
		t.Errorf("clipboard = %q", copied)
	}

	press(app, tea.KeyMsg{Type: tea.KeyCtrlD})
	data, err := os.ReadFile(filepath.Join(dir, "new.txt"))
	if err != nil {
		t.Fatalf("download not written: %v", err)
	}
	if string(data) != session.DefaultContent {
		t.Errorf("downloaded %q", data)
	}
}

func TestApp_StorageChange(t *testing.T) {
	store := files.NewMemoryStore()
	codec := files.NewCodec(store, nil)
	sess := session.New()
	codec.Load(sess)
	codec.Attach(sess)

	app := NewApp(Options{Session: sess, Codec: codec, Oracle: &stubOracle{}})

	other := session.New()
	other.SetText(other.Tabs[0].URI, "1 | C")
	other.NewTab("1 | D")
	data, err := files.Encode(other)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(files.SessionKey, data); err != nil {
		t.Fatal(err)
	}

	app.Update(StorageChangedMsg{Key: "unrelated"})
	if len(app.session.Tabs) != 1 {
		t.Fatal("reloaded for an unrelated key")
	}

	app.Update(StorageChangedMsg{Key: files.SessionKey})
	if len(app.session.Tabs) != 2 {
		t.Fatalf("tabs = %d, want 2", len(app.session.Tabs))
	}
	if app.Text() != "1 | C" {
		t.Errorf("text = %q, want the stored text", app.Text())
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, nil)
	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestForwardStorageChanges(t *testing.T) {
	changes := make(chan string, 2)
	changes <- "tabs"
	changes <- "other"
	close(changes)

	var got []tea.Msg
	ForwardStorageChanges(func(msg tea.Msg) { got = append(got, msg) }, changes)

	if len(got) != 2 || got[0] != (StorageChangedMsg{Key: "tabs"}) {
		t.Errorf("forwarded %v", got)
	}
}
