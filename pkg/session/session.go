package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultContent seeds new documents
const DefaultContent = `1 | A
  |----
2 | A           Reit: 1`

// DefaultTabName names the tab of a fresh session
const DefaultTabName = "new.txt"

const (
	newTabPrefix = "new-"
	newTabSuffix = ".txt"
)

var (
	ErrNoSuchTab     = errors.New("no such tab")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrNameUnchanged = errors.New("name is unchanged")
	ErrNameConflict  = errors.New("a tab with that name already exists")
)

// Tab is the session-level view of one open document
type Tab struct {
	Name           string `json:"name" yaml:"name"`
	URI            string `json:"uri" yaml:"uri"`
	ProofTarget    string `json:"proofTarget" yaml:"proof_target"`
	ConfettiPlayed bool   `json:"confettiPlayed" yaml:"confetti_played"`
}

// Document is the text behind a tab
type Document struct {
	URI  string
	Text string
}

// Snapshot is a tab together with its document text
type Snapshot struct {
	Tab
	Content string
}

// EventKind says what changed in the session
type EventKind int

const (
	EventTabsChanged EventKind = iota
	EventSelected
	EventTextChanged
	EventRestored
)

func (k EventKind) String() string {
	switch k {
	case EventTabsChanged:
		return "tabs-changed"
	case EventSelected:
		return "selected"
	case EventTextChanged:
		return "text-changed"
	case EventRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after every mutation
type Event struct {
	Kind  EventKind
	Index int
}

// Session is the ordered set of open tabs, the current tab and the counter
// used to name untitled documents. It always holds at least one tab.
// A Session is not safe for concurrent use; its owner serialises access.
type Session struct {
	Tabs    []Tab
	Current int
	Counter int

	docs        map[string]*Document
	toDispose   []string
	subscribers []func(Event)
	logger      *slog.Logger
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a session with one default tab
func New(opts ...Option) *Session {
	s := &Session{
		Counter: 1,
		docs:    make(map[string]*Document),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	uri := newMemoryURI()
	s.docs[uri] = &Document{URI: uri, Text: DefaultContent}
	s.Tabs = []Tab{{Name: DefaultTabName, URI: uri}}
	return s
}

func newMemoryURI() string {
	return "inmemory://" + uuid.NewString()
}

// FileURI is the handle of a document opened from a file
func FileURI(name string) string {
	return "file:///" + name
}

// Subscribe registers fn for every later event
func (s *Session) Subscribe(fn func(Event)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) emit(kind EventKind, index int) {
	ev := Event{Kind: kind, Index: index}
	for _, fn := range s.subscribers {
		fn(ev)
	}
}

func (s *Session) valid(index int) bool {
	return index >= 0 && index < len(s.Tabs)
}

// CurrentTab returns the selected tab
func (s *Session) CurrentTab() Tab {
	return s.Tabs[s.Current]
}

// Document returns the document with the given handle
func (s *Session) Document(uri string) (*Document, bool) {
	doc, ok := s.docs[uri]
	return doc, ok
}

// CurrentDocument returns the document of the selected tab
func (s *Session) CurrentDocument() *Document {
	return s.docs[s.Tabs[s.Current].URI]
}

// Documents returns the number of live documents, including ones waiting
// for disposal
func (s *Session) Documents() int {
	return len(s.docs)
}

// Text returns the content of the tab at index
func (s *Session) Text(index int) (string, error) {
	if !s.valid(index) {
		return "", fmt.Errorf("tab %d: %w", index, ErrNoSuchTab)
	}
	return s.docs[s.Tabs[index].URI].Text, nil
}

// SetText replaces the text of the document with the given handle
func (s *Session) SetText(uri, text string) {
	doc, ok := s.docs[uri]
	if !ok || doc.Text == text {
		return
	}
	doc.Text = text
	s.emit(EventTextChanged, s.indexOf(uri))
}

func (s *Session) indexOf(uri string) int {
	for i, tab := range s.Tabs {
		if tab.URI == uri {
			return i
		}
	}
	return -1
}

// IndexOfName finds a tab by display name
func (s *Session) IndexOfName(name string) int {
	for i, tab := range s.Tabs {
		if tab.Name == name {
			return i
		}
	}
	return -1
}

// NewTab opens an untitled document named from the counter and selects it.
// Without content the document gets the default boilerplate.
func (s *Session) NewTab(content ...string) int {
	text := DefaultContent
	if len(content) > 0 {
		text = content[0]
	}

	uri := newMemoryURI()
	s.docs[uri] = &Document{URI: uri, Text: text}
	s.Tabs = append(s.Tabs, Tab{Name: s.untitledName(), URI: uri})
	s.Current = len(s.Tabs) - 1

	s.logger.Debug("opened new tab", "name", s.Tabs[s.Current].Name, "uri", uri)
	s.emit(EventTabsChanged, s.Current)
	return s.Current
}

// untitledName takes counter values until their name is free
func (s *Session) untitledName() string {
	for {
		name := fmt.Sprintf("%s%d%s", newTabPrefix, s.Counter, newTabSuffix)
		s.Counter++
		if s.IndexOfName(name) < 0 {
			return name
		}
	}
}

// uniqueName numbers name as "name (2).ext", "name (3).ext", ... while
// another tab shows it
func (s *Session) uniqueName(name string) string {
	if s.IndexOfName(name) < 0 {
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if s.IndexOfName(candidate) < 0 {
			return candidate
		}
	}
}

// OpenTab opens externally loaded content under the given name and selects
// it. Opening a name that is already open replaces that tab's text. When
// another tab already shows the name, the new tab gets a numbered one.
func (s *Session) OpenTab(content, name string) int {
	uri := FileURI(name)
	if i := s.indexOf(uri); i >= 0 {
		s.docs[uri].Text = content
		s.Current = i
		s.emit(EventTabsChanged, i)
		return i
	}

	s.docs[uri] = &Document{URI: uri, Text: content}
	s.Tabs = append(s.Tabs, Tab{Name: s.uniqueName(name), URI: uri})
	s.Current = len(s.Tabs) - 1

	s.logger.Debug("opened file tab", "name", s.Tabs[s.Current].Name, "uri", uri)
	s.emit(EventTabsChanged, s.Current)
	return s.Current
}

// CloseTab removes the tab at index. The last remaining tab cannot be
// closed. The document is released on the next FlushDisposals.
func (s *Session) CloseTab(index int) {
	if len(s.Tabs) < 2 || !s.valid(index) {
		return
	}

	uri := s.Tabs[index].URI
	s.Tabs = append(s.Tabs[:index], s.Tabs[index+1:]...)
	s.toDispose = append(s.toDispose, uri)

	switch {
	case s.Current > index:
		s.Current--
	case s.Current >= len(s.Tabs):
		s.Current = len(s.Tabs) - 1
	}

	s.logger.Debug("closed tab", "index", index, "uri", uri)
	s.emit(EventTabsChanged, s.Current)
}

// FlushDisposals releases the documents of closed tabs
func (s *Session) FlushDisposals() []string {
	disposed := s.toDispose
	s.toDispose = nil
	for _, uri := range disposed {
		if s.indexOf(uri) >= 0 {
			// reopened in the meantime
			continue
		}
		delete(s.docs, uri)
	}
	return disposed
}

// RenameTab gives the tab at index a new display name. Empty, unchanged
// and duplicate names are rejected.
func (s *Session) RenameTab(index int, name string) error {
	if !s.valid(index) {
		return fmt.Errorf("tab %d: %w", index, ErrNoSuchTab)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name == s.Tabs[index].Name {
		return ErrNameUnchanged
	}
	if s.IndexOfName(name) >= 0 {
		return fmt.Errorf("%q: %w", name, ErrNameConflict)
	}

	s.Tabs[index].Name = name
	s.emit(EventTabsChanged, index)
	return nil
}

// SelectTab makes the tab at index current
func (s *Session) SelectTab(index int) error {
	if !s.valid(index) {
		return fmt.Errorf("tab %d: %w", index, ErrNoSuchTab)
	}
	if index == s.Current {
		return nil
	}
	s.Current = index
	s.emit(EventSelected, index)
	return nil
}

// SetProofTarget sets the formula the tab should derive. A new target has
// not been reached yet.
func (s *Session) SetProofTarget(index int, target string) error {
	if !s.valid(index) {
		return fmt.Errorf("tab %d: %w", index, ErrNoSuchTab)
	}
	tab := &s.Tabs[index]
	if tab.ProofTarget == target {
		return nil
	}
	tab.ProofTarget = target
	tab.ConfettiPlayed = false
	s.emit(EventTabsChanged, index)
	return nil
}

// MarkTargetReached flags the tab's target as derived. It reports whether
// the flag was newly set.
func (s *Session) MarkTargetReached(index int) bool {
	if !s.valid(index) || s.Tabs[index].ConfettiPlayed {
		return false
	}
	s.Tabs[index].ConfettiPlayed = true
	s.emit(EventTabsChanged, index)
	return true
}

// Snapshots returns every tab with its text, in tab order
func (s *Session) Snapshots() []Snapshot {
	snaps := make([]Snapshot, 0, len(s.Tabs))
	for _, tab := range s.Tabs {
		snap := Snapshot{Tab: tab}
		if doc, ok := s.docs[tab.URI]; ok {
			snap.Content = doc.Text
		}
		snaps = append(snaps, snap)
	}
	return snaps
}

// Restore replaces every tab and document with the snapshots. The counter
// moves past every restored "new-<n>" name and never goes backwards.
func (s *Session) Restore(snaps []Snapshot) {
	if len(snaps) == 0 {
		return
	}

	s.docs = make(map[string]*Document, len(snaps))
	s.toDispose = nil
	s.Tabs = make([]Tab, 0, len(snaps))

	highest := 0
	for _, snap := range snaps {
		tab := snap.Tab
		if tab.URI == "" {
			tab.URI = newMemoryURI()
		}
		if _, dup := s.docs[tab.URI]; dup {
			tab.URI = newMemoryURI()
		}
		s.docs[tab.URI] = &Document{URI: tab.URI, Text: snap.Content}
		s.Tabs = append(s.Tabs, tab)

		if n, ok := untitledNumber(tab.Name); ok && n > highest {
			highest = n
		}
	}

	if highest+1 > s.Counter {
		s.Counter = highest + 1
	}
	if !s.valid(s.Current) {
		s.Current = len(s.Tabs) - 1
	}

	s.logger.Debug("restored session", "tabs", len(s.Tabs), "counter", s.Counter)
	s.emit(EventRestored, s.Current)
}

// untitledNumber parses n from names like "new-12.txt"
func untitledNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, newTabPrefix)
	if !ok {
		return 0, false
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
