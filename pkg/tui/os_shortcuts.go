package tui

import (
	"runtime"
	"strings"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

// detectOS maps a GOOS value to its OSType
func detectOS(goos string) OSType {
	switch goos {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// currentOS selects the shortcut variants; tests override it
var currentOS = detectOS(runtime.GOOS)

// ShortcutKey is a key binding with OS-specific variations. The default
// key always works; the OS variant is an extra binding for terminals that
// swallow the default.
type ShortcutKey struct {
	Mac     string
	Linux   string
	Windows string
	Default string
}

// Get returns the shortcut shown for the current OS
func (s ShortcutKey) Get() string {
	switch currentOS {
	case OSMac:
		if s.Mac != "" {
			return s.Mac
		}
	case OSLinux:
		if s.Linux != "" {
			return s.Linux
		}
	case OSWindows:
		if s.Windows != "" {
			return s.Windows
		}
	}
	return s.Default
}

// Matches reports whether a key string from tea.KeyMsg triggers the
// shortcut
func (s ShortcutKey) Matches(key string) bool {
	return key == s.Default || key == s.Get()
}

// Keys are the editor bindings. On Linux and Windows the ctrl chords the
// terminal may intercept (XOFF, readline) also have an alt variant.
var Keys = struct {
	Indent      ShortcutKey
	Outdent     ShortcutKey
	Continue    ShortcutKey
	ContinueAlt ShortcutKey
	Format      ShortcutKey
	FixNumbers  ShortcutKey
	Latex       ShortcutKey
	Download    ShortcutKey
	NewTab      ShortcutKey
	Open        ShortcutKey
	Close       ShortcutKey
	PrevTab     ShortcutKey
	NextTab     ShortcutKey
	Rename      ShortcutKey
	Target      ShortcutKey
	Variables   ShortcutKey
	Exercise    ShortcutKey
	Quit        ShortcutKey
}{
	Indent:      ShortcutKey{Default: "tab"},
	Outdent:     ShortcutKey{Default: "shift+tab"},
	Continue:    ShortcutKey{Default: "enter"},
	ContinueAlt: ShortcutKey{Default: "alt+enter"},
	Format: ShortcutKey{
		Linux:   "alt+s", // ctrl+s is XOFF when flow control is on
		Windows: "alt+s",
		Default: "ctrl+s",
	},
	FixNumbers: ShortcutKey{
		Linux:   "alt+l",
		Windows: "alt+l",
		Default: "ctrl+l",
	},
	Latex: ShortcutKey{
		Linux:   "alt+x",
		Windows: "alt+x",
		Default: "ctrl+x",
	},
	Download: ShortcutKey{
		Linux:   "alt+d", // ctrl+d is EOF in cooked mode
		Windows: "alt+d",
		Default: "ctrl+d",
	},
	NewTab:  ShortcutKey{Default: "ctrl+n"},
	Open:    ShortcutKey{Default: "ctrl+o"},
	Close:   ShortcutKey{Default: "ctrl+w"},
	PrevTab: ShortcutKey{Default: "ctrl+left"},
	NextTab: ShortcutKey{Default: "ctrl+right"},
	Rename:  ShortcutKey{Default: "ctrl+r"},
	Target: ShortcutKey{
		Linux:   "alt+t", // readline transpose
		Windows: "alt+t",
		Default: "ctrl+t",
	},
	Variables: ShortcutKey{Default: "ctrl+g"},
	Exercise:  ShortcutKey{Default: "ctrl+e"},
	Quit:      ShortcutKey{Default: "ctrl+c"},
}

// FormatShortcutForHelp formats a shortcut key for display in help text
func FormatShortcutForHelp(key ShortcutKey) string {
	shortcut := key.Get()
	// M- is the usual terminal spelling of alt outside macOS
	if currentOS == OSLinux || currentOS == OSWindows {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")
	shortcut = strings.ReplaceAll(shortcut, "left", "←")
	shortcut = strings.ReplaceAll(shortcut, "right", "→")
	return shortcut
}

// helpEntries pairs each binding with its help label, in display order
func helpEntries() []struct {
	key   ShortcutKey
	label string
} {
	return []struct {
		key   ShortcutKey
		label string
	}{
		{Keys.Indent, "indent"},
		{Keys.Outdent, "outdent"},
		{Keys.Continue, "next line"},
		{Keys.ContinueAlt, "bar/continue"},
		{Keys.Format, "format"},
		{Keys.NewTab, "new"},
		{Keys.Open, "open"},
		{Keys.Close, "close"},
		{Keys.Rename, "rename"},
		{Keys.Target, "target"},
		{Keys.Variables, "variables"},
		{Keys.Exercise, "exercise"},
		{Keys.FixNumbers, "renumber"},
		{Keys.Latex, "latex"},
		{Keys.Download, "download"},
		{Keys.PrevTab, "prev tab"},
		{Keys.NextTab, "next tab"},
		{Keys.Quit, "quit"},
	}
}

// helpText lists the bindings for the current OS
func helpText() string {
	entries := helpEntries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = FormatShortcutForHelp(e.key) + " " + e.label
	}
	return strings.Join(parts, " • ")
}
