package fitch

import (
	"strings"
	"unicode/utf8"
)

// Substitution maps a typed mnemonic to its logic glyph
type Substitution struct {
	Token string
	Glyph string
}

// Substitutions lists the mnemonics in priority order. The first token
// present anywhere in the text wins.
var Substitutions = []Substitution{
	{"fa", "∀"},
	{"ex", "∃"},
	{"not", "¬"},
	{"neg", "¬"},
	{"!", "¬"},
	{"impl", "→"},
	{"->", "→"},
	{"bic", "↔"},
	{"and", "∧"},
	{"&", "∧"},
	{"*", "∧"},
	{"or", "∨"},
	{"+", "∨"},
	{"bot", "⊥"},
	{"\u200B", " "},
}

// NoSubstitution is the offset reported when the text was left unchanged
const NoSubstitution = -1

// ReplaceWithSymbols replaces the first occurrence of the highest-priority
// token found in input. The offset is the token's rune length minus one:
// how far a cursor behind the token has to move left to stay in place.
// When no token occurs the input is returned with NoSubstitution.
//
// Only one token is replaced per call; callers run it after every edit.
func ReplaceWithSymbols(input string) (string, int) {
	for _, s := range Substitutions {
		if strings.Contains(input, s.Token) {
			return strings.Replace(input, s.Token, s.Glyph, 1), utf8.RuneCountInString(s.Token) - 1
		}
	}
	return input, NoSubstitution
}

// ReplaceAllSymbols runs ReplaceWithSymbols until no token is left and
// reports how many replacements were made. Pasted or command line input
// goes through it in one step.
func ReplaceAllSymbols(input string) (string, int) {
	count := 0
	for {
		next, offset := ReplaceWithSymbols(input)
		if offset == NoSubstitution {
			return input, count
		}
		input = next
		count++
	}
}
