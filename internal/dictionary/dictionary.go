// Package dictionary looks up learner-friendly definitions for a single
// word. Two providers implement the same interface: the Merriam-Webster
// learner's API with its rigid schema remapped to the canonical shape, and
// a generative provider prompted to emit the canonical shape directly.
package dictionary

import (
	"context"
	"strings"

	"github.com/smartnews-english/enricher/internal/enrich"
)

// Definition is one sense of a meaning. Example may be empty; the
// Merriam-Webster short definitions never carry one.
type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Meaning groups definitions under a part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// Entry is the canonical dictionary entry shape served to clients,
// regardless of which provider produced it.
type Entry struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic,omitempty"`
	Meanings []Meaning `json:"meanings"`
}

// Provider resolves a normalized word to an entry.
type Provider interface {
	Lookup(ctx context.Context, word string) (Entry, *enrich.Error)
}

// NormalizeWord trims whitespace and trailing punctuation and lowercases
// the word, so "Running." and "running" hit the same entry.
func NormalizeWord(word string) string {
	word = strings.TrimSpace(word)
	word = strings.TrimRight(word, ".,!?;:'\"")
	return strings.ToLower(word)
}
