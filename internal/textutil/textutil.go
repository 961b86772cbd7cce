// Package textutil normalizes raw article text and segments it into
// sentences for the downstream analyzers and providers.
package textutil

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrEmptyInput indicates the input was empty after normalization.
var ErrEmptyInput = errors.New("input text is empty")

// DefaultMaxChars caps normalized text before it is handed to providers.
const DefaultMaxChars = 10000

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	sentenceRegex   = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// Normalized is the output of Normalize.
type Normalized struct {
	Text      string
	Truncated bool
}

// Normalize strips any HTML markup, collapses whitespace and caps the text
// at maxChars (DefaultMaxChars when maxChars <= 0). Truncation cuts at a
// word boundary when a space exists in the second half of the cap window.
func Normalize(raw string, maxChars int) (Normalized, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text := raw
	if strings.Contains(raw, "<") && strings.Contains(raw, ">") {
		text = stripHTML(raw)
	}

	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return Normalized{}, ErrEmptyInput
	}

	text, truncated := Truncate(text, maxChars)
	return Normalized{Text: text, Truncated: truncated}, nil
}

// Truncate caps s at maxChars, preferring the last space past maxChars/2 so
// words are not split. Returns the (possibly shortened) string and whether
// anything was cut.
func Truncate(s string, maxChars int) (string, bool) {
	if maxChars <= 0 || len(s) <= maxChars {
		return s, false
	}
	cut := s[:maxChars]
	if idx := strings.LastIndex(cut, " "); idx > maxChars/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut), true
}

// stripHTML extracts visible text from markup, dropping script and style
// content entirely. Falls back to the raw string if parsing fails.
func stripHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text()
}

// Sentences splits text on terminal punctuation (. ! ?). Text with no
// terminal punctuation yields itself as a single sentence.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	matches := sentenceRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// WordCount reports the number of whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
