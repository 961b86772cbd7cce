package dictionary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smartnews-english/enricher/internal/contract"
	"github.com/smartnews-english/enricher/internal/enrich"
)

// generator is the slice of the generative client this provider needs.
type generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, *enrich.Error)
}

// GeminiProvider asks the generative model for a dictionary entry in the
// canonical shape. Unlike the Merriam-Webster schema there is nothing to
// remap, but the output is free-form generation and gets the full contract
// validation before anything is trusted.
type GeminiProvider struct {
	generator generator
}

// NewGeminiProvider wraps a generative client as a dictionary provider.
func NewGeminiProvider(g generator) *GeminiProvider {
	return &GeminiProvider{generator: g}
}

func (p *GeminiProvider) Lookup(ctx context.Context, word string) (Entry, *enrich.Error) {
	prompt := fmt.Sprintf(`You are an English learner's dictionary. Define the word %q.
Return ONLY a valid JSON object, no markdown, no backticks:
{"word": "the word", "phonetic": "/IPA/", "meanings": [{"partOfSpeech": "noun|verb|...", "definitions": [{"definition": "simple learner-friendly definition", "example": "short example sentence"}]}]}
Give at most 3 definitions per part of speech.
If this is not a real English word, return exactly: {"notFound": true}`, word)

	raw, genErr := p.generator.GenerateJSON(ctx, prompt)
	if genErr != nil {
		return Entry{}, genErr
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return Entry{}, enrich.WrapError(enrich.MalformedStructuredOutput, "dictionary response is not valid JSON", err)
	}
	if notFound, _ := decoded["notFound"].(bool); notFound {
		return Entry{}, enrich.Errorf(enrich.WordNotFound, "no dictionary entry for %q", word)
	}
	if violation := contract.ValidateDictionaryEntry(decoded); violation != nil {
		return Entry{}, violation
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return Entry{}, enrich.WrapError(enrich.MalformedStructuredOutput, "dictionary entry does not match expected shape", err)
	}
	return entry, nil
}
