package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartnews-english/enricher/internal/enrich"
)

const websterBaseURL = "https://www.dictionaryapi.com/api/v3/references/learners/json"

const maxShortDefinitions = 3

// WebsterClient queries the Merriam-Webster learner's dictionary.
type WebsterClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWebsterClient creates a client for the learner's dictionary API.
func NewWebsterClient(apiKey string) *WebsterClient {
	return &WebsterClient{
		apiKey:  apiKey,
		baseURL: websterBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint, used in tests.
func (c *WebsterClient) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// websterEntry is the slice of the Merriam-Webster schema this service
// reads. The full schema is far richer; shortdef is deliberately preferred
// for learner-friendly definitions.
type websterEntry struct {
	Hwi struct {
		Hw  string `json:"hw"`
		Prs []struct {
			IPA string `json:"ipa"`
		} `json:"prs"`
	} `json:"hwi"`
	Fl       string   `json:"fl"`
	ShortDef []string `json:"shortdef"`
}

// Lookup fetches and remaps the first entry for the word. An empty result
// array, or an array of suggestion strings instead of entry objects, means
// the word is not in the dictionary.
func (c *WebsterClient) Lookup(ctx context.Context, word string) (Entry, *enrich.Error) {
	if c.apiKey == "" {
		return Entry{}, enrich.NewError(enrich.ConfigurationMissing, "Merriam-Webster API key is not configured")
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", c.baseURL, url.PathEscape(word), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Entry{}, enrich.WrapError(enrich.ProviderUnavailable, "failed to build dictionary request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Entry{}, enrich.WrapError(enrich.ProviderTimeout, "dictionary call exceeded its deadline", err)
		}
		return Entry{}, enrich.WrapError(enrich.ProviderUnavailable, "dictionary call failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, enrich.WrapError(enrich.ProviderUnavailable, "failed to read dictionary response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Entry{}, enrich.Errorf(enrich.ProviderUnavailable, "dictionary API returned status %d", resp.StatusCode)
	}

	// The API returns an array of raw values: entry objects on a hit,
	// spelling-suggestion strings on a near miss, nothing on a total miss.
	var rawEntries []json.RawMessage
	if err := json.Unmarshal(body, &rawEntries); err != nil {
		return Entry{}, enrich.WrapError(enrich.MalformedStructuredOutput, "dictionary response is not a JSON array", err)
	}
	if len(rawEntries) == 0 {
		return Entry{}, enrich.Errorf(enrich.WordNotFound, "no dictionary entry for %q", word)
	}
	var suggestion string
	if json.Unmarshal(rawEntries[0], &suggestion) == nil {
		return Entry{}, enrich.Errorf(enrich.WordNotFound, "no dictionary entry for %q", word)
	}

	var first websterEntry
	if err := json.Unmarshal(rawEntries[0], &first); err != nil {
		return Entry{}, enrich.WrapError(enrich.MalformedStructuredOutput, "dictionary entry does not match expected shape", err)
	}

	return remapWebsterEntry(word, first), nil
}

// remapWebsterEntry converts the provider schema to the canonical shape:
// syllable markers stripped from the headword, first pronunciation wrapped
// as /ipa/, short definitions capped at three.
func remapWebsterEntry(word string, entry websterEntry) Entry {
	cleanWord := strings.ReplaceAll(entry.Hwi.Hw, "*", "")
	if cleanWord == "" {
		cleanWord = word
	}

	phonetic := ""
	if len(entry.Hwi.Prs) > 0 && entry.Hwi.Prs[0].IPA != "" {
		phonetic = "/" + entry.Hwi.Prs[0].IPA + "/"
	}

	partOfSpeech := entry.Fl
	if partOfSpeech == "" {
		partOfSpeech = "unknown"
	}

	shortDefs := entry.ShortDef
	if len(shortDefs) > maxShortDefinitions {
		shortDefs = shortDefs[:maxShortDefinitions]
	}
	definitions := make([]Definition, 0, len(shortDefs))
	for _, def := range shortDefs {
		definitions = append(definitions, Definition{Definition: def})
	}

	return Entry{
		Word:     cleanWord,
		Phonetic: phonetic,
		Meanings: []Meaning{
			{PartOfSpeech: partOfSpeech, Definitions: definitions},
		},
	}
}
