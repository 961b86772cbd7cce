package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartnews-english/enricher/internal/config"
	"github.com/smartnews-english/enricher/internal/dictionary"
	"github.com/smartnews-english/enricher/internal/enrich"
)

type mockDictionary struct {
	lookupFunc func(ctx context.Context, word string) (dictionary.Entry, *enrich.Error)
}

func (m *mockDictionary) Lookup(ctx context.Context, word string) (dictionary.Entry, *enrich.Error) {
	return m.lookupFunc(ctx, word)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "8080",
		Host:                  "0.0.0.0",
		GeminiModel:           "gemini-1.5-flash",
		SummaryModel:          "facebook/bart-large-cnn",
		TTSModel:              "facebook/mms-tts-eng",
		DictionaryProvider:    "webster",
		SpeechStrategy:        "redirect",
		SpeechLang:            "en",
		MaxConcurrentRequests: 5,
	}
}

func newTestServer(dict dictionary.Provider) *Server {
	orchestrator := enrich.NewOrchestrator(nil, nil, nil, nil, "test-model", 5)
	return NewServerWithDeps(testConfig(), orchestrator, dict)
}

func TestEnrichHandler(t *testing.T) {
	server := newTestServer(nil)
	router := server.SetupRoutes()

	body := `{"text": "The economy is growing fast. Markets reacted with strong optimism today.", "articleId": "a-7", "artifacts": ["keywords", "difficulty"]}`
	req := httptest.NewRequest("POST", "/api/enrich", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ArticleID string                           `json:"articleId"`
		Artifacts map[string]enrich.ArtifactResult `json:"artifacts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if resp.ArticleID != "a-7" {
		t.Errorf("Expected article id 'a-7', got '%s'", resp.ArticleID)
	}
	if len(resp.Artifacts) != 2 {
		t.Errorf("Expected 2 artifact slots, got %d", len(resp.Artifacts))
	}
	for kind, result := range resp.Artifacts {
		if !result.OK {
			t.Errorf("Expected %s to succeed, got %v", kind, result.Error)
		}
	}
}

func TestEnrichHandlerPerArtifactErrors(t *testing.T) {
	server := newTestServer(nil)
	router := server.SetupRoutes()

	// Summary has no provider configured; keywords still works. The
	// envelope stays 200 because the request itself was valid.
	body := `{"text": "The economy is growing fast. Markets reacted with strong optimism today.", "artifacts": ["summary", "keywords"]}`
	req := httptest.NewRequest("POST", "/api/enrich", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Artifacts map[string]enrich.ArtifactResult `json:"artifacts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	summary := resp.Artifacts["summary"]
	if summary.OK {
		t.Error("Expected summary to fail without a provider")
	} else if summary.Error.Kind != enrich.ConfigurationMissing {
		t.Errorf("Expected ConfigurationMissing, got %s", summary.Error.Kind)
	}
	if !resp.Artifacts["keywords"].OK {
		t.Error("Expected keywords to succeed")
	}
}

func TestEnrichHandlerBadRequests(t *testing.T) {
	server := newTestServer(nil)
	router := server.SetupRoutes()

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{not json`},
		{"missing text", `{"artifacts": ["keywords"]}`},
		{"missing artifacts", `{"text": "some text"}`},
		{"unknown artifact", `{"text": "some text", "artifacts": ["translation"]}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/enrich", bytes.NewBufferString(test.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestDictionaryHandler(t *testing.T) {
	dict := &mockDictionary{
		lookupFunc: func(ctx context.Context, word string) (dictionary.Entry, *enrich.Error) {
			if word != "running" {
				t.Errorf("Expected normalized word 'running', got '%s'", word)
			}
			return dictionary.Entry{
				Word:     "running",
				Phonetic: "/ˈrʌnɪŋ/",
				Meanings: []dictionary.Meaning{
					{PartOfSpeech: "verb", Definitions: []dictionary.Definition{{Definition: "moving fast on foot"}}},
				},
			}, nil
		},
	}

	server := newTestServer(dict)
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/dictionary/Running.", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var entry dictionary.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if entry.Word != "running" {
		t.Errorf("Expected word 'running', got '%s'", entry.Word)
	}
}

func TestDictionaryHandlerNotFound(t *testing.T) {
	dict := &mockDictionary{
		lookupFunc: func(ctx context.Context, word string) (dictionary.Entry, *enrich.Error) {
			return dictionary.Entry{}, enrich.Errorf(enrich.WordNotFound, "no dictionary entry for %q", word)
		},
	}

	server := newTestServer(dict)
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/dictionary/zzzzz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDictionaryHandlerProviderDown(t *testing.T) {
	dict := &mockDictionary{
		lookupFunc: func(ctx context.Context, word string) (dictionary.Entry, *enrich.Error) {
			return dictionary.Entry{}, enrich.Unavailable("dictionary API unreachable", 0)
		},
	}

	server := newTestServer(dict)
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/dictionary/word", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestDictionaryHandlerNoProvider(t *testing.T) {
	server := newTestServer(nil)
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/dictionary/word", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	var resp struct {
		Error enrich.Error `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error.Kind != enrich.ConfigurationMissing {
		t.Errorf("Expected ConfigurationMissing kind, got '%s'", resp.Error.Kind)
	}
}

func TestHealthHandler(t *testing.T) {
	server := newTestServer(nil)
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%v'", resp["status"])
	}
}

func TestConfigHandlerHidesSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.GeminiAPIKey = "secret-key"
	server := NewServerWithDeps(cfg, enrich.NewOrchestrator(nil, nil, nil, nil, "m", 5), nil)
	router := server.SetupRoutes()

	req := httptest.NewRequest("GET", "/api/v1/config", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("secret-key")) {
		t.Error("Expected config response to hide API keys")
	}
}

func TestCORSMiddleware(t *testing.T) {
	server := newTestServer(nil)
	router := server.SetupRoutes()

	req := httptest.NewRequest("OPTIONS", "/api/enrich", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on preflight response")
	}
}
