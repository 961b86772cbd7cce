package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/smartnews-english/enricher/internal/dictionary"
	"github.com/smartnews-english/enricher/internal/enrich"
)

// enrichRequest is the wire shape of POST /api/enrich.
type enrichRequest struct {
	Text      string         `json:"text"`
	ArticleID string         `json:"articleId"`
	Artifacts []string       `json:"artifacts"`
	Options   enrich.Options `json:"options"`
}

// enrichHandler runs the requested artifacts over the article text. The
// response is always 200 once the request itself is valid; individual
// artifact failures travel inside their own result slots.
func (s *Server) enrichHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if len(req.Artifacts) == 0 {
		writeError(w, http.StatusBadRequest, "At least one artifact is required")
		return
	}

	kinds := make([]enrich.ArtifactKind, 0, len(req.Artifacts))
	for _, name := range req.Artifacts {
		kind, valid := enrich.ParseArtifactKind(name)
		if !valid {
			writeError(w, http.StatusBadRequest, "Unknown artifact: "+name)
			return
		}
		kinds = append(kinds, kind)
	}

	response := s.orchestrator.Enrich(ctx, enrich.Request{
		RawText:   req.Text,
		ArticleID: req.ArticleID,
		Artifacts: kinds,
		Options:   req.Options,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// dictionaryHandler looks up one word in the configured dictionary.
func (s *Server) dictionaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	word := dictionary.NormalizeWord(mux.Vars(r)["word"])
	if word == "" {
		writeError(w, http.StatusBadRequest, "Word is required")
		return
	}

	if s.dictionary == nil {
		writeDomainError(w, enrich.NewError(enrich.ConfigurationMissing, "no dictionary provider is configured"))
		return
	}

	entry, lookupErr := s.dictionary.Lookup(ctx, word)
	if lookupErr != nil {
		writeDomainError(w, lookupErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// statusHandler returns system status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "running",
		"version": "v1.0.0",
		"providers": map[string]bool{
			"summarization": s.config.HasHuggingFace(),
			"generation":    s.config.HasGemini(),
			"dictionary":    s.dictionary != nil,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// configHandler returns configuration (sanitized)
func (s *Server) configHandler(w http.ResponseWriter, r *http.Request) {
	// Return sanitized configuration without sensitive data
	response := map[string]interface{}{
		"port":                    s.config.Port,
		"host":                    s.config.Host,
		"gemini_model":            s.config.GeminiModel,
		"summary_model":           s.config.SummaryModel,
		"tts_model":               s.config.TTSModel,
		"dictionary_provider":     s.config.DictionaryProvider,
		"speech_strategy":         s.config.SpeechStrategy,
		"speech_lang":             s.config.SpeechLang,
		"keep_warm_schedule":      s.config.KeepWarmSchedule,
		"max_concurrent_requests": s.config.MaxConcurrentRequests,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// statusForKind maps a domain error kind to an HTTP status for the routes
// where the error is the whole response.
func statusForKind(kind enrich.ErrorKind) int {
	switch kind {
	case enrich.WordNotFound:
		return http.StatusNotFound
	case enrich.ProviderUnavailable, enrich.ProviderTimeout:
		return http.StatusServiceUnavailable
	case enrich.EmptyInput, enrich.InsufficientText:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err *enrich.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForKind(err.Kind))
	json.NewEncoder(w).Encode(map[string]interface{}{"error": err})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
