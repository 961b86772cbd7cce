package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartnews-english/enricher/internal/config"
	"github.com/smartnews-english/enricher/internal/dictionary"
	"github.com/smartnews-english/enricher/internal/enrich"
	"github.com/smartnews-english/enricher/internal/gemini"
	"github.com/smartnews-english/enricher/internal/huggingface"
	"github.com/smartnews-english/enricher/internal/speech"
)

// Server holds the HTTP server and its dependencies
type Server struct {
	config       *config.Config
	orchestrator *enrich.Orchestrator
	dictionary   dictionary.Provider
	hfClient     *huggingface.Client
	geminiClient *gemini.Client
}

// NewServer creates a new HTTP server with providers built from config.
// Missing credentials disable the matching capability instead of failing
// startup; the affected artifacts report ConfigurationMissing per request.
func NewServer(cfg *config.Config) (*Server, error) {
	var (
		hfClient     *huggingface.Client
		geminiClient *gemini.Client
		summarizer   enrich.Summarizer
		questions    enrich.QuestionGenerator
		sentiment    enrich.SentimentAnalyzer
	)

	if cfg.HasHuggingFace() {
		hfClient = huggingface.NewClient(cfg.HuggingFaceAPIKey)
		summarizer = huggingface.NewSummarizer(hfClient, cfg.SummaryModel)
	}

	if cfg.HasGemini() {
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		geminiClient = client
		questions = client
		sentiment = client
	}

	var strategy speech.Strategy
	switch cfg.SpeechStrategy {
	case "synthesis":
		if hfClient != nil {
			strategy = speech.NewSynthesisStrategy(hfClient, cfg.TTSModel)
		}
	default:
		strategy = speech.NewRedirectStrategy("")
	}
	speaker := speech.NewSynthesizer(strategy)

	var dict dictionary.Provider
	switch cfg.DictionaryProvider {
	case "webster":
		if cfg.HasWebster() {
			dict = dictionary.NewWebsterClient(cfg.WebsterAPIKey)
		}
	case "gemini":
		if geminiClient != nil {
			dict = dictionary.NewGeminiProvider(geminiClient)
		}
	}

	orchestrator := enrich.NewOrchestrator(summarizer, questions, sentiment, speaker, cfg.SummaryModel, cfg.MaxConcurrentRequests)

	return &Server{
		config:       cfg,
		orchestrator: orchestrator,
		dictionary:   dict,
		hfClient:     hfClient,
		geminiClient: geminiClient,
	}, nil
}

// NewServerWithDeps wires pre-built dependencies, used in tests.
func NewServerWithDeps(cfg *config.Config, orchestrator *enrich.Orchestrator, dict dictionary.Provider) *Server {
	return &Server{
		config:       cfg,
		orchestrator: orchestrator,
		dictionary:   dict,
	}
}

// Close releases provider connections.
func (s *Server) Close() {
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
}

// Enrich runs the orchestrator directly, used by the CLI.
func (s *Server) Enrich(ctx context.Context, req enrich.Request) enrich.Response {
	return s.orchestrator.Enrich(ctx, req)
}

// WarmModels pings the hosted inference models so they stay loaded between
// requests. Called from the keep-warm scheduler.
func (s *Server) WarmModels(ctx context.Context) {
	if s.hfClient == nil {
		return
	}
	for _, model := range []string{s.config.SummaryModel, s.config.TTSModel} {
		if err := s.hfClient.Warm(ctx, model); err != nil {
			log.Printf("Keep-warm ping for %s failed: %v", model, err)
		}
	}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Enrichment API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.corsMiddleware)
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/enrich", s.enrichHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/dictionary/{word}", s.dictionaryHandler).Methods("GET")

	// Health and introspection
	api.HandleFunc("/v1/health", s.healthHandler).Methods("GET")
	api.HandleFunc("/v1/status", s.statusHandler).Methods("GET")
	api.HandleFunc("/v1/config", s.configHandler).Methods("GET")

	return r
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   "v1.0.0",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Middleware functions

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
