// Package enricher exposes the HTTP surface as a Cloud Function.
package enricher

import (
	"log"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/smartnews-english/enricher/internal/config"
	"github.com/smartnews-english/enricher/internal/handlers"
)

var (
	setupOnce sync.Once
	router    http.Handler
	setupErr  error
)

func init() {
	functions.HTTP("EnrichArticle", HandleRequest)
}

// HandleRequest serves the full API from a single function endpoint. The
// server is built lazily on the first request so deploys without
// credentials still start.
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	setupOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			setupErr = err
			return
		}
		server, err := handlers.NewServer(cfg)
		if err != nil {
			setupErr = err
			return
		}
		router = server.SetupRoutes()
	})

	if setupErr != nil {
		log.Printf("Function setup failed: %v", setupErr)
		http.Error(w, "Service initialization failed", http.StatusInternalServerError)
		return
	}

	router.ServeHTTP(w, r)
}
