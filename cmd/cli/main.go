package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/smartnews-english/enricher/internal/config"
	"github.com/smartnews-english/enricher/internal/enrich"
	"github.com/smartnews-english/enricher/internal/handlers"
)

func main() {
	artifactsFlag := flag.String("artifacts", "summary,quiz,sentiment,audio,difficulty,keywords", "comma-separated artifacts to produce")
	fileFlag := flag.String("file", "", "read article text from this file instead of stdin")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create server instance (contains all the clients)
	server, err := handlers.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer server.Close()

	text, err := readInput(*fileFlag)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	var kinds []enrich.ArtifactKind
	for _, name := range strings.Split(*artifactsFlag, ",") {
		kind, valid := enrich.ParseArtifactKind(strings.TrimSpace(name))
		if !valid {
			log.Fatalf("Unknown artifact: %s", name)
		}
		kinds = append(kinds, kind)
	}

	response := server.Enrich(context.Background(), enrich.Request{
		RawText:   text,
		Artifacts: kinds,
	})

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		log.Fatalf("Failed to encode response: %v", err)
	}
}

func readInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		return string(data), err
	}
	data, err := io.ReadAll(os.Stdin)
	return string(data), err
}
