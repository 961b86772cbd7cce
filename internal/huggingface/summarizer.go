package huggingface

import (
	"context"

	"github.com/smartnews-english/enricher/internal/enrich"
)

// ModelSummarizer binds the client to one summarization model so it plugs
// into the orchestrator's Summarizer seam.
type ModelSummarizer struct {
	client *Client
	model  string
}

// NewSummarizer binds client and model.
func NewSummarizer(client *Client, model string) *ModelSummarizer {
	return &ModelSummarizer{client: client, model: model}
}

func (s *ModelSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, *enrich.Error) {
	return s.client.Summarize(ctx, s.model, text, maxLength, minLength)
}
