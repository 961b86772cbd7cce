// Package huggingface calls the Hugging Face Inference API for the
// task-specific models: abstractive summarization and text-to-speech.
// Hosted models unload when idle; the API answers 503 with an estimated
// loading time until the model is warm again, which this client surfaces
// as a retryable failure.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smartnews-english/enricher/internal/enrich"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

// Client is a minimal Inference API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Hugging Face Inference API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint, used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

type summarizeRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters summarizeParameters `json:"parameters"`
	Options    requestOptions      `json:"options"`
}

type summarizeParameters struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type modelLoadingResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Summarize runs the abstractive summarization model over the text.
func (c *Client) Summarize(ctx context.Context, model, text string, maxLength, minLength int) (string, *enrich.Error) {
	payload := summarizeRequest{
		Inputs:     text,
		Parameters: summarizeParameters{MaxLength: maxLength, MinLength: minLength},
	}

	body, apiErr := c.post(ctx, model, payload)
	if apiErr != nil {
		return "", apiErr
	}

	// The API answers [{"summary_text": "..."}]; text-generation models
	// use "generated_text" for the same slot.
	var results []struct {
		SummaryText   string `json:"summary_text"`
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return "", enrich.WrapError(enrich.MalformedStructuredOutput, "summarization response is not valid JSON", err)
	}
	if len(results) == 0 {
		return "", enrich.NewError(enrich.MalformedStructuredOutput, "summarization response is empty")
	}

	summary := results[0].SummaryText
	if summary == "" {
		summary = results[0].GeneratedText
	}
	if summary == "" {
		return "", enrich.NewError(enrich.MalformedStructuredOutput, "summarization response carries no text")
	}
	return strings.TrimSpace(summary), nil
}

// SynthesizeSpeech runs the TTS model and returns the raw audio bytes plus
// the format derived from the response content type.
func (c *Client) SynthesizeSpeech(ctx context.Context, model, text string) ([]byte, string, *enrich.Error) {
	body, apiErr := c.post(ctx, model, map[string]string{"inputs": text})
	if apiErr != nil {
		return nil, "", apiErr
	}
	if len(body) == 0 {
		return nil, "", enrich.NewError(enrich.MalformedStructuredOutput, "speech model returned no audio")
	}
	return body, "flac", nil
}

// Warm pings a model with a trivial input so it stays loaded. Errors are
// returned for logging only; a failed warm-up ping has no other effect.
func (c *Client) Warm(ctx context.Context, model string) error {
	if _, apiErr := c.post(ctx, model, map[string]string{"inputs": "hello"}); apiErr != nil {
		return apiErr
	}
	return nil
}

func (c *Client) post(ctx context.Context, model string, payload interface{}) ([]byte, *enrich.Error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, enrich.WrapError(enrich.MalformedStructuredOutput, "failed to encode request", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, enrich.WrapError(enrich.ProviderUnavailable, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, enrich.WrapError(enrich.ProviderTimeout, "inference call exceeded its deadline", err)
		}
		return nil, enrich.WrapError(enrich.ProviderUnavailable, "inference call failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, enrich.WrapError(enrich.ProviderUnavailable, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusServiceUnavailable:
		// Model is loading; the body says for how long.
		var loading modelLoadingResponse
		_ = json.Unmarshal(body, &loading)
		message := loading.Error
		if message == "" {
			message = "model is currently loading"
		}
		return nil, enrich.Unavailable(message, int(loading.EstimatedTime))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, enrich.Unavailable("inference API rate limit reached", 0)
	default:
		return nil, enrich.Errorf(enrich.ProviderUnavailable, "inference API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
