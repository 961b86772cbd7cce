// Package gemini adapts the Gemini generative API to the structured-output
// artifacts: quiz questions, sentiment and the generative dictionary. All
// JSON coming back from the model is fence-stripped, decoded to a raw map
// and contract-validated before any typed value leaves this package.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/smartnews-english/enricher/internal/contract"
	"github.com/smartnews-english/enricher/internal/enrich"
)

// Client wraps a genai client configured for structured output.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient builds a Gemini client for the given model name. The model is
// locked to JSON output at low temperature so responses stay parseable.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	return &Client{client: client, model: model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.client.Close()
}

// GenerateJSON sends a prompt and returns the response text with any code
// fences stripped. Callers decode and validate the JSON themselves.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, *enrich.Error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapSDKError(err)
	}

	text := stripCodeFence(extractText(resp))
	if text == "" {
		return "", enrich.NewError(enrich.MalformedStructuredOutput, "model returned empty response")
	}
	return text, nil
}

// GenerateQuestion produces one multiple-choice question for a single
// sentence, validated against the quiz contract.
func (c *Client) GenerateQuestion(ctx context.Context, sentence string) (enrich.QuizQuestion, *enrich.Error) {
	prompt := fmt.Sprintf(`Generate one multiple-choice comprehension question for this sentence from an English news article.
Return ONLY a valid JSON object, no markdown, no backticks:
{"question": "string", "options": ["A", "B", "C", "D"], "answer": "the exact text of the correct option"}
The options array must contain exactly 4 choices and answer must equal exactly one of them.

Sentence: %s`, sentence)

	text, genErr := c.GenerateJSON(ctx, prompt)
	if genErr != nil {
		return enrich.QuizQuestion{}, genErr
	}

	question, parseErr := parseQuestion(text)
	if parseErr != nil {
		return enrich.QuizQuestion{}, parseErr
	}
	question.Context = sentence
	return question, nil
}

// AnalyzeSentiment classifies the overall sentiment of the text.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (enrich.SentimentArtifact, *enrich.Error) {
	prompt := fmt.Sprintf(`Classify the overall sentiment of this news article text.
Return ONLY a valid JSON object, no markdown, no backticks:
{"label": "Positive"|"Negative"|"Neutral", "confidence": number between 0 and 100, "explanation": "one sentence"}

Text: %s`, text)

	raw, genErr := c.GenerateJSON(ctx, prompt)
	if genErr != nil {
		return enrich.SentimentArtifact{}, genErr
	}
	return parseSentiment(raw)
}

// parseQuestion decodes and validates a quiz question payload.
func parseQuestion(raw string) (enrich.QuizQuestion, *enrich.Error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return enrich.QuizQuestion{}, enrich.WrapError(enrich.MalformedStructuredOutput, "question response is not valid JSON", err)
	}
	if violation := contract.ValidateQuestion(decoded); violation != nil {
		return enrich.QuizQuestion{}, violation
	}

	var question enrich.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &question); err != nil {
		return enrich.QuizQuestion{}, enrich.WrapError(enrich.MalformedStructuredOutput, "question response does not match expected shape", err)
	}
	return question, nil
}

// parseSentiment decodes and validates a sentiment payload.
func parseSentiment(raw string) (enrich.SentimentArtifact, *enrich.Error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return enrich.SentimentArtifact{}, enrich.WrapError(enrich.MalformedStructuredOutput, "sentiment response is not valid JSON", err)
	}
	if violation := contract.ValidateSentiment(decoded); violation != nil {
		return enrich.SentimentArtifact{}, violation
	}

	var sentiment enrich.SentimentArtifact
	if err := json.Unmarshal([]byte(raw), &sentiment); err != nil {
		return enrich.SentimentArtifact{}, enrich.WrapError(enrich.MalformedStructuredOutput, "sentiment response does not match expected shape", err)
	}
	return sentiment, nil
}

// stripCodeFence removes markdown fences some model responses still carry
// even in JSON mode.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// mapSDKError translates transport failures into the domain taxonomy.
func mapSDKError(err error) *enrich.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return enrich.WrapError(enrich.ProviderTimeout, "Gemini call exceeded its deadline", err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503:
			return enrich.Unavailable(fmt.Sprintf("Gemini returned status %d: %s", apiErr.Code, apiErr.Message), 0)
		}
	}
	return enrich.WrapError(enrich.ProviderUnavailable, "Gemini call failed", err)
}
