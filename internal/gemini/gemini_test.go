package gemini

import (
	"testing"

	"github.com/smartnews-english/enricher/internal/enrich"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "json fence stripped",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence stripped",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n{\"a\": 1}\n  ",
			expected: `{"a": 1}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := stripCodeFence(test.input)
			if result != test.expected {
				t.Errorf("Expected '%s', got '%s'", test.expected, result)
			}
		})
	}
}

func TestParseQuestion(t *testing.T) {
	raw := `{"question": "What rose sharply?", "options": ["Prices", "Wages", "Exports", "Taxes"], "answer": "Prices"}`

	question, err := parseQuestion(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if question.Question != "What rose sharply?" {
		t.Errorf("Expected question text, got '%s'", question.Question)
	}
	if len(question.Options) != 4 {
		t.Errorf("Expected 4 options, got %d", len(question.Options))
	}
	if question.Answer != "Prices" {
		t.Errorf("Expected answer 'Prices', got '%s'", question.Answer)
	}
}

func TestParseQuestionInvalidJSON(t *testing.T) {
	_, err := parseQuestion(`not json at all`)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Kind != enrich.MalformedStructuredOutput {
		t.Errorf("Expected MalformedStructuredOutput, got %s", err.Kind)
	}
}

func TestParseQuestionSchemaViolation(t *testing.T) {
	_, err := parseQuestion(`{"question": "Q?", "options": ["A", "B", "C", "D"], "answer": "E"}`)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Kind != enrich.SchemaViolation {
		t.Errorf("Expected SchemaViolation, got %s", err.Kind)
	}
}

func TestParseSentiment(t *testing.T) {
	raw := `{"label": "Negative", "confidence": 72, "explanation": "Reports losses and layoffs."}`

	sentiment, err := parseSentiment(raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sentiment.Label != enrich.SentimentNegative {
		t.Errorf("Expected Negative label, got '%s'", sentiment.Label)
	}
	if sentiment.Confidence != 72 {
		t.Errorf("Expected confidence 72, got %v", sentiment.Confidence)
	}
}

func TestParseSentimentOutOfRange(t *testing.T) {
	_, err := parseSentiment(`{"label": "Positive", "confidence": 250}`)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if err.Kind != enrich.SchemaViolation {
		t.Errorf("Expected SchemaViolation, got %s", err.Kind)
	}
}
