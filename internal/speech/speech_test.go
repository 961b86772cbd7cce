package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/smartnews-english/enricher/internal/enrich"
)

type mockTTSClient struct {
	synthesizeFunc func(ctx context.Context, model, text string) ([]byte, string, *enrich.Error)
}

func (m *mockTTSClient) SynthesizeSpeech(ctx context.Context, model, text string) ([]byte, string, *enrich.Error) {
	return m.synthesizeFunc(ctx, model, text)
}

type failingStrategy struct{}

func (failingStrategy) Synthesize(context.Context, string, string) (enrich.AudioArtifact, error) {
	return enrich.AudioArtifact{}, errors.New("boom")
}

func TestRedirectStrategy(t *testing.T) {
	strategy := NewRedirectStrategy("https://tts.example.com/speak")

	audio, err := strategy.Synthesize(context.Background(), "hello world", "en")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if audio.Kind != enrich.AudioURL {
		t.Errorf("Expected url kind, got '%s'", audio.Kind)
	}
	if !strings.HasPrefix(audio.URL, "https://tts.example.com/speak?") {
		t.Errorf("Expected URL with base, got '%s'", audio.URL)
	}
	if !strings.Contains(audio.URL, "q=hello+world") {
		t.Errorf("Expected encoded text in URL, got '%s'", audio.URL)
	}
	if !strings.Contains(audio.URL, "tl=en") {
		t.Errorf("Expected language in URL, got '%s'", audio.URL)
	}
	if audio.Format != "mp3" {
		t.Errorf("Expected mp3 format, got '%s'", audio.Format)
	}
}

func TestRedirectStrategyCapsLongText(t *testing.T) {
	strategy := NewRedirectStrategy("")
	long := strings.Repeat("word ", 500)

	audio, err := strategy.Synthesize(context.Background(), long, "en")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Encoded query must not carry more than the cap of raw text.
	if len(audio.URL) > 1200 {
		t.Errorf("Expected capped URL, got %d chars", len(audio.URL))
	}
}

func TestSynthesisStrategy(t *testing.T) {
	audio := []byte("fake-flac-bytes")
	client := &mockTTSClient{
		synthesizeFunc: func(ctx context.Context, model, text string) ([]byte, string, *enrich.Error) {
			if model != "facebook/mms-tts-eng" {
				t.Errorf("Unexpected model: %s", model)
			}
			return audio, "flac", nil
		},
	}

	strategy := NewSynthesisStrategy(client, "facebook/mms-tts-eng")
	result, err := strategy.Synthesize(context.Background(), "short text", "en")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Kind != enrich.AudioInline {
		t.Errorf("Expected inline kind, got '%s'", result.Kind)
	}
	if result.Audio != base64.StdEncoding.EncodeToString(audio) {
		t.Error("Expected base64-encoded audio bytes")
	}
	if result.Format != "flac" {
		t.Errorf("Expected flac format, got '%s'", result.Format)
	}
}

func TestSynthesisStrategyCapsText(t *testing.T) {
	var captured string
	client := &mockTTSClient{
		synthesizeFunc: func(ctx context.Context, model, text string) ([]byte, string, *enrich.Error) {
			captured = text
			return []byte("x"), "flac", nil
		},
	}

	strategy := NewSynthesisStrategy(client, "m")
	long := strings.Repeat("word ", 200)
	if _, err := strategy.Synthesize(context.Background(), long, "en"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(captured) > 300 {
		t.Errorf("Expected text capped at 300 chars, got %d", len(captured))
	}
}

func TestSynthesizerFallsBackOnError(t *testing.T) {
	synthesizer := NewSynthesizer(failingStrategy{})

	audio := synthesizer.Speak(context.Background(), "some text", "en")
	if audio.Kind != enrich.AudioClientFallback {
		t.Errorf("Expected client fallback, got '%s'", audio.Kind)
	}
}

func TestSynthesizerWithoutStrategy(t *testing.T) {
	synthesizer := NewSynthesizer(nil)

	audio := synthesizer.Speak(context.Background(), "some text", "en")
	if audio.Kind != enrich.AudioClientFallback {
		t.Errorf("Expected client fallback, got '%s'", audio.Kind)
	}
}

func TestSynthesizerPassesThroughSuccess(t *testing.T) {
	client := &mockTTSClient{
		synthesizeFunc: func(ctx context.Context, model, text string) ([]byte, string, *enrich.Error) {
			return []byte("ok"), "flac", nil
		},
	}
	synthesizer := NewSynthesizer(NewSynthesisStrategy(client, "m"))

	audio := synthesizer.Speak(context.Background(), "text", "en")
	if audio.Kind != enrich.AudioInline {
		t.Errorf("Expected inline audio, got '%s'", audio.Kind)
	}
}
