// Package speech renders article text as spoken audio. Two interchangeable
// strategies exist: a redirect strategy that hands the caller a streaming
// TTS URL, and a synthesis strategy that runs a hosted TTS model and inlines
// the audio bytes. Speech is best-effort: any strategy failure resolves to a
// client-fallback result telling the caller to synthesize locally.
package speech

import (
	"context"
	"encoding/base64"
	"log"
	"net/url"

	"github.com/smartnews-english/enricher/internal/enrich"
	"github.com/smartnews-english/enricher/internal/textutil"
)

// Strategy produces an audio artifact for the given text.
type Strategy interface {
	Synthesize(ctx context.Context, text, lang string) (enrich.AudioArtifact, error)
}

// Synthesizer wraps a strategy and guarantees a usable result: on any
// strategy error the artifact degrades to client-side synthesis instead of
// failing the request.
type Synthesizer struct {
	strategy Strategy
}

// NewSynthesizer wraps the given strategy.
func NewSynthesizer(strategy Strategy) *Synthesizer {
	return &Synthesizer{strategy: strategy}
}

// Speak never returns an error. Failures are logged and replaced with the
// client-fallback artifact.
func (s *Synthesizer) Speak(ctx context.Context, text, lang string) enrich.AudioArtifact {
	if s == nil || s.strategy == nil {
		return clientFallback()
	}
	audio, err := s.strategy.Synthesize(ctx, text, lang)
	if err != nil {
		log.Printf("Speech synthesis failed, falling back to client: %v", err)
		return clientFallback()
	}
	return audio
}

func clientFallback() enrich.AudioArtifact {
	return enrich.AudioArtifact{Kind: enrich.AudioClientFallback}
}

// redirectMaxChars caps text carried in a streaming TTS URL.
const redirectMaxChars = 1000

// RedirectStrategy builds a streaming TTS URL instead of audio bytes. The
// endpoint serves MP3 for a text+language query.
type RedirectStrategy struct {
	baseURL string
}

// NewRedirectStrategy uses the public translate TTS endpoint unless an
// override is given.
func NewRedirectStrategy(baseURL string) *RedirectStrategy {
	if baseURL == "" {
		baseURL = "https://translate.google.com/translate_tts"
	}
	return &RedirectStrategy{baseURL: baseURL}
}

func (r *RedirectStrategy) Synthesize(_ context.Context, text, lang string) (enrich.AudioArtifact, error) {
	capped, _ := textutil.Truncate(text, redirectMaxChars)
	if lang == "" {
		lang = "en"
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", capped)

	return enrich.AudioArtifact{
		Kind:   enrich.AudioURL,
		URL:    r.baseURL + "?" + query.Encode(),
		Format: "mp3",
	}, nil
}

// synthesisMaxChars caps text sent to the hosted TTS model; inline audio for
// longer inputs grows past what a JSON envelope should carry.
const synthesisMaxChars = 300

// ttsClient is the slice of the inference client the strategy needs.
type ttsClient interface {
	SynthesizeSpeech(ctx context.Context, model, text string) ([]byte, string, *enrich.Error)
}

// SynthesisStrategy runs a hosted TTS model and inlines base64 audio.
type SynthesisStrategy struct {
	client ttsClient
	model  string
}

// NewSynthesisStrategy binds the inference client to a TTS model name.
func NewSynthesisStrategy(client ttsClient, model string) *SynthesisStrategy {
	return &SynthesisStrategy{client: client, model: model}
}

func (s *SynthesisStrategy) Synthesize(ctx context.Context, text, _ string) (enrich.AudioArtifact, error) {
	capped, _ := textutil.Truncate(text, synthesisMaxChars)
	audio, format, err := s.client.SynthesizeSpeech(ctx, s.model, capped)
	if err != nil {
		return enrich.AudioArtifact{}, err
	}
	return enrich.AudioArtifact{
		Kind:   enrich.AudioInline,
		Audio:  base64.StdEncoding.EncodeToString(audio),
		Format: format,
	}, nil
}
