package enrich

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartnews-english/enricher/internal/analysis"
	"github.com/smartnews-english/enricher/internal/textutil"
)

// Default request option values.
const (
	DefaultTopK         = 10
	DefaultNumQuestions = 5
	DefaultMaxLength    = 150
	DefaultMinLength    = 50
	DefaultLang         = "en"
)

// Per-call deadlines and the pause before the single retry.
const (
	summaryTimeout  = 30 * time.Second
	speechTimeout   = 30 * time.Second
	subCallTimeout  = 20 * time.Second
	defaultRetryGap = 2 * time.Second
)

// minQuizSeedWords: sentences at or below this many words carry too little
// content to seed a question.
const minQuizSeedWords = 5

// Summarizer produces an abstractive summary within a length band.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, *Error)
}

// QuestionGenerator produces one quiz question for one sentence.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, sentence string) (QuizQuestion, *Error)
}

// SentimentAnalyzer classifies the overall sentiment of a text.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (SentimentArtifact, *Error)
}

// Speaker renders text as audio. Implementations never fail; they degrade
// to the client-fallback artifact instead.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) AudioArtifact
}

// Orchestrator fans an enrichment request out to the providers and the
// local analyzers and reassembles the per-artifact results. A nil provider
// means that capability is not configured; its artifacts fail with
// ConfigurationMissing while everything else still runs.
type Orchestrator struct {
	summarizer Summarizer
	questions  QuestionGenerator
	sentiment  SentimentAnalyzer
	speaker    Speaker

	summaryModel  string
	maxConcurrent int
	retryGap      time.Duration
}

// OrchestratorOption mutates construction defaults.
type OrchestratorOption func(*Orchestrator)

// WithRetryGap overrides the pause before the single retry, used in tests.
func WithRetryGap(gap time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.retryGap = gap }
}

// NewOrchestrator wires the providers together. summaryModel is recorded in
// summary artifacts so clients can tell which model produced them.
func NewOrchestrator(summarizer Summarizer, questions QuestionGenerator, sentiment SentimentAnalyzer, speaker Speaker, summaryModel string, maxConcurrent int, opts ...OrchestratorOption) *Orchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	o := &Orchestrator{
		summarizer:    summarizer,
		questions:     questions,
		sentiment:     sentiment,
		speaker:       speaker,
		summaryModel:  summaryModel,
		maxConcurrent: maxConcurrent,
		retryGap:      defaultRetryGap,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enrich runs every requested artifact concurrently and never lets one
// artifact's failure spill into another's slot.
func (o *Orchestrator) Enrich(ctx context.Context, req Request) Response {
	resp := Response{
		ArticleID: req.ArticleID,
		Artifacts: make(map[ArtifactKind]ArtifactResult, len(req.Artifacts)),
	}

	opts := applyDefaults(req.Options)

	normalized, err := textutil.Normalize(req.RawText, 0)
	if err != nil {
		empty := NewError(EmptyInput, "text is empty after normalization")
		for _, kind := range req.Artifacts {
			resp.Artifacts[kind] = failed(empty)
		}
		return resp
	}
	resp.Truncated = normalized.Truncated
	text := normalized.Text

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)

	record := func(kind ArtifactKind, result ArtifactResult) {
		mu.Lock()
		resp.Artifacts[kind] = result
		mu.Unlock()
	}

	for _, kind := range req.Artifacts {
		kind := kind
		group.Go(func() error {
			// Always return nil: artifact failures land in their own
			// slot, never in the group.
			record(kind, o.runArtifact(groupCtx, kind, text, opts))
			return nil
		})
	}
	_ = group.Wait()

	return resp
}

func (o *Orchestrator) runArtifact(ctx context.Context, kind ArtifactKind, text string, opts Options) ArtifactResult {
	switch kind {
	case KindSummary:
		return o.summarize(ctx, text, opts)
	case KindQuiz:
		return o.generateQuiz(ctx, text, opts)
	case KindSentiment:
		return o.analyzeSentiment(ctx, text)
	case KindAudio:
		return o.speak(ctx, text, opts)
	case KindDifficulty:
		return classifyDifficulty(text)
	case KindKeywords:
		return extractKeywords(text, opts.TopK)
	default:
		return failed(Errorf(SchemaViolation, "unknown artifact kind %q", kind))
	}
}

func (o *Orchestrator) summarize(ctx context.Context, text string, opts Options) ArtifactResult {
	if o.summarizer == nil {
		return failed(NewError(ConfigurationMissing, "no summarization provider is configured"))
	}

	var summary string
	callErr := o.callWithRetry(ctx, summaryTimeout, func(ctx context.Context) *Error {
		s, err := o.summarizer.Summarize(ctx, text, opts.MaxLength, opts.MinLength)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	if callErr != nil {
		return failed(callErr)
	}

	return ok(SummaryArtifact{
		Summary:        summary,
		OriginalLength: len(text),
		SummaryLength:  len(summary),
		Model:          o.summaryModel,
	})
}

// generateQuiz seeds one sub-call per usable sentence and reassembles the
// answers by seed index so question order follows the article. Failed seeds
// are compacted out; the artifact only fails when every seed failed.
func (o *Orchestrator) generateQuiz(ctx context.Context, text string, opts Options) ArtifactResult {
	if o.questions == nil {
		return failed(NewError(ConfigurationMissing, "no question provider is configured"))
	}

	seeds := quizSeeds(text, opts.NumQuestions)
	if len(seeds) == 0 {
		return failed(NewError(InsufficientText, "no sentence is long enough to seed a question"))
	}

	type slot struct {
		index    int
		question QuizQuestion
		err      *Error
	}

	results := make(chan slot, len(seeds))
	semaphore := make(chan struct{}, o.maxConcurrent)

	var wg sync.WaitGroup
	for i, seed := range seeds {
		wg.Add(1)
		go func(index int, sentence string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			var question QuizQuestion
			callErr := o.callWithRetry(ctx, subCallTimeout, func(ctx context.Context) *Error {
				q, err := o.questions.GenerateQuestion(ctx, sentence)
				if err != nil {
					return err
				}
				question = q
				return nil
			})
			results <- slot{index: index, question: question, err: callErr}
		}(i, seed)
	}
	wg.Wait()
	close(results)

	ordered := make([]*slot, len(seeds))
	for s := range results {
		s := s
		ordered[s.index] = &s
	}

	questions := make([]QuizQuestion, 0, len(seeds))
	var firstErr *Error
	for _, s := range ordered {
		if s.err != nil {
			if firstErr == nil {
				firstErr = s.err
			}
			log.Printf("Quiz question %d failed: %v", s.index, s.err)
			continue
		}
		questions = append(questions, s.question)
	}

	if len(questions) == 0 {
		return failed(firstErr)
	}
	return ok(QuizArtifact{Questions: questions})
}

func (o *Orchestrator) analyzeSentiment(ctx context.Context, text string) ArtifactResult {
	if o.sentiment == nil {
		return failed(NewError(ConfigurationMissing, "no sentiment provider is configured"))
	}

	var sentiment SentimentArtifact
	callErr := o.callWithRetry(ctx, subCallTimeout, func(ctx context.Context) *Error {
		s, err := o.sentiment.AnalyzeSentiment(ctx, text)
		if err != nil {
			return err
		}
		sentiment = s
		return nil
	})
	if callErr != nil {
		return failed(callErr)
	}
	return ok(sentiment)
}

func (o *Orchestrator) speak(ctx context.Context, text string, opts Options) ArtifactResult {
	if o.speaker == nil {
		return ok(AudioArtifact{Kind: AudioClientFallback})
	}
	ctx, cancel := context.WithTimeout(ctx, speechTimeout)
	defer cancel()
	return ok(o.speaker.Speak(ctx, text, opts.Lang))
}

func classifyDifficulty(text string) ArtifactResult {
	result, err := analysis.ClassifyDifficulty(text)
	if err != nil {
		return failed(NewError(InsufficientText, "text is too short to classify"))
	}
	return ok(result)
}

func extractKeywords(text string, topK int) ArtifactResult {
	return ok(analysis.ExtractKeywords(text, topK))
}

// callWithRetry runs the call under its own deadline and retries exactly
// once when the provider reports itself unavailable. The retry waits a
// short fixed gap; the provider's own readiness estimate is passed through
// to the caller instead of being slept on.
func (o *Orchestrator) callWithRetry(ctx context.Context, timeout time.Duration, call func(ctx context.Context) *Error) *Error {
	attempt := func() *Error {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return call(attemptCtx)
	}

	err := attempt()
	if err == nil || err.Kind != ProviderUnavailable {
		return err
	}

	select {
	case <-ctx.Done():
		return err
	case <-time.After(o.retryGap):
	}

	return attempt()
}

// quizSeeds selects the sentences worth asking about: long enough to carry
// content, in article order, capped at the requested question count.
func quizSeeds(text string, numQuestions int) []string {
	seeds := make([]string, 0, numQuestions)
	for _, sentence := range textutil.Sentences(text) {
		if len(strings.Fields(sentence)) <= minQuizSeedWords {
			continue
		}
		seeds = append(seeds, sentence)
		if len(seeds) == numQuestions {
			break
		}
	}
	return seeds
}

func applyDefaults(opts Options) Options {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.NumQuestions <= 0 {
		opts.NumQuestions = DefaultNumQuestions
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = DefaultMaxLength
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}
	return opts
}
