package enrich

import "github.com/smartnews-english/enricher/internal/analysis"

// ArtifactKind identifies one derived output of the enrichment pipeline.
type ArtifactKind string

const (
	KindSummary    ArtifactKind = "summary"
	KindQuiz       ArtifactKind = "quiz"
	KindSentiment  ArtifactKind = "sentiment"
	KindAudio      ArtifactKind = "audio"
	KindDifficulty ArtifactKind = "difficulty"
	KindKeywords   ArtifactKind = "keywords"
)

// ParseArtifactKind maps a wire string to an ArtifactKind.
func ParseArtifactKind(s string) (ArtifactKind, bool) {
	switch ArtifactKind(s) {
	case KindSummary, KindQuiz, KindSentiment, KindAudio, KindDifficulty, KindKeywords:
		return ArtifactKind(s), true
	}
	return "", false
}

// Options carries per-request tuning knobs. Zero values mean "use default".
type Options struct {
	TopK         int    `json:"topK,omitempty"`
	NumQuestions int    `json:"numQuestions,omitempty"`
	MaxLength    int    `json:"maxLength,omitempty"`
	MinLength    int    `json:"minLength,omitempty"`
	Lang         string `json:"lang,omitempty"`
	Voice        string `json:"voice,omitempty"`
}

// Request describes one enrichment call. Immutable once built.
type Request struct {
	RawText   string
	ArticleID string
	Artifacts []ArtifactKind
	Options   Options
}

// SummaryArtifact is the free-text summary of the article.
type SummaryArtifact struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"originalLength"`
	SummaryLength  int    `json:"summaryLength"`
	Model          string `json:"model"`
}

// QuizQuestion is one generated comprehension question. When Options is
// non-empty, Answer equals exactly one of its elements (enforced by the
// contract validator, never assumed).
type QuizQuestion struct {
	Context  string   `json:"context"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuizArtifact is the best-effort list of generated questions, in original
// sentence order.
type QuizArtifact struct {
	Questions []QuizQuestion `json:"questions"`
}

// SentimentLabel is the canonical sentiment classification.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// SentimentArtifact is the sentiment judgment with confidence in [0,100].
type SentimentArtifact struct {
	Label       SentimentLabel `json:"label"`
	Confidence  float64        `json:"confidence"`
	Explanation string         `json:"explanation"`
}

// AudioKind discriminates the three possible speech outcomes.
type AudioKind string

const (
	AudioURL            AudioKind = "url"
	AudioInline         AudioKind = "inline"
	AudioClientFallback AudioKind = "client_fallback"
)

// AudioArtifact is the spoken-audio rendering. ClientFallback signals the
// caller to synthesize speech locally; it is a valid result, not an error.
type AudioArtifact struct {
	Kind   AudioKind `json:"kind"`
	URL    string    `json:"url,omitempty"`
	Audio  string    `json:"audio,omitempty"` // base64-encoded bytes
	Format string    `json:"format,omitempty"`
}

// KeywordsArtifact wraps the heuristic keyword report.
type KeywordsArtifact = analysis.KeywordReport

// DifficultyArtifact wraps the heuristic difficulty classification.
type DifficultyArtifact = analysis.DifficultyResult

// ArtifactResult is the per-artifact slot in a Response: either a payload or
// a typed failure, never both.
type ArtifactResult struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

// Response maps each requested artifact to its independent outcome. One
// artifact's failure never invalidates the others.
type Response struct {
	ArticleID string                          `json:"articleId,omitempty"`
	Truncated bool                            `json:"truncated,omitempty"`
	Artifacts map[ArtifactKind]ArtifactResult `json:"artifacts"`
}

func ok(data interface{}) ArtifactResult {
	return ArtifactResult{OK: true, Data: data}
}

func failed(err *Error) ArtifactResult {
	return ArtifactResult{OK: false, Error: err}
}
