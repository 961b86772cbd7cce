package analysis

import (
	"errors"
	"math"
	"strings"

	"github.com/smartnews-english/enricher/internal/textutil"
)

// ErrInsufficientText indicates the text is too short for the analyzer.
var ErrInsufficientText = errors.New("text too short for analysis")

const complexWordLength = 8

// DifficultyStats are the raw measurements behind a classification.
type DifficultyStats struct {
	TotalWords            int     `json:"totalWords"`
	TotalSentences        int     `json:"totalSentences"`
	AvgSentenceLength     float64 `json:"avgSentenceLength"`
	AvgWordLength         float64 `json:"avgWordLength"`
	ComplexWordPercentage int     `json:"complexWordPercentage"`
}

// DifficultyResult is a CEFR band with its supporting stats.
type DifficultyResult struct {
	Level       string          `json:"level"`
	Description string          `json:"description"`
	Stats       DifficultyStats `json:"stats"`
}

// ClassifyDifficulty assigns a CEFR band from sentence length, word length
// and the share of words longer than eight characters. The band thresholds
// are checked in order and the first match wins; note the C1 branch is an
// OR over its two conditions while the lower bands require all three.
func ClassifyDifficulty(text string) (DifficultyResult, error) {
	words := strings.Fields(text)
	sentences := textutil.Sentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return DifficultyResult{}, ErrInsufficientText
	}

	totalChars := 0
	complexWords := 0
	for _, w := range words {
		totalChars += len(w)
		if len(w) > complexWordLength {
			complexWords++
		}
	}

	avgSentenceLength := float64(len(words)) / float64(len(sentences))
	avgWordLength := float64(totalChars) / float64(len(words))
	complexRatio := float64(complexWords) / float64(len(words))

	level, description := "B1", "Intermediate"
	switch {
	case avgSentenceLength < 15 && avgWordLength < 5 && complexRatio < 0.10:
		level, description = "A2", "Elementary"
	case avgSentenceLength < 20 && avgWordLength < 6 && complexRatio < 0.15:
		level, description = "B1", "Intermediate"
	case avgSentenceLength < 25 && avgWordLength < 7 && complexRatio < 0.25:
		level, description = "B2", "Upper Intermediate"
	case avgSentenceLength >= 25 || complexRatio >= 0.25:
		level, description = "C1", "Advanced"
	}

	return DifficultyResult{
		Level:       level,
		Description: description,
		Stats: DifficultyStats{
			TotalWords:            len(words),
			TotalSentences:        len(sentences),
			AvgSentenceLength:     math.Round(avgSentenceLength*10) / 10,
			AvgWordLength:         math.Round(avgWordLength*10) / 10,
			ComplexWordPercentage: int(math.Round(complexRatio * 100)),
		},
	}, nil
}
