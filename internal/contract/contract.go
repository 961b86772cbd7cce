// Package contract validates structured provider output against the shapes
// the rest of the pipeline depends on. Validation runs on the raw decoded
// JSON before any typed unmarshal, so a violation always names the exact
// field that broke the contract.
package contract

import (
	"fmt"

	"github.com/smartnews-english/enricher/internal/enrich"
)

// ValidateQuestion checks one quiz question object. Options may be absent
// or empty (open-ended question); when present there must be exactly four
// and the answer must equal exactly one of them, compared case-sensitively.
func ValidateQuestion(raw map[string]interface{}) *enrich.Error {
	question, err := requireString(raw, "question")
	if err != nil {
		return err
	}
	if question == "" {
		return violation("question", "must be a non-empty string")
	}

	answer, err := requireString(raw, "answer")
	if err != nil {
		return err
	}
	if answer == "" {
		return violation("answer", "must be a non-empty string")
	}

	options, err := optionalStringSlice(raw, "options")
	if err != nil {
		return err
	}
	if len(options) > 0 {
		if len(options) != 4 {
			return violation("options", fmt.Sprintf("must contain exactly 4 options, got %d", len(options)))
		}
		matches := 0
		for _, opt := range options {
			if opt == answer {
				matches++
			}
		}
		if matches != 1 {
			return violation("answer", fmt.Sprintf("must match exactly one option, matched %d", matches))
		}
	}

	return nil
}

// ValidateSentiment checks a sentiment object: label must be one of
// Positive/Negative/Neutral and confidence a number in [0, 100].
func ValidateSentiment(raw map[string]interface{}) *enrich.Error {
	label, err := requireString(raw, "label")
	if err != nil {
		return err
	}
	switch label {
	case "Positive", "Negative", "Neutral":
	default:
		return violation("label", fmt.Sprintf("must be Positive, Negative or Neutral, got %q", label))
	}

	rawConf, present := raw["confidence"]
	if !present {
		return violation("confidence", "is required")
	}
	conf, isNum := rawConf.(float64)
	if !isNum {
		return violation("confidence", "must be a number")
	}
	if conf < 0 || conf > 100 {
		return violation("confidence", fmt.Sprintf("must be between 0 and 100, got %g", conf))
	}

	return nil
}

// ValidateDictionaryEntry checks the canonical dictionary entry shape: a
// non-empty word and a meanings array whose elements carry a part of speech
// and at least one definition.
func ValidateDictionaryEntry(raw map[string]interface{}) *enrich.Error {
	word, err := requireString(raw, "word")
	if err != nil {
		return err
	}
	if word == "" {
		return violation("word", "must be a non-empty string")
	}

	rawMeanings, present := raw["meanings"]
	if !present {
		return violation("meanings", "is required")
	}
	meanings, isSlice := rawMeanings.([]interface{})
	if !isSlice {
		return violation("meanings", "must be an array")
	}
	if len(meanings) == 0 {
		return violation("meanings", "must not be empty")
	}

	for i, rawMeaning := range meanings {
		path := fmt.Sprintf("meanings[%d]", i)
		meaning, isObj := rawMeaning.(map[string]interface{})
		if !isObj {
			return violation(path, "must be an object")
		}
		if _, err := requireString(meaning, path+".partOfSpeech"); err != nil {
			return err
		}
		rawDefs, present := meaning["definitions"]
		if !present {
			return violation(path+".definitions", "is required")
		}
		defs, isSlice := rawDefs.([]interface{})
		if !isSlice || len(defs) == 0 {
			return violation(path+".definitions", "must be a non-empty array")
		}
		for j, rawDef := range defs {
			defPath := fmt.Sprintf("%s.definitions[%d]", path, j)
			def, isObj := rawDef.(map[string]interface{})
			if !isObj {
				return violation(defPath, "must be an object")
			}
			text, err := requireString(def, defPath+".definition")
			if err != nil {
				return err
			}
			if text == "" {
				return violation(defPath+".definition", "must be a non-empty string")
			}
		}
	}

	return nil
}

// requireString fetches a string field. The path may be a dotted path whose
// final segment is the map key.
func requireString(raw map[string]interface{}, path string) (string, *enrich.Error) {
	key := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			key = path[i+1:]
			break
		}
	}
	value, present := raw[key]
	if !present {
		return "", violation(path, "is required")
	}
	s, isString := value.(string)
	if !isString {
		return "", violation(path, "must be a string")
	}
	return s, nil
}

func optionalStringSlice(raw map[string]interface{}, key string) ([]string, *enrich.Error) {
	value, present := raw[key]
	if !present || value == nil {
		return nil, nil
	}
	slice, isSlice := value.([]interface{})
	if !isSlice {
		return nil, violation(key, "must be an array of strings")
	}
	out := make([]string, 0, len(slice))
	for i, item := range slice {
		s, isString := item.(string)
		if !isString {
			return nil, violation(fmt.Sprintf("%s[%d]", key, i), "must be a string")
		}
		out = append(out, s)
	}
	return out, nil
}

func violation(path, message string) *enrich.Error {
	return enrich.Errorf(enrich.SchemaViolation, "%s %s", path, message)
}
