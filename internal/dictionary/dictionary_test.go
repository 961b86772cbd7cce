package dictionary

import (
	"testing"
)

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"running.", "running"},
		{"Running", "running"},
		{"  economy, ", "economy"},
		{"word!?", "word"},
		{"it's", "it's"},
		{"...", ""},
		{"   ", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result := NormalizeWord(test.input)
			if result != test.expected {
				t.Errorf("Expected '%s', got '%s'", test.expected, result)
			}
		})
	}
}
