package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Gemini API settings (structured-output provider: quiz, sentiment,
	// generative dictionary)
	GeminiAPIKey string `json:"-"` // Don't expose in JSON
	GeminiModel  string `json:"gemini_model"`

	// Hugging Face Inference API settings (task-specific models:
	// summarization, text-to-speech)
	HuggingFaceAPIKey string `json:"-"` // Don't expose in JSON
	SummaryModel      string `json:"summary_model"`
	TTSModel          string `json:"tts_model"`

	// Merriam-Webster learner's dictionary settings
	WebsterAPIKey string `json:"-"` // Don't expose in JSON

	// Provider selection
	DictionaryProvider string `json:"dictionary_provider"` // "webster" or "gemini"
	SpeechStrategy     string `json:"speech_strategy"`     // "redirect" or "synthesis"
	SpeechLang         string `json:"speech_lang"`

	// Cold-start mitigation: cron schedule for pinging the summarization
	// model so it stays loaded. Empty disables the scheduler.
	KeepWarmSchedule string `json:"keep_warm_schedule"`

	// Rate limiting
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Host:                  getEnvOrDefault("HOST", "0.0.0.0"),
		GeminiAPIKey:          getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:           getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		HuggingFaceAPIKey:     getEnvOrDefault("HUGGINGFACE_API_KEY", ""),
		SummaryModel:          getEnvOrDefault("SUMMARY_MODEL", "facebook/bart-large-cnn"),
		TTSModel:              getEnvOrDefault("TTS_MODEL", "facebook/mms-tts-eng"),
		WebsterAPIKey:         getEnvOrDefault("MW_API_KEY", ""),
		DictionaryProvider:    getEnvOrDefault("DICTIONARY_PROVIDER", ""),
		SpeechStrategy:        getEnvOrDefault("SPEECH_STRATEGY", "redirect"),
		SpeechLang:            getEnvOrDefault("SPEECH_LANG", "en"),
		KeepWarmSchedule:      getEnvOrDefault("KEEP_WARM_SCHEDULE", ""),
		MaxConcurrentRequests: getEnvOrDefaultInt("MAX_CONCURRENT_REQUESTS", 5),
	}

	if config.DictionaryProvider == "" {
		// Prefer the fixed lexical database when its credential is present.
		if config.WebsterAPIKey != "" {
			config.DictionaryProvider = "webster"
		} else {
			config.DictionaryProvider = "gemini"
		}
	}

	return config, config.validate()
}

// validate checks configuration values. Missing provider credentials are not
// fatal: the affected artifacts fail per-request with a clear error instead.
func (c *Config) validate() error {
	if c.DictionaryProvider != "webster" && c.DictionaryProvider != "gemini" {
		return &ConfigError{Field: "DICTIONARY_PROVIDER", Message: "must be webster or gemini"}
	}
	if c.SpeechStrategy != "redirect" && c.SpeechStrategy != "synthesis" {
		return &ConfigError{Field: "SPEECH_STRATEGY", Message: "must be redirect or synthesis"}
	}
	if c.MaxConcurrentRequests < 1 {
		return &ConfigError{Field: "MAX_CONCURRENT_REQUESTS", Message: "must be at least 1"}
	}
	return nil
}

// HasGemini reports whether the Gemini-backed artifacts can be served.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// HasHuggingFace reports whether the Hugging Face-backed artifacts can be served.
func (c *Config) HasHuggingFace() bool {
	return c.HuggingFaceAPIKey != ""
}

// HasWebster reports whether the Merriam-Webster dictionary can be queried.
func (c *Config) HasWebster() bool {
	return c.WebsterAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
