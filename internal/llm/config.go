package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskVariantConfirm asks the oracle whether two surface forms are the
	// same learning unit (spec §4.1 step (f)).
	TaskVariantConfirm TaskType = "variant_confirm"
	// TaskSentenceGenerate asks the oracle to draft a new sentence
	// targeting a small set of lemmas (spec §4.3 JIT generation).
	TaskSentenceGenerate TaskType = "sentence_generate"
	// TaskSentenceReview asks the oracle to check a generated sentence
	// against the comprehensible-input constraints before it is admitted
	// to the active pool (spec §4.3 review gate).
	TaskSentenceReview TaskType = "sentence_review"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled             bool
	LogCalls            bool
	Endpoint            string
	Model               string
	TimeoutMs           int
	MaxRetries          int
	ConfidenceThreshold float64
	Tasks               map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:             false,
		LogCalls:            false,
		Endpoint:            "http://localhost:11434",
		Model:               "llama3.2",
		TimeoutMs:           10000,
		MaxRetries:          1,
		ConfidenceThreshold: 0.85,
		Tasks: map[TaskType]TaskConfig{
			TaskVariantConfirm:   {Temperature: 0.1, MaxTokens: 256, TimeoutMs: 6000},
			TaskSentenceGenerate: {Temperature: 0.7, MaxTokens: 512, TimeoutMs: 15000},
			TaskSentenceReview:   {Temperature: 0.1, MaxTokens: 256, TimeoutMs: 8000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("ALIF_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ALIF_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ALIF_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("ALIF_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ALIF_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ALIF_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("ALIF_LLM_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.ConfidenceThreshold = f
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskVariantConfirm, "ALIF_LLM_VARIANT_CONFIRM_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSentenceGenerate, "ALIF_LLM_SENTENCE_GENERATE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSentenceReview, "ALIF_LLM_SENTENCE_REVIEW_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
