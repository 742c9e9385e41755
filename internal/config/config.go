package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DetectorHeadings = "headings"
	DetectorOutline  = "outline"
)

// Config holds everything a run needs. The API key is only ever read from
// here; nothing downstream consults the environment.
type Config struct {
	Document   string `yaml:"document"`
	PromptFile string `yaml:"prompt_file"`
	OutDir     string `yaml:"out_dir"`

	Structure string `yaml:"structure"` // parts|chapters
	Detector  string `yaml:"detector"`  // headings|outline

	LLM LLMConfig `yaml:"llm"`

	ChunkSize       int `yaml:"chunk_size"`
	SectionMaxChars int `yaml:"section_max_chars"`
}

type LLMConfig struct {
	Provider          string `yaml:"provider"`
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	BaseURL           string `yaml:"base_url"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

func Default() Config {
	return Config{
		OutDir:          ".",
		Structure:       "parts",
		Detector:        DetectorHeadings,
		LLM:             LLMConfig{Provider: ProviderGemini},
		ChunkSize:       8192,
		SectionMaxChars: 8192,
	}
}

// Load reads path (if non-empty) over the defaults. Environment overrides are
// applied separately by ApplyEnv, after command-line flags.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// ApplyEnv fills an unset model from BOOKSUM_MODEL and an unset API key from
// the selected provider's environment variable.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BOOKSUM_MODEL"); v != "" && c.LLM.Model == "" {
		c.LLM.Model = v
	}
	if c.LLM.APIKey != "" {
		return
	}
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenAI:
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
			c.LLM.APIKey = v
		} else {
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}

// Validate checks settings needed before any work starts.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (want gemini|openai)", c.LLM.Provider))
	}
	switch strings.ToLower(c.Structure) {
	case "", "parts", "chapters":
	default:
		errs = append(errs, fmt.Errorf("unknown structure %q (want parts|chapters)", c.Structure))
	}
	switch c.Detector {
	case DetectorHeadings, DetectorOutline:
	default:
		errs = append(errs, fmt.Errorf("unknown detector %q (want headings|outline)", c.Detector))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.SectionMaxChars <= 0 {
		errs = append(errs, fmt.Errorf("section_max_chars must be positive, got %d", c.SectionMaxChars))
	}
	if c.LLM.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("requests_per_minute must not be negative, got %d", c.LLM.RequestsPerMinute))
	}
	return errors.Join(errs...)
}

// LoadPrompt reads a directive prompt file, trimmed. An empty path returns "".
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
