package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Content     ContentConfig     `yaml:"content"`
	Narration   NarrationConfig   `yaml:"narration"`
	Import      ImportConfig      `yaml:"import"`
	Storage     StorageConfig     `yaml:"storage"`
	Database    DatabaseConfig    `yaml:"database"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ExtractorConfig struct {
	// Mode selects how documents are turned into text: "service" posts the
	// document to an extraction HTTP service, "local" shells out to a
	// pdftotext-compatible binary.
	Mode           string `yaml:"mode"`
	ServiceURL     string `yaml:"service_url"`
	LocalBinary    string `yaml:"local_binary"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GeminiConfig struct {
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ContentConfig struct {
	Segments     int    `yaml:"segments"`
	Quizzes      int    `yaml:"quizzes"`
	Tone         string `yaml:"tone"`
	PromptBudget int    `yaml:"prompt_budget"`
}

type NarrationConfig struct {
	Voice          string `yaml:"voice"`
	LanguageCode   string `yaml:"language_code"`
	MaxChars       int    `yaml:"max_chars"`
	MaxSegments    int    `yaml:"max_segments"` // -1 narrates every segment
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ImportConfig struct {
	SceneLimit int `yaml:"scene_limit"`
}

type StorageConfig struct {
	Bucket string `yaml:"bucket"`
}

type DatabaseConfig struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	User    string `yaml:"user"`
	Name    string `yaml:"name"`
	SSLMode string `yaml:"sslmode"`
}

type PathsConfig struct {
	Inbox   string `yaml:"inbox"`
	Exports string `yaml:"exports"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Extractor.Mode {
	case "", "service":
		c.Extractor.Mode = "service"
		if c.Extractor.ServiceURL == "" {
			return fmt.Errorf("extractor.service_url is required in service mode")
		}
	case "local":
		if c.Extractor.LocalBinary == "" {
			return fmt.Errorf("extractor.local_binary is required in local mode")
		}
	default:
		return fmt.Errorf("extractor.mode must be \"service\" or \"local\"")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}

	if c.Extractor.TimeoutSeconds == 0 {
		c.Extractor.TimeoutSeconds = 30
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = 30
	}
	if c.Content.Segments == 0 {
		c.Content.Segments = 5
	}
	if c.Content.Quizzes == 0 {
		c.Content.Quizzes = 3
	}
	if c.Content.Tone == "" {
		c.Content.Tone = "professional"
	}
	if c.Content.PromptBudget == 0 {
		c.Content.PromptBudget = 15000
	}
	if c.Narration.LanguageCode == "" {
		c.Narration.LanguageCode = "en-US"
	}
	if c.Narration.MaxChars == 0 {
		c.Narration.MaxChars = 2500
	}
	if c.Narration.MaxSegments == 0 {
		c.Narration.MaxSegments = 1
	}
	if c.Narration.TimeoutSeconds == 0 {
		c.Narration.TimeoutSeconds = 30
	}
	if c.Import.SceneLimit == 0 {
		c.Import.SceneLimit = 2
	}
	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Exports == "" {
		c.Paths.Exports = "data/exports"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
