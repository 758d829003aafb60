package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	OCR        OCRConfig        `yaml:"ocr"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type SummarizerConfig struct {
	Provider     string  `yaml:"provider"` // "groq" or "anthropic"
	Model        string  `yaml:"model"`
	GroqKey      string  `yaml:"-"`
	AnthropicKey string  `yaml:"-"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

type PipelineConfig struct {
	ChunkSize   int `yaml:"chunk_size"`
	MaxUploadMB int `yaml:"max_upload_mb"`
}

type OCRConfig struct {
	Languages string `yaml:"languages"` // tesseract language codes, "+"-joined
}

// Load builds the configuration from environment variables with defaults.
func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	chunkSize, err := getEnvInt("CHUNK_SIZE", 12000)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_SIZE: %w", err)
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}
	maxTokens, err := getEnvInt("SUMMARY_MAX_TOKENS", 8000)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_MAX_TOKENS: %w", err)
	}
	temperature, err := getEnvFloat("SUMMARY_TEMPERATURE", 0.1)
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Summarizer: SummarizerConfig{
			Provider:     getEnv("SUMMARIZER_PROVIDER", "groq"),
			Model:        getEnv("SUMMARIZER_MODEL", ""),
			GroqKey:      getEnv("GROQ_API_KEY", ""),
			AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
			Temperature:  temperature,
			MaxTokens:    maxTokens,
		},
		Pipeline: PipelineConfig{
			ChunkSize:   chunkSize,
			MaxUploadMB: maxUpload,
		},
		OCR: OCRConfig{
			Languages: getEnv("OCR_LANGUAGES", "ara+eng"),
		},
	}
	return cfg, nil
}

// LoadFile reads a YAML config file and overlays it on the environment
// defaults. Used by the CLI; the server is configured by environment only.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	// API keys never live in the file.
	cfg.Summarizer.GroqKey = getEnv("GROQ_API_KEY", "")
	cfg.Summarizer.AnthropicKey = getEnv("ANTHROPIC_API_KEY", "")
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	switch c.Summarizer.Provider {
	case "groq":
		if c.Summarizer.GroqKey == "" {
			missing = append(missing, "GROQ_API_KEY")
		}
	case "anthropic":
		if c.Summarizer.AnthropicKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	default:
		return fmt.Errorf("unknown summarizer provider: %q", c.Summarizer.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Pipeline.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Pipeline.ChunkSize)
	}
	if c.Summarizer.Temperature < 0 || c.Summarizer.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0,2], got %v", c.Summarizer.Temperature)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}
