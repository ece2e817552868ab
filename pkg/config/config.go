package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	// Journal is the SQLite file recording runs. Empty disables the journal.
	Journal string `yaml:"journal"`
	Debug   bool   `yaml:"debug"`
}

type LLMConfig struct {
	// Provider is one of openai, gemini, grok, moonshot, kimi or local.
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type StorageConfig struct {
	// Backend is one of gcs, file or memory.
	Backend string `yaml:"backend"`
	Bucket  string `yaml:"bucket"`
	Dir     string `yaml:"dir"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

type PipelineConfig struct {
	// ParallelChapters > 0 writes chapters concurrently with that many workers.
	ParallelChapters int   `yaml:"parallel_chapters"`
	OutlineTokens    int64 `yaml:"outline_tokens"`
	ManuscriptTokens int64 `yaml:"manuscript_tokens"`
	ChapterTokens    int64 `yaml:"chapter_tokens"`
}

const (
	DefaultBucket = "adk-book-bot"
	DefaultDir    = "books"
)

func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "file",
			Bucket:  DefaultBucket,
			Dir:     DefaultDir,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			Workers:   2,
			QueueSize: 16,
		},
		Pipeline: PipelineConfig{
			OutlineTokens:    4096,
			ManuscriptTokens: 4096 * 16,
			ChapterTokens:    4096 * 2,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and finally the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

type providerEnv struct {
	provider, key, model, baseURL string
}

// Later entries win when several keys are present.
var providerEnvs = []providerEnv{
	{"openai", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL"},
	{"gemini", "GEMINI_API_KEY", "GEMINI_MODEL", ""},
	{"moonshot", "MOONSHOT_API_KEY", "MOONSHOT_MODEL", ""},
	{"kimi", "KIMI_API_KEY", "KIMI_MODEL", ""},
	{"grok", "GROK_API_KEY", "GROK_MODEL", ""},
}

func (c *Config) applyEnvOverrides() {
	provider := c.LLM.Provider
	if provider == "" {
		for _, p := range providerEnvs {
			if os.Getenv(p.key) != "" {
				provider = p.provider
			}
		}
	}
	if p := os.Getenv("QUILL_PROVIDER"); p != "" {
		provider = strings.ToLower(p)
	}
	if provider == "" {
		provider = "local"
	}
	c.LLM.Provider = provider

	for _, p := range providerEnvs {
		if p.provider != provider {
			continue
		}
		c.LLM.APIKey = envOr(p.key, c.LLM.APIKey)
		c.LLM.Model = envOr(p.model, c.LLM.Model)
		if p.baseURL != "" {
			c.LLM.BaseURL = envOr(p.baseURL, c.LLM.BaseURL)
		}
	}
	if provider == "local" {
		c.LLM.Model = envOr("OPENAI_MODEL", c.LLM.Model)
		c.LLM.BaseURL = envOr("OPENAI_BASE_URL", c.LLM.BaseURL)
	}

	c.Storage.Backend = envOr("QUILL_STORAGE", c.Storage.Backend)
	c.Storage.Bucket = envOr("QUILL_BUCKET", c.Storage.Bucket)
	c.Storage.Dir = envOr("QUILL_OUTPUT_DIR", c.Storage.Dir)
	c.Journal = envOr("QUILL_JOURNAL", c.Journal)

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	c.Server.Workers = envInt("QUILL_WORKERS", c.Server.Workers)
	c.Pipeline.ParallelChapters = envInt("QUILL_PARALLEL_CHAPTERS", c.Pipeline.ParallelChapters)
}

func (c Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case "openai", "gemini", "grok", "moonshot", "kimi", "local":
	default:
		errs = append(errs, fmt.Errorf("config: unknown llm provider %q", c.LLM.Provider))
	}
	switch c.Storage.Backend {
	case "gcs":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("config: storage.bucket is required for gcs"))
		}
	case "file":
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("config: storage.dir is required for file storage"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend))
	}
	if c.Server.Workers < 1 {
		errs = append(errs, errors.New("config: server.workers must be at least 1"))
	}
	if c.Pipeline.ParallelChapters < 0 {
		errs = append(errs, errors.New("config: pipeline.parallel_chapters must not be negative"))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
