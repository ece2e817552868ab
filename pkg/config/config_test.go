package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var providerKeys = []string{
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"GEMINI_API_KEY", "GEMINI_MODEL",
	"MOONSHOT_API_KEY", "MOONSHOT_MODEL",
	"KIMI_API_KEY", "KIMI_MODEL",
	"GROK_API_KEY", "GROK_MODEL",
	"QUILL_PROVIDER", "QUILL_STORAGE", "QUILL_BUCKET", "QUILL_OUTPUT_DIR", "QUILL_JOURNAL",
	"PORT", "QUILL_WORKERS", "QUILL_PARALLEL_CHAPTERS",
}

// clearEnv blanks every variable Load reads so the host environment does not
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range providerKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.LLM.Provider)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, DefaultBucket, cfg.Storage.Bucket)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Server.Workers)
	assert.Zero(t, cfg.Pipeline.ParallelChapters)
	assert.Empty(t, cfg.Journal)
}

func TestLoadProviderFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
		key      string
		model    string
	}{
		{"openai", map[string]string{"OPENAI_API_KEY": "sk", "OPENAI_MODEL": "gpt-5"}, "openai", "sk", "gpt-5"},
		{"gemini", map[string]string{"GEMINI_API_KEY": "g"}, "gemini", "g", ""},
		{"grok wins over openai", map[string]string{"OPENAI_API_KEY": "sk", "GROK_API_KEY": "x"}, "grok", "x", ""},
		{"explicit provider", map[string]string{"GROK_API_KEY": "x", "MOONSHOT_API_KEY": "m", "QUILL_PROVIDER": "Moonshot"}, "moonshot", "m", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.provider, cfg.LLM.Provider)
			assert.Equal(t, tt.key, cfg.LLM.APIKey)
			assert.Equal(t, tt.model, cfg.LLM.Model)
		})
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: gemini
  model: gemini-2.5-pro
storage:
  backend: gcs
  bucket: my-books
server:
  workers: 4
pipeline:
  parallel_chapters: 3
journal: runs.db
`), 0o644))

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("QUILL_PARALLEL_CHAPTERS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "gcs", cfg.Storage.Backend)
	assert.Equal(t, "my-books", cfg.Storage.Bucket)
	assert.Equal(t, 4, cfg.Server.Workers)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 6, cfg.Pipeline.ParallelChapters)
	assert.Equal(t, "runs.db", cfg.Journal)
	assert.Equal(t, int64(4096), cfg.Pipeline.OutlineTokens, "unset keys keep defaults")
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	t.Setenv("QUILL_STORAGE", "s3")
	_, err := Load("")
	assert.ErrorContains(t, err, "unknown storage backend")

	t.Setenv("QUILL_STORAGE", "")
	t.Setenv("QUILL_PROVIDER", "llama")
	_, err = Load("")
	assert.ErrorContains(t, err, "unknown llm provider")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
