package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/seo-tagger/pkg/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{PathEnv, ProviderEnv, ModelEnv, GeminiKeyEnv, OpenAIKeyEnv} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, llm.ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, DefaultGeminiModel, cfg.AI.Model)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 1.5, cfg.Extraction.PositionBoost)
	assert.Equal(t, 160, cfg.Metadata.DescriptionMaxLen)
	assert.NotEmpty(t, cfg.Metadata.Intent.Transactional)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "json", cfg.Logging.Format)

	sc := cfg.Strategy(false)
	assert.True(t, sc.UseAI)
	assert.Empty(t, sc.Credential, "no key means the selector falls back with no_credential")
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
ai:
  enabled: false
  provider: openai
  timeout: 5s
  requests_per_minute: 30
extraction:
  position_boost: 2.0
metadata:
  description_max_len: 150
  default_author: Editorial Desk
intent:
  brand_names: [acme]
output:
  dir: public/posts
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, llm.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.AI.Model)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2.0, cfg.Extraction.PositionBoost)
	assert.Equal(t, 0.1, cfg.Extraction.LeadFraction, "unset weights keep their defaults")
	assert.Equal(t, 150, cfg.Metadata.DescriptionMaxLen)
	assert.Equal(t, 60, cfg.Metadata.SlugMaxLen)
	assert.Equal(t, "Editorial Desk", cfg.Metadata.DefaultAuthor)
	assert.Equal(t, []string{"acme"}, cfg.Metadata.Intent.BrandNames)
	assert.NotEmpty(t, cfg.Metadata.Intent.Informational)
	assert.Equal(t, "public/posts", cfg.Output.Dir)
	assert.Equal(t, 2*time.Second, cfg.PacingInterval(true))
	assert.Zero(t, cfg.PacingInterval(false))
	assert.False(t, cfg.Strategy(false).UseAI)
}

func TestLoadFromEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv(PathEnv, writeConfig(t, "output:\n  dir: from-env\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output.Dir)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(OpenAIKeyEnv, "sk-test")
	t.Setenv(ModelEnv, "gpt-4.1-mini")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.AI.Model)

	t.Setenv(GeminiKeyEnv, "g-key")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.AI.Provider, "gemini wins when both keys exist")
	assert.Equal(t, "g-key", cfg.AI.APIKey)

	t.Setenv(ProviderEnv, "OpenAI")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)

	assert.False(t, cfg.Strategy(true).UseAI, "--no-ai forces rule-based")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "ai: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "ai:\n  provider: claude\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "logging:\n  format: xml\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "logging:\n  level: loud\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}
