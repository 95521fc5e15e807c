package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "llama3.2:1b", c.DefaultModel)
	assert.Equal(t, "gpt2", c.Tokenizer)
	assert.Equal(t, "http://127.0.0.1:11434", c.OllamaHost)
	assert.Equal(t, 120, c.OllamaTimeoutSec)
	assert.Equal(t, 1, c.RetryMaxAttempts)
	assert.True(t, c.ModelsMerge)
	assert.True(t, c.RenderMarkdown)
	assert.NotEmpty(t, c.HistoryFile)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_model: mistral\ntokenizer: heuristic\nollama_timeout_sec: 30\n"), 0o644))
	t.Setenv("OLLAMA_CHAT_OLLAMA_TIMEOUT_SEC", "45")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", c.DefaultModel)
	assert.Equal(t, "heuristic", c.Tokenizer)
	assert.Equal(t, 45, c.OllamaTimeoutSec)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_model: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("default_model", "gemma2:2b"))
	require.NoError(t, c.Set("render_markdown", "false"))
	require.NoError(t, Save(c, path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemma2:2b", back.DefaultModel)
	assert.False(t, back.RenderMarkdown)
}

func TestSetValidation(t *testing.T) {
	c := &Global{}
	assert.Error(t, c.Set("temperature", "hot"))
	assert.Error(t, c.Set("tokenizer", "sentencepiece"))
	assert.Error(t, c.Set("retry_max_attempts", "-1"))
	assert.Error(t, c.Set("default_model", " "))
	assert.Error(t, c.Set("nope", "1"))

	require.NoError(t, c.Set("tokenizer", "BPE"))
	assert.Equal(t, "gpt2", c.Tokenizer)
	require.NoError(t, c.Set("ollama_host", "http://gpu-box:11434/"))
	assert.Equal(t, "http://gpu-box:11434", c.OllamaHost)
}

func TestGetCoversEveryKey(t *testing.T) {
	c := &Global{DefaultModel: "mistral", RetryMaxAttempts: 3}
	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
	v, _ := c.Get("retry_max_attempts")
	assert.Equal(t, "3", v)
}
