package tokens_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GFT-POC/Ollama-Chat/internal/tokens"
)

func TestHeuristicCount(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"short", "hi", 1},
		{"simple", "hello world", 2},
		{"long", strings.Repeat("a", 4000), 1000},
		{"multibyte", strings.Repeat("é", 8), 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, tokens.Heuristic{}.Count(c.in))
		})
	}
}

func TestBPECount(t *testing.T) {
	c, err := tokens.New(tokens.NameGPT2)
	require.NoError(t, err)

	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 2, c.Count("hello world"))

	short := c.Count("The quick brown fox")
	long := c.Count(strings.Repeat("The quick brown fox ", 20))
	assert.Greater(t, long, short)
}

func TestBPEIsStable(t *testing.T) {
	c, err := tokens.NewBPE(tokens.DefaultEncoding)
	require.NoError(t, err)
	assert.Equal(t, tokens.DefaultEncoding, c.Encoding())

	text := "Stable counts are required for truncation to be deterministic."
	first := c.Count(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Count(text))
	}
}

func TestNewSelectsCounter(t *testing.T) {
	c, err := tokens.New("")
	require.NoError(t, err)
	assert.IsType(t, &tokens.BPE{}, c)

	c, err = tokens.New("Heuristic")
	require.NoError(t, err)
	assert.Equal(t, tokens.Heuristic{}, c)

	_, err = tokens.New("sentencepiece")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tokenizer")
}

func TestCounterFunc(t *testing.T) {
	words := tokens.CounterFunc(func(s string) int { return len(strings.Fields(s)) })
	assert.Equal(t, 3, words.Count("three four five"))
	assert.Equal(t, 0, words.Count(""))
}
