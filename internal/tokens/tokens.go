// Package tokens provides the token counters used to budget conversation history.
package tokens

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Counter returns a stable, non-negative token count for a piece of text.
type Counter interface {
	Count(text string) int
}

// CounterFunc adapts a plain function to Counter.
type CounterFunc func(string) int

func (f CounterFunc) Count(text string) int { return f(text) }

// Counter names accepted by New.
const (
	NameGPT2      = "gpt2"
	NameHeuristic = "heuristic"
)

// DefaultEncoding is the GPT-2 byte-pair encoding.
const DefaultEncoding = "r50k_base"

func init() {
	// BPE ranks ship inside the loader module, so counting never touches the network.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// New returns the counter registered under name. An empty name selects gpt2.
func New(name string) (Counter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameGPT2, "bpe", DefaultEncoding:
		return NewBPE(DefaultEncoding)
	case NameHeuristic, "chars":
		return Heuristic{}, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q (use %s or %s)", name, NameGPT2, NameHeuristic)
	}
}

// BPE counts tokens with a tiktoken byte-pair encoding.
type BPE struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewBPE loads the named tiktoken encoding.
func NewBPE(encoding string) (*BPE, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", encoding, err)
	}
	return &BPE{encoding: encoding, enc: enc}, nil
}

// Encoding returns the encoding name.
func (b *BPE) Encoding() string { return b.encoding }

func (b *BPE) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(b.enc.Encode(text, nil, nil))
}

// Heuristic approximates 1 token ~= 4 characters.
type Heuristic struct{}

func (Heuristic) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	// Ensure at least 1 token for any non-empty text
	n := utf8.RuneCountInString(text) / 4
	if n == 0 {
		return 1
	}
	return n
}
