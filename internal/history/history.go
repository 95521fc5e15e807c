// Package history fits a conversation log into a model's context window.
//
// Truncation always keeps a contiguous suffix of the log: messages are scanned
// from newest to oldest and the scan stops at the first message that would push
// the running token total past the budget. Older turns are therefore dropped
// first, and a newest message that alone exceeds the budget yields an empty view.
package history

import (
	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/tokens"
)

// Budget summarizes one truncation pass.
type Budget struct {
	Limit   int // token budget the pass ran against
	Tokens  int // tokens used by the kept messages
	Kept    int
	Dropped int
}

// Remaining returns the unused part of the budget, never negative.
func (b Budget) Remaining() int {
	if b.Tokens >= b.Limit {
		return 0
	}
	return b.Limit - b.Tokens
}

// Truncate returns the longest suffix of msgs whose token total fits within maxTokens.
// The input is never modified and the result does not share its backing array.
func Truncate(msgs []ai.Message, maxTokens int, counter tokens.Counter) []ai.Message {
	view, _ := Fit(msgs, maxTokens, counter)
	return view
}

// Fit runs one truncation pass and returns the kept suffix (as Truncate would)
// together with the budget accounting of that pass. Each message is counted once.
func Fit(msgs []ai.Message, maxTokens int, counter tokens.Counter) ([]ai.Message, Budget) {
	start, used := cut(msgs, maxTokens, counter)
	view := make([]ai.Message, len(msgs)-start)
	copy(view, msgs[start:])
	return view, Budget{
		Limit:   maxTokens,
		Tokens:  used,
		Kept:    len(view),
		Dropped: start,
	}
}

// cut returns the index of the oldest kept message and the tokens used by the kept suffix.
func cut(msgs []ai.Message, maxTokens int, counter tokens.Counter) (int, int) {
	if maxTokens <= 0 || len(msgs) == 0 {
		return len(msgs), 0
	}
	total := 0
	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		n := counter.Count(msgs[i].Content)
		if total+n > maxTokens {
			break
		}
		total += n
		start = i
	}
	return start, total
}
