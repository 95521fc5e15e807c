package history_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/history"
	"github.com/GFT-POC/Ollama-Chat/internal/tokens"
)

// words counts whitespace-separated fields, which makes token costs easy to dial in.
var words = tokens.CounterFunc(func(s string) int { return len(strings.Fields(s)) })

// msg builds a message costing exactly n tokens under words.
func msg(role ai.Role, name string, n int) ai.Message {
	if n == 0 {
		return ai.Message{Role: role}
	}
	return ai.Message{Role: role, Content: name + strings.Repeat(" x", n-1)}
}

func threeTurns() []ai.Message {
	return []ai.Message{
		msg(ai.RoleUser, "msg1", 3),
		msg(ai.RoleAssistant, "msg2", 4),
		msg(ai.RoleUser, "msg3", 5),
	}
}

func TestTruncateKeepsNewestThatFit(t *testing.T) {
	h := threeTurns()
	got := history.Truncate(h, 7, words)
	assert.Equal(t, h[2:], got)
}

func TestTruncateKeepsEverythingWhenBudgetAllows(t *testing.T) {
	h := threeTurns()
	assert.Equal(t, h, history.Truncate(h, 12, words))
	assert.Equal(t, h, history.Truncate(h, 1000, words))
}

func TestTruncateStopsAtFirstMessageThatDoesNotFit(t *testing.T) {
	// msg2 does not fit after msg3, so msg1 is dropped too even though it would fit alone.
	h := []ai.Message{
		msg(ai.RoleUser, "msg1", 1),
		msg(ai.RoleAssistant, "msg2", 10),
		msg(ai.RoleUser, "msg3", 5),
	}
	assert.Equal(t, h[2:], history.Truncate(h, 7, words))
}

func TestTruncateDropsOversizedNewestMessage(t *testing.T) {
	h := []ai.Message{msg(ai.RoleUser, "msg1", 20)}
	got := history.Truncate(h, 5, words)
	assert.Empty(t, got)
}

func TestTruncateEmptyAndNonPositiveBudgets(t *testing.T) {
	assert.Empty(t, history.Truncate(nil, 10, words))
	assert.Empty(t, history.Truncate([]ai.Message{}, 10, words))
	assert.Empty(t, history.Truncate(threeTurns(), 0, words))
	assert.Empty(t, history.Truncate(threeTurns(), -3, words))
}

func TestTruncateZeroCostMessages(t *testing.T) {
	h := []ai.Message{msg(ai.RoleUser, "", 0), msg(ai.RoleAssistant, "a", 2)}
	assert.Equal(t, h, history.Truncate(h, 2, words))
}

func TestTruncateDoesNotMutateOrAliasInput(t *testing.T) {
	h := threeTurns()
	before := append([]ai.Message(nil), h...)

	got := history.Truncate(h, 9, words)
	require.Len(t, got, 2)
	got[0].Content = "changed"

	assert.Equal(t, before, h)
}

func TestFit(t *testing.T) {
	h := threeTurns()
	view, b := history.Fit(h, 10, words)
	assert.Equal(t, h[1:], view)
	assert.Equal(t, history.Budget{Limit: 10, Tokens: 9, Kept: 2, Dropped: 1}, b)
	assert.Equal(t, 1, b.Remaining())

	view, b = history.Fit(h, -1, words)
	assert.Empty(t, view)
	assert.Equal(t, 0, b.Kept)
	assert.Equal(t, 3, b.Dropped)
	assert.Equal(t, 0, b.Remaining())
}

func TestFitCountsEachMessageOnce(t *testing.T) {
	calls := 0
	counting := tokens.CounterFunc(func(s string) int {
		calls++
		return words.Count(s)
	})
	_, b := history.Fit(threeTurns(), 100, counting)
	assert.Equal(t, 3, b.Kept)
	assert.Equal(t, 3, calls)
}

func randomHistory(r *rand.Rand) []ai.Message {
	n := r.Intn(12)
	h := make([]ai.Message, n)
	for i := range h {
		role := ai.RoleUser
		if i%2 == 1 {
			role = ai.RoleAssistant
		}
		h[i] = msg(role, fmt.Sprintf("m%d", i), r.Intn(20))
	}
	return h
}

func sum(msgs []ai.Message) int {
	total := 0
	for _, m := range msgs {
		total += words.Count(m.Content)
	}
	return total
}

func isSuffix(short, long []ai.Message) bool {
	if len(short) > len(long) {
		return false
	}
	off := len(long) - len(short)
	for i := range short {
		if short[i] != long[off+i] {
			return false
		}
	}
	return true
}

func TestTruncateProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		h := randomHistory(r)
		b1 := r.Intn(80) - 5
		b2 := b1 + r.Intn(40)

		got := history.Truncate(h, b1, words)

		// suffix
		require.True(t, isSuffix(got, h), "not a suffix: %v of %v", got, h)

		// budget
		if b1 >= 0 {
			require.LessOrEqual(t, sum(got), b1)
		}
		if len(h) > 0 && words.Count(h[len(h)-1].Content) > b1 {
			require.Empty(t, got)
		}

		// maximality: the next older message would not have fit
		if dropped := len(h) - len(got); dropped > 0 && len(got) > 0 {
			require.Greater(t, sum(got)+words.Count(h[dropped-1].Content), b1)
		}

		// monotone growth
		wider := history.Truncate(h, b2, words)
		require.True(t, isSuffix(got, wider), "budget %d result not a suffix of budget %d result", b1, b2)

		// idempotence
		require.Equal(t, got, history.Truncate(got, b1, words))

		// Fit agrees with Truncate
		view, m := history.Fit(h, b1, words)
		require.Equal(t, got, view)
		require.Equal(t, len(got), m.Kept)
		require.Equal(t, len(h)-len(got), m.Dropped)
		require.Equal(t, sum(got), m.Tokens)
	}
}

func TestTruncateWithBPECounter(t *testing.T) {
	c, err := tokens.New(tokens.NameGPT2)
	require.NoError(t, err)

	h := []ai.Message{
		ai.UserMessage("Tell me a long story about the sea and the ships that sail on it."),
		ai.AssistantMessage("Once upon a time there was a lighthouse."),
		ai.UserMessage("hello world"),
	}
	// "hello world" is two GPT-2 tokens.
	assert.Equal(t, h[2:], history.Truncate(h, 2, c))
	assert.Empty(t, history.Truncate(h, 1, c))
	assert.Equal(t, h, history.Truncate(h, 4096, c))
}
