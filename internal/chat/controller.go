package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/history"
	"github.com/GFT-POC/Ollama-Chat/internal/tokens"
)

// Controller runs conversation turns against a runtime. It holds no
// per-conversation state and can serve any number of sessions.
type Controller struct {
	runtime        ai.Runtime
	counter        tokens.Counter
	catalog        *ai.Catalog
	logger         *slog.Logger
	temperature    float64
	systemPrompt   string
	requestTimeout time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTemperature sets the sampling temperature sent with each request (0 keeps the backend default).
func WithTemperature(t float64) Option { return func(c *Controller) { c.temperature = t } }

// WithSystemPrompt prepends a system message to every outbound request.
// Its tokens are reserved from the model budget before history is truncated.
func WithSystemPrompt(p string) Option {
	return func(c *Controller) { c.systemPrompt = strings.TrimSpace(p) }
}

// WithRequestTimeout bounds each backend call. Zero leaves the caller's context as is.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.requestTimeout = d }
}

func NewController(runtime ai.Runtime, counter tokens.Counter, catalog *ai.Catalog, opts ...Option) *Controller {
	c := &Controller{
		runtime: runtime,
		counter: counter,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Exchange describes what happened during one HandleSubmit call.
type Exchange struct {
	Budget history.Budget
	Reply  ai.Message
	// Err is the backend (or budget) failure that was recorded as the reply, if any.
	Err      error
	Duration time.Duration
}

// OverBudgetError reports that the newest message alone does not fit the model's context window.
type OverBudgetError struct {
	Model  string
	Tokens int
	Limit  int
}

func (e *OverBudgetError) Error() string {
	return fmt.Sprintf("message exceeds the %s context window (%d > %d tokens)", e.Model, e.Tokens, e.Limit)
}

// SystemPromptError reports that the system prompt leaves no room for history in the model's context window.
type SystemPromptError struct {
	Model  string
	Tokens int
	Limit  int
}

func (e *SystemPromptError) Error() string {
	return fmt.Sprintf("system prompt uses %d of the %s context window (%d tokens); pick a larger model with /model", e.Tokens, e.Model, e.Limit)
}

// HandleSubmit appends the user's text to the session, sends the truncated
// history to the runtime and appends the reply. Backend failures never abort
// the conversation: they are recorded as an "Error: ..." assistant turn.
// Empty input returns the session unchanged.
func (c *Controller) HandleSubmit(ctx context.Context, s Session, text string) (Session, Exchange) {
	if strings.TrimSpace(text) == "" {
		return s, Exchange{}
	}
	s = s.append(ai.UserMessage(text))

	view, budget := c.View(s)
	ex := Exchange{Budget: budget}

	if sys := c.systemTokens(); sys > 0 && sys >= s.Model.MaxTokens {
		perr := &SystemPromptError{Model: s.Model.ID, Tokens: sys, Limit: s.Model.MaxTokens}
		ex.Err = perr
		ex.Reply = ai.AssistantMessage("Error: " + perr.Error())
		c.logger.Warn("system prompt does not fit context window", "session", s.ID, "model", s.Model.ID, "tokens", sys, "limit", s.Model.MaxTokens)
		return s.append(ex.Reply), ex
	}
	if len(view) == 0 {
		over := &OverBudgetError{
			Model:  s.Model.ID,
			Tokens: c.counter.Count(text),
			Limit:  budget.Limit,
		}
		ex.Err = over
		ex.Reply = ai.AssistantMessage("Error: " + over.Error())
		c.logger.Warn("newest message does not fit context window", "session", s.ID, "model", s.Model.ID, "tokens", over.Tokens, "limit", over.Limit)
		return s.append(ex.Reply), ex
	}

	req := ai.GenerateRequest{
		Model:         s.Model.ID,
		Messages:      c.withSystem(view),
		ContextTokens: s.Model.MaxTokens,
		Temperature:   c.temperature,
	}
	c.logger.Debug("sending chat request",
		"session", s.ID,
		"model", s.Model.ID,
		"kept", budget.Kept,
		"dropped", budget.Dropped,
		"tokens", budget.Tokens,
		"limit", budget.Limit,
	)

	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}
	start := time.Now()
	resp, err := c.runtime.Generate(ctx, req)
	ex.Duration = time.Since(start)
	if err != nil {
		ex.Err = err
		ex.Reply = ai.AssistantMessage("Error: " + ai.ErrorText(err))
		c.logger.Warn("chat request failed", "session", s.ID, "model", s.Model.ID, "err", err)
		return s.append(ex.Reply), ex
	}

	// The transcript only carries user and assistant turns.
	ex.Reply = ai.AssistantMessage(resp.Message.Content)
	c.logger.Debug("chat reply received", "session", s.ID, "request_id", resp.RequestID, "duration", ex.Duration)
	return s.append(ex.Reply), ex
}

// View returns the truncated history that the next request would carry for s,
// together with the budget accounting of that pass. The system prompt's tokens
// are taken off the model's window first.
func (c *Controller) View(s Session) ([]ai.Message, history.Budget) {
	limit := max(s.Model.MaxTokens-c.systemTokens(), 0)
	return history.Fit(s.Log, limit, c.counter)
}

// SelectModel switches the session to another catalog profile. The log is kept;
// the next request is budgeted against the new context window.
func (c *Controller) SelectModel(s Session, id string) (Session, error) {
	p, err := c.catalog.Lookup(id)
	if err != nil {
		return s, err
	}
	if p.ID != s.Model.ID {
		c.logger.Debug("model selected", "session", s.ID, "from", s.Model.ID, "to", p.ID, "max_tokens", p.MaxTokens)
	}
	s.Model = p
	return s, nil
}

// Reset ends the conversation and starts a fresh one on the same model.
func (c *Controller) Reset(s Session) Session {
	c.logger.Debug("session reset", "session", s.ID, "turns", len(s.Log))
	return NewSession(s.Model)
}

// Catalog returns the catalog used for model selection.
func (c *Controller) Catalog() *ai.Catalog { return c.catalog }

// Counter returns the token counter used for budgeting.
func (c *Controller) Counter() tokens.Counter { return c.counter }

func (c *Controller) systemTokens() int {
	if c.systemPrompt == "" {
		return 0
	}
	return c.counter.Count(c.systemPrompt)
}

func (c *Controller) withSystem(view []ai.Message) []ai.Message {
	if c.systemPrompt == "" {
		return view
	}
	out := make([]ai.Message, 0, len(view)+1)
	out = append(out, ai.Message{Role: ai.RoleSystem, Content: c.systemPrompt})
	return append(out, view...)
}
