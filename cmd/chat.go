package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	"github.com/GFT-POC/Ollama-Chat/internal/chat"
	"github.com/GFT-POC/Ollama-Chat/internal/parser"
	"github.com/GFT-POC/Ollama-Chat/internal/tokens"
	"github.com/GFT-POC/Ollama-Chat/internal/ui"
	"github.com/GFT-POC/Ollama-Chat/internal/utils"
)

var (
	chatModel      string
	chatOllamaHost string
	chatTokenizer  string
	chatNoMarkdown bool
	chatSystem     string
	chatTemp       float64
	chatTimeoutSec int
)

const chatPrompt = "You: "

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with a local Ollama model",
	Example: `  ollama-chat chat
  ollama-chat chat --model mistral-nemo
  ollama-chat chat --model llama3.1:latest --system "Answer in one paragraph."
  ollama-chat chat --tokenizer heuristic --ollama-host http://gpu-box:11434`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		profile, err := startupProfile(catalog, chatModel)
		if err != nil {
			return err
		}
		counter, err := tokens.New(pick(chatTokenizer, cfgString(func() string { return cfg.Tokenizer })))
		if err != nil {
			return fmt.Errorf("init tokenizer: %w", err)
		}

		client := newOllamaClient(chatOllamaHost, chatTimeoutSec)
		probeCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		version, verr := client.Version(probeCtx)
		cancel()
		if verr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: Ollama not reachable at %s: %s\n", client.Host(), ai.ErrorText(verr))
		} else {
			logger.Debug("ollama reachable", "host", client.Host(), "version", version)
		}

		temp := chatTemp
		if !cmd.Flags().Changed("temp") && cfg != nil {
			temp = cfg.Temperature
		}
		system := chatSystem
		if !cmd.Flags().Changed("system") && cfg != nil {
			system = cfg.SystemPrompt
		}
		ctrl := chat.NewController(client, counter, catalog,
			chat.WithLogger(logger),
			chat.WithTemperature(temp),
			chat.WithSystemPrompt(system),
			chat.WithRequestTimeout(requestTimeout(chatTimeoutSec)),
		)

		markdown := !chatNoMarkdown && (cfg == nil || cfg.RenderMarkdown)
		r := ui.NewRenderer(cmd.OutOrStdout(), markdown)
		historyFile := ""
		if cfg != nil {
			historyFile, _ = utils.ExpandHome(cfg.HistoryFile)
		}
		p := ui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), historyFile)
		defer p.Close()

		fmt.Fprintf(r.Out, "✓ Chatting with %s (%s token context). Type /help for commands, /quit to exit.\n",
			profile.ID, humanize.Comma(int64(profile.MaxTokens)))
		return runREPL(cmd.Context(), ctrl, chat.NewSession(profile), p, r)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "model to start with (default from config)")
	chatCmd.Flags().StringVar(&chatOllamaHost, "ollama-host", "", "Ollama host URL (overrides config)")
	chatCmd.Flags().StringVar(&chatTokenizer, "tokenizer", "", "token counter for history budgeting: gpt2 or heuristic (overrides config)")
	chatCmd.Flags().BoolVar(&chatNoMarkdown, "no-markdown", false, "print replies as plain text")
	chatCmd.Flags().StringVar(&chatSystem, "system", "", "system prompt sent with every request (overrides config)")
	chatCmd.Flags().Float64Var(&chatTemp, "temp", 0, "sampling temperature, 0 keeps the model default (overrides config)")
	chatCmd.Flags().IntVar(&chatTimeoutSec, "timeout-sec", 0, "request timeout in seconds (overrides config)")
}

// startupProfile resolves the model to start with: the flag, then config, then the first catalog entry.
func startupProfile(catalog *ai.Catalog, flagModel string) (ai.ModelProfile, error) {
	id := pick(flagModel, cfgString(func() string { return cfg.DefaultModel }))
	if id == "" {
		p, ok := catalog.Default()
		if !ok {
			return ai.ModelProfile{}, errors.New("model catalog is empty")
		}
		return p, nil
	}
	p, err := catalog.Lookup(id)
	if err != nil {
		return ai.ModelProfile{}, fmt.Errorf("%w (run 'ollama-chat models list')", err)
	}
	return p, nil
}

// runREPL reads input until EOF or /quit. Plain lines are sent to the model;
// lines starting with "/" are commands.
func runREPL(ctx context.Context, ctrl *chat.Controller, s chat.Session, p ui.Prompter, r *ui.Renderer) error {
	for {
		line, err := p.Prompt(chatPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.Out, "\nBye.")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			var quit bool
			s, quit = handleCommand(ctx, ctrl, s, strings.TrimSpace(line), r)
			if quit {
				fmt.Fprintln(r.Out, "Bye.")
				return nil
			}
			continue
		}

		s = submit(ctx, ctrl, s, line, r)
	}
}

// submit sends one user message and prints the reply.
func submit(ctx context.Context, ctrl *chat.Controller, s chat.Session, text string, r *ui.Renderer) chat.Session {
	s, ex := ctrl.HandleSubmit(ctx, s, text)
	r.Message(ex.Reply)
	if ex.Budget.Dropped > 0 {
		r.Dim(fmt.Sprintf("(%d earlier messages did not fit in the %s context window)", ex.Budget.Dropped, s.Model.ID))
	}
	return s
}

const replHelp = `Commands:
  /model [id]            show the current model, or switch to another one
  /models                list available models
  /context               show how much of the conversation fits in the context window
  /history               print the full conversation
  /reset                 start a new conversation
  /attach <file> [note]  send a text, markdown or docx file, with an optional note
  /export <file>         save the conversation (.json, .md or plain text)
  /help                  show this help
  /quit                  leave the chat`

// handleCommand applies one slash command and reports whether the REPL should stop.
func handleCommand(ctx context.Context, ctrl *chat.Controller, s chat.Session, line string, r *ui.Renderer) (chat.Session, bool) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	switch name {
	case "/quit", "/exit":
		return s, true
	case "/help":
		fmt.Fprintln(r.Out, replHelp)
	case "/model":
		if len(args) == 0 {
			r.Profile(s.Model)
			return s, false
		}
		next, err := ctrl.SelectModel(s, args[0])
		if err != nil {
			fmt.Fprintf(r.Out, "✗ %v (see /models)\n", err)
			return s, false
		}
		fmt.Fprintf(r.Out, "✓ Switched to %s\n", next.Model.ID)
		r.Profile(next.Model)
		_, b := ctrl.View(next)
		r.Budget(next.Model.ID, b)
		return next, false
	case "/models":
		for _, p := range ctrl.Catalog().Profiles() {
			marker := " "
			if p.ID == s.Model.ID {
				marker = "*"
			}
			fmt.Fprintf(r.Out, "%s %-26s %9s tokens\n", marker, p.ID, humanize.Comma(int64(p.MaxTokens)))
		}
	case "/context":
		_, b := ctrl.View(s)
		r.Budget(s.Model.ID, b)
	case "/history":
		r.Transcript(s.Log)
	case "/reset":
		s = ctrl.Reset(s)
		fmt.Fprintln(r.Out, "✓ Conversation cleared")
	case "/attach":
		if len(args) == 0 {
			fmt.Fprintln(r.Out, "✗ usage: /attach <file> [note]")
			return s, false
		}
		path, err := utils.ExpandHome(args[0])
		if err != nil {
			fmt.Fprintf(r.Out, "✗ %v\n", err)
			return s, false
		}
		text, err := parser.Attachment(path, strings.Join(args[1:], " "))
		if err != nil {
			fmt.Fprintf(r.Out, "✗ %v\n", err)
			return s, false
		}
		fmt.Fprintf(r.Out, "✓ Attached %s (%s tokens)\n", args[0], humanize.Comma(int64(ctrl.Counter().Count(text))))
		return submit(ctx, ctrl, s, text, r), false
	case "/export":
		if len(args) == 0 {
			fmt.Fprintln(r.Out, "✗ usage: /export <file.json|file.md|file.txt>")
			return s, false
		}
		path, err := utils.ExpandHome(args[0])
		if err == nil {
			err = chat.Export(s, path)
		}
		if err != nil {
			fmt.Fprintf(r.Out, "✗ %v\n", err)
			return s, false
		}
		fmt.Fprintf(r.Out, "✓ Saved %d messages to %s\n", len(s.Log), path)
	default:
		fmt.Fprintf(r.Out, "⚠ Unknown command %s (try /help)\n", name)
	}
	return s, false
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// cfgString reads a config field, or "" when no config is loaded.
func cfgString(get func() string) string {
	if cfg == nil {
		return ""
	}
	return get()
}
