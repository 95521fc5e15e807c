package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// Prompter reads one line of user input. It returns io.EOF when input ends
// or the user aborts the prompt.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewPrompter returns a line editor with input history when in and out are
// terminals, and a plain line scanner otherwise. historyFile may be empty.
func NewPrompter(in io.Reader, out io.Writer, historyFile string) Prompter {
	if IsTerminal(in) && IsTerminal(out) {
		return newLinePrompter(historyFile)
	}
	return NewScanPrompter(in, out)
}

type linePrompter struct {
	state       *liner.State
	historyFile string
}

func newLinePrompter(historyFile string) *linePrompter {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	p := &linePrompter{state: st, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = st.ReadHistory(f)
			_ = f.Close()
		}
	}
	return p
}

func (p *linePrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

// Close saves input history and restores the terminal.
func (p *linePrompter) Close() error {
	var saveErr error
	if p.historyFile != "" {
		saveErr = p.saveHistory()
	}
	if err := p.state.Close(); err != nil {
		return err
	}
	return saveErr
}

func (p *linePrompter) saveHistory() error {
	if err := os.MkdirAll(filepath.Dir(p.historyFile), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(p.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()
	if _, err := p.state.WriteHistory(f); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// ScanPrompter reads lines from a plain reader, for piped input and tests.
type ScanPrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func NewScanPrompter(in io.Reader, out io.Writer) *ScanPrompter {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &ScanPrompter{sc: sc, out: out}
}

func (p *ScanPrompter) Prompt(prompt string) (string, error) {
	if p.out != nil && prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

func (p *ScanPrompter) Close() error { return nil }
