package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Set parses value and assigns it to the field named by key.
func (c *Global) Set(key, value string) error {
	switch key {
	case "default_model":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("default_model cannot be empty")
		}
		c.DefaultModel = strings.TrimSpace(value)
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for temperature: %v", value)
		}
		c.Temperature = f
	case "system_prompt":
		c.SystemPrompt = value
	case "tokenizer":
		switch strings.ToLower(value) {
		case "gpt2", "bpe", "r50k_base":
			c.Tokenizer = "gpt2"
		case "heuristic", "chars":
			c.Tokenizer = "heuristic"
		default:
			return fmt.Errorf("invalid tokenizer: %s (use gpt2 or heuristic)", value)
		}
	case "models_catalog":
		c.ModelsCatalog = value
	case "models_merge":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for models_merge: %v", value)
		}
		c.ModelsMerge = b
	case "render_markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for render_markdown: %v", value)
		}
		c.RenderMarkdown = b
	case "history_file":
		c.HistoryFile = value
	case "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms", "ollama_timeout_sec":
		i, err := strconv.Atoi(value)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, value)
		}
		switch key {
		case "retry_max_attempts":
			c.RetryMaxAttempts = i
		case "retry_base_delay_ms":
			c.RetryBaseDelayMs = i
		case "retry_max_delay_ms":
			c.RetryMaxDelayMs = i
		default:
			c.OllamaTimeoutSec = i
		}
	case "ollama_host":
		c.OllamaHost = strings.TrimRight(value, "/")
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "default_model":
		return c.DefaultModel, nil
	case "temperature":
		return strconv.FormatFloat(c.Temperature, 'f', 3, 64), nil
	case "system_prompt":
		return c.SystemPrompt, nil
	case "tokenizer":
		return c.Tokenizer, nil
	case "models_catalog":
		return c.ModelsCatalog, nil
	case "models_merge":
		return strconv.FormatBool(c.ModelsMerge), nil
	case "render_markdown":
		return strconv.FormatBool(c.RenderMarkdown), nil
	case "history_file":
		return c.HistoryFile, nil
	case "retry_max_attempts":
		return strconv.Itoa(c.RetryMaxAttempts), nil
	case "retry_base_delay_ms":
		return strconv.Itoa(c.RetryBaseDelayMs), nil
	case "retry_max_delay_ms":
		return strconv.Itoa(c.RetryMaxDelayMs), nil
	case "ollama_host":
		return c.OllamaHost, nil
	case "ollama_timeout_sec":
		return strconv.Itoa(c.OllamaTimeoutSec), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}
