package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type GlobalConfig struct {
	// LLM configures the local generation endpoint.
	LLM *LLMConfig `json:"llm,omitempty"`

	// QuestionsPath optionally replaces the embedded questionnaire with a YAML file.
	QuestionsPath string `json:"questionsPath,omitempty"`

	// ExportDir is where the TUI writes mandalart.html (default: current directory).
	ExportDir string `json:"exportDir,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type LLMConfig struct {
	Endpoint    string   `json:"endpoint,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	NumCtx      int      `json:"numCtx,omitempty"`
	// Policy is "lenient" (default) or "strict".
	Policy   string `json:"policy,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

type TUIConfig struct {
	// Theme is "auto", "light" or "dark".
	Theme string `json:"theme,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.mandalart).
	if v := strings.TrimSpace(os.Getenv("MANDALART_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mandalart"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// CLI and TUI may write concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

var configKeys = []string{
	"exportDir",
	"llm.disabled",
	"llm.endpoint",
	"llm.model",
	"llm.numCtx",
	"llm.policy",
	"llm.temperature",
	"questionsPath",
	"tui.theme",
}

// ConfigKeys lists the dotted keys accepted by Get and Set.
func ConfigKeys() []string {
	out := append([]string(nil), configKeys...)
	sort.Strings(out)
	return out
}

func (cfg *GlobalConfig) llm() *LLMConfig {
	if cfg.LLM == nil {
		cfg.LLM = &LLMConfig{}
	}
	return cfg.LLM
}

func (cfg *GlobalConfig) tui() *TUIConfig {
	if cfg.TUI == nil {
		cfg.TUI = &TUIConfig{}
	}
	return cfg.TUI
}

// Set assigns a dotted key from its string form. An empty value clears the key.
func (cfg *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "questionsPath":
		cfg.QuestionsPath = value
	case "exportDir":
		cfg.ExportDir = value
	case "llm.endpoint":
		cfg.llm().Endpoint = strings.TrimRight(value, "/")
	case "llm.model":
		cfg.llm().Model = value
	case "llm.policy":
		switch value {
		case "", "lenient", "strict":
			cfg.llm().Policy = value
		default:
			return fmt.Errorf("llm.policy: expected lenient|strict, got %q", value)
		}
	case "llm.temperature":
		if value == "" {
			cfg.llm().Temperature = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("llm.temperature: invalid value %q", value)
		}
		cfg.llm().Temperature = &f
	case "llm.numCtx":
		if value == "" {
			cfg.llm().NumCtx = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("llm.numCtx: invalid value %q", value)
		}
		cfg.llm().NumCtx = n
	case "llm.disabled":
		if value == "" {
			cfg.llm().Disabled = false
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("llm.disabled: invalid value %q", value)
		}
		cfg.llm().Disabled = b
	case "tui.theme":
		switch value {
		case "", "auto", "light", "dark":
			cfg.tui().Theme = value
		default:
			return fmt.Errorf("tui.theme: expected auto|light|dark, got %q", value)
		}
	default:
		return fmt.Errorf("unknown config key %q (expected one of: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

// Get returns the string form of a dotted key ("" when unset).
func (cfg *GlobalConfig) Get(key string) (string, error) {
	l := cfg.LLM
	if l == nil {
		l = &LLMConfig{}
	}
	switch key {
	case "questionsPath":
		return cfg.QuestionsPath, nil
	case "exportDir":
		return cfg.ExportDir, nil
	case "llm.endpoint":
		return l.Endpoint, nil
	case "llm.model":
		return l.Model, nil
	case "llm.policy":
		return l.Policy, nil
	case "llm.temperature":
		if l.Temperature == nil {
			return "", nil
		}
		return strconv.FormatFloat(*l.Temperature, 'f', -1, 64), nil
	case "llm.numCtx":
		if l.NumCtx == 0 {
			return "", nil
		}
		return strconv.Itoa(l.NumCtx), nil
	case "llm.disabled":
		return strconv.FormatBool(l.Disabled), nil
	case "tui.theme":
		if cfg.TUI == nil {
			return "", nil
		}
		return cfg.TUI.Theme, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}
