// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for codeassist.
//
// Configuration file location:
//   - ~/.codeassist/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/codeassist/internal/session"
	"github.com/jeranaias/codeassist/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// DefaultSystemPrompt is the instruction that seeds every conversation.
const DefaultSystemPrompt = "You will be given either some code or a question on how to code something. " +
	"Respond with the following rules:\n" +
	"Rules when given code with question(s):\n" +
	"1) In your response, provide changes to the code that assist the user in solving their problem.\n" +
	"2) In your response, whenever you generate specifically a new line of code that is not part of " +
	"the original code, surround the line with ```.\n" +
	"Rules when given just a question:\n" +
	"1) In your response, provide assistance and code to help the user with their question.\n" +
	"2) Surround generated code with ```.\n\n" +
	"No matter what, provide an explanation of your response. \n" +
	"The following is the user input:\n"

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config represents the complete codeassist configuration.
type Config struct {
	Model  ModelConfig  `toml:"model" json:"model"`
	UI     UIConfig     `toml:"ui" json:"ui"`
	Export ExportConfig `toml:"export" json:"export"`
	Log    LogConfig    `toml:"log" json:"log"`
}

// ModelConfig selects the remote model and how to reach it.
type ModelConfig struct {
	// Provider is "gemini" or "openai" (any chat-completions endpoint)
	Provider string `toml:"provider" json:"provider"`

	// Name is passed to the provider unchanged
	Name string `toml:"name" json:"name"`

	// BaseURL overrides the provider endpoint
	BaseURL string `toml:"base_url" json:"base_url"`

	// APIKeyEnv names the environment variable holding the credential
	APIKeyEnv string `toml:"api_key_env" json:"api_key_env"`

	// EnvFile is loaded into the environment before the credential is read
	EnvFile string `toml:"env_file" json:"env_file"`

	// SystemPrompt seeds the transcript
	SystemPrompt string `toml:"system_prompt" json:"system_prompt"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	Theme       string `toml:"theme" json:"theme"` // "auto", "dark" or "light"
	WordWrap    int    `toml:"word_wrap" json:"word_wrap"`
	AltScreen   bool   `toml:"alt_screen" json:"alt_screen"`
	Markdown    bool   `toml:"markdown" json:"markdown"`
	Placeholder string `toml:"placeholder" json:"placeholder"`
}

// ExportConfig controls transcript export.
type ExportConfig struct {
	Dir    string `toml:"dir" json:"dir"`
	Format string `toml:"format" json:"format"` // "markdown", "json" or "yaml"
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level"` // "debug", "info", "warn" or "error"
	File  string `toml:"file" json:"file"`
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:     ProviderGemini,
			Name:         "gemini-1.5-flash",
			APIKeyEnv:    "GEMINI_API_KEY",
			EnvFile:      ".env",
			SystemPrompt: DefaultSystemPrompt,
		},
		UI: UIConfig{
			Theme:       "auto",
			WordWrap:    80,
			AltScreen:   true,
			Markdown:    true,
			Placeholder: "Ask about some code...",
		},
		Export: ExportConfig{
			Format: "markdown",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the codeassist configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".codeassist"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		if err := fillDefaults(cfg); err != nil {
			return nil, err
		}
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file. A missing file
// yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	if err := fillDefaults(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults sets values a partial file left empty.
func fillDefaults(cfg *Config) error {
	def := Default()

	cfg.Model.Provider = strings.ToLower(strings.TrimSpace(cfg.Model.Provider))
	if cfg.Model.Provider == "" {
		cfg.Model.Provider = def.Model.Provider
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = def.Model.Name
	}
	if cfg.Model.APIKeyEnv == "" {
		cfg.Model.APIKeyEnv = def.Model.APIKeyEnv
	}
	if cfg.Model.SystemPrompt == "" {
		cfg.Model.SystemPrompt = def.Model.SystemPrompt
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	if cfg.UI.WordWrap <= 0 {
		cfg.UI.WordWrap = def.UI.WordWrap
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = def.Export.Format
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}

	// Paths under the config directory
	dir, err := ConfigDir()
	if err != nil {
		// No home directory: fall back to the working directory
		dir = "."
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = filepath.Join(dir, "exports")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dir, "codeassist.log")
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path as TOML. The file is written
// atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# codeassist configuration\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch strings.ToLower(c.Model.Provider) {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, ValidationError{
			Field:   "model.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: gemini, openai", c.Model.Provider),
		})
	}

	if strings.TrimSpace(c.Model.Name) == "" {
		errs = append(errs, ValidationError{Field: "model.name", Message: "must not be empty"})
	}

	if c.Model.BaseURL != "" {
		u, err := url.Parse(c.Model.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "model.base_url",
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host", c.Model.BaseURL),
			})
		}
	}

	if strings.TrimSpace(c.Model.APIKeyEnv) == "" {
		errs = append(errs, ValidationError{Field: "model.api_key_env", Message: "must not be empty"})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if c.UI.WordWrap < 20 || c.UI.WordWrap > 500 {
		errs = append(errs, ValidationError{
			Field:   "ui.word_wrap",
			Message: fmt.Sprintf("must be between 20 and 500, got %d", c.UI.WordWrap),
		})
	}

	validFormats := map[string]bool{"markdown": true, "md": true, "json": true, "yaml": true, "yml": true}
	if !validFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: markdown, json, yaml", c.Export.Format),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CODEASSIST_MODEL: overrides model.name
//   - CODEASSIST_PROVIDER: overrides model.provider
//   - CODEASSIST_BASE_URL: overrides model.base_url
//   - CODEASSIST_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("CODEASSIST_MODEL"); model != "" {
		c.Model.Name = model
	}
	if provider := os.Getenv("CODEASSIST_PROVIDER"); provider != "" {
		c.Model.Provider = strings.ToLower(provider)
	}
	if baseURL := os.Getenv("CODEASSIST_BASE_URL"); baseURL != "" {
		c.Model.BaseURL = baseURL
	}
	if level := os.Getenv("CODEASSIST_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// =============================================================================
// CREDENTIAL
// =============================================================================

// Credential loads the env file (if present) and returns the API key named
// by model.api_key_env. An unset or blank variable yields
// session.ErrCredentialMissing.
func Credential(c *Config) (string, error) {
	if c.Model.EnvFile != "" {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(c.Model.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to load %s: %w", c.Model.EnvFile, err)
		}
	}

	key := strings.TrimSpace(os.Getenv(c.Model.APIKeyEnv))
	if key == "" {
		return "", fmt.Errorf("%w: set %s", session.ErrCredentialMissing, c.Model.APIKeyEnv)
	}
	return key, nil
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// fields maps dotted keys to accessors for Get.
var fields = map[string]func(c *Config) any{
	"model.provider":      func(c *Config) any { return c.Model.Provider },
	"model.name":          func(c *Config) any { return c.Model.Name },
	"model.base_url":      func(c *Config) any { return c.Model.BaseURL },
	"model.api_key_env":   func(c *Config) any { return c.Model.APIKeyEnv },
	"model.env_file":      func(c *Config) any { return c.Model.EnvFile },
	"model.system_prompt": func(c *Config) any { return c.Model.SystemPrompt },
	"ui.theme":            func(c *Config) any { return c.UI.Theme },
	"ui.word_wrap":        func(c *Config) any { return c.UI.WordWrap },
	"ui.alt_screen":       func(c *Config) any { return c.UI.AltScreen },
	"ui.markdown":         func(c *Config) any { return c.UI.Markdown },
	"ui.placeholder":      func(c *Config) any { return c.UI.Placeholder },
	"export.dir":          func(c *Config) any { return c.Export.Dir },
	"export.format":       func(c *Config) any { return c.Export.Format },
	"log.level":           func(c *Config) any { return c.Log.Level },
	"log.file":            func(c *Config) any { return c.Log.File },
}

// Get retrieves a configuration value using dot notation (e.g., "model.name").
func (c *Config) Get(key string) (any, error) {
	get, ok := fields[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return get(c), nil
}

// GetAllKeys returns every key accepted by Get, sorted.
func GetAllKeys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// Clone creates a copy of the configuration. Config holds only value
// fields, so a struct copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a JSON representation of the config for debugging.
// The system prompt is shortened; the credential is never part of Config.
func (c *Config) String() string {
	safe := c.Clone()
	safe.Model.SystemPrompt = util.TruncateRunes(util.SingleLine(safe.Model.SystemPrompt), 60)

	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
