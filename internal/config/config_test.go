// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/codeassist/internal/session"
)

// clearEnv unsets every variable ApplyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CODEASSIST_MODEL", "CODEASSIST_PROVIDER", "CODEASSIST_BASE_URL", "CODEASSIST_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, fillDefaults(cfg))

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderGemini, cfg.Model.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model.Name)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Model.APIKeyEnv)
	assert.True(t, strings.HasPrefix(cfg.Model.SystemPrompt, "You will be given either some code"))
	assert.NotEmpty(t, cfg.Export.Dir)
	assert.NotEmpty(t, cfg.Log.File)
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoadFromPath_MissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Model, cfg.Model)
}

func TestLoadFromPath_PartialFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[model]
provider = "openai"
name = "gpt-4o-mini"
base_url = "http://localhost:8080/v1"
api_key_env = "OPENAI_API_KEY"

[ui]
markdown = false

[export]
format = "yaml"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Model.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Model.APIKeyEnv)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, "yaml", cfg.Export.Format)
	// Untouched fields keep their defaults
	assert.Equal(t, DefaultSystemPrompt, cfg.Model.SystemPrompt)
	assert.Equal(t, 80, cfg.UI.WordWrap)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromPath_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[model\nname = ")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_ProviderCaseFolded(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[model]
provider = "OpenAI"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[model]
provider = "ollama"

[ui]
theme = "neon"
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"model.provider", "ui.theme"}, fields)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CODEASSIST_MODEL", "gemini-2.0-flash")
	t.Setenv("CODEASSIST_PROVIDER", "OpenAI")
	t.Setenv("CODEASSIST_BASE_URL", "https://example.com/v1")
	t.Setenv("CODEASSIST_LOG_LEVEL", "debug")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
	assert.Equal(t, "https://example.com/v1", cfg.Model.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"empty model", func(c *Config) { c.Model.Name = " " }, "model.name"},
		{"bad url", func(c *Config) { c.Model.BaseURL = "ftp://x" }, "model.base_url"},
		{"no key env", func(c *Config) { c.Model.APIKeyEnv = "" }, "model.api_key_env"},
		{"narrow wrap", func(c *Config) { c.UI.WordWrap = 5 }, "ui.word_wrap"},
		{"bad format", func(c *Config) { c.Export.Format = "html" }, "export.format"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateErrors_Empty(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
}

// =============================================================================
// SAVE
// =============================================================================

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Model.Name = "gemini-2.0-flash"
	cfg.Export.Format = "json"
	require.NoError(t, SaveTOML(cfg, path))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", loaded.Model.Name)
	assert.Equal(t, "json", loaded.Export.Format)
	assert.Equal(t, DefaultSystemPrompt, loaded.Model.SystemPrompt)
}

// =============================================================================
// CREDENTIAL
// =============================================================================

func TestCredential_FromEnvironment(t *testing.T) {
	cfg := Default()
	cfg.Model.EnvFile = ""
	t.Setenv("GEMINI_API_KEY", "  env-key  ")

	key, err := Credential(cfg)
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
}

func TestCredential_FromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "CODEASSIST_TEST_KEY=file-key\n")

	// Registers cleanup that unsets the variable godotenv sets
	t.Setenv("CODEASSIST_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("CODEASSIST_TEST_KEY"))

	cfg := Default()
	cfg.Model.APIKeyEnv = "CODEASSIST_TEST_KEY"
	cfg.Model.EnvFile = envFile

	key, err := Credential(cfg)
	require.NoError(t, err)
	assert.Equal(t, "file-key", key)
}

func TestCredential_Missing(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := Default()
	cfg.Model.EnvFile = filepath.Join(t.TempDir(), "absent.env")

	_, err := Credential(cfg)
	require.ErrorIs(t, err, session.ErrCredentialMissing)
	assert.Equal(t, session.KindCredentialMissing, session.KindOf(err))
	assert.Equal(t, "Error: API key not found: set GEMINI_API_KEY", session.Display("", err))
}

// =============================================================================
// HELPERS
// =============================================================================

func TestGet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("model.name")
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", v)

	v, err = cfg.Get("UI.Word_Wrap")
	require.NoError(t, err)
	assert.Equal(t, 80, v)

	_, err = cfg.Get("routing.mode")
	assert.Error(t, err)

	keys := GetAllKeys()
	assert.Contains(t, keys, "export.format")
	assert.IsIncreasing(t, keys)
}

func TestClone_Independent(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Model.Name = "other"

	assert.Equal(t, "gemini-1.5-flash", cfg.Model.Name)
}

func TestString_ShortensPrompt(t *testing.T) {
	s := Default().String()

	assert.Contains(t, s, `"provider": "gemini"`)
	assert.NotContains(t, s, "The following is the user input")
	assert.Equal(t, DefaultSystemPrompt, Default().Model.SystemPrompt)
}
