// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for codeassist.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ModelConfig: Provider, model name and credential lookup
//   - UIConfig: Terminal UI behavior
//   - ExportConfig: Transcript export location and format
//   - LogConfig: Log file and level
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the CLI)
//   - Environment variables (CODEASSIST_*)
//   - ~/.codeassist/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	key, err := config.Credential(cfg)
//
// The API key itself never lives in Config: it is read from the variable
// named by model.api_key_env, optionally loaded from model.env_file.
package config
