// Package config defines the static configuration table for each
// integration: where credentials live on disk, which OAuth scopes the
// integration needs, and which account aliases are configured.
//
// The table is built once at process start and never mutated afterwards, so
// components receive it by value and tests can inject temporary paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env carries process-level overrides, decoded from the environment once at
// startup.
type Env struct {
	// ConfigDir overrides the per-integration ~/.config/<name>-mcp dir.
	ConfigDir string `env:"SATCHEL_CONFIG_DIR"`
	// OAuthTimeout bounds the wait for the interactive browser callback.
	OAuthTimeout time.Duration `env:"SATCHEL_OAUTH_TIMEOUT" envDefault:"5m"`
	Debug        bool          `env:"SATCHEL_DEBUG"`
}

// LoadEnv decodes the SATCHEL_* environment overrides.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// Integration is the immutable per-integration configuration table.
type Integration struct {
	// Name is the short integration name ("gmail", "gcal", "gdrive", "notes").
	Name string
	// DisplayName is used in user-facing messages.
	DisplayName string
	// ConfigDir holds the credential files and client registration material.
	ConfigDir string
	// Scopes is the fixed required OAuth scope set. Empty for integrations
	// that do not use delegated access (Apple Notes).
	Scopes []string
	// Accounts maps account aliases to token file names. Aliases outside the
	// map fall back to "token_<alias>.json".
	Accounts map[string]string
	// OAuthTimeout bounds the interactive authorization wait.
	OAuthTimeout time.Duration
}

// DefaultAccount is the alias used when an operation does not name one.
const DefaultAccount = "primary"

// ClientRegistrationFile is the per-integration OAuth client material
// (downloaded from the provider console) that starts the interactive flow.
const ClientRegistrationFile = "credentials.json"

// Gmail returns the gmail integration table. Two accounts are configured,
// matching the token files the server has historically written.
func Gmail(e Env) Integration {
	return Integration{
		Name:        "gmail",
		DisplayName: "Gmail",
		ConfigDir:   configDir(e, "gmail-mcp"),
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/gmail.send",
			"https://www.googleapis.com/auth/gmail.modify",
		},
		Accounts: map[string]string{
			"primary":   "token.json",
			"secondary": "token_secondary.json",
		},
		OAuthTimeout: e.OAuthTimeout,
	}
}

// Calendar returns the Google Calendar integration table.
func Calendar(e Env) Integration {
	return Integration{
		Name:        "gcal",
		DisplayName: "Google Calendar",
		ConfigDir:   configDir(e, "gcal-mcp"),
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar",
			"https://www.googleapis.com/auth/calendar.events",
		},
		Accounts:     map[string]string{"primary": "token.json"},
		OAuthTimeout: e.OAuthTimeout,
	}
}

// Drive returns the Google Drive integration table. The spreadsheets scope
// covers the read-only Sheets operations.
func Drive(e Env) Integration {
	return Integration{
		Name:        "gdrive",
		DisplayName: "Google Drive",
		ConfigDir:   configDir(e, "gdrive-mcp"),
		Scopes: []string{
			"https://www.googleapis.com/auth/drive",
			"https://www.googleapis.com/auth/spreadsheets.readonly",
		},
		Accounts:     map[string]string{"primary": "token.json"},
		OAuthTimeout: e.OAuthTimeout,
	}
}

// Notes returns the Apple Notes integration table. No OAuth material: the
// adapter talks to the local automation bridge.
func Notes(e Env) Integration {
	return Integration{
		Name:        "notes",
		DisplayName: "Apple Notes",
		ConfigDir:   configDir(e, "apple-notes-mcp"),
	}
}

// TokenFile resolves the on-disk token path for one account alias. The
// mapping is static: configured aliases use their fixed file name, anything
// else falls back to token_<alias>.json.
func (i Integration) TokenFile(account string) string {
	account = strings.TrimSpace(account)
	if account == "" {
		account = DefaultAccount
	}
	if name, ok := i.Accounts[account]; ok {
		return filepath.Join(i.ConfigDir, name)
	}
	return filepath.Join(i.ConfigDir, "token_"+account+".json")
}

// ClientRegistrationPath is where the OAuth client material must live.
func (i Integration) ClientRegistrationPath() string {
	return filepath.Join(i.ConfigDir, ClientRegistrationFile)
}

// AccountAliases returns the configured aliases in stable order, default
// account first.
func (i Integration) AccountAliases() []string {
	aliases := make([]string, 0, len(i.Accounts))
	if _, ok := i.Accounts[DefaultAccount]; ok {
		aliases = append(aliases, DefaultAccount)
	}
	rest := make([]string, 0, len(i.Accounts))
	for alias := range i.Accounts {
		if alias != DefaultAccount {
			rest = append(rest, alias)
		}
	}
	sort.Strings(rest)
	return append(aliases, rest...)
}

func configDir(e Env, name string) string {
	if e.ConfigDir != "" {
		return filepath.Join(e.ConfigDir, name)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".config", name)
	}
	return filepath.Join(home, ".config", name)
}
