package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFileMapping(t *testing.T) {
	integ := Gmail(Env{ConfigDir: "/tmp/satchel"})

	assert.Equal(t, filepath.Join(integ.ConfigDir, "token.json"), integ.TokenFile("primary"))
	assert.Equal(t, filepath.Join(integ.ConfigDir, "token_secondary.json"), integ.TokenFile("secondary"))

	// Aliases outside the configured map get a derived file name.
	assert.Equal(t, filepath.Join(integ.ConfigDir, "token_work.json"), integ.TokenFile("work"))
}

func TestAccountAliasesOrdering(t *testing.T) {
	integ := Gmail(Env{})
	aliases := integ.AccountAliases()

	require.NotEmpty(t, aliases)
	assert.Equal(t, DefaultAccount, aliases[0])
	assert.Equal(t, []string{"primary", "secondary"}, aliases)
}

func TestSingleAccountIntegrations(t *testing.T) {
	for _, integ := range []Integration{Calendar(Env{}), Drive(Env{})} {
		assert.Equal(t, []string{"primary"}, integ.AccountAliases(), integ.Name)
	}
}

func TestConfigDirOverride(t *testing.T) {
	integ := Calendar(Env{ConfigDir: "/custom"})
	assert.Equal(t, filepath.Join("/custom", "gcal-mcp"), integ.ConfigDir)
	assert.Equal(t, filepath.Join(integ.ConfigDir, ClientRegistrationFile), integ.ClientRegistrationPath())
}

func TestNotesHasNoScopes(t *testing.T) {
	assert.Empty(t, Notes(Env{}).Scopes)
}
