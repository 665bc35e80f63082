package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "migrate", "user"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestUserCommand_HasFlagToggles(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"user", "--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"activate", "deactivate", "promote", "demote"} {
		assert.Contains(t, output, sub)
	}
}

func TestUserCommand_RequiresUsername(t *testing.T) {
	for _, sub := range []string{"activate", "deactivate", "promote", "demote"} {
		t.Run(sub, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs([]string{"user", sub})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "accepts 1 arg(s)")
		})
	}
}

func TestServeCommand_FailsWithoutConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SECRET_KEY", "")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
