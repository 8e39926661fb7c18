package commandtable_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equocredite/minifs/internal/commandtable"
)

func TestLookupFindsEveryDispatchedVerb(t *testing.T) {
	for _, name := range []string{"help", "pwd", "cd", "ls", "mkdir", "touch", "rm", "mv", "cat", "cp", "exit"} {
		_, ok := commandtable.Lookup(name)
		assert.True(t, ok, "commands.csv is missing %q, which the daemon dispatches on", name)
	}
}

func TestLookupRejectsUnknownVerb(t *testing.T) {
	_, ok := commandtable.Lookup("frobnicate")
	assert.False(t, ok)
}

func TestHelpTextListsLsUsageOnce(t *testing.T) {
	help := commandtable.HelpText()
	cmd, ok := commandtable.Lookup("ls")
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(help, cmd.Usage))
}
