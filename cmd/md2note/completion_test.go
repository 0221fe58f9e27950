package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Per-shell scripts
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"_md2note_completions()", "complete -F _md2note_completions md2note", "--credentials", "draft publish"}},
		{ShellZsh, []string{"#compdef md2note", "_arguments", "publish", "--log-format"}},
		{ShellFish, []string{"__fish_md2note_needs_command", "__fish_md2note_using_command publish", "-l status"}},
		{ShellPowerShell, []string{"Register-ArgumentCompleter -Native -CommandName md2note", "CompletionResult", "'--headless'"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, GenerateCompletion(&buf, tt.shell))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("tcsh"))
	assert.ErrorIs(t, err, ErrUnsupportedShell)
	assert.Empty(t, buf.String())
}

// ---------------------------------------------------------------------------
// TestGetCommands - Registry mirrors the flag sets
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	assert.Equal(t, []string{"publish", "login", "doctor", "completion", "version", "help"}, commandNames(cmds))

	publish := cmds[0]
	assert.True(t, publish.TakesFiles)

	byName := map[string]flagDef{}
	for _, f := range publish.Flags {
		byName[f.Long] = f
	}
	require.Contains(t, byName, "status")
	assert.Equal(t, flagEnum, byName["status"].Type)
	assert.Equal(t, []string{"draft", "publish"}, byName["status"].Values)
	assert.Equal(t, "s", byName["status"].Short)
	assert.Equal(t, flagFile, byName["config"].Type)
	assert.Equal(t, flagBool, byName["headless"].Type)
	assert.Contains(t, byName, "login-only")

	for _, f := range cmds[1].Flags {
		assert.NotEqual(t, "title", f.Long, "login takes no article flags")
	}
}

func TestGetCommands_EveryCompletionMetaApplies(t *testing.T) {
	t.Parallel()

	typed := map[string]flagType{}
	for _, c := range getCommands() {
		for _, f := range c.Flags {
			typed[f.Long] = f.Type
		}
	}

	for name, meta := range flagCompletionMeta {
		require.Contains(t, typed, name, "completion metadata for a flag no command defines")
		if len(meta.Values) > 0 {
			assert.Equal(t, flagEnum, typed[name], name)
		} else {
			assert.Equal(t, flagFile, typed[name], name)
		}
	}
}

func TestGlobExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"yaml", "yml"}, globExtensions("*.yaml,*.yml"))
	assert.Nil(t, globExtensions("*"))
}
