package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompletion(t *testing.T, shell string) string {
	t.Helper()
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	t.Cleanup(func() { completionCmd.SetOut(nil) })

	require.NoError(t, completionCmd.RunE(completionCmd, []string{shell}))
	return buf.String()
}

func TestCompletionGeneration(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "bash completion"},
		{"zsh", "#compdef ktop"},
		{"fish", "complete -c ktop"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out := runCompletion(t, tt.shell)
			assert.NotEmpty(t, out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCompletionIncludesSubcommands(t *testing.T) {
	out := runCompletion(t, "bash")

	for _, name := range []string{"init", "config", "doctor", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
	assert.Error(t, completionCmd.Args(completionCmd, []string{"tcsh"}))
	assert.Error(t, completionCmd.Args(completionCmd, nil))
}
