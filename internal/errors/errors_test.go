package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSource,
		ErrTerminal,
		ErrGit,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in ktop.toml",
			suggestion: "Check the TOML syntax",
		},
		{
			name:       "terminal error",
			code:       ErrTerminal,
			message:    "Cannot enable raw mode",
			suggestion: "Run ktop from an interactive terminal",
		},
		{
			name:       "git error",
			code:       ErrGit,
			message:    "git status failed",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
		notExpected   []string
	}{
		{
			name:          "message and suggestion",
			err:           New(ErrConfig, "Invalid configuration", "Check ktop.toml syntax"),
			expectedParts: []string{"✗ Invalid configuration", "Check ktop.toml syntax"},
		},
		{
			name:          "cause is included",
			err:           WrapWithCode(errors.New("permission denied"), ErrTerminal, "Cannot open tty", ""),
			expectedParts: []string{"Cannot open tty", "permission denied"},
		},
		{
			name:          "no suggestion leaves no trailing block",
			err:           New(ErrExec, "Command failed", ""),
			expectedParts: []string{"Command failed"},
			notExpected:   []string{"\n\n  \n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
			for _, part := range tt.notExpected {
				assert.NotContains(t, output, part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("exit status 128"),
		ErrGit,
		"Cannot read repository status",
		"Run: ktop doctor",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "Cannot read repository status")
}

func TestWrap(t *testing.T) {
	cause := errors.New("probe failed")
	wrapped := Wrap(cause, "resources collection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrSource, wrapped.Code, "Wrap should default to ErrSource")
	assert.Equal(t, cause, wrapped.Cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no cause",
			err:  New(ErrConfig, "Config not found", "ignored"),
			want: "Config not found",
		},
		{
			name: "plain cause",
			err:  WrapWithCode(errors.New("toml: line 3: bad value"), ErrConfig, "Invalid config", ""),
			want: "Invalid config: toml: line 3: bad value",
		},
		{
			name: "multi-line cause keeps first line",
			err:  WrapWithCode(errors.New("first\nsecond"), ErrGit, "git failed", ""),
			want: "git failed: first",
		},
		{
			name: "nested structured cause",
			err:  WrapWithCode(New(ErrGit, "inner", "hint"), ErrSource, "outer", ""),
			want: "outer: inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Short())
		})
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrGit))
	assert.True(t, IsCode(fmt.Errorf("context: %w", err), ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOk   bool
	}{
		{name: "ExitError returns code", err: NewExitError(42), wantCode: 42, wantOk: true},
		{name: "wrapped ExitError", err: fmt.Errorf("doctor: %w", NewExitError(1)), wantCode: 1, wantOk: true},
		{name: "standard error", err: errors.New("x"), wantOk: false},
		{name: "nil error", err: nil, wantOk: false},
		{name: "structured Error", err: New(ErrExec, "test", ""), wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := GetExitCode(tt.err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit code 3", NewExitError(3).Error())
}
