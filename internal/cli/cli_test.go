package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/pipeconf/internal/app"
	"github.com/specialistvlad/pipeconf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sources = `
[DATA_NODE.raw]
storage_type = "csv"
default_path = "raw.csv"

[DATA_NODE.out]
storage_type = "json"
default_path = "out.json"

[TASK.convert]
inputs = ["raw:SECTION"]
outputs = ["out:SECTION"]
function = "github.com/acme/etl.Convert:function"

[SCENARIO.nightly]
tasks = ["convert:SECTION"]
`

const cyclic = `
[DATA_NODE.a]
[DATA_NODE.b]

[TASK.forward]
inputs = ["a:SECTION"]
outputs = ["b:SECTION"]
function = "etl.Forward:function"

[TASK.back]
inputs = ["b:SECTION"]
outputs = ["a:SECTION"]
function = "etl.Back:function"

[SCENARIO.loop]
tasks = ["forward:SECTION", "back:SECTION"]
`

// execute runs the command line against an in-memory file system.
func execute(t *testing.T, files map[string]string, args ...string) (string, string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errW := &testutil.SafeBuffer{}
	err := Execute(context.Background(), args, out, errW, app.WithFs(testutil.MemFS(t, files)))
	return out.String(), errW.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %T", err)
	return exitErr.Code
}

func TestExecute_Check(t *testing.T) {
	out, _, err := execute(t, map[string]string{"/conf/a.toml": sources}, "check", "/conf")
	require.NoError(t, err)
	assert.Contains(t, out, "nightly")
	assert.Contains(t, out, "0 errors")
}

func TestExecute_CheckFails(t *testing.T) {
	_, _, err := execute(t, map[string]string{"/conf/a.toml": cyclic}, "check", "/conf")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.ErrorContains(t, err, "configuration check failed")
}

func TestExecute_Ranks(t *testing.T) {
	out, _, err := execute(t, map[string]string{"/conf/a.toml": sources}, "ranks", "--format", "toml", "/conf")
	require.NoError(t, err)
	assert.Contains(t, out, "[nightly]")
	assert.Contains(t, out, "raw = 1")
	assert.Contains(t, out, "out = 2")
}

func TestExecute_Export(t *testing.T) {
	out, _, err := execute(t, map[string]string{"/conf/a.toml": sources}, "export", "-f", "yaml", "/conf")
	require.NoError(t, err)
	assert.Contains(t, out, "DATA_NODE:")
	assert.Contains(t, out, "raw.csv")
}

func TestExecute_Draw(t *testing.T) {
	out, logs, err := execute(t, map[string]string{"/conf/a.toml": sources},
		"--log-level", "debug", "draw", "--dir", "/graphs", "/conf")
	require.NoError(t, err)
	assert.Contains(t, out, "/graphs/nightly.dot")
	assert.Contains(t, logs, "DOT only")
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"missing paths", []string{"check"}, "at least one configuration path is required"},
		{"unknown flag", []string{"check", "--nope", "/conf"}, "unknown flag"},
		{"bad log level", []string{"--log-level", "loud", "check", "/conf"}, "LogLevel must be one of"},
		{"bad ranks format", []string{"ranks", "-f", "xml", "/conf"}, "unsupported export format 'xml'"},
		{"bad export format", []string{"export", "-f", "ini", "/conf"}, "unsupported export format 'ini'"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, map[string]string{"/conf/a.toml": sources}, tc.args...)
			require.Error(t, err)
			assert.Equal(t, ExitUsage, exitCode(t, err))
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestExecute_LoadFailure(t *testing.T) {
	_, _, err := execute(t, map[string]string{"/conf/a.toml": "DATA_NODE = 3"}, "check", "/conf")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(t, err))
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, nil, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "check")
}
