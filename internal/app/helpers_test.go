package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/specialistvlad/pipeconf/internal/testutil"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates an app reading files from an in-memory file system.
// Reports go to the returned buffer, logs to the SafeBuffer.
func setupAppTest(t *testing.T, files map[string]string, cfg Config, opts ...Option) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"/conf"}
	}
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	opts = append([]Option{WithFs(testutil.MemFS(t, files)), WithLogOutput(logs)}, opts...)
	testApp := NewApp(out, appConfig, opts...)

	t.Cleanup(func() {
		if os.Getenv("PIPECONF_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return testApp, out, logs
}

const nodesTOML = `
[DATA_NODE.raw]
storage_type = "csv"
default_path = "raw.csv"

[DATA_NODE.clean]
storage_type = "in_memory"

[DATA_NODE.report]
storage_type = "json"
default_path = "report.json"
`

const pipelineHCL = `
task "prepare" {
  inputs   = [data_node.raw]
  outputs  = [data_node.clean]
  function = "github.com/acme/etl.Prepare"
}

task "summarize" {
  inputs   = [data_node.clean]
  outputs  = [data_node.report]
  function = "github.com/acme/etl.Summarize"
}

scenario "daily" {
  tasks       = [task.prepare, task.summarize]
  frequency   = "DAILY"
  comparators = { report = ["github.com/acme/etl.Diff"] }
}
`

func validSources() map[string]string {
	return map[string]string{
		"/conf/nodes.toml":   nodesTOML,
		"/conf/pipeline.hcl": pipelineHCL,
	}
}
