package hcl

import (
	"testing"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/storage"
	"github.com/specialistvlad/pipeconf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipeline = `
data_node "sales" {
  storage_type = "csv"
  default_path = "sales.csv"
  has_header   = true
  chunk_size   = 500
  ratio        = 0.5
}

data_node "cleaned" {
  scope           = "GLOBAL"
  validity_period = "24h"
}

task "clean" {
  inputs    = [data_node.sales]
  outputs   = [data_node.cleaned]
  function  = "github.com/acme/etl.Clean"
  skippable = true
  retries   = "3:int"
}

scenario "monthly" {
  tasks                 = [task.clean]
  additional_data_nodes = [data_node["report"]]
  frequency             = "MONTHLY"
  comparators           = { cleaned = ["github.com/acme/etl.Compare"] }
  sequences             = { cleaning = [task.clean] }
}
`

func TestParse_Sections(t *testing.T) {
	ctx, _ := testutil.Context(t)

	sections, err := Parse(ctx, "pipeline.hcl", []byte(pipeline))
	require.NoError(t, err)
	require.Len(t, sections, 4)

	sales := sections[0].(*config.DataNodeConfig)
	assert.Equal(t, "sales", sales.ID())
	assert.Equal(t, storage.CSV, sales.StorageType())
	assert.Equal(t, map[string]any{
		"default_path": "sales.csv",
		"has_header":   true,
		"chunk_size":   500,
		"ratio":        0.5,
	}, sales.Properties())

	cleaned := sections[1].(*config.DataNodeConfig)
	assert.Equal(t, config.ScopeGlobal, cleaned.Scope())
	_, ok := cleaned.ValidityPeriod()
	assert.True(t, ok)

	clean := sections[2].(*config.TaskConfig)
	require.Len(t, clean.Inputs(), 1)
	assert.Equal(t, "sales", clean.Inputs()[0].ID())
	assert.Equal(t, "cleaned", clean.Outputs()[0].ID())
	assert.Equal(t, "github.com/acme/etl.Clean", clean.Function().Name())
	assert.True(t, clean.Skippable())
	retries, _ := clean.Property("retries")
	assert.Equal(t, 3, retries)

	monthly := sections[3].(*config.ScenarioConfig)
	assert.Equal(t, "clean", monthly.Tasks()[0].ID())
	assert.Equal(t, "report", monthly.AdditionalDataNodes()[0].ID())
	assert.Equal(t, config.FrequencyMonthly, monthly.Frequency())
	assert.Equal(t, "github.com/acme/etl.Compare", monthly.Comparators()["cleaned"][0].Name())
	assert.Equal(t, []string{"cleaning"}, monthly.SequenceNames())
}

func TestParse_EnvFunction(t *testing.T) {
	ctx, _ := testutil.Context(t)
	t.Setenv("PIPECONF_TEST_PORT", "5432")

	sections, err := Parse(ctx, "env.hcl", []byte(`
data_node "db" {
  host = env("PIPECONF_TEST_HOST")
  port = env("PIPECONF_TEST_PORT", "int")
}
`))
	require.NoError(t, err)

	dn := sections[0].(*config.DataNodeConfig)
	assert.Equal(t, "ENV[PIPECONF_TEST_HOST]", dn.RawProperties()["host"])
	port, _ := dn.Property("port")
	assert.Equal(t, 5432, port)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"syntax", `data_node "x" {`, "failed to parse HCL file bad.hcl"},
		{"missing label", `task {}`, "failed to decode HCL file bad.hcl"},
		{"nested block", "data_node \"x\" {\n  inner {}\n}\n", "failed to decode DATA_NODE x in bad.hcl"},
		{"unknown variable", "task \"t\" {\n  inputs = [dn.x]\n}\n", "section TASK.t"},
		{"bad cast", "data_node \"x\" {\n  port = env(\"P\", \"long\")\n}\n", "unknown cast 'long'"},
		{"bad field", "task \"t\" {\n  skippable = \"yes\"\n}\n", "field 'skippable' must be a boolean"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			_, err := Parse(ctx, "bad.hcl", []byte(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoader_CrossFileReferences(t *testing.T) {
	ctx, _ := testutil.Context(t)
	fs := testutil.MemFS(t, map[string]string{
		"/conf/nodes.hcl":   "data_node \"a\" {}\n",
		"/conf/tasks.hcl":   "task \"t\" {\n  inputs = [data_node.a]\n  outputs = [data_node.ghost]\n}\n",
		"/conf/ignore.toml": "[DATA_NODE.z]\n",
	})

	loader := NewLoader(fs)
	sections, err := loader.Load(ctx, "/conf")
	require.NoError(t, err)
	require.Len(t, sections, 2)

	r := config.NewRegistry()
	require.NoError(t, r.Load(ctx, loader, "/conf"))

	task, err := r.Task("t")
	require.NoError(t, err)
	require.Len(t, task.Inputs(), 1)
	assert.Empty(t, task.Outputs())
	require.Len(t, task.Unresolved(), 1)
	assert.Equal(t, "DATA_NODE.ghost", task.Unresolved()[0].String())
}
