package toml

import (
	"bytes"
	"testing"
	"time"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/storage"
	"github.com/specialistvlad/pipeconf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipeline = `
[TAIPY]
root_folder = "./data"

[DATA_NODE.sales]
storage_type = "csv"
default_path = "sales.csv"
has_header = "True:bool"
validity_period = "2h0m0s:timedelta"

[DATA_NODE.cleaned]
scope = "GLOBAL:SCOPE"

[TASK.clean]
inputs = ["sales:SECTION"]
outputs = ["cleaned:SECTION"]
function = "github.com/acme/etl.Clean:function"
skippable = "True:bool"
retries = "3:int"

[SCENARIO.monthly]
tasks = ["clean:SECTION"]
frequency = "MONTHLY:FREQUENCY"

[SCENARIO.monthly.comparators]
cleaned = ["github.com/acme/etl.Compare:function"]

[SCENARIO.monthly.sequences]
cleaning = ["clean:SECTION"]
`

func TestParse_Sections(t *testing.T) {
	ctx, logs := testutil.Context(t)

	sections, err := Parse(ctx, "pipeline.toml", []byte(pipeline))
	require.NoError(t, err)
	require.Len(t, sections, 4)

	var ids []string
	for _, s := range sections {
		ids = append(ids, s.Address().String())
	}
	assert.Equal(t, []string{"DATA_NODE.sales", "DATA_NODE.cleaned", "TASK.clean", "SCENARIO.monthly"}, ids)
	assert.Contains(t, logs.String(), "Ignoring unknown top-level table.")

	sales := sections[0].(*config.DataNodeConfig)
	assert.Equal(t, storage.CSV, sales.StorageType())
	header, _ := sales.Property("has_header")
	assert.Equal(t, true, header)
	p, ok := sales.ValidityPeriod()
	require.True(t, ok)
	assert.Equal(t, 2*time.Hour, p)

	cleaned := sections[1].(*config.DataNodeConfig)
	assert.Equal(t, config.ScopeGlobal, cleaned.Scope())

	clean := sections[2].(*config.TaskConfig)
	assert.Equal(t, "github.com/acme/etl.Clean", clean.Function().Name())
	assert.True(t, clean.Skippable())
	retries, _ := clean.Property("retries")
	assert.Equal(t, 3, retries)

	monthly := sections[3].(*config.ScenarioConfig)
	assert.Equal(t, config.FrequencyMonthly, monthly.Frequency())
	assert.Equal(t, "github.com/acme/etl.Compare", monthly.Comparators()["cleaned"][0].Name())
	assert.Equal(t, []string{"cleaning"}, monthly.SequenceNames())
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"syntax", "[DATA_NODE.x\n", "failed to parse TOML file bad.toml"},
		{"kind is not a table", "DATA_NODE = 3\n", "'DATA_NODE' must be a table"},
		{"section is not a table", "[DATA_NODE]\nx = 3\n", "section DATA_NODE.x must be a table"},
		{"bad typed value", "[TASK.t]\nretries = \"many:int\"\n", "invalid int value 'many'"},
		{"bad field", "[TASK.t]\nskippable = \"yes\"\n", "field 'skippable' must be a boolean"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			_, err := Parse(ctx, "bad.toml", []byte(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	ctx, _ := testutil.Context(t)
	fs := testutil.MemFS(t, map[string]string{
		"/conf/a.toml":        "[DATA_NODE.a]\nstorage_type = \"json\"\n",
		"/conf/nested/b.toml": "[TASK.t]\ninputs = [\"a:SECTION\"]\n",
		"/conf/c.hcl":         "data_node \"c\" {}\n",
	})

	sections, err := NewLoader(fs).Load(ctx, "/conf", "/missing")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "DATA_NODE.a", sections[0].Address().String())
	assert.Equal(t, "TASK.t", sections[1].Address().String())
}

func TestLoader_LoadFailsAsAWhole(t *testing.T) {
	ctx, _ := testutil.Context(t)
	fs := testutil.MemFS(t, map[string]string{
		"/conf/a.toml": "[DATA_NODE.a]\n",
		"/conf/b.toml": "[DATA_NODE.b\n",
	})

	sections, err := NewLoader(fs).Load(ctx, "/conf")
	require.Error(t, err)
	assert.Nil(t, sections)
	assert.Contains(t, err.Error(), "/conf/b.toml")
}

func TestLoader_IntoRegistry(t *testing.T) {
	ctx, _ := testutil.Context(t)
	fs := testutil.MemFS(t, map[string]string{"/p.toml": pipeline})

	r := config.NewRegistry()
	require.NoError(t, r.Load(ctx, NewLoader(fs), "/p.toml"))

	task, err := r.Task("clean")
	require.NoError(t, err)
	require.Len(t, task.Inputs(), 1)
	sales, err := r.DataNode("sales")
	require.NoError(t, err)
	assert.Same(t, sales, task.Inputs()[0])
}

func TestEncode_RoundTrip(t *testing.T) {
	ctx, _ := testutil.Context(t)
	original, err := Parse(ctx, "pipeline.toml", []byte(pipeline))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))
	assert.Contains(t, buf.String(), "[TASK.clean]")
	assert.Contains(t, buf.String(), `inputs = ["sales:SECTION"]`)

	again, err := Parse(ctx, "exported.toml", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, again, len(original))

	byAddr := make(map[string]config.Section, len(again))
	for _, s := range again {
		byAddr[s.Address().String()] = s
	}
	for _, s := range original {
		back, ok := byAddr[s.Address().String()]
		require.True(t, ok, s.Address().String())
		assert.Equal(t, config.Fields(s), config.Fields(back), s.Address().String())
	}
}
