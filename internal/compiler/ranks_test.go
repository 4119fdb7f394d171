package compiler

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/storage"
	"github.com/specialistvlad/pipeconf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(a, b int) int { return a + b }

type fixture struct {
	t   *testing.T
	reg *config.Registry
	dns map[string]*config.DataNodeConfig
}

func newFixture(t *testing.T, dnIDs ...string) *fixture {
	t.Helper()
	f := &fixture{t: t, reg: config.NewRegistry(), dns: make(map[string]*config.DataNodeConfig)}
	for _, id := range dnIDs {
		dn, err := f.reg.ConfigureDataNode(config.NewDataNodeConfig(id, storage.InMemory))
		require.NoError(t, err)
		f.dns[id] = dn
	}
	return f
}

func (f *fixture) refs(ids ...string) []*config.DataNodeConfig {
	out := make([]*config.DataNodeConfig, len(ids))
	for i, id := range ids {
		out[i] = f.dns[id]
	}
	return out
}

func (f *fixture) task(id string, inputs, outputs []string) *config.TaskConfig {
	f.t.Helper()
	task, err := f.reg.ConfigureTask(config.NewTaskConfig(id, sum, f.refs(inputs...), f.refs(outputs...)))
	require.NoError(f.t, err)
	return task
}

func (f *fixture) scenario(id string, tasks []*config.TaskConfig, additional ...string) *config.ScenarioConfig {
	f.t.Helper()
	s, err := f.reg.ConfigureScenario(config.NewScenarioConfig(id, tasks, f.refs(additional...)))
	require.NoError(f.t, err)
	return s
}

func TestAssignRanks_SingleTask(t *testing.T) {
	f := newFixture(t, "dn1", "dn2", "dn3", "dn4")
	t1 := f.task("t1", []string{"dn1", "dn2"}, []string{"dn3"})
	s1 := f.scenario("s1", []*config.TaskConfig{t1}, "dn4")

	require.NoError(t, AssignRanks(s1))

	want := map[string]int{"dn1": 1, "dn2": 1, "dn3": 2, "dn4": 0}
	if diff := cmp.Diff(want, ScenarioRanks(s1)); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignRanks_AcrossScenarios(t *testing.T) {
	f := newFixture(t, "dn1", "dn2", "dn3", "dn4", "dn5", "dn6")
	task1 := f.task("task1", []string{"dn1"}, []string{"dn2"})
	task2 := f.task("task2", []string{"dn2"}, []string{"dn3"})
	task3 := f.task("task3", []string{"dn1", "dn2"}, []string{"dn3"})
	task4 := f.task("task4", []string{"dn3"}, []string{"dn4", "dn5"})
	task5 := f.task("task5", []string{"dn5"}, []string{"dn6"})

	f.scenario("s1", []*config.TaskConfig{task1}, "dn3")
	f.scenario("s2", []*config.TaskConfig{task2}, "dn4")
	f.scenario("s3", []*config.TaskConfig{task1, task2})
	f.scenario("s4", []*config.TaskConfig{task3, task4, task5})

	ctx, _ := testutil.Context(t)
	ranks, err := CompileAll(ctx, f.reg)
	require.NoError(t, err)

	want := map[string]map[string]int{
		"dn1": {"s1": 1, "s3": 1, "s4": 1},
		"dn2": {"s1": 2, "s2": 1, "s3": 2, "s4": 1},
		"dn3": {"s1": 0, "s2": 2, "s3": 3, "s4": 2},
		"dn4": {"s2": 0, "s4": 3},
		"dn5": {"s4": 3},
		"dn6": {"s4": 4},
	}
	for id, wantRanks := range want {
		if diff := cmp.Diff(wantRanks, f.dns[id].Ranks()); diff != "" {
			t.Errorf("%s ranks mismatch (-want +got):\n%s", id, diff)
		}
	}

	assert.Equal(t, map[string]int{"dn1": 1, "dn3": 2, "dn2": 1, "dn4": 3, "dn5": 3, "dn6": 4}, ranks["s4"])
	assert.Empty(t, ranks[config.DefaultID])
}

func TestAssignRanks_MonotonicAlongPaths(t *testing.T) {
	f := newFixture(t, "a", "b", "c", "d", "e")
	tasks := []*config.TaskConfig{
		f.task("t1", []string{"a"}, []string{"b"}),
		f.task("t2", []string{"b"}, []string{"c"}),
		f.task("t3", []string{"a", "c"}, []string{"d"}),
		f.task("t4", []string{"b"}, []string{"e"}),
	}
	s := f.scenario("s", tasks)
	require.NoError(t, AssignRanks(s))

	for _, task := range s.Tasks() {
		for _, in := range task.Inputs() {
			for _, out := range task.Outputs() {
				rin, ok := in.Rank("s")
				require.True(t, ok)
				rout, ok := out.Rank("s")
				require.True(t, ok)
				assert.Less(t, rin, rout, "%s -> %s", in.ID(), out.ID())
			}
		}
	}
}

func TestAssignRanks_SourceTasksAreDropped(t *testing.T) {
	f := newFixture(t, "raw", "clean")
	ingest := f.task("ingest", nil, []string{"raw"})
	prepare := f.task("prepare", []string{"raw"}, []string{"clean"})
	idle := f.task("idle", nil, nil)
	s := f.scenario("s", []*config.TaskConfig{ingest, prepare, idle})

	require.NoError(t, AssignRanks(s))
	assert.Equal(t, map[string]int{"raw": 1, "clean": 2}, ScenarioRanks(s))
}

func TestAssignRanks_ResetsOnlyOwnScenario(t *testing.T) {
	f := newFixture(t, "dn1", "dn2", "dn3")
	t1 := f.task("t1", []string{"dn1"}, []string{"dn2"})
	s1 := f.scenario("s1", []*config.TaskConfig{t1}, "dn3")
	f.dns["dn3"].SetRank("other", 7)

	require.NoError(t, AssignRanks(s1))
	require.NoError(t, AssignRanks(s1))

	assert.Equal(t, map[string]int{"s1": 0, "other": 7}, f.dns["dn3"].Ranks())
}

func TestCompileAll_DropsStaleEntries(t *testing.T) {
	ctx, _ := testutil.Context(t)
	f := newFixture(t, "dn1", "dn2", "dn3")
	t1 := f.task("t1", []string{"dn1"}, []string{"dn2"})
	f.scenario("s1", []*config.TaskConfig{t1}, "dn3")

	_, err := CompileAll(ctx, f.reg)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"s1": 0}, f.dns["dn3"].Ranks())

	f.scenario("s1", []*config.TaskConfig{t1})
	ranks, err := CompileAll(ctx, f.reg)
	require.NoError(t, err)

	assert.Empty(t, f.dns["dn3"].Ranks(), "dn3 left the scenario")
	assert.Equal(t, map[string]int{"dn1": 1, "dn2": 2}, ranks["s1"])
	assert.Equal(t, map[string]int{"s1": 2}, f.dns["dn2"].Ranks())
}

func TestAssignRanks_Cycle(t *testing.T) {
	f := newFixture(t, "dn0", "dn1", "dn2", "dn3")
	t0 := f.task("t0", []string{"dn0"}, []string{"dn1"})
	t1 := f.task("t1", []string{"dn1", "dn3"}, []string{"dn2"})
	t2 := f.task("t2", []string{"dn2"}, []string{"dn3"})
	s := f.scenario("s", []*config.TaskConfig{t0, t1, t2})

	err := AssignRanks(s)

	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, "s", cyclic.Scenario)
	assert.Equal(t, []string{"TASK.t1", "DATA_NODE.dn3", "DATA_NODE.dn2", "TASK.t2"}, cyclic.Nodes)
	assert.Equal(t, map[string]int{"dn0": 1, "dn1": 2}, ScenarioRanks(s), "nodes ahead of the cycle keep their ranks")

	_, err = CompileAll(context.Background(), f.reg)
	assert.ErrorAs(t, err, &cyclic)
}
