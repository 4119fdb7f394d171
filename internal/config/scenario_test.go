package config

import (
	"context"
	"testing"

	"github.com/specialistvlad/pipeconf/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids[T Section](sections []T) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.ID()
	}
	return out
}

func TestScenario_DataNodesDeduplicated(t *testing.T) {
	r := NewRegistry()
	t1, dns := configureChain(t, r)
	dn4, err := r.ConfigureDataNode(NewDataNodeConfig("dn4", storage.CSV))
	require.NoError(t, err)
	t2, err := r.ConfigureTask(NewTaskConfig("t2", double, []*DataNodeConfig{dns[2]}, []*DataNodeConfig{dns[0]}))
	require.NoError(t, err)

	s, err := r.ConfigureScenario(NewScenarioConfig("s1",
		[]*TaskConfig{t1, t2, t1},
		[]*DataNodeConfig{dn4, dn4}))
	require.NoError(t, err)

	assert.Equal(t, []string{"t1", "t2"}, ids(s.Tasks()))
	assert.Equal(t, []string{"dn4"}, ids(s.AdditionalDataNodes()))
	assert.Equal(t, []string{"dn4", "dn1", "dn2", "dn3"}, ids(s.DataNodes()))
}

func TestScenario_Comparators(t *testing.T) {
	r := NewRegistry()
	_, _ = configureChain(t, r)
	s, err := r.ConfigureScenario(DeclareScenario("s1").WithComparator("dn3", compareTotals))
	require.NoError(t, err)

	s.AddComparator("dn3", double)
	s.AddComparator("dn1", compareTotals)
	s.DeleteComparator("unknown")

	got := s.Comparators()
	require.Len(t, got["dn3"], 2)
	assert.Equal(t, "github.com/specialistvlad/pipeconf/internal/config.compareTotals", got["dn3"][0].Name())
	assert.Equal(t, "github.com/specialistvlad/pipeconf/internal/config.double", got["dn3"][1].Name())

	s.DeleteComparator("dn3")
	_, ok := s.Comparators()["dn3"]
	assert.False(t, ok)
	assert.Len(t, s.Comparators()["dn1"], 1)
}

func TestScenario_Sequences(t *testing.T) {
	r := NewRegistry()
	t1, _ := configureChain(t, r)
	s, err := r.ConfigureScenario(NewScenarioConfig("s1", []*TaskConfig{t1}, nil))
	require.NoError(t, err)

	s.AddSequences(map[string][]*TaskConfig{"daily": {t1}, "weekly": {t1}})
	assert.Equal(t, []string{"daily", "weekly"}, s.SequenceNames())

	err = s.RemoveSequences("daily", "monthly")
	require.Error(t, err)
	assert.Equal(t, []string{"daily", "weekly"}, s.SequenceNames(), "nothing is removed on error")

	require.NoError(t, s.RemoveSequences("daily"))
	assert.Equal(t, []string{"weekly"}, s.SequenceNames())
}

func TestScenario_MutationsSurviveReapply(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	t1, _ := configureChain(t, r)

	require.NoError(t, r.LoadSections(ctx, []Section{
		DeclareScenario("s1").WithTasks(RefTask("t1")).WithFrequency(FrequencyDaily),
	}))
	s, err := r.Scenario("s1")
	require.NoError(t, err)

	s.AddComparator("dn3", compareTotals)
	s.AddSequences(map[string][]*TaskConfig{"main": {t1}})

	_, err = r.ConfigureDataNode(NewDataNodeConfig("dn9", storage.CSV))
	require.NoError(t, err)

	assert.Equal(t, FrequencyDaily, s.Frequency())
	assert.Len(t, s.Comparators()["dn3"], 1)
	require.Contains(t, s.Sequences(), "main")
	assert.Equal(t, []string{"t1"}, ids(s.Sequences()["main"]))
}

func TestScenario_MutationsMergeWithFileLayer(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	t1, _ := configureChain(t, r)

	require.NoError(t, r.LoadSections(ctx, []Section{
		DeclareScenario("s1").
			WithTasks(RefTask("t1")).
			WithComparator("dn3", "pkg.Compare").
			WithComparator("dn2", "pkg.Other").
			WithSequence("nightly", RefTask("t1")),
	}))
	s, err := r.Scenario("s1")
	require.NoError(t, err)

	s.AddComparator("dn1", compareTotals)
	s.DeleteComparator("dn2")
	s.AddSequences(map[string][]*TaskConfig{"main": {t1}})

	_, err = r.ConfigureDataNode(NewDataNodeConfig("dn9", storage.CSV))
	require.NoError(t, err)

	got := s.Comparators()
	require.Len(t, got["dn1"], 1, "added through the handle")
	require.Len(t, got["dn3"], 1, "declared by the file")
	assert.Equal(t, "pkg.Compare", got["dn3"][0].Name())
	assert.NotContains(t, got, "dn2")
	assert.Equal(t, []string{"main", "nightly"}, s.SequenceNames())

	require.NoError(t, s.RemoveSequences("nightly"))
	require.NoError(t, r.LoadSections(ctx, []Section{
		DeclareScenario("s1").
			WithTasks(RefTask("t1")).
			WithComparator("dn3", "pkg.Compare").
			WithSequence("nightly", RefTask("t1")),
	}))
	assert.Equal(t, []string{"main"}, s.SequenceNames(), "removal survives a reload")
	assert.Len(t, s.Comparators()["dn1"], 1)
}

func TestScenario_FrequencyTemplate(t *testing.T) {
	t.Setenv("PIPECONF_TEST_FREQ", "WEEKLY")
	s := DeclareScenario("s1").WithFrequency(Frequency("ENV[PIPECONF_TEST_FREQ]"))
	assert.Equal(t, FrequencyWeekly, s.Frequency())
	assert.True(t, s.Frequency().Valid())
}
