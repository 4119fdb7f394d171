package storage

import (
	"testing"

	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnown(t *testing.T) {
	for _, st := range All() {
		assert.True(t, Known(st), st)
	}
	assert.False(t, Known("ftp"))
	assert.Len(t, Names(), 11)
}

func TestRule_RequiredProperties(t *testing.T) {
	testCases := []struct {
		name     string
		storage  Type
		props    map[string]any
		expected []string
	}{
		{
			name:     "sql without engine",
			storage:  SQL,
			props:    map[string]any{},
			expected: []string{"db_engine", "db_name", "read_query", "write_query_builder"},
		},
		{
			name:     "sql on sqlite",
			storage:  SQL,
			props:    map[string]any{"db_engine": "sqlite"},
			expected: []string{"db_engine", "db_name", "read_query", "write_query_builder"},
		},
		{
			name:     "sql on postgresql needs credentials",
			storage:  SQL,
			props:    map[string]any{"db_engine": "postgresql"},
			expected: []string{"db_engine", "db_name", "db_password", "db_username", "read_query", "write_query_builder"},
		},
		{
			name:     "sql_table on sqlite",
			storage:  SQLTable,
			props:    map[string]any{"db_engine": "sqlite"},
			expected: []string{"db_engine", "db_name", "table_name"},
		},
		{
			name:     "sql_table on mssql",
			storage:  SQLTable,
			props:    map[string]any{"db_engine": "mssql"},
			expected: []string{"db_engine", "db_name", "db_password", "db_username", "table_name"},
		},
		{
			name:     "csv has none",
			storage:  CSV,
			props:    nil,
			expected: []string{},
		},
		{
			name:     "s3 object",
			storage:  S3Object,
			props:    nil,
			expected: []string{"aws_access_key", "aws_s3_bucket_name", "aws_s3_object_key", "aws_secret_access_key"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, ok := RuleFor(tc.storage)
			require.True(t, ok)
			assert.Equal(t, tc.expected, rule.RequiredProperties(tc.props))
		})
	}
}

func TestRule_MissingRequired(t *testing.T) {
	rule, _ := RuleFor(SQL)
	missing := rule.MissingRequired(map[string]any{"db_name": "sales", "read_query": "SELECT 1"})
	assert.Equal(t, []string{"db_engine", "write_query_builder"}, missing)
}

func namedWriter() {}

func TestMatchKind(t *testing.T) {
	testCases := []struct {
		name  string
		kind  PropKind
		value any
		ok    bool
	}{
		{"string", KindString, "a", true},
		{"string mismatch", KindString, 1, false},
		{"bool", KindBool, true, true},
		{"int64", KindInt, int64(3), true},
		{"int mismatch", KindInt, 3.5, false},
		{"list of any", KindList, []any{1}, true},
		{"list of strings", KindList, []string{"a"}, true},
		{"list mismatch", KindList, "a,b", false},
		{"nil list", KindList, nil, false},
		{"map", KindMap, map[string]any{}, true},
		{"named function value", KindFunction, namedWriter, true},
		{"named reference", KindFunction, function.Named("etl.write"), true},
		{"anonymous function", KindFunction, func() {}, false},
		{"not a function", KindFunction, 12, false},
		{"any", KindAny, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, MatchKind(tc.kind, tc.value))
		})
	}
}
