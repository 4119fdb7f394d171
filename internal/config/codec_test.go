package config

import (
	"testing"
	"time"

	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want any
	}{
		{name: "string passes through", in: "plain", want: "plain"},
		{name: "int", in: 3, want: "3:int"},
		{name: "float", in: 1.5, want: "1.5:float"},
		{name: "bool", in: true, want: "true:bool"},
		{name: "duration", in: 90 * time.Minute, want: "1h30m0s:timedelta"},
		{name: "function", in: function.Named("etl.Sum"), want: "etl.Sum:function"},
		{name: "scope", in: ScopeGlobal, want: "GLOBAL:SCOPE"},
		{name: "frequency", in: FrequencyDaily, want: "DAILY:FREQUENCY"},
		{name: "section", in: DeclareDataNode("dn1"), want: "dn1:SECTION"},
		{name: "list", in: []any{1, "a"}, want: []any{"1:int", "a"}},
		{name: "map", in: map[string]any{"n": 2}, want: map[string]any{"n": "2:int"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EncodeValue(tc.in))
		})
	}
}

func TestDecodeValue(t *testing.T) {
	testCases := []struct {
		name    string
		in      any
		want    any
		wantErr bool
	}{
		{name: "untagged string", in: "plain", want: "plain"},
		{name: "url is not a tag", in: "http://example.com", want: "http://example.com"},
		{name: "template kept", in: "ENV[PORT]:int", want: "ENV[PORT]:int"},
		{name: "section", in: "dn1:SECTION", want: SectionRef("dn1")},
		{name: "int", in: "3:int", want: 3},
		{name: "bad int", in: "three:int", wantErr: true},
		{name: "float", in: "1.5:float", want: 1.5},
		{name: "bool", in: "True:bool", want: true},
		{name: "duration", in: "2h:timedelta", want: 2 * time.Hour},
		{name: "scope", in: "CYCLE:SCOPE", want: ScopeCycle},
		{name: "frequency", in: "YEARLY:FREQUENCY", want: FrequencyYearly},
		{name: "native value", in: int64(7), want: int64(7)},
		{name: "nested list", in: []any{"1:int", []any{"dn1:SECTION"}}, want: []any{1, []any{SectionRef("dn1")}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeValue(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeValue_Function(t *testing.T) {
	got, err := DecodeValue("etl.Sum:function")
	require.NoError(t, err)
	ref, ok := got.(function.Ref)
	require.True(t, ok)
	assert.Equal(t, "etl.Sum", ref.Name())
	assert.Equal(t, "etl.Sum:function", EncodeValue(ref))
}
