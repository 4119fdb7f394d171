// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr Address
	}{
		{
			name:         "data node",
			rawID:        "DATA_NODE.dn1",
			expectedAddr: New("DATA_NODE", "dn1"),
		},
		{
			name:         "default section",
			rawID:        "SCENARIO.default",
			expectedAddr: New("SCENARIO", "default"),
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - missing separator",
			rawID:     "TASK",
			expectErr: true,
		},
		{
			name:      "error - lower case kind",
			rawID:     "task.t1",
			expectErr: true,
		},
		{
			name:      "error - id starting with a digit",
			rawID:     "TASK.1t",
			expectErr: true,
		},
		{
			name:      "error - id with a dot",
			rawID:     "TASK.a.b",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.expectedAddr.Equal(addr), "Parsed address does not match expected address")
		})
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("dn_1"))
	assert.True(t, ValidID("_x"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("with space"))
	assert.False(t, ValidID("dash-ed"))
}
