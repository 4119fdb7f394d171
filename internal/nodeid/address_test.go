// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        Address
		expectedStr string
	}{
		{
			name:        "data node",
			addr:        New("DATA_NODE", "dn1"),
			expectedStr: "DATA_NODE.dn1",
		},
		{
			name:        "scenario",
			addr:        New("SCENARIO", "monthly_sales"),
			expectedStr: "SCENARIO.monthly_sales",
		},
		{
			name:        "zero address",
			addr:        Address{},
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"DATA_NODE.dn1",
		"TASK.default",
		"SCENARIO._private",
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)

			roundTripID := addr.String()
			assert.Equal(t, id, roundTripID)

			roundTripAddr, err := Parse(roundTripID)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func TestAddress_EqualAndLess(t *testing.T) {
	a := New("DATA_NODE", "a")
	b := New("DATA_NODE", "b")
	task := New("TASK", "a")

	assert.True(t, a.Equal(New("DATA_NODE", "a")))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(task))

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, b.Less(task), "kind orders before id")
}
