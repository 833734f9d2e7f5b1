package portscan

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts_Common(t *testing.T) {
	ports := slices.Collect(Ports(SelectCommon))

	require.Len(t, ports, 1002)
	assert.Equal(t, Count(SelectCommon), len(ports))
	assert.Equal(t, CommonPorts[:], ports, "table order must be preserved")

	seen := make(map[uint16]bool, len(ports))
	for _, p := range ports {
		assert.NotZero(t, p)
		assert.False(t, seen[p], "duplicate port %d", p)
		seen[p] = true
	}
	for _, p := range []uint16{21, 22, 23, 25, 53, 80, 443, 445, 3306, 3389, 5432, 6379, 8080, 27017} {
		assert.True(t, seen[p], "common set should contain %d", p)
	}
}

func TestPorts_Full(t *testing.T) {
	ports := slices.Collect(Ports(SelectFull))

	require.Len(t, ports, 65535)
	assert.Equal(t, Count(SelectFull), len(ports))
	for i, p := range ports {
		if int(p) != i+1 {
			t.Fatalf("ports[%d] = %d, want %d", i, p, i+1)
		}
	}
}

func TestPorts_Idempotent(t *testing.T) {
	for _, sel := range []PortSelector{SelectCommon, SelectFull} {
		first := slices.Collect(Ports(sel))
		second := slices.Collect(Ports(sel))
		assert.Equal(t, first, second, sel.String())
	}
}

func TestPorts_StopEarly(t *testing.T) {
	var got []uint16
	for p := range Ports(SelectFull) {
		got = append(got, p)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []uint16{1, 2, 3}, got)
}

func TestParsePortSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    PortSelector
		wantErr bool
	}{
		{"", SelectCommon, false},
		{"common", SelectCommon, false},
		{"FULL", SelectFull, false},
		{" all ", SelectFull, false},
		{"udp", SelectCommon, true},
	}
	for _, tt := range tests {
		got, err := ParsePortSelector(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
