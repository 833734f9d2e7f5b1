package portscan

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failLookup(t *testing.T) LookupFunc {
	return func(ctx context.Context, host string) ([]net.IPAddr, error) {
		t.Fatalf("unexpected lookup for %q", host)
		return nil, nil
	}
}

func TestResolve_Literal(t *testing.T) {
	r := &Resolver{Lookup: failLookup(t)}

	tests := map[string]string{
		"127.0.0.1":        "127.0.0.1",
		" 10.0.0.7 ":       "10.0.0.7",
		"::1":              "::1",
		"[2001:db8::1]":    "2001:db8::1",
		"::ffff:192.0.2.1": "192.0.2.1",
	}
	for in, want := range tests {
		addr, err := r.Resolve(context.Background(), in)
		require.NoError(t, err, in)
		assert.Equal(t, want, addr.String(), in)
	}
}

func TestResolve_FirstAddress(t *testing.T) {
	var gotHost string
	r := &Resolver{Lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) {
		gotHost = host
		// IPv6 在前，不应偏向 IPv4
		return []net.IPAddr{
			{IP: net.ParseIP("2001:db8::10")},
			{IP: net.ParseIP("192.0.2.10")},
		}, nil
	}}

	addr, err := r.Resolve(context.Background(), "scanme.example")
	require.NoError(t, err)
	assert.Equal(t, "scanme.example", gotHost)
	assert.Equal(t, netip.MustParseAddr("2001:db8::10"), addr)
}

func TestResolve_UnmapsIPv4(t *testing.T) {
	r := &Resolver{Lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) {
		return []net.IPAddr{{IP: net.ParseIP("192.0.2.20")}}, nil // 16 字节形式
	}}

	addr, err := r.Resolve(context.Background(), "v4.example")
	require.NoError(t, err)
	assert.True(t, addr.Is4())
	assert.Equal(t, "192.0.2.20", addr.String())
}

func TestResolve_Errors(t *testing.T) {
	lookupErr := &net.DNSError{Err: "no such host", Name: "nx.invalid", IsNotFound: true}

	tests := []struct {
		name   string
		target string
		lookup LookupFunc
		want   error
	}{
		{
			name:   "empty",
			target: "  ",
			lookup: failLookup(t),
			want:   ErrEmptyTarget,
		},
		{
			name:   "lookup error",
			target: "nx.invalid",
			lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) { return nil, lookupErr },
			want:   lookupErr,
		},
		{
			name:   "no addresses",
			target: "empty.example",
			lookup: func(ctx context.Context, host string) ([]net.IPAddr, error) { return nil, nil },
			want:   ErrNoAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{Lookup: tt.lookup}
			_, err := r.Resolve(context.Background(), tt.target)
			require.Error(t, err)

			var resErr *ResolutionError
			require.True(t, errors.As(err, &resErr))
			assert.Equal(t, tt.target, resErr.Target)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolve_Localhost(t *testing.T) {
	addr, err := Resolve(context.Background(), "localhost")
	if err != nil {
		t.Skipf("localhost does not resolve here: %v", err)
	}
	assert.True(t, addr.IsLoopback(), addr.String())
}
