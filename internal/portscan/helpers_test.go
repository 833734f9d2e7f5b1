package portscan

import (
	"context"
	"net"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"
)

// fakeDialer 不走网络：open 中的端口返回一个 net.Pipe，其余立即拒绝
type fakeDialer struct {
	open  map[uint16]bool
	delay func(port uint16) time.Duration

	calls    atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (d *fakeDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.calls.Add(1)
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		p := d.peak.Load()
		if n <= p || d.peak.CompareAndSwap(p, n) {
			break
		}
	}

	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	p, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}
	port := uint16(p)

	if d.delay != nil {
		if wait := d.delay(port); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if d.open[port] {
		client, server := net.Pipe()
		server.Close()
		return client, nil
	}
	return nil, &net.OpError{Op: "dial", Net: network, Err: syscall.ECONNREFUSED}
}

// blackholeDialer 模拟丢包：既不接受也不拒绝，直到 ctx 到期
type blackholeDialer struct{}

func (blackholeDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
