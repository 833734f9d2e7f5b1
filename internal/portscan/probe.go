package portscan

import (
	"context"
	"net"
	"net/netip"
	"time"
)

// Dialer 建立 TCP 连接，*net.Dialer 即满足该接口
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer 探测用的默认 Dialer
func NewDialer(timeout time.Duration) *net.Dialer {
	return &net.Dialer{
		Timeout:   timeout,
		KeepAlive: -1, // 禁用 KeepAlive，扫描不需要保持连接
	}
}

// Probe 对 (addr, port) 做一次 TCP 全连接探测
// 握手在 timeout 内完成即为 Open，连接随即关闭；其余任何错误都是 NotOpen。
// 不重试，不打日志。
func Probe(ctx context.Context, d Dialer, addr netip.Addr, port uint16, timeout time.Duration) PortResult {
	res := PortResult{Port: port, Outcome: NotOpen}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := d.DialContext(dialCtx, "tcp", netip.AddrPortFrom(addr, port).String())
	if err != nil {
		return res
	}
	conn.Close()

	res.Outcome = Open
	return res
}
