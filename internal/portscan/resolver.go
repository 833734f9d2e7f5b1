package portscan

import (
	"context"
	"net"
	"net/netip"
	"strings"
)

// LookupFunc 与 net.Resolver.LookupIPAddr 签名一致，便于测试注入
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

// Resolver 把目标字符串解析成唯一一个地址
type Resolver struct {
	Lookup LookupFunc
}

// NewResolver 使用系统解析器
func NewResolver() *Resolver {
	return &Resolver{Lookup: net.DefaultResolver.LookupIPAddr}
}

// Resolve 返回解析结果中的第一个地址
// 不做 IPv4/IPv6 优先级选择，顺序完全取决于底层解析器
func (r *Resolver) Resolve(ctx context.Context, target string) (netip.Addr, error) {
	host := strings.TrimSpace(target)
	if host == "" {
		return netip.Addr{}, &ResolutionError{Target: target, Err: ErrEmptyTarget}
	}
	// [::1] 这种带括号的写法也按字面量处理
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Unmap(), nil
	}

	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver.LookupIPAddr
	}
	addrs, err := lookup(ctx, host)
	if err != nil {
		return netip.Addr{}, &ResolutionError{Target: target, Err: err}
	}
	for _, a := range addrs {
		if addr, ok := netip.AddrFromSlice(a.IP); ok {
			return addr.Unmap().WithZone(a.Zone), nil
		}
	}
	return netip.Addr{}, &ResolutionError{Target: target, Err: ErrNoAddress}
}

// Resolve 使用默认解析器
func Resolve(ctx context.Context, target string) (netip.Addr, error) {
	return NewResolver().Resolve(ctx, target)
}
