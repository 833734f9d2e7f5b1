package portscan

import (
	"iter"
	"math"
)

// Ports 返回待扫描端口的惰性序列
// 纯函数：同一个 selector 每次产生完全相同的序列
func Ports(sel PortSelector) iter.Seq[uint16] {
	if sel == SelectFull {
		return func(yield func(uint16) bool) {
			for p := 1; p <= math.MaxUint16; p++ {
				if !yield(uint16(p)) {
					return
				}
			}
		}
	}
	return func(yield func(uint16) bool) {
		for _, p := range CommonPorts {
			if !yield(p) {
				return
			}
		}
	}
}

// Count 端口集合的大小
func Count(sel PortSelector) int {
	if sel == SelectFull {
		return math.MaxUint16
	}
	return len(CommonPorts)
}
