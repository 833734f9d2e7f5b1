package portscan

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PortSelector 定义端口集合的来源
type PortSelector int

const (
	SelectCommon PortSelector = iota // 常用端口表 (默认)
	SelectFull                       // 全部 1-65535
)

func (s PortSelector) String() string {
	switch s {
	case SelectFull:
		return "full"
	default:
		return "common"
	}
}

// ParsePortSelector 解析 "common" / "full"
func ParsePortSelector(s string) (PortSelector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "common":
		return SelectCommon, nil
	case "full", "all":
		return SelectFull, nil
	}
	return SelectCommon, fmt.Errorf("unknown port selector %q", s)
}

// Outcome 单个端口的探测结论
// 拒绝、超时、不可达都归为 NotOpen，不区分 closed 与 filtered
type Outcome int

const (
	NotOpen Outcome = iota
	Open
)

func (o Outcome) String() string {
	if o == Open {
		return "open"
	}
	return "not-open"
}

// PortResult 扫描结果
type PortResult struct {
	Port    uint16
	Outcome Outcome
}

func (r PortResult) IsOpen() bool {
	return r.Outcome == Open
}

// ScanConfig 一次扫描的全部参数，构造后不再修改
type ScanConfig struct {
	Target       string
	Concurrency  int
	Timeout      time.Duration
	PortSelector PortSelector
	Verbose      bool // 只影响展示
	Progress     bool // 只影响展示
}

var (
	ErrEmptyTarget = errors.New("target is empty")
	ErrNoAddress   = errors.New("resolver returned no addresses")
)

// ResolutionError 目标无法解析为地址，整个运行因此终止
type ResolutionError struct {
	Target string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Target, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
