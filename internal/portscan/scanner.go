package portscan

import (
	"context"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"p4rti/internal/logger"
)

// Sink 接收扫描结果，按完成顺序逐个调用
type Sink interface {
	Report(PortResult)
}

// SinkFunc 让普通函数满足 Sink
type SinkFunc func(PortResult)

func (f SinkFunc) Report(r PortResult) { f(r) }

// Scanner 扫描引擎
type Scanner struct {
	dialer Dialer
	log    logrus.FieldLogger
}

type Option func(*Scanner)

// WithDialer 替换默认的 net.Dialer (测试、代理等)
func WithDialer(d Dialer) Option {
	return func(s *Scanner) { s.dialer = d }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scanner) { s.log = l }
}

// NewScanner 创建一个新的扫描器实例
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.L()
	}
	return s
}

// Summary 一次扫描的汇总
type Summary struct {
	Target netip.Addr
	// 已交付给 sink 的结果数
	Total     int
	Open      int
	OpenPorts []uint16 // 升序
	// 同时在途探测数的峰值
	PeakInFlight int
	Elapsed      time.Duration
	// ctx 被取消，端口集合没有全部提交
	Interrupted bool
}

// session 只在一次扫描期间存在
type session struct {
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (s *session) enter() {
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (s *session) leave() {
	s.inFlight.Add(-1)
}

// Stream 启动异步流式扫描
// 返回的通道按完成顺序输出结果，所有端口都产生结果后关闭
func (s *Scanner) Stream(ctx context.Context, target netip.Addr, cfg ScanConfig) <-chan PortResult {
	results, _ := s.stream(ctx, target, cfg)
	return results
}

func (s *Scanner) stream(ctx context.Context, target netip.Addr, cfg ScanConfig) (<-chan PortResult, *streamState) {
	results := make(chan PortResult)
	state := &streamState{}

	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	dialer := s.dialer
	if dialer == nil {
		dialer = NewDialer(cfg.Timeout)
	}

	go func() {
		defer close(results)

		var wg sync.WaitGroup
		// 信号量控制最大并发：任意一个探测结束即放行下一个端口 (滑动窗口)
		sem := semaphore.NewWeighted(int64(limit))

		for port := range Ports(cfg.PortSelector) {
			// 检查上下文是否已取消（响应 Ctrl+C）
			if ctx.Err() != nil {
				state.interrupted = true
				break
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				state.interrupted = true
				break
			}

			wg.Add(1)
			go func(p uint16) {
				defer wg.Done()
				defer sem.Release(1)

				state.sess.enter()
				res := Probe(ctx, dialer, target, p, cfg.Timeout)
				state.sess.leave()

				results <- res
			}(port)
		}

		// 等待所有正在进行的扫描任务完成
		wg.Wait()
	}()

	return results, state
}

type streamState struct {
	sess        session
	interrupted bool // 只在 results 关闭后读取
}

// Scan 扫描 target 上的端口集合，把每个结果交给 sink
// sink 的调用是串行的，实现方不需要自己加锁
func (s *Scanner) Scan(ctx context.Context, target netip.Addr, cfg ScanConfig, sink Sink) Summary {
	start := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"target":      target.String(),
		"mode":        cfg.PortSelector.String(),
		"concurrency": cfg.Concurrency,
		"timeout":     cfg.Timeout.String(),
	})
	log.Debug("scan started")

	sum := Summary{Target: target}
	results, state := s.stream(ctx, target, cfg)
	for res := range results {
		sum.Total++
		if res.IsOpen() {
			sum.Open++
			sum.OpenPorts = append(sum.OpenPorts, res.Port)
		}
		if sink != nil {
			sink.Report(res)
		}
	}
	slices.Sort(sum.OpenPorts)

	sum.PeakInFlight = int(state.sess.peak.Load())
	sum.Interrupted = state.interrupted
	sum.Elapsed = time.Since(start)

	log.WithFields(logrus.Fields{
		"total":    sum.Total,
		"open":     sum.Open,
		"peak":     sum.PeakInFlight,
		"elapsed":  sum.Elapsed.String(),
		"canceled": sum.Interrupted,
	}).Debug("scan finished")
	return sum
}
