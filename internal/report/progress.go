package report

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"p4rti/internal/portscan"
)

// Progress 在转发结果的同时维护一个进度条
// 开放端口输出前先清掉进度条，避免与结果行混在一起
type Progress struct {
	next portscan.Sink
	bar  *progressbar.ProgressBar
}

// NewProgress total 为端口集合大小，进度条写到 w (通常是 stderr)
func NewProgress(next portscan.Sink, total int, w io.Writer) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true), // 启用颜色代码支持
		progressbar.OptionShowBytes(false),       // 不是传输文件，不显示字节大小
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][scanning][reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Progress{next: next, bar: bar}
}

func (p *Progress) Report(r portscan.PortResult) {
	if r.IsOpen() {
		p.bar.Clear()
	}
	if p.next != nil {
		p.next.Report(r)
	}
	p.bar.Add(1)
}

// Finish 扫描结束后调用
func (p *Progress) Finish() error {
	if err := p.bar.Finish(); err != nil {
		return err
	}
	return p.bar.Clear()
}
