package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/gopacket/layers"

	"p4rti/internal/portscan"
)

// Console 只输出开放端口，格式为 "<port>: open"
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool

	portColor    *color.Color
	openColor    *color.Color
	serviceColor *color.Color
}

// NewConsole verbose 为 true 时在行尾附上 IANA 服务名
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{
		w:            w,
		verbose:      verbose,
		portColor:    color.New(color.FgBlue),
		openColor:    color.New(color.FgCyan),
		serviceColor: color.New(color.FgHiBlack),
	}
}

func (c *Console) Report(r portscan.PortResult) {
	if !r.IsOpen() {
		return
	}

	line := c.portColor.Sprintf("%d:", r.Port) + " " + c.openColor.Sprint("open")
	if c.verbose {
		if name := ServiceName(r.Port); name != "" {
			line += " " + c.serviceColor.Sprintf("(%s)", name)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

// ServiceName 返回端口的知名服务名，没有则返回空串
// 名称来自 gopacket 内置的 IANA 端口表，TCPPort.String() 的格式是 "22(ssh)"
func ServiceName(port uint16) string {
	s := layers.TCPPort(port).String()
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return ""
	}
	return s[open+1 : len(s)-1]
}
