package report

import (
	"slices"

	"p4rti/internal/portscan"
)

// collector 把结果按到达顺序保存在内存里
type collector struct {
	results []portscan.PortResult
}

func (c *collector) Report(r portscan.PortResult) {
	c.results = append(c.results, r)
}

// openPorts 升序
func (c *collector) openPorts() []uint16 {
	var open []uint16
	for _, r := range c.results {
		if r.IsOpen() {
			open = append(open, r.Port)
		}
	}
	slices.Sort(open)
	return open
}
