package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"p4rti/internal/portscan"
)

// ModeDescription 扫描模式的展示文本
func ModeDescription(sel portscan.PortSelector) string {
	if sel == portscan.SelectFull {
		return fmt.Sprintf("All %d ports", portscan.Count(sel))
	}
	return fmt.Sprintf("Most common (%d) ports", portscan.Count(sel))
}

// PrintHeader 输出扫描参数，verbose 时额外输出并发数与超时
func PrintHeader(w io.Writer, cfg portscan.ScanConfig) {
	on := pterm.Success.WithWriter(w)
	off := pterm.Warning.WithWriter(w)
	info := pterm.Info.WithWriter(w)

	if cfg.Verbose {
		on.Println("Verbose mode is on")
	} else {
		off.Println("Verbose mode is off")
	}
	info.Printfln("Hostname    %s", pterm.Yellow(cfg.Target))
	info.Printfln("Scan Mode   %s", pterm.Yellow(ModeDescription(cfg.PortSelector)))
	if cfg.Verbose {
		info.Printfln("Concurrency %s", pterm.Yellow(cfg.Concurrency))
		info.Printfln("Timeout     %s", pterm.Yellow(cfg.Timeout))
	}
	pterm.Fprintln(w)
}

// PrintSummary 扫描结束后的汇总
func PrintSummary(w io.Writer, sum portscan.Summary) {
	ports := make([]string, 0, len(sum.OpenPorts))
	for _, p := range sum.OpenPorts {
		ports = append(ports, strconv.Itoa(int(p)))
	}
	openList := strings.Join(ports, ", ")
	if openList == "" {
		openList = "-"
	}

	data := pterm.TableData{
		{"Target", sum.Target.String()},
		{"Scanned", strconv.Itoa(sum.Total)},
		{"Open", strconv.Itoa(sum.Open)},
		{"Open ports", openList},
		{"Elapsed", sum.Elapsed.Round(time.Millisecond).String()},
	}
	if sum.Interrupted {
		data = append(data, []string{"Status", "interrupted"})
	}

	pterm.Fprintln(w)
	if err := pterm.DefaultTable.WithWriter(w).WithData(data).Render(); err != nil {
		pterm.Fprintln(w, err)
	}
}
