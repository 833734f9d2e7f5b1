package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p4rti/internal/config"
	"p4rti/internal/portscan"
)

func init() {
	color.NoColor = true
}

func TestExecute_EmptyTargetFails(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer

	code := execute(context.Background(), []string{""}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "target is empty")
	assert.NotContains(t, stdout.String(), "Starting scan", "scan must not start without an address")
}

func TestExecute_MissingTarget(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, execute(context.Background(), nil, &stdout, &stderr))
}

func TestExecute_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), version)
}

func TestExecute_LoopbackScan(t *testing.T) {
	if testing.Short() {
		t.Skip("real loopback scan")
	}
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer

	// 非法并发数退回默认值，不影响扫描
	code := execute(context.Background(),
		[]string{"127.0.0.1", "-c", "many", "-t", "300ms", "-v"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "Most common (1002) ports")
	assert.Contains(t, out, "Starting scan")
	assert.Contains(t, out, "Scanned")
}

func TestBindFlags(t *testing.T) {
	v := config.NewViper()
	cmd := newRootCmd(v)
	require.NoError(t, bindFlags(v, cmd))

	require.NoError(t, cmd.ParseFlags([]string{"--mode", "full", "-c", "64", "--log-level", "debug"}))
	assert.Equal(t, "full", v.GetString(config.KeyMode))
	assert.Equal(t, "64", v.GetString(config.KeyConcurrency))
	assert.Equal(t, "debug", v.GetString(config.KeyLogLevel))

	cfg, warnings := config.Load(v, "host")
	assert.Empty(t, warnings)
	assert.Equal(t, portscan.SelectFull, cfg.PortSelector)
}

func TestBindFlags_MissingFlag(t *testing.T) {
	// 没有定义任何参数的命令
	err := bindFlags(config.NewViper(), &cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--concurrency")
}
