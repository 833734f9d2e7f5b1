package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"p4rti/internal/config"
	"p4rti/internal/logger"
	"p4rti/internal/portscan"
	"p4rti/internal/report"
)

const version = "0.1"

// execute 运行根命令并返回进程退出码
// 只有参数错误或目标解析失败才返回非零
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	v := config.NewViper()
	cmd := newRootCmd(v)
	if err := bindFlags(v, cmd); err != nil {
		fmt.Fprintln(stderr, color.RedString("[-] %v", err))
		return 1
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, color.RedString("[-] %v", err))
		return 1
	}
	return 0
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "p4rti <target>",
		Short: "A simple TCP connect port scanner",
		Long: `p4rti 对目标主机做 TCP 全连接扫描，只报告开放端口。

示例:
  p4rti 192.168.1.1
  p4rti scanme.example.org --full -c 2000 -t 1
  P4RTI_CONCURRENCY=500 p4rti localhost -v`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			if err := config.ReadConfigFile(v, cfgFile); err != nil {
				return err
			}
			_, err := logger.Init(config.LogConfig(v))
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	// 并发数与超时用字符串接收，解析失败时由 config 退回默认值而不是报错
	flags := cmd.Flags()
	flags.StringP("concurrency", "c", strconv.Itoa(config.DefaultConcurrency), "并发数")
	flags.StringP("timeout", "t", "3", "连接超时(秒)，也可写作 500ms")
	flags.Bool("full", false, "扫描全部 65535 个端口")
	flags.String("mode", "common", "端口集合 (common, full)")
	flags.BoolP("verbose", "v", false, "显示详细信息")
	flags.Bool("progress", false, "在 stderr 显示进度条")

	pFlags := cmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "配置文件路径 (默认: ./p4rti.yaml)")
	pFlags.String("log-level", "", "日志级别 (debug, info, warn, error)")
	pFlags.String("log-file", "", "日志文件路径，按大小轮转")

	return cmd
}

// flagBindings viper 键与命令行参数的对应关系
var flagBindings = []struct {
	key        string
	flag       string
	persistent bool
}{
	{config.KeyConcurrency, "concurrency", false},
	{config.KeyTimeout, "timeout", false},
	{config.KeyFull, "full", false},
	{config.KeyMode, "mode", false},
	{config.KeyVerbose, "verbose", false},
	{config.KeyProgress, "progress", false},
	{config.KeyLogLevel, "log-level", true},
	{config.KeyLogFile, "log-file", true},
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, b := range flagBindings {
		fs := cmd.Flags()
		if b.persistent {
			fs = cmd.PersistentFlags()
		}
		if err := v.BindPFlag(b.key, fs.Lookup(b.flag)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", b.flag, err)
		}
	}
	return nil
}

func run(ctx context.Context, v *viper.Viper, target string, stdout, stderr io.Writer) error {
	log := logger.L()

	cfg, warnings := config.Load(v, target)
	for _, w := range warnings {
		log.Warn(w)
	}

	printBanner(stdout)
	report.PrintHeader(stdout, cfg)

	addr, err := portscan.Resolve(ctx, cfg.Target)
	if err != nil {
		return err
	}
	log.WithField("address", addr.String()).Debug("target resolved")

	color.New(color.FgGreen, color.Bold).Fprintf(stdout, "* Starting scan\n\n")

	var sink portscan.Sink = report.NewConsole(stdout, cfg.Verbose)
	var bar *report.Progress
	if cfg.Progress {
		// 进度条要在控制台输出之前清掉自己
		bar = report.NewProgress(sink, portscan.Count(cfg.PortSelector), stderr)
		sink = bar
	}
	sink = report.NewMulti(sink, report.NewLog(log.WithField("target", addr.String())))

	sum := portscan.NewScanner(portscan.WithLogger(log)).Scan(ctx, addr, cfg, sink)

	if bar != nil {
		if err := bar.Finish(); err != nil {
			log.WithError(err).Debug("progress bar finish")
		}
	}
	if cfg.Verbose {
		report.PrintSummary(stdout, sum)
	}
	return nil
}
