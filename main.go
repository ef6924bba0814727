// 命令行入口：
// - 解析 flags 与 settings.yaml（不存在时使用默认配置）
// - 初始化日志、HTTP 客户端与（非极简模式下的）历史数据库
// - 批量转换命令行给出的导出文件/URL 并写出 zip，或以 -serve 启动网页服务
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-wxr2md/internal/aggregate"
	"go-wxr2md/internal/config"
	"go-wxr2md/internal/export"
	"go-wxr2md/internal/fetch"
	"go-wxr2md/internal/logx"
	"go-wxr2md/internal/server"
	"go-wxr2md/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "settings.yaml", "path to settings.yaml (optional)")
		serve      = flag.Bool("serve", false, "start the web upload interface instead of converting arguments")
		outPath    = flag.String("out", "", "archive output path, \"-\" for stdout (default DOWNLOAD_NAME)")
		mode       = flag.String("mode", "", "output mode: individual|combined (overrides OUTPUT_MODE)")
		heading    = flag.String("heading", "", "heading style: atx|setext (overrides HEADING_STYLE)")
		format     = flag.String("format", "", "output format: markdown|text (overrides FORMAT)")
		summary    = flag.String("summary", "", "write a JSON run summary to this path")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] export.xml|URL ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// 1) 加载配置，命令行参数覆盖配置文件
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *mode != "" {
		cfg.OutputMode = *mode
	}
	if *heading != "" {
		cfg.HeadingStyle = *heading
	}
	if *format != "" {
		cfg.Format = *format
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("validate flags: %v", err)
	}
	// 2) 初始化日志：级别/格式/语言/颜色
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	// 3) 初始化 HTTP 客户端（远程导出文档，含代理与重试）
	cl, err := fetch.New(fetch.Options{
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Retry:      cfg.Fetch.Retry,
		MaxBytes:   int64(cfg.Fetch.MaxMB) << 20,
	})
	if err != nil {
		log.Fatalf("http client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4) 历史存储：极简模式不打开数据库
	st, err := openHistory(ctx, cfg)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if st != nil {
		defer st.Close()
	}
	runner := aggregate.New(st, cl)

	if *serve {
		// 5a) 网页服务：阻塞直到收到中断信号
		if err := server.New(cfg, runner).ListenAndServe(ctx); err != nil {
			logx.Errorf("服务退出：%v", err)
			os.Exit(1)
		}
		return
	}

	// 5b) 批量转换
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	opts := cfg.Options()
	logx.Infof("开始转换：文档=%d 模式=%s 格式=%s", flag.NArg(), opts.Mode, opts.Format)
	out, err := runner.Execute(ctx, runner.Load(ctx, flag.Args()), opts)
	if out != nil && *summary != "" {
		if err := export.ToJSONFile(*summary, out.Summary); err != nil {
			logx.Errorf("写出摘要失败：%v", err)
		}
	}
	if err != nil {
		logx.Errorf("运行失败：%v", err)
		os.Exit(1)
	}

	dest := *outPath
	if dest == "" {
		dest = cfg.DownloadName
	}
	if dest == "-" {
		_, err = os.Stdout.Write(out.Archive)
	} else {
		err = os.WriteFile(dest, out.Archive, 0o644)
	}
	if err != nil {
		log.Fatalf("write archive: %v", err)
	}
	logx.Infof("已导出 %s（转换=%d 跳过=%d 告警=%d）", dest, out.Summary.Processed, out.Summary.Skipped, len(out.Summary.Warnings))
}

// openHistory 在非极简模式下打开历史数据库，并按配置在启动时清空（RESET_ON_START）
// 或清理过期记录（HISTORY_CLEAN_DAYS）。极简模式返回 nil。
func openHistory(ctx context.Context, cfg *config.Config) (*store.SQLite, error) {
	if cfg.Simple() {
		logx.Debugf("极简模式：不记录运行历史")
		return nil, nil
	}
	st, err := store.OpenSQLite(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.ResetOnStart {
		if err := st.Reset(ctx); err != nil {
			logx.Warnf("启动清理运行历史失败：%v", err)
		} else {
			logx.Infof("已清空运行历史（runs）")
		}
	} else if cfg.HistoryCleanDays > 0 {
		if err := st.CleanOldRuns(ctx, cfg.HistoryCleanDays); err != nil {
			logx.Warnf("清理历史记录失败：%v", err)
		}
	}
	return st, nil
}
