// 包 logx 是对标准库 slog 的薄封装：
// - 支持级别/格式/语言/颜色配置，输出目标可替换（测试/服务端）
// - 提供 pretty 中文输出（[调试]/[信息]/[警告]/[错误]）
// - 通过 Debugf/Infof/Warnf/Errorf 暴露转换流程日志
package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Init 根据 level/format/locale/colorMode 初始化全局日志器，输出到 stderr，
// 使 CLI 可以把归档写到 stdout。
func Init(level, format, locale, colorMode string) {
	Setup(os.Stderr, level, format, locale, colorMode)
}

// Setup 与 Init 相同，但允许指定输出目标。
// 采用 slog 默认 Handler（json/text）或内置 PrettyHandler（中文美化）。
func Setup(w io.Writer, level, format, locale, colorMode string) {
	slog.SetDefault(slog.New(NewHandler(w, level, format, locale, colorMode)))
}

// NewHandler 按格式构造 Handler。
func NewHandler(w io.Writer, level, format, locale, colorMode string) slog.Handler {
	lv := parseSlogLevel(level)
	opts := &slog.HandlerOptions{Level: lv, AddSource: false}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "pretty", "":
		return NewPrettyHandler(w, lv, locale, colorMode)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// levelSilent 高于任何实际使用的等级，用于关闭输出。
const levelSilent = slog.Level(100)

// parseSlogLevel 将字符串级别解析为 slog.Leveler。
func parseSlogLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "silent", "off":
		return levelSilent
	}
	return slog.LevelInfo
}

// With 返回附加了属性的日志器，用于按文档/请求标注日志。
func With(args ...any) *slog.Logger { return slog.Default().With(args...) }

// 便捷函数：格式化并按级别输出
func Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }

// PrettyHandler 为人读的单行输出：时间 等级 消息 k=v...，等级标签支持中英文，可选彩色。
type PrettyHandler struct {
	w      io.Writer
	level  slog.Leveler
	zh     bool
	color  bool
	mu     *sync.Mutex
	prefix string // 分组前缀，形如 "a.b."
	attrs  []slog.Attr
}

// NewPrettyHandler 创建美化 Handler；locale 以 zh 开头（或为空）时使用中文标签。
func NewPrettyHandler(w io.Writer, lv slog.Leveler, locale string, colorMode string) slog.Handler {
	return &PrettyHandler{
		w:     w,
		level: lv,
		zh:    locale == "" || strings.HasPrefix(strings.ToLower(locale), "zh"),
		color: shouldColor(w, colorMode),
		mu:    &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	lvl := levelLabel(h.zh, r.Level)
	if h.color {
		lvl = "\x1b[" + levelStyle(r.Level).color + "m" + lvl + "\x1b[0m"
	}
	fmt.Fprintf(&buf, "%s %s %s", ts.Format("2006-01-02 15:04:05"), lvl, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&buf, " %s=%s", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&buf, " %s%s=%s", h.prefix, a.Key, a.Value)
		return true
	})
	buf.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs 附加属性；当前分组前缀在此时固化到键名中。
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	cp.attrs = append(cp.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		cp.attrs = append(cp.attrs, a)
	}
	return &cp
}

// WithGroup 分组以 "a.b.key" 形式展平。
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix += name + "."
	return &cp
}

type style struct {
	zh, en, color string
}

// levelStyle 返回等级对应的标签与 ANSI 颜色码；非标准等级向下取整。
func levelStyle(l slog.Level) style {
	switch {
	case l >= slog.LevelError:
		return style{"[错误]", "[ERROR]", "31"}
	case l >= slog.LevelWarn:
		return style{"[警告]", "[WARN]", "33"}
	case l >= slog.LevelInfo:
		return style{"[信息]", "[INFO]", "36"}
	default:
		return style{"[调试]", "[DEBUG]", "90"}
	}
}

func levelLabel(zh bool, l slog.Level) string {
	if zh {
		return levelStyle(l).zh
	}
	return levelStyle(l).en
}

// shouldColor 遵循 NO_COLOR 与 LOG_COLOR（auto 时仅在终端上启用）。
func shouldColor(w io.Writer, mode string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		fi, err := f.Stat()
		return err == nil && fi.Mode()&os.ModeCharDevice != 0
	}
	return false
}
