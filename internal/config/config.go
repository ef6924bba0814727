// 包 config 负责加载与校验应用配置（settings.yaml），
// 对外提供结构体 Config、默认值填充以及到转换选项的映射。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go-wxr2md/internal/model"
)

// Config 仅保留当前需要的字段。布尔项默认为 true 的使用指针区分“未设置”。
type Config struct {
	Listen           string   `yaml:"LISTEN"`
	HeadingStyle     string   `yaml:"HEADING_STYLE"`   // atx|setext
	OutputMode       string   `yaml:"OUTPUT_MODE"`     // individual|combined
	Format           string   `yaml:"FORMAT"`          // markdown|text
	SkipEmpty        *bool    `yaml:"SKIP_EMPTY"`      // 默认 true
	FrontMatter      bool     `yaml:"FRONT_MATTER"`    // 单篇文件附加 YAML 头
	FilenameSpaces   string   `yaml:"FILENAME_SPACES"` // keep|strip|underscore
	Manifest         bool     `yaml:"MANIFEST"`        // 归档内附带 manifest.json
	MaxUploadMB      int      `yaml:"MAX_UPLOAD_MB"`
	DownloadName     string   `yaml:"DOWNLOAD_NAME"`
	SimpleMode       *bool    `yaml:"SIMPLE_MODE"`     // 默认 true：不记录运行历史
	HistoryCleanDays int      `yaml:"HISTORY_CLEAN_DAYS"`
	ResetOnStart     bool     `yaml:"RESET_ON_START"` // 启动时清空运行历史
	Database         Database `yaml:"DATABASE"`
	Fetch            Fetch    `yaml:"FETCH"`
	Proxy            Proxy    `yaml:"PROXY"`
	LogLevel         string   `yaml:"LOG_LEVEL"`
	LogFormat        string   `yaml:"LOG_FORMAT"`      // text|json|pretty
	LogLocale        string   `yaml:"LOG_LOCALE"`      // zh-CN|en
	LogColor         string   `yaml:"LOG_COLOR"`       // auto|always|never
}

type Database struct {
	Type string `yaml:"type"` // sqlite (default)
	DSN  string `yaml:"dsn"`  // ./history.db
}

// Fetch 为远程导出文档抓取参数。
type Fetch struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	Retry          int `yaml:"retry"`
	MaxMB          int `yaml:"max_mb"`
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// Load 从文件读取 YAML 并反序列化为 Config，同时进行校验与默认值填充。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadOrDefault 配置文件不存在时返回默认配置。
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Default 返回全部字段取默认值的配置。
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
func (c *Config) Validate() error {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if _, err := model.ParseHeadingStyle(c.HeadingStyle); err != nil {
		return fmt.Errorf("HEADING_STYLE: %w", err)
	}
	if _, err := model.ParseOutputMode(c.OutputMode); err != nil {
		return fmt.Errorf("OUTPUT_MODE: %w", err)
	}
	if _, err := model.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("FORMAT: %w", err)
	}
	if _, err := model.ParseSpaceMode(c.FilenameSpaces); err != nil {
		return fmt.Errorf("FILENAME_SPACES: %w", err)
	}
	if c.SkipEmpty == nil {
		c.SkipEmpty = boolPtr(true)
	}
	if c.SimpleMode == nil {
		c.SimpleMode = boolPtr(true)
	}
	if c.MaxUploadMB < 0 {
		return errors.New("MAX_UPLOAD_MB must be >= 0")
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = 32
	}
	if strings.TrimSpace(c.DownloadName) == "" {
		c.DownloadName = "markdown_files.zip"
	}
	if c.HistoryCleanDays < 0 {
		return errors.New("HISTORY_CLEAN_DAYS must be >= 0")
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./history.db"
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Fetch.Retry < 0 {
		c.Fetch.Retry = 2
	}
	if c.Fetch.MaxMB <= 0 {
		c.Fetch.MaxMB = c.MaxUploadMB
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

// Options 将配置映射为转换选项（Validate 之后调用）。
func (c *Config) Options() model.Options {
	o := model.DefaultOptions()
	o.HeadingStyle, _ = model.ParseHeadingStyle(c.HeadingStyle)
	o.Mode, _ = model.ParseOutputMode(c.OutputMode)
	o.Format, _ = model.ParseFormat(c.Format)
	o.Spaces, _ = model.ParseSpaceMode(c.FilenameSpaces)
	o.SkipEmpty = c.SkipEmpty == nil || *c.SkipEmpty
	o.FrontMatter = c.FrontMatter
	o.Manifest = c.Manifest
	return o
}

// Simple 报告是否处于极简模式（不打开历史数据库）。
func (c *Config) Simple() bool { return c.SimpleMode == nil || *c.SimpleMode }

// MaxUploadBytes 返回单次上传总大小上限。
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func boolPtr(b bool) *bool { return &b }
