package model

import (
	"fmt"
	"strings"
)

type HeadingStyle string

const (
	HeadingATX    HeadingStyle = "atx"
	HeadingSetext HeadingStyle = "setext"
)

type OutputMode string

const (
	ModeIndividual OutputMode = "individual"
	ModeCombined   OutputMode = "combined"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// SpaceMode 控制文件名中空格的处理：keep 保留、strip 删除、underscore 替换为下划线。
type SpaceMode string

const (
	SpacesKeep       SpaceMode = "keep"
	SpacesStrip      SpaceMode = "strip"
	SpacesUnderscore SpaceMode = "underscore"
)

// Options 为一次运行的转换选项。
type Options struct {
	HeadingStyle HeadingStyle
	SkipEmpty    bool
	Mode         OutputMode
	Format       Format
	FrontMatter  bool
	Spaces       SpaceMode
	Manifest     bool
}

// DefaultOptions 返回默认选项：ATX 标题、跳过空内容、逐篇输出 Markdown。
func DefaultOptions() Options {
	return Options{
		HeadingStyle: HeadingATX,
		SkipEmpty:    true,
		Mode:         ModeIndividual,
		Format:       FormatMarkdown,
		Spaces:       SpacesKeep,
	}
}

// Ext 返回单篇文件扩展名。
func (o Options) Ext() string {
	if o.Format == FormatText {
		return ".txt"
	}
	return ".md"
}

// CombinedName 返回合并模式下唯一条目的文件名。
func (o Options) CombinedName() string {
	if o.Format == FormatText {
		return "concatenated_text.txt"
	}
	return "concatenated_markdown.md"
}

func ParseHeadingStyle(s string) (HeadingStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "atx":
		return HeadingATX, nil
	case "setext":
		return HeadingSetext, nil
	}
	return "", fmt.Errorf("unknown heading style %q", s)
}

func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "individual":
		return ModeIndividual, nil
	case "combined", "concatenate", "concatenated":
		return ModeCombined, nil
	}
	return "", fmt.Errorf("unknown output mode %q", s)
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func ParseSpaceMode(s string) (SpaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return SpacesKeep, nil
	case "strip":
		return SpacesStrip, nil
	case "underscore":
		return SpacesUnderscore, nil
	}
	return "", fmt.Errorf("unknown filename space mode %q", s)
}
