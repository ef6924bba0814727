package aggregate

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"go-wxr2md/internal/model"
)

// meta 为单篇文件的 YAML front matter。
type meta struct {
	Title      string   `yaml:"title"`
	Date       string   `yaml:"date,omitempty"`
	Author     string   `yaml:"author,omitempty"`
	Link       string   `yaml:"link,omitempty"`
	Type       string   `yaml:"type,omitempty"`
	Status     string   `yaml:"status,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
}

// frontMatter 生成 "---\n...\n---\n\n" 头部；pubDate 可解析时转为 RFC3339。
func frontMatter(title string, it model.Item) (string, error) {
	m := meta{
		Title:      title,
		Date:       normalizeDate(it.PubDate),
		Author:     it.Creator,
		Link:       it.Link,
		Type:       it.PostType,
		Status:     it.Status,
		Categories: it.Categories,
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return "---\n" + string(b) + "---\n\n", nil
}

// WordPress 导出中的 pubDate 为 RFC1123Z，个别插件输出 RFC1123。
var dateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339}

func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return s
}
