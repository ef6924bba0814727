package wxr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"go-wxr2md/internal/model"
)

// SiteInfo 使用 gofeed 解析频道级元数据（站点标题/链接/描述/语言/生成器）。
// gofeed 对结构较宽松，仅用于元数据；条目抽取以 Parse 为准。
func SiteInfo(data []byte) (*model.Site, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse channel: %w", err)
	}
	return &model.Site{
		Title:       strings.TrimSpace(feed.Title),
		Link:        strings.TrimSpace(feed.Link),
		Description: strings.TrimSpace(feed.Description),
		Language:    strings.TrimSpace(feed.Language),
		Generator:   strings.TrimSpace(feed.Generator),
	}, nil
}
