package aggregate

import (
	"fmt"
	"strings"

	"go-wxr2md/internal/convert"
	"go-wxr2md/internal/logx"
	"go-wxr2md/internal/model"
	"go-wxr2md/internal/sanitize"
)

// Convert 按文档顺序处理条目：解析标题→转换正文→空内容过滤→命名→写入结果。
// 单个条目失败只计入 Skipped 并产生告警，不中断整个文档。
// namer 在批量运行中跨文档共享，保证文件名全局唯一。
func Convert(doc string, items []model.Item, opts model.Options, conv convert.Converter, namer *sanitize.Namer) *model.Result {
	res := &model.Result{}
	for i, it := range items {
		outcome := convertItem(res, doc, i, it, opts, conv, namer)
		logx.Debugf("条目 %d：%s", i, outcome)
	}
	return res
}

// convertItem 处理单个条目并返回显式结果。
func convertItem(res *model.Result, doc string, i int, it model.Item, opts model.Options, conv convert.Converter, namer *sanitize.Namer) model.Outcome {
	raw := ""
	if it.Title != nil {
		raw = strings.TrimSpace(*it.Title)
	}
	title := raw
	if title == "" {
		title = sanitize.Placeholder(i)
	}
	// 无正文属于正常情况：静默跳过，不计数不告警
	if it.RawBody == nil {
		return model.OutcomeAbsent
	}
	if it.Err != nil {
		failItem(res, doc, i, it.Err)
		return model.OutcomeFailed
	}
	text, err := conv.Convert(*it.RawBody)
	if err != nil {
		failItem(res, doc, i, err)
		return model.OutcomeFailed
	}
	if opts.SkipEmpty && convert.IsEmpty(text) {
		res.Skipped++
		res.Warnings = append(res.Warnings, model.Warning{
			Kind:     model.WarnEmpty,
			Document: doc,
			Index:    i,
			Message:  fmt.Sprintf("skipped empty content for %q", title),
		})
		logx.Infof("跳过空内容：%s 条目=%d 标题=%q", doc, i, title)
		return model.OutcomeEmpty
	}

	base := sanitize.Base(title, opts.Spaces)
	if base == "" {
		base = sanitize.Placeholder(i)
	}
	name := namer.Unique(base + opts.Ext())
	content := text
	if opts.FrontMatter {
		fm, err := frontMatter(title, it)
		if err != nil {
			failItem(res, doc, i, err)
			return model.OutcomeFailed
		}
		content = fm + text
	}
	res.Outputs = append(res.Outputs, model.NamedOutput{Filename: name, Content: content})
	res.Processed++
	// 合并文本使用原始（已去空白）标题，缺失标题时保持为空
	res.AppendCombined(raw, text)
	return model.OutcomeWritten
}

func failItem(res *model.Result, doc string, i int, err error) {
	ie := &model.ItemError{Document: doc, Index: i, Err: err}
	res.Skipped++
	res.Warnings = append(res.Warnings, model.Warning{
		Kind:     model.WarnItem,
		Document: doc,
		Index:    i,
		Message:  err.Error(),
	})
	logx.Warnf("条目处理失败：%s %v", doc, ie)
}
