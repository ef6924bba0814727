// 包 model 定义转换流程的数据模型（条目/命名输出/运行结果/选项）。
package model

import (
	"bytes"
	"fmt"
	"time"
)

// Item 为导出文档中的一篇文章或页面。
// Title/RawBody 为 nil 表示字段缺失或为空文本。
type Item struct {
	Index      int
	Title      *string
	RawBody    *string
	Link       string
	GUID       string
	Creator    string
	PubDate    string
	PostType   string
	Status     string
	Categories []string
	// Err 记录解析阶段发现的条目内部结构错误（如 content:encoded 中嵌套元素）
	Err error
}

// NamedOutput 为带唯一文件名的转换结果。
type NamedOutput struct {
	Filename string `json:"filename"`
	Content  string `json:"-"`
}

// Outcome 为单个条目的处理结果。
type Outcome int

const (
	OutcomeWritten Outcome = iota
	OutcomeAbsent
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeAbsent:
		return "absent"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// WarningKind 区分告警类别：空内容跳过属于提示，条目失败属于告警。
type WarningKind string

const (
	WarnEmpty WarningKind = "empty"
	WarnItem  WarningKind = "item"
)

// Warning 为非致命的逐条提示，最终展示给用户。
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Document string      `json:"document,omitempty"`
	Index    int         `json:"index"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	if w.Document != "" {
		return fmt.Sprintf("%s: item %d: %s", w.Document, w.Index, w.Message)
	}
	return fmt.Sprintf("item %d: %s", w.Index, w.Message)
}

// Result 为一次运行（单文档或批量）的聚合结果。
type Result struct {
	Outputs   []NamedOutput
	combined  bytes.Buffer
	Processed int
	Skipped   int
	Warnings  []Warning
	// Errors 仅包含文档级错误（ParseError/抓取失败），不含条目级错误
	Errors []error
	// Documents 为成功解析的文档数
	Documents int
	Site      *Site
}

// Merge 将另一份结果按顺序追加到当前结果。
func (r *Result) Merge(o *Result) {
	if o == nil {
		return
	}
	r.Outputs = append(r.Outputs, o.Outputs...)
	r.combined.Write(o.combined.Bytes())
	r.Processed += o.Processed
	r.Skipped += o.Skipped
	r.Warnings = append(r.Warnings, o.Warnings...)
	r.Errors = append(r.Errors, o.Errors...)
	r.Documents += o.Documents
	if r.Site == nil {
		r.Site = o.Site
	}
}

// AppendCombined 追加一段合并文本："\n\n# 标题\n\n正文"。
func (r *Result) AppendCombined(title, text string) {
	r.combined.WriteString("\n\n# ")
	r.combined.WriteString(title)
	r.combined.WriteString("\n\n")
	r.combined.WriteString(text)
}

// Combined 返回合并缓冲区内容。
func (r *Result) Combined() string { return r.combined.String() }

// Filenames 返回全部输出文件名（保持顺序）。
func (r *Result) Filenames() []string {
	out := make([]string, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		out = append(out, o.Filename)
	}
	return out
}

// Site 为导出文档频道级元数据。
type Site struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Generator   string `json:"generator,omitempty"`
}

// Summary 为导出的运行摘要（JSON）。
type Summary struct {
	RunID     string    `json:"run_id,omitempty"`
	Documents int       `json:"documents"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Files     []string  `json:"files"`
	Warnings  []Warning `json:"warnings"`
	Errors    []string  `json:"errors"`
	Site      *Site     `json:"site,omitempty"`
	Mode      string    `json:"mode"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}

// Run 为持久化的一次运行记录。
type Run struct {
	ID        string    `json:"id"`
	Documents int       `json:"documents"`
	Failed    int       `json:"failed"`
	Mode      string    `json:"mode"`
	Format    string    `json:"format"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
	SiteTitle string    `json:"site_title"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats 为历史统计。
type Stats struct {
	RunsTotal      int       `json:"runs_total"`
	ProcessedTotal int       `json:"processed_total"`
	SkippedTotal   int       `json:"skipped_total"`
	UpdatedAt      time.Time `json:"updated_at"`
}
