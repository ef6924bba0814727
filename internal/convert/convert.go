// 包 convert 负责正文转换：
// - Markdown：基于 html-to-markdown，支持 ATX/Setext 标题风格
// - PlainText：基于 goquery 抽取纯文本（早期版本的输出格式）
// - IsEmpty：判断转换结果是否“实际为空”
package convert

import (
	"fmt"
	"strings"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"go-wxr2md/internal/model"
)

// Converter 将一段 HTML 转为目标文本。
type Converter interface {
	Convert(html string) (string, error)
}

// Markdown 为 HTML→Markdown 转换器。
type Markdown struct {
	conv *md.Converter
}

// NewMarkdown 按标题风格创建转换器；其余选项使用库默认值。
func NewMarkdown(style model.HeadingStyle) *Markdown {
	opts := &md.Options{HeadingStyle: "atx"}
	if style == model.HeadingSetext {
		opts.HeadingStyle = "setext"
	}
	return &Markdown{conv: md.NewConverter("", true, opts)}
}

func (m *Markdown) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	out, err := m.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return out, nil
}

// New 按选项返回对应格式的转换器。
func New(opts model.Options) Converter {
	if opts.Format == model.FormatText {
		return NewPlainText()
	}
	return NewMarkdown(opts.HeadingStyle)
}

// IsEmpty 去掉 '#'、'-'、'*' 与空白后若无剩余即视为空。
// 已知局限：仅由这三种符号构成的内容（如单独的分隔线 "* * *"）也会被判为空。
func IsEmpty(text string) bool {
	rest := strings.TrimFunc(text, func(r rune) bool {
		return r == '#' || r == '-' || r == '*' || unicode.IsSpace(r)
	})
	return rest == ""
}
