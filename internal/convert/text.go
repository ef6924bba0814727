package convert

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector 为输出时需要换行分隔的块级元素。
const blockSelector = "p,div,li,h1,h2,h3,h4,h5,h6,blockquote,pre,tr,figure,figcaption,section,article,header,footer,table,ul,ol"

// PlainText 使用 goquery 抽取纯文本，按块级元素分行。
type PlainText struct{}

func NewPlainText() *PlainText { return &PlainText{} }

func (PlainText) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return collapseLines(doc.Text()), nil
}

// collapseLines 去掉行首尾空白，并把连续空行压缩为一个。
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
