// 包 wxr 解析 WordPress 导出文档（WXR，RSS 派生格式）：
// - Parse：显式栈遍历 XML，任意深度匹配 <item>，抽取 title 与 content:encoded
// - SiteInfo：使用 gofeed 读取频道级元数据
package wxr

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"go-wxr2md/internal/model"
)

// 命名空间 URI
const (
	NSContent = "http://purl.org/rss/1.0/modules/content/"
	NSDC      = "http://purl.org/dc/elements/1.1/"
	NSRSS10   = "http://purl.org/rss/1.0/"
	nsWPPref  = "http://wordpress.org/export/"
)

// openItem 为正在解析的条目及其所在深度。
// seenTitle/seenBody 记录是否已遇到对应子元素：空元素也算“第一个”，其值仍为 nil。
type openItem struct {
	depth     int
	pos       int
	seenTitle bool
	seenBody  bool
}

// ParseBytes 解析内存中的导出文档。
func ParseBytes(data []byte) ([]model.Item, error) {
	return Parse(bytes.NewReader(data))
}

// Parse 读取导出文档并按文档顺序返回全部条目。
// 文档结构不合法（嵌套错误、编码非法、截断）时返回 *model.ParseError。
func Parse(r io.Reader) ([]model.Item, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		items []model.Item
		open  []openItem
		depth int
		root  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.ParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			root = true
			if isRSS(t.Name, "item") {
				items = append(items, model.Item{Index: len(items)})
				open = append(open, openItem{depth: depth, pos: len(items) - 1})
				continue
			}
			if len(open) == 0 || open[len(open)-1].depth != depth-1 || !field(t.Name) {
				continue
			}
			// 条目的直接子元素：读取文本直至对应结束标签
			o := &open[len(open)-1]
			text, nested, err := readText(dec)
			if err != nil {
				return nil, &model.ParseError{Err: err}
			}
			depth--
			assign(&items[o.pos], o, t.Name, text, nested)
		case xml.EndElement:
			if len(open) > 0 && open[len(open)-1].depth == depth {
				open = open[:len(open)-1]
			}
			depth--
		}
	}
	if !root {
		return nil, &model.ParseError{Err: errors.New("empty document")}
	}
	if depth != 0 {
		return nil, &model.ParseError{Err: errors.New("unexpected EOF")}
	}
	return items, nil
}

// readText 读取当前元素的字符数据，直到其结束标签。
// nested 返回第一个内嵌子元素名（非空表示结构异常）。
func readText(dec *xml.Decoder) (string, string, error) {
	var (
		b      strings.Builder
		nested string
		level  = 1
	)
	for level > 0 {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return "", "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if level == 1 {
				b.Write(t)
			}
		case xml.StartElement:
			if nested == "" {
				nested = t.Name.Local
			}
			level++
		case xml.EndElement:
			level--
		}
	}
	return b.String(), nested, nil
}

// assign 将子元素文本写入条目；同名字段只取第一个（即使第一个为空）。
func assign(it *model.Item, o *openItem, name xml.Name, text, nested string) {
	switch {
	case isRSS(name, "title"):
		if o.seenTitle {
			return
		}
		o.seenTitle = true
		if nested != "" {
			markBroken(it, "title", nested)
			return
		}
		it.Title = ptr(text)
	case name.Space == NSContent && name.Local == "encoded":
		if o.seenBody {
			return
		}
		o.seenBody = true
		if nested != "" {
			markBroken(it, "content:encoded", nested)
			// 正文存在但结构异常：保留非 nil 值，使其进入失败分支而非静默跳过
			it.RawBody = &text
			return
		}
		it.RawBody = ptr(text)
	case isRSS(name, "link"):
		setOnce(&it.Link, text)
	case isRSS(name, "guid"):
		setOnce(&it.GUID, text)
	case isRSS(name, "pubDate"):
		setOnce(&it.PubDate, text)
	case isRSS(name, "category"):
		if c := strings.TrimSpace(text); c != "" {
			it.Categories = append(it.Categories, c)
		}
	case name.Space == NSDC && name.Local == "creator":
		setOnce(&it.Creator, text)
	case strings.HasPrefix(name.Space, nsWPPref) && name.Local == "post_type":
		setOnce(&it.PostType, text)
	case strings.HasPrefix(name.Space, nsWPPref) && name.Local == "status":
		setOnce(&it.Status, text)
	}
}

// field 报告元素是否为需要读取文本的条目字段；其余子元素继续按栈遍历。
func field(name xml.Name) bool {
	switch {
	case isRSS(name, "title"), isRSS(name, "link"), isRSS(name, "guid"),
		isRSS(name, "pubDate"), isRSS(name, "category"):
		return true
	case name.Space == NSContent && name.Local == "encoded":
		return true
	case name.Space == NSDC && name.Local == "creator":
		return true
	case strings.HasPrefix(name.Space, nsWPPref):
		return name.Local == "post_type" || name.Local == "status"
	}
	return false
}

func markBroken(it *model.Item, field, nested string) {
	if it.Err == nil {
		it.Err = fmt.Errorf("unexpected element <%s> inside <%s>", nested, field)
	}
}

// isRSS 匹配无命名空间（RSS 2.0）或 RSS 1.0 命名空间下的元素。
func isRSS(name xml.Name, local string) bool {
	return name.Local == local && (name.Space == "" || name.Space == NSRSS10)
}

// ptr 返回文本指针；空文本视为缺失。
func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}
