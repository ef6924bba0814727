// 包 sanitize 将任意标题转换为安全且唯一的文件名：
// - Sanitize：NFKD 分解后丢弃非 ASCII 字符（有损，不做音译），仅保留字母数字与 " -_."
// - Namer：同一次运行内按 stem_1.ext、stem_2.ext… 解决重名
package sanitize

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-wxr2md/internal/model"
)

// asciiOnly 先分解再移除所有非 7 位字符（变音符号随之消失）。
func asciiOnly() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
}

// Sanitize 返回安全文件名主体；全部字符被剔除时返回 ""，由调用方替换为 untitled_<i>。
func Sanitize(raw string) string {
	s, _, err := transform.String(asciiOnly(), raw)
	if err != nil {
		// 仅在输入含非法 UTF-8 时出现，退化为逐字符过滤
		s = raw
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-', r == '_', r == '.':
		return true
	}
	return false
}

// ApplySpaces 按配置处理文件名中的空格。
func ApplySpaces(name string, mode model.SpaceMode) string {
	switch mode {
	case model.SpacesStrip:
		return strings.ReplaceAll(name, " ", "")
	case model.SpacesUnderscore:
		return strings.ReplaceAll(name, " ", "_")
	default:
		return name
	}
}

// Base 返回条目文件名主体：Sanitize 后按空格策略处理，并去掉前导点
// （"."、".." 之类的标题不能成为隐藏文件或路径片段）。结果为空时由调用方使用占位名。
func Base(title string, mode model.SpaceMode) string {
	b := ApplySpaces(Sanitize(title), mode)
	return strings.TrimSpace(strings.TrimLeft(b, "."))
}

// Placeholder 返回缺失标题时使用的占位名。
func Placeholder(index int) string { return fmt.Sprintf("untitled_%d", index) }

// EntryName 对归档条目名做二次清理：去除路径分隔符与前导点，保证非空。
func EntryName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimLeft(strings.TrimSpace(name), ".")
	if name == "" || strings.TrimSuffix(name, filepath.Ext(name)) == "" {
		return "untitled" + filepath.Ext(name)
	}
	return name
}
