package sanitize

import (
	"path/filepath"
	"strconv"
)

// Namer 记录一次运行内已使用的文件名。非并发安全：一次运行串行处理。
type Namer struct {
	used map[string]struct{}
}

func NewNamer() *Namer {
	return &Namer{used: make(map[string]struct{})}
}

// Unique 返回未被使用的文件名并登记；冲突时依次尝试 stem_1.ext、stem_2.ext…
func (n *Namer) Unique(base string) string {
	if _, ok := n.used[base]; !ok {
		n.used[base] = struct{}{}
		return base
	}
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	for i := 1; ; i++ {
		cand := stem + "_" + strconv.Itoa(i) + ext
		if _, ok := n.used[cand]; !ok {
			n.used[cand] = struct{}{}
			return cand
		}
	}
}
