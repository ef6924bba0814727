package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go-wxr2md/internal/model"
)

// Summarize 将运行结果归纳为可序列化的摘要。
func Summarize(res *model.Result, opts model.Options) model.Summary {
	s := model.Summary{
		Documents: res.Documents,
		Processed: res.Processed,
		Skipped:   res.Skipped,
		Files:     res.Filenames(),
		Warnings:  res.Warnings,
		Errors:    make([]string, 0, len(res.Errors)),
		Site:      res.Site,
		Mode:      string(opts.Mode),
		Format:    string(opts.Format),
		CreatedAt: time.Now(),
	}
	if opts.Mode == model.ModeCombined && res.Processed > 0 {
		s.Files = []string{opts.CombinedName()}
	}
	if s.Warnings == nil {
		s.Warnings = []model.Warning{}
	}
	for _, err := range res.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	return s
}

// ToJSON 将摘要以缩进格式写入 w。
func ToJSON(w io.Writer, s model.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// ToJSONFile 将摘要写入文件。
func ToJSONFile(path string, s model.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := ToJSON(f, s); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
