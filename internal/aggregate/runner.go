// 包 aggregate 负责主流程编排：
// - 按上传顺序串行处理多个导出文档，合并结果
// - 单个文档解析失败只影响该文档
// - 打包归档并（非极简模式下）记录运行历史
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"go-wxr2md/internal/convert"
	"go-wxr2md/internal/export"
	"go-wxr2md/internal/fetch"
	"go-wxr2md/internal/logx"
	"go-wxr2md/internal/model"
	"go-wxr2md/internal/sanitize"
	"go-wxr2md/internal/store"
	"go-wxr2md/internal/wxr"
)

// Document 为一份待处理的导出文档；Err 非空表示读取阶段已失败。
type Document struct {
	Name string
	Data []byte
	Err  error
}

// Output 为一次完整运行的产物。
type Output struct {
	Result  *model.Result
	Archive []byte
	Summary model.Summary
}

// Runner 执行器，持有 HTTP 客户端与可选的历史存储（nil 表示极简模式）。
type Runner struct {
	fetch *fetch.Client
	store *store.SQLite
}

// New 创建 Runner。
func New(st *store.SQLite, cl *fetch.Client) *Runner {
	return &Runner{store: st, fetch: cl}
}

// Load 读取本地文件或远程 URL；失败的来源以 Document.Err 表示，不中断其余来源。
func (r *Runner) Load(ctx context.Context, sources []string) []Document {
	docs := make([]Document, 0, len(sources))
	for _, src := range sources {
		d := Document{Name: src}
		if fetch.IsURL(src) {
			if r.fetch == nil {
				d.Err = fmt.Errorf("fetch %s: remote import disabled", src)
			} else {
				d.Data, d.Err = r.fetch.Fetch(ctx, src)
			}
		} else {
			d.Name = filepath.Base(src)
			b, err := os.ReadFile(src)
			if err != nil {
				d.Err = fmt.Errorf("read export %s: %w", src, err)
			}
			d.Data = b
		}
		docs = append(docs, d)
	}
	return docs
}

// Run 依次解析并转换每个文档，合并为一次运行的结果。
// 同一次运行共享文件名登记表，保证跨文档文件名唯一。
func (r *Runner) Run(ctx context.Context, docs []Document, opts model.Options) *model.Result {
	total := &model.Result{}
	namer := sanitize.NewNamer()
	conv := convert.New(opts)
	for _, d := range docs {
		log := logx.With("doc", d.Name)
		if d.Err != nil {
			total.Errors = append(total.Errors, d.Err)
			log.Error("读取文档失败", "err", d.Err)
			continue
		}
		items, err := wxr.ParseBytes(d.Data)
		if err != nil {
			var pe *model.ParseError
			if errors.As(err, &pe) {
				pe.Document = d.Name
			}
			total.Errors = append(total.Errors, err)
			log.Error("解析导出文档失败", "err", err)
			continue
		}
		res := Convert(d.Name, items, opts, conv, namer)
		res.Documents = 1
		if site, err := wxr.SiteInfo(d.Data); err == nil {
			res.Site = site
		} else {
			log.Debug("读取站点信息失败", "err", err)
		}
		log.Info("文档处理完成", "items", len(items), "processed", res.Processed, "skipped", res.Skipped)
		total.Merge(res)
	}
	return total
}

// Execute 完整运行：转换→打包→记录历史。
// 打包失败（含无内容）时返回错误与已得到的结果，不返回部分归档。
func (r *Runner) Execute(ctx context.Context, docs []Document, opts model.Options) (*Output, error) {
	res := r.Run(ctx, docs, opts)
	out := &Output{Result: res, Summary: export.Summarize(res, opts)}
	archive, err := export.Package(res, opts)
	if err != nil {
		return out, err
	}
	out.Archive = archive
	out.Summary.RunID = uuid.NewString()
	if r.store != nil {
		run := model.Run{
			ID:        out.Summary.RunID,
			Documents: len(docs),
			Failed:    len(res.Errors),
			Mode:      string(opts.Mode),
			Format:    string(opts.Format),
			Processed: res.Processed,
			Skipped:   res.Skipped,
			SizeBytes: int64(len(archive)),
			Checksum:  export.Checksum(archive),
			CreatedAt: time.Now(),
		}
		if res.Site != nil {
			run.SiteTitle = res.Site.Title
		}
		if err := r.store.InsertRun(ctx, run); err != nil {
			logx.Warnf("写入运行记录失败：%v", err)
		}
	}
	logx.Infof("运行完成：文档=%d 转换=%d 跳过=%d 失败文档=%d 归档=%d 字节", len(docs), res.Processed, res.Skipped, len(res.Errors), len(archive))
	return out, nil
}

// History 返回最近的运行记录；极简模式下返回空列表。
func (r *Runner) History(ctx context.Context, limit int) ([]model.Run, error) {
	if r.store == nil {
		return []model.Run{}, nil
	}
	return r.store.ListRuns(ctx, limit)
}

// Stats 返回历史统计；极简模式下返回零值。
func (r *Runner) Stats(ctx context.Context) (model.Stats, error) {
	if r.store == nil {
		return model.Stats{UpdatedAt: time.Now()}, nil
	}
	return r.store.Stats(ctx)
}
