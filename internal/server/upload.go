package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go-wxr2md/internal/aggregate"
	"go-wxr2md/internal/fetch"
	"go-wxr2md/internal/logx"
	"go-wxr2md/internal/model"
)

//go:embed index.html
var indexHTML string

// uploadFields 为接受上传文件的表单字段名。
var uploadFields = []string{"export", "files", "file"}

// parseUpload 在上传大小上限内解析 multipart 表单。
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("parse upload: %w", err)
		}
		return &badRequest{fmt.Errorf("parse upload: %w", err)}
	}
	return nil
}

// readUploads 按上传顺序读取文件，再追加 url 字段中的远程文档（会发起网络请求，
// 须在选项校验通过后调用）。url 字段只接受 http(s) 地址，不读取服务器本地路径。
func (s *Server) readUploads(r *http.Request) []aggregate.Document {
	var docs []aggregate.Document
	for _, field := range uploadFields {
		for _, fh := range r.MultipartForm.File[field] {
			d := aggregate.Document{Name: fh.Filename}
			f, err := fh.Open()
			if err != nil {
				d.Err = fmt.Errorf("open upload %s: %w", fh.Filename, err)
				docs = append(docs, d)
				continue
			}
			d.Data, err = io.ReadAll(f)
			f.Close()
			if err != nil {
				d.Err = fmt.Errorf("read upload %s: %w", fh.Filename, err)
			}
			docs = append(docs, d)
		}
	}
	var urls []string
	for _, v := range r.Form["url"] {
		for _, line := range strings.Split(v, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !fetch.IsURL(line) {
				docs = append(docs, aggregate.Document{Name: line, Err: fmt.Errorf("unsupported source %q: only http(s) URLs are accepted", line)})
				continue
			}
			urls = append(urls, line)
		}
	}
	if len(urls) > 0 {
		docs = append(docs, s.runner.Load(r.Context(), urls)...)
	}
	logx.Debugf("收到上传：文档=%d", len(docs))
	return docs
}

// formOptions 用表单字段覆盖默认选项；未提供的字段保持配置值。
func formOptions(r *http.Request, opts model.Options) (model.Options, error) {
	var err error
	if v := r.FormValue("heading"); v != "" {
		if opts.HeadingStyle, err = model.ParseHeadingStyle(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue("mode"); v != "" {
		if opts.Mode, err = model.ParseOutputMode(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue("format"); v != "" {
		if opts.Format, err = model.ParseFormat(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue("spaces"); v != "" {
		if opts.Spaces, err = model.ParseSpaceMode(v); err != nil {
			return opts, err
		}
	}
	opts.SkipEmpty = formBool(r, "skip_empty", opts.SkipEmpty)
	opts.FrontMatter = formBool(r, "front_matter", opts.FrontMatter)
	opts.Manifest = formBool(r, "manifest", opts.Manifest)
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logx.Warnf("写出 JSON 失败：%v", err)
	}
}
