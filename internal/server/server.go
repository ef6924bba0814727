// 包 server 提供网页上传与下载界面：
// - GET  /            上传表单（多文件、URL、转换选项）
// - POST /convert     返回 zip 归档
// - POST /api/convert 返回 JSON 摘要（可附带归档）
// - GET  /api/runs    运行历史
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-wxr2md/internal/aggregate"
	"go-wxr2md/internal/config"
	"go-wxr2md/internal/export"
	"go-wxr2md/internal/logx"
	"go-wxr2md/internal/model"
)

// Server 为展示层，处理上传并调用 Runner。
type Server struct {
	cfg    *config.Config
	runner *aggregate.Runner
	tmpl   *template.Template
	mux    *http.ServeMux
}

// New 创建 Server 并注册路由。
func New(cfg *config.Config, runner *aggregate.Runner) *Server {
	s := &Server{
		cfg:    cfg,
		runner: runner,
		tmpl:   template.Must(template.New("index").Parse(indexHTML)),
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /convert", s.handleConvert)
	s.mux.HandleFunc("POST /api/convert", s.handleAPIConvert)
	s.mux.HandleFunc("GET /api/runs", s.handleRuns)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe 启动服务，ctx 取消时优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logx.Infof("服务已启动：%s", s.cfg.Listen)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, s.cfg.Options()); err != nil {
		logx.Errorf("渲染页面失败：%v", err)
	}
}

// handleConvert 转换上传文档并以附件形式返回 zip。
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	out, opts, err := s.execute(w, r)
	if err != nil {
		s.fail(w, out, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.DownloadName))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Archive)))
	w.Header().Set("X-Wxr2md-Run", out.Summary.RunID)
	w.Header().Set("X-Wxr2md-Mode", string(opts.Mode))
	w.Header().Set("X-Wxr2md-Processed", strconv.Itoa(out.Summary.Processed))
	w.Header().Set("X-Wxr2md-Skipped", strconv.Itoa(out.Summary.Skipped))
	w.Header().Set("X-Wxr2md-Warnings", strconv.Itoa(len(out.Summary.Warnings)+len(out.Summary.Errors)))
	_, _ = w.Write(out.Archive)
}

// apiResponse 为 /api/convert 的响应体；Archive 以 base64 编码。
type apiResponse struct {
	Summary model.Summary `json:"summary"`
	Archive []byte        `json:"archive,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func (s *Server) handleAPIConvert(w http.ResponseWriter, r *http.Request) {
	out, _, err := s.execute(w, r)
	resp := apiResponse{}
	status := http.StatusOK
	if out != nil {
		resp.Summary = out.Summary
		if formBool(r, "include_archive", false) {
			resp.Archive = out.Archive
		}
	}
	if err != nil {
		resp.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	runs, err := s.runner.History(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	stats, err := s.runner.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "stats": stats})
}

// execute 解析表单并校验选项，之后才读取上传文件与远程文档并运行转换。
func (s *Server) execute(w http.ResponseWriter, r *http.Request) (*aggregate.Output, model.Options, error) {
	opts := s.cfg.Options()
	if err := s.parseUpload(w, r); err != nil {
		return nil, opts, err
	}
	opts, err := formOptions(r, opts)
	if err != nil {
		return nil, opts, &badRequest{err}
	}
	docs := s.readUploads(r)
	if len(docs) == 0 {
		return nil, opts, &badRequest{errors.New("no export document uploaded")}
	}
	out, err := s.runner.Execute(r.Context(), docs, opts)
	return out, opts, err
}

// fail 以纯文本返回错误与全部告警，不返回部分归档。
func (s *Server) fail(w http.ResponseWriter, out *aggregate.Output, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusFor(err))
	fmt.Fprintf(w, "error: %v\n", err)
	if out == nil {
		return
	}
	for _, e := range out.Summary.Errors {
		fmt.Fprintf(w, "document error: %s\n", e)
	}
	for _, wn := range out.Summary.Warnings {
		fmt.Fprintf(w, "warning: %s\n", wn.String())
	}
}

type badRequest struct{ err error }

func (b *badRequest) Error() string { return b.err.Error() }
func (b *badRequest) Unwrap() error { return b.err }

func statusFor(err error) int {
	var br *badRequest
	var ae *model.ArchiveError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func formBool(r *http.Request, key string, def bool) bool {
	vals := r.Form[key]
	if len(vals) == 0 {
		return def
	}
	// 隐藏字段 + 复选框：取最后一个值
	v := strings.ToLower(strings.TrimSpace(vals[len(vals)-1]))
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
