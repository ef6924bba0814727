// 包 export 负责产出下载物：
// - Package：在内存中构建 zip 归档（逐篇或合并），不使用暂存目录
// - ToJSON：输出运行摘要
package export

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go-wxr2md/internal/model"
	"go-wxr2md/internal/sanitize"
)

// ContentType 为归档下载的 MIME 类型。
const ContentType = "application/zip"

// ManifestName 为可选清单条目名。
const ManifestName = "manifest.json"

// Package 按输出模式打包：
// - individual：每个 NamedOutput 一个条目
// - combined：仅一个合并条目
// 没有任何内容时返回 model.ErrNothingToPackage；写入失败返回 *model.ArchiveError，且不返回部分归档。
func Package(res *model.Result, opts model.Options) ([]byte, error) {
	type entry struct {
		name string
		data []byte
	}
	var entries []entry
	switch opts.Mode {
	case model.ModeCombined:
		if res.Combined() == "" {
			return nil, model.ErrNothingToPackage
		}
		entries = append(entries, entry{opts.CombinedName(), []byte(res.Combined())})
	default:
		if len(res.Outputs) == 0 {
			return nil, model.ErrNothingToPackage
		}
		// 二次清理可能让原本不同的名字重合，再做一次去重
		names := sanitize.NewNamer()
		for _, o := range res.Outputs {
			name := names.Unique(sanitize.EntryName(o.Filename))
			entries = append(entries, entry{name, []byte(o.Content)})
		}
	}
	if opts.Manifest {
		b, err := json.MarshalIndent(Summarize(res, opts), "", "  ")
		if err != nil {
			return nil, &model.ArchiveError{Op: "encode manifest", Err: err}
		}
		entries = append(entries, entry{ManifestName, b})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, &model.ArchiveError{Op: "create " + e.name, Err: err}
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, &model.ArchiveError{Op: "write " + e.name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &model.ArchiveError{Op: "close", Err: err}
	}
	return buf.Bytes(), nil
}

// Checksum 返回归档的 SHA-256（十六进制）。
func Checksum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
