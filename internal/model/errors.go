package model

import (
	"errors"
	"fmt"
)

// ErrNothingToPackage 表示运行结束后没有任何可打包的内容。
var ErrNothingToPackage = errors.New("no valid content found in the export")

// ParseError 为文档级错误：该文档停止处理，批量中的其他文档继续。
type ParseError struct {
	Document string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("parse export: %v", e.Err)
	}
	return fmt.Sprintf("parse export %s: %v", e.Document, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ItemError 为条目级可恢复错误。
type ItemError struct {
	Document string
	Index    int
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// ArchiveError 为打包失败；不返回任何部分归档。
type ArchiveError struct {
	Op  string
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }
