// 包 store 提供运行历史存储（SQLite），包含表迁移/写入/查询/清理等操作。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-wxr2md/internal/model"
)

// SQLite 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type SQLite struct {
	db *sql.DB
}

// OpenSQLite 打开 SQLite 数据库并执行自动迁移。
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Reset 清空运行记录（不删除数据库文件）。
func (s *SQLite) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("delete runs: %w", err)
	}
	return nil
}

// migrate 执行建表语句，保持幂等。
func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            documents INTEGER,
            failed INTEGER,
            mode TEXT,
            format TEXT,
            processed INTEGER,
            skipped INTEGER,
            size_bytes INTEGER,
            checksum TEXT,
            site_title TEXT,
            created_at TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// InsertRun 写入一次运行记录（id 唯一）。
func (s *SQLite) InsertRun(ctx context.Context, r model.Run) error {
	if r.ID == "" {
		return errors.New("run.id required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs(id, documents, failed, mode, format, processed, skipped, size_bytes, checksum, site_title, created_at)
        VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.Documents, r.Failed, r.Mode, r.Format, r.Processed, r.Skipped, r.SizeBytes, r.Checksum, r.SiteTitle, nowOr(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns 按时间倒序返回最近的运行记录；limit<=0 表示不限制。
func (s *SQLite) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	q := `SELECT id, documents, failed, mode, format, processed, skipped, size_bytes, checksum, COALESCE(site_title,''), created_at FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	out := []model.Run{}
	for rows.Next() {
		var r model.Run
		var createdAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Documents, &r.Failed, &r.Mode, &r.Format, &r.Processed, &r.Skipped, &r.SizeBytes, &r.Checksum, &r.SiteTitle, &createdAt); err != nil {
			return nil, fmt.Errorf("scan runs: %w", err)
		}
		if createdAt.Valid {
			r.CreatedAt = createdAt.Time
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Stats 统计汇总：运行次数、累计转换数与跳过数。
func (s *SQLite) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1), COALESCE(SUM(processed),0), COALESCE(SUM(skipped),0) FROM runs`).
		Scan(&st.RunsTotal, &st.ProcessedTotal, &st.SkippedTotal)
	if err != nil {
		return st, fmt.Errorf("stats runs: %w", err)
	}
	st.UpdatedAt = time.Now()
	return st, nil
}

// CleanOldRuns 按天数阈值清理过期记录。
func (s *SQLite) CleanOldRuns(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("clean old runs: %w", err)
	}
	return nil
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
