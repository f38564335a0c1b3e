package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/rushteam/recsite/core"
	"github.com/rushteam/recsite/store/migrations"
)

// SQLiteStore 是 SQLite 实现的目录与交互日志存储。
// 同时实现 core.Catalog、core.CatalogLabeler、core.InteractionStore。
//
// 目录写入时 catalog_meta 中的 version 单调递增，
// 供特征矩阵缓存判断过期。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 打开（必要时创建）数据库并执行迁移。
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL 模式提升并发读性能
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "."); err != nil {
		return fmt.Errorf("store: run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Catalog 实现

const catalogColumns = "id, kind, title, body, category, author, tags, user_type, published, created_at, updated_at"

func (s *SQLiteStore) ListPublished(ctx context.Context) ([]*core.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+catalogColumns+`
		FROM catalog_items
		WHERE published = 1
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list published: %w", err)
	}
	defer rows.Close()

	var items []*core.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*core.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+catalogColumns+`
		FROM catalog_items
		WHERE id = ?
	`, id)

	item, err := scanCatalogItem(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrCatalogNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *SQLiteStore) Version(ctx context.Context) (int64, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM catalog_meta WHERE key = 'version'`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("store: read catalog version: %w", err)
	}
	return strconv.ParseInt(v, 10, 64)
}

// PutItem 新增或更新物品，并递增目录版本号。
func (s *SQLiteStore) PutItem(ctx context.Context, item *core.CatalogItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback()

	published := 0
	if item.Published {
		published = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_items (`+catalogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			body = excluded.body,
			category = excluded.category,
			author = excluded.author,
			tags = excluded.tags,
			user_type = excluded.user_type,
			published = excluded.published,
			updated_at = excluded.updated_at
	`,
		item.ID,
		item.Kind,
		item.Title,
		item.Body,
		item.Category,
		item.Author,
		strings.Join(item.Tags, ","),
		item.UserType,
		published,
		item.CreatedAt.UTC().Format(time.RFC3339),
		item.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: put item: %w", err)
	}

	if err := bumpCatalogVersion(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SetUserType 回写分类结果。只更新标签字段，不递增目录版本：
// user_type 不参与特征向量，无需触发矩阵重建。
func (s *SQLiteStore) SetUserType(ctx context.Context, itemID, userType string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE catalog_items SET user_type = ? WHERE id = ?
	`, userType, itemID)
	if err != nil {
		return fmt.Errorf("store: set user type: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrCatalogNotFound
	}
	return nil
}

func bumpCatalogVersion(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE catalog_meta
		SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)
		WHERE key = 'version'
	`)
	if err != nil {
		return fmt.Errorf("store: bump catalog version: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogItem(row rowScanner) (*core.CatalogItem, error) {
	var (
		item      core.CatalogItem
		tags      string
		published int
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&item.ID, &item.Kind, &item.Title, &item.Body, &item.Category,
		&item.Author, &tags, &item.UserType, &published, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		item.Tags = strings.Split(tags, ",")
	}
	item.Published = published != 0
	if item.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("store: parse created_at: %w", err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("store: parse updated_at: %w", err)
	}
	return &item, nil
}

// InteractionStore 实现

func (s *SQLiteStore) ListInteractions(ctx context.Context, q core.InteractionQuery) ([]*core.InteractionEvent, error) {
	var (
		where []string
		args  []any
	)
	if q.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.ItemID != "" {
		where = append(where, "item_id = ?")
		args = append(args, q.ItemID)
	}
	if !q.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if len(q.Types) > 0 {
		placeholders := strings.Repeat("?,", len(q.Types))
		where = append(where, "type IN ("+placeholders[:len(placeholders)-1]+")")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}

	query := `SELECT id, user_id, item_id, type, score, created_at FROM interactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list interactions: %w", err)
	}
	defer rows.Close()

	var events []*core.InteractionEvent
	for rows.Next() {
		var (
			ev        core.InteractionEvent
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.ItemID, &ev.Type, &ev.Score, &createdAt); err != nil {
			return nil, err
		}
		if ev.Timestamp, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("store: parse interaction time: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) RecordInteraction(ctx context.Context, ev *core.InteractionEvent) error {
	if ev.ID == "" {
		ev.ID = ulid.Make().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, user_id, item_id, type, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.UserID, ev.ItemID, ev.Type, ev.Score,
		ev.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: record interaction: %w", err)
	}
	return nil
}

// CleanupOldInteractions 删除 before 之前的交互记录，返回删除条数。
// 维护性操作，不在打分链路内。
func (s *SQLiteStore) CleanupOldInteractions(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM interactions WHERE created_at < ?
	`, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("store: cleanup interactions: %w", err)
	}
	return res.RowsAffected()
}

var (
	_ core.Catalog          = (*SQLiteStore)(nil)
	_ core.CatalogLabeler   = (*SQLiteStore)(nil)
	_ core.InteractionStore = (*SQLiteStore)(nil)
)
