package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `name, value, expires_at, secure, same_site, sealed, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCookie(s scanner) (*models.Cookie, error) {
	var (
		c                models.Cookie
		expires, updated int64
		secure, sealed   int
	)
	if err := s.Scan(&c.Name, &c.Value, &expires, &secure, &c.SameSite, &sealed, &updated); err != nil {
		return nil, err
	}
	c.ExpiresAt = time.UnixMilli(expires).UTC()
	c.UpdatedAt = time.UnixMilli(updated).UTC()
	c.Secure = secure != 0
	c.Sealed = sealed != 0
	return &c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*models.Cookie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM cookies WHERE name = ?`, name)
	c, err := scanCookie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}
	return c, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, c *models.Cookie) error {
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, expires_at, secure, same_site, sealed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			same_site = excluded.same_site,
			sealed = excluded.sealed,
			updated_at = excluded.updated_at
	`, c.Name, c.Value, c.ExpiresAt.UnixMilli(), boolInt(c.Secure), c.SameSite, boolInt(c.Sealed), updated.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put cookie[%s]: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) PutAll(ctx context.Context, cs []*models.Cookie) error {
	db, ok := r.db.(dbx.Beginner)
	if !ok {
		return r.putEach(ctx, cs)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).putEach(ctx, cs)
	})
}

func (r *SQLiteRepository) putEach(ctx context.Context, cs []*models.Cookie) error {
	for _, c := range cs {
		if err := r.Put(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")

	_, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete cookies%v: %w", names, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_at <= ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cookies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged cookies: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Cookie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM cookies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}
	defer rows.Close()

	var result []*models.Cookie
	for rows.Next() {
		c, err := scanCookie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return result, nil
}
