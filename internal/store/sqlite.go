// SQLite-backed persistence.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Users and Posts repository implementations.
//
// The UNIQUE constraint on users.email is the authoritative guard against
// duplicate registration; constraint violations surface as
// domain.ErrEmailTaken regardless of any service-level fast-path check.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/goodthings/server/internal/domain"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// DB wraps a SQLite handle and exposes the repository views backed by it.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if missing) a SQLite database, applies pragmas, and
// runs migrations.
func Open(dsn string) (*DB, error) {
	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error { return d.sql.Close() }

// Users returns the account repository view.
func (d *DB) Users() Users { return sqliteUsers{d.sql} }

// Posts returns the content-record repository view.
func (d *DB) Posts() Posts { return sqlitePosts{d.sql} }

// migrate applies the embedded *.sql files in lexical order.
//
//   - Uses a _migrations table to track applied files.
//   - Skips files already applied.
//   - Each file runs inside its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	entries, err := migrationsFS.ReadDir("sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		files = append(files, e.Name())
	}
	sort.Strings(files)

	for _, f := range files {
		// Skip if already applied
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrationsFS.ReadFile("sql/" + f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Debug().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------------- users --------------------------------- */

type sqliteUsers struct {
	db *sql.DB
}

func (s sqliteUsers) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	out := *u
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?,?,?,?,?)`,
		out.ID, out.Name, out.Email, out.PasswordHash, out.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &out, nil
}

func (s sqliteUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email=?`, email)
	return scanUser(row)
}

func (s sqliteUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func (s sqliteUsers) Update(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name=?, password_hash=? WHERE id=?`, u.Name, u.PasswordHash, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanUser converts a *sql.Row into a domain.User.
func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var created string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

/* ------------------------------- posts --------------------------------- */

type sqlitePosts struct {
	db *sql.DB
}

func (s sqlitePosts) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	out := *p
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, body, created_at) VALUES (?,?,?,?,?)`,
		out.ID, out.UserID, out.Title, out.Body, out.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &out, nil
}

func (s sqlitePosts) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, body, created_at FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		var created string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = mustParse(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s sqlitePosts) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, body, created_at FROM posts WHERE id=?`, id)
	var p domain.Post
	var created string
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = mustParse(created)
	return &p, nil
}

/* ------------------------------ helpers -------------------------------- */

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
