package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"tracker/internal/models"
	"tracker/internal/query"
	"tracker/internal/storage"
)

// driverName is go-sqlite3 with fold() registered on every connection.
// fold lowercases by Unicode rules; the built-in lower() folds ASCII only.
const driverName = "sqlite3_tracker"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// Store keeps each collection as a table of JSON documents.
type Store struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

var _ storage.Store = (*Store)(nil)

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger logrus.FieldLogger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open(driverName, fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger.WithField("store", "sqlite")}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s.logger.WithField("path", dbPath).Info("sqlite store ready")
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	var stmts []string
	for _, c := range storage.Collections {
		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id TEXT PRIMARY KEY,
            doc TEXT NOT NULL CHECK (json_valid(doc))
        );`, c))
	}
	stmts = append(stmts,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(json_extract(doc, '$.status'));`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(json_extract(doc, '$.assigned_to'));`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(json_extract(doc, '$.project_id'));`,
		`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(json_extract(doc, '$.status'));`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(json_extract(doc, '$.email'));`,
		`CREATE INDEX IF NOT EXISTS idx_users_name ON users(json_extract(doc, '$.name'));`,
	)

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", translate(err))
		}
	}
	return nil
}

// FindMany decodes all matching documents into out, a pointer to a slice.
func (s *Store) FindMany(ctx context.Context, c storage.Collection, f query.Filter, out any) error {
	table, err := tableName(c)
	if err != nil {
		return err
	}
	where, args, err := compileWhere(f.Conditions)
	if err != nil {
		return err
	}
	order, err := compileOrder(f.Sort)
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT doc FROM "+table+where+order, args...)
	if err != nil {
		return fmt.Errorf("find %s: %w", c, translate(err))
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("scan %s: %w", c, translate(err))
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("find %s: %w", c, translate(err))
	}

	if err := json.Unmarshal([]byte("["+strings.Join(docs, ",")+"]"), out); err != nil {
		return fmt.Errorf("decode %s: %w", c, err)
	}
	return nil
}

// FindByID decodes a single document into out.
func (s *Store) FindByID(ctx context.Context, c storage.Collection, id string, out any) error {
	table, err := tableName(c)
	if err != nil {
		return err
	}

	var doc string
	err = s.db.QueryRowContext(ctx, `SELECT doc FROM `+table+` WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", c, id, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", c, translate(err))
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decode %s: %w", c, err)
	}
	return nil
}

// Insert stores doc under id.
func (s *Store) Insert(ctx context.Context, c storage.Collection, id string, doc any) error {
	table, err := tableName(c)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO `+table+`(id, doc) VALUES(?, ?)`, id, string(data)); err != nil {
		return fmt.Errorf("insert %s: %w", c, translate(err))
	}
	return nil
}

// UpdateByID replaces the given top-level fields and removes those mapped to nil.
func (s *Store) UpdateByID(ctx context.Context, c storage.Collection, id string, fields map[string]any) error {
	table, err := tableName(c)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	expr := "doc"
	var args []any
	var removed []string
	for _, k := range keys {
		path, err := jsonPath(k)
		if err != nil {
			return err
		}
		if fields[k] == nil {
			removed = append(removed, path)
			continue
		}
		data, err := json.Marshal(fields[k])
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", c, k, err)
		}
		expr = fmt.Sprintf("json_set(%s, %s, json(?))", expr, path)
		args = append(args, string(data))
	}
	if len(removed) > 0 {
		expr = fmt.Sprintf("json_remove(%s, %s)", expr, strings.Join(removed, ", "))
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE `+table+` SET doc = `+expr+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", c, translate(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", c, id, models.ErrNotFound)
	}
	return nil
}

// DeleteByID removes a document by id.
func (s *Store) DeleteByID(ctx context.Context, c storage.Collection, id string) error {
	table, err := tableName(c)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c, translate(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", c, id, models.ErrNotFound)
	}
	return nil
}

// Distinct returns the distinct non-null values of a top-level field.
func (s *Store) Distinct(ctx context.Context, c storage.Collection, field string) ([]string, error) {
	table, err := tableName(c)
	if err != nil {
		return nil, err
	}
	path, err := jsonPath(field)
	if err != nil {
		return nil, err
	}
	extract := "json_extract(doc, " + path + ")"

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT `+extract+` FROM `+table+` WHERE `+extract+` IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", c, field, translate(err))
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct: %w", translate(err))
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Count returns the number of documents matching f.
func (s *Store) Count(ctx context.Context, c storage.Collection, f query.Filter) (int64, error) {
	table, err := tableName(c)
	if err != nil {
		return 0, err
	}
	where, args, err := compileWhere(f.Conditions)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c, translate(err))
	}
	return n, nil
}

// Ping checks that the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", translate(err))
	}
	return nil
}

func tableName(c storage.Collection) (string, error) {
	for _, known := range storage.Collections {
		if c == known {
			return string(c), nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", c)
}
