// Package store persists draw records to a relational table in SQLite,
// Postgres or MySQL, one transaction per group of records.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/darianmavgo/megasena/draw"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table draws are appended to.
const DefaultTable = "draws"

// Store appends draw records to one table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
	insert  string
}

// Open connects to the database named by dsn and checks the connection.
func Open(ctx context.Context, dsn *DSN, table string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", dsn.Redacted(), err)
	}

	s, err := New(db, dsn.Dialect(), table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openDB(dsn *DSN) (*sql.DB, error) {
	switch dsn.Dialect() {
	case Postgres:
		cfg, err := pgx.ParseConfig(dsn.URL().String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse postgres config: %w", err)
		}
		return stdlib.OpenDB(*cfg), nil

	case MySQL:
		cfg, err := mysqlConfig(dsn)
		if err != nil {
			return nil, err
		}
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure mysql: %w", err)
		}
		return sql.OpenDB(connector), nil

	default:
		db, err := sql.Open("sqlite", sqlitePath(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// Limit to 1 connection to avoid locking issues
		db.SetMaxOpenConns(1)
		return db, nil
	}
}

// sqlitePath is the name handed to the sqlite driver. Query parameters such
// as _pragma or _txlock are kept for the driver to apply.
func sqlitePath(dsn *DSN) string {
	if len(dsn.Params) == 0 {
		return dsn.Database
	}
	return dsn.Database + "?" + dsn.Params.Encode()
}

// mysqlConfig builds the driver config through mysql.ParseDSN, so driver
// options like tls, charset or timeout land in their own fields. Only keys
// the driver does not know are left in Params, where they become session
// variables. The ssl option of mysql2 URLs is mapped onto tls.
func mysqlConfig(dsn *DSN) (*mysql.Config, error) {
	params := url.Values{}
	for k, v := range dsn.Params {
		params[k] = v
	}
	if params.Has("ssl") {
		ssl := params.Get("ssl")
		params.Del("ssl")
		if !params.Has("tls") {
			params.Set("tls", tlsFromSSL(ssl))
		}
	}
	params.Set("parseTime", "true")

	raw := fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		dsn.User, dsn.Password, dsn.Addr(), url.PathEscape(dsn.Database), mysqlQuery(params))
	cfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql options for %s: %w", dsn.Redacted(), err)
	}
	return cfg, nil
}

// tlsFromSSL maps a mysql2 ssl value, either a profile name or a JSON
// object, to a tls setting the driver understands.
func tlsFromSSL(v string) string {
	var opts struct {
		RejectUnauthorized *bool `json:"rejectUnauthorized"`
	}
	if err := json.Unmarshal([]byte(v), &opts); err == nil {
		if opts.RejectUnauthorized != nil && !*opts.RejectUnauthorized {
			return "skip-verify"
		}
		return "true"
	}
	switch strings.ToLower(v) {
	case "false", "0":
		return "false"
	}
	return "true"
}

// mysqlQuery encodes params for mysql.ParseDSN. Commas stay literal since
// the driver splits charset lists without unescaping them.
func mysqlQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		v := strings.ReplaceAll(url.QueryEscape(params.Get(k)), "%2C", ",")
		pairs = append(pairs, url.QueryEscape(k)+"="+v)
	}
	return strings.Join(pairs, "&")
}

// New wraps an open database handle.
func New(db *sql.DB, dialect Dialect, table string) (*Store, error) {
	name, err := TableName(table)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:      db,
		dialect: dialect,
		table:   name,
		insert:  GenInsertStmt(dialect, name),
	}, nil
}

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Table returns the normalized table name.
func (s *Store) Table() string { return s.table }

// EnsureTable creates the table when it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, GenCreateTableSQL(s.dialect, s.table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// InsertGroup inserts records in a single transaction. Either all of them
// are committed or none are.
func (s *Store) InsertGroup(ctx context.Context, records []draw.Record) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.insert)
		if err != nil {
			return fmt.Errorf("failed to prepare insert statement for table %s: %w", s.table, err)
		}
		defer stmt.Close()

		for _, r := range records {
			n := r.Numbers
			_, err := stmt.ExecContext(ctx,
				r.Contest, r.Date.Time(),
				n[0], n[1], n[2], n[3], n[4], n[5],
				r.Winners6, r.Prize,
			)
			if err != nil {
				return fmt.Errorf("failed to insert contest %d: %w", r.Contest, err)
			}
		}
		return nil
	})
}

// withTx runs fn in a transaction, rolling back if fn fails and committing
// otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of rows in the table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	q := "SELECT COUNT(*) FROM " + s.dialect.Quote(s.table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", s.table, err)
	}
	return n, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
