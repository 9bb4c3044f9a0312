package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

var (
	ErrURLRequired       = errors.New("featuregate database: connection url is required")
	ErrSchemeUnsupported = errors.New("featuregate database: url scheme is not supported")
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Opener connects to the database named by rawURL.
type Opener func(ctx context.Context, rawURL string) (*bun.DB, error)

type target struct {
	driver  string
	dsn     string
	dialect string
}

// Open connects with the driver matching the url scheme:
// postgres:// and postgresql:// use lib/pq, sqlite:// and file: use
// go-sqlite3. The connection is pinged before it is returned.
func Open(ctx context.Context, rawURL string) (*bun.DB, error) {
	t, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(t.driver, t.dsn)
	if err != nil {
		return nil, fmt.Errorf("featuregate database: open %s: %w", t.dialect, err)
	}

	var dialect schema.Dialect
	switch t.dialect {
	case DialectPostgres:
		dialect = pgdialect.New()
	default:
		dialect = sqlitedialect.New()
		sqlDB.SetMaxOpenConns(1)
	}

	db := bun.NewDB(sqlDB, dialect)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("featuregate database: ping %s: %w", t.dialect, err)
	}
	return db, nil
}

// DialectOf reports the dialect Open would use for rawURL.
func DialectOf(rawURL string) (string, error) {
	t, err := parseURL(rawURL)
	if err != nil {
		return "", err
	}
	return t.dialect, nil
}

func parseURL(rawURL string) (target, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return target{}, ErrURLRequired
	}

	if strings.HasPrefix(raw, "file:") {
		return target{driver: "sqlite3", dsn: raw, dialect: DialectSQLite}, nil
	}
	if rest, ok := strings.CutPrefix(raw, "sqlite://"); ok {
		switch rest {
		case "", ":memory:":
			rest = "file::memory:?cache=shared"
		}
		return target{driver: "sqlite3", dsn: rest, dialect: DialectSQLite}, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return target{}, fmt.Errorf("%w: %v", ErrSchemeUnsupported, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "postgres", "postgresql":
		return target{driver: "postgres", dsn: raw, dialect: DialectPostgres}, nil
	default:
		return target{}, fmt.Errorf("%w: %q", ErrSchemeUnsupported, parsed.Scheme)
	}
}
