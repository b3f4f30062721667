package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDSN is returned by DSNFromEnv when neither DATABASE_URL nor DB_HOST is set.
var ErrNoDSN = errors.New("no database connection configured: set DATABASE_URL or DB_HOST")

// DSNFromEnv builds a Postgres connection string from the environment.
// DATABASE_URL wins when set; otherwise DB_USER, DB_PASSWORD, DB_HOST,
// DB_PORT (default 5432) and DB_NAME are combined.
func DSNFromEnv() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return "", ErrNoDSN
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:     host + ":" + port,
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=disable",
	}
	return u.String(), nil
}

// Postgres counts and lists rows of a single table.
type Postgres struct {
	pool   *pgxpool.Pool
	table  string
	column string
}

// Open connects to dsn and returns a Postgres store for table. Items are
// labelled by column, or by the row's text form when column is empty.
// table may be schema-qualified ("public.items").
func Open(ctx context.Context, dsn, table, column string) (*Postgres, error) {
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("store: table name is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Postgres{pool: pool, table: table, column: column}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Count returns the number of rows in the table.
func (p *Postgres) Count(ctx context.Context) (int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, countQuery(p.table)).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting %s: %w", p.table, err)
	}
	return total, nil
}

// Items returns one page of rows rendered as text.
func (p *Postgres) Items(ctx context.Context, offset, limit int) ([]string, error) {
	rows, err := p.pool.Query(ctx, itemsQuery(p.table, p.column), max(0, limit), max(0, offset))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", p.table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", p.table, err)
	}
	return items, nil
}

// identifier quotes a possibly schema-qualified name.
func identifier(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

func countQuery(table string) string {
	return "SELECT count(*) FROM " + identifier(table)
}

// itemsQuery lists one page of labels. NULL labels read as "".
func itemsQuery(table, column string) string {
	label := "t::text"
	if column != "" {
		label = identifier(column) + "::text"
	}
	return "SELECT COALESCE(" + label + ", '') FROM " + identifier(table) + " AS t ORDER BY 1 LIMIT $1 OFFSET $2"
}
