package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var (
	ErrDriverUnsupported = errors.New("storage: driver must be sqlite3 or postgres")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded schema migrations.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Config selects the database to open.
type Config struct {
	Driver       string `json:"driver" yaml:"driver" mapstructure:"driver"`
	DSN          string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns" mapstructure:"max_open_conns"`
}

// Open connects to the configured database and wraps it with the matching
// bun dialect. sqlite connections default to a single open connection.
func Open(cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var dialect schema.Dialect
	switch driver {
	case DriverSQLite, "sqlite":
		driver = DriverSQLite
		dialect = sqlitedialect.New()
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 1
		}
	case DriverPostgres, "pg", "postgresql":
		driver = DriverPostgres
		dialect = pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return bun.NewDB(sqlDB, dialect), nil
}

type migrationRecord struct {
	bun.BaseModel `bun:"table:breadcrumb_migrations"`

	Name      string    `bun:"name,pk"`
	AppliedAt time.Time `bun:"applied_at,notnull"`
}

// Migrate applies the embedded migrations that have not run yet, each in its
// own transaction, and returns the names it applied.
func Migrate(ctx context.Context, db *bun.DB) ([]string, error) {
	if db == nil {
		return nil, errors.New("storage: database is required")
	}
	if _, err := db.NewCreateTable().Model((*migrationRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("storage: create migrations table: %w", err)
	}

	var records []migrationRecord
	if err := db.NewSelect().Model(&records).Scan(ctx); err != nil {
		return nil, fmt.Errorf("storage: list migrations: %w", err)
	}
	done := make(map[string]bool, len(records))
	for _, record := range records {
		done[record.Name] = true
	}

	source := MigrationsFS()
	names, err := fs.Glob(source, "*.sql")
	if err != nil {
		return nil, err
	}
	slices.Sort(names)

	var applied []string
	for _, name := range names {
		if done[name] {
			continue
		}
		raw, err := fs.ReadFile(source, name)
		if err != nil {
			return applied, err
		}
		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range statements(string(raw)) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.NewInsert().Model(&migrationRecord{Name: name, AppliedAt: time.Now().UTC()}).Exec(ctx)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("storage: apply %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}

func statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
