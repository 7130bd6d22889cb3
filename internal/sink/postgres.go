package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	dbconfig "github.com/tknemuru/kindergarten-collecting/internal/config/database"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 5
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 2
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the default timeout for ping operations
	DefaultPingTimeout = 5 * time.Second
)

// NewPostgresConnection creates a new PostgreSQL database connection.
func NewPostgresConnection(cfg dbconfig.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}

// Postgres stores records as JSONB rows keyed by run id and position.
type Postgres struct {
	db    *sqlx.DB
	table string
}

// NewPostgres creates a Postgres sink writing to table. The table name must
// already be validated as a plain identifier.
func NewPostgres(db *sqlx.DB, table string) *Postgres {
	return &Postgres{db: db, table: table}
}

// Name implements Sink.
func (p *Postgres) Name() string {
	return "postgres"
}

// EnsureTable creates the records table if it does not exist.
func (p *Postgres) EnsureTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + p.table + ` (
		run_id       TEXT        NOT NULL,
		position     INTEGER     NOT NULL,
		kinder_name  TEXT        NOT NULL,
		fields       JSONB       NOT NULL,
		collected_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, position)
	)`

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", p.table, err)
	}
	return nil
}

// Write inserts every record of the batch in one transaction. Re-running a
// batch with the same run id replaces its rows.
func (p *Postgres) Write(ctx context.Context, batch Batch) (err error) {
	query := `INSERT INTO ` + p.table + ` (run_id, position, kinder_name, fields, collected_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id, position) DO UPDATE
		SET kinder_name = EXCLUDED.kinder_name, fields = EXCLUDED.fields, collected_at = EXCLUDED.collected_at`

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, doc := range batch.Documents() {
		fields, marshalErr := json.Marshal(doc.Fields)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal record %d: %w", doc.Position, marshalErr)
		}
		if _, err = tx.ExecContext(ctx, query, doc.RunID, doc.Position, doc.Name, fields, doc.CollectedAt); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", doc.Position, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}
