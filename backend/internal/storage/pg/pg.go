// Package pg implements the storage contract on PostgreSQL through
// database/sql and lib/pq.
//
// Every Session pins one pooled connection (*sql.Conn) for its lifetime, so
// the transaction started by BeginTransaction and all repository calls of that
// Session run on the same connection. Closing the Session returns the
// connection to the pool.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nforum-dev/nforum/backend/internal/storage"
	"github.com/nforum-dev/nforum/shared/config"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/logger"

	_ "github.com/lib/pq" // Registers the PostgreSQL driver
)

// Querier is satisfied by both *sql.Conn and *sql.Tx, so repository code does
// not care whether a transaction is open.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int           // Maximum number of open connections to the database
	MaxIdleConns    int           // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration // Maximum amount of time a connection may be reused
	ConnMaxIdleTime time.Duration // Maximum amount of time a connection may be idle
}

// DefaultConnectionConfig returns sensible defaults for connection pooling.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// LightweightConnectionConfig suits one-shot tools like the admin CLI.
func LightweightConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

type Storage struct {
	db     *sql.DB
	tables config.Tables
}

var _ storage.Opener = (*Storage)(nil)

func New(cfg *config.Config, connCfg ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Public.Pg.Host, "dbname", cfg.Public.Pg.Dbname)
	db, err := Connect(cfg, connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db, tables: cfg.Public.Tables}, nil
}

// Connect establishes and verifies a connection to the PostgreSQL database.
func Connect(cfg *config.Config, connCfg ConnectionConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Public.Pg.Host, cfg.Public.Pg.Port,
		cfg.Public.Pg.User, cfg.Private.PgPassword,
		cfg.Public.Pg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (s *Storage) Open(ctx context.Context) (*storage.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	uow := &UnitOfWork{conn: conn}
	return &storage.Session{
		UnitOfWork: uow,
		Repositories: storage.Repositories{
			Categories: newRepository[domain.Category](uow, s.tables.Name(categoryMapping.entity), categoryMapping),
			Forums:     newRepository[domain.Forum](uow, s.tables.Name(forumMapping.entity), forumMapping),
			Topics:     newRepository[domain.Topic](uow, s.tables.Name(topicMapping.entity), topicMapping),
			Replies:    newRepository[domain.Reply](uow, s.tables.Name(replyMapping.entity), replyMapping),
			Users:      newRepository[domain.ForumUser](uow, s.tables.Name(userMapping.entity), userMapping),
		},
	}, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// WithTx executes fn within a database transaction on the pool. It is used
// for schema work that does not go through a Session.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if transaction is already committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
