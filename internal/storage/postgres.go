package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-alerts/internal/config"
)

const (
	createDocumentsTableSQL = `CREATE TABLE IF NOT EXISTS documents (
        namespace  TEXT NOT NULL,
        key        TEXT NOT NULL,
        body       BYTEA NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (namespace, key)
    );`

	readDocumentSQL = `SELECT body FROM documents
    WHERE namespace = $1 AND key = $2;`

	upsertDocumentSQL = `INSERT INTO documents (namespace, key, body, updated_at)
    VALUES ($1, $2, $3, now())
    ON CONFLICT (namespace, key) DO UPDATE
    SET body = EXCLUDED.body,
        updated_at = now();`
)

// NewPool configures a PostgreSQL connection pool from runtime settings.
func NewPool(ctx context.Context, cfg config.RemoteConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.remote.dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return pool, nil
}

// PostgresBackend stores documents in a PostgreSQL table, sealed with
// AES-256-GCM per body. Documents are namespaced per user.
type PostgresBackend struct {
	pool      *pgxpool.Pool
	box       *cipherBox
	namespace string
}

// NewPostgresBackend wires a pgx pool into an encrypted document backend.
func NewPostgresBackend(ctx context.Context, pool *pgxpool.Pool, cfg config.RemoteConfig) (*PostgresBackend, error) {
	box, err := newCipherBox(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "default"
	}

	if _, err := pool.Exec(ctx, createDocumentsTableSQL); err != nil {
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}

	return &PostgresBackend{pool: pool, box: box, namespace: namespace}, nil
}

// Close releases the underlying pool resources.
func (b *PostgresBackend) Close() {
	if b == nil || b.pool == nil {
		return
	}
	b.pool.Close()
}

// Read loads and opens the document for key. An undecryptable body is treated
// as absent rather than fatal.
func (b *PostgresBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	pool, err := b.getPool()
	if err != nil {
		return nil, false, err
	}

	var sealed []byte
	if err := pool.QueryRow(ctx, readDocumentSQL, b.namespace, key).Scan(&sealed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read document %q: %w", key, err)
	}

	body, err := b.box.open(sealed)
	if err != nil {
		return nil, false, nil
	}
	return body, true, nil
}

// Write seals and upserts the document for key.
func (b *PostgresBackend) Write(ctx context.Context, key string, body []byte) error {
	pool, err := b.getPool()
	if err != nil {
		return err
	}

	sealed, err := b.box.seal(body)
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, upsertDocumentSQL, b.namespace, key, sealed); err != nil {
		return fmt.Errorf("upsert document %q: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) getPool() (*pgxpool.Pool, error) {
	if b == nil || b.pool == nil {
		return nil, ErrNotConfigured
	}
	return b.pool, nil
}

var _ Backend = (*PostgresBackend)(nil)
