package store

import (
    "context"
    "crypto/sha256"
    "database/sql"
    "encoding/hex"
    "errors"
    "time"

    _ "github.com/jackc/pgx/v5/stdlib"
)

// Store archives raw provider payloads for audit and replay. It sits behind
// the gateway as a best-effort write-behind; the serving path never waits on it.
type Store struct { DB *sql.DB }

func Open(dsn string) (*Store, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil { return nil, err }
    db.SetMaxOpenConns(10)
    db.SetMaxIdleConns(5)
    db.SetConnMaxLifetime(30 * time.Minute)
    return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
    stmts := []string{
        `CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
        `CREATE TABLE IF NOT EXISTS provider_raw_snapshots (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            provider       TEXT NOT NULL,
            request_url    TEXT NOT NULL,
            payload        JSONB NOT NULL,
            payload_sha256 TEXT NOT NULL,
            fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
        `CREATE INDEX IF NOT EXISTS idx_snapshots_provider ON provider_raw_snapshots(provider, fetched_at DESC);`,
        `CREATE INDEX IF NOT EXISTS idx_snapshots_sha ON provider_raw_snapshots(provider, payload_sha256);`,
    }
    for _, q := range stmts {
        if _, err := s.DB.ExecContext(ctx, q); err != nil { return err }
    }
    return nil
}

func (s *Store) WriteSnapshot(ctx context.Context, provider, requestURL string, payload []byte) error {
    if s.DB == nil { return errors.New("nil db") }
    sum := sha256.Sum256(payload)
    _, err := s.DB.ExecContext(ctx, `
        INSERT INTO provider_raw_snapshots (provider, request_url, payload, payload_sha256)
        VALUES ($1,$2,$3,$4)`,
        provider, requestURL, string(payload), hex.EncodeToString(sum[:]),
    )
    return err
}
