package store

import (
	"context"
	"database/sql"
	"encoding/json"
)

// Postgres persiste os registros em uma tabela chave/valor (JSONB).
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria a tabela de registros caso não exista
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_records (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (p *Postgres) Load(ctx context.Context, key string, dst any) (bool, error) {
	var b []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM session_records WHERE key=$1`, key).Scan(&b)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Postgres) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO session_records(key, value, updated_at) VALUES($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, b)
	return err
}
