package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSlots stores slots as rows of the local_slots table.
type PGSlots struct {
	db *pgxpool.Pool
}

// NewPGSlots returns a Postgres slot backend. Call EnsureSchema before use.
func NewPGSlots(db *pgxpool.Pool) *PGSlots {
	return &PGSlots{db: db}
}

// EnsureSchema creates the slot table if missing.
func (p *PGSlots) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS local_slots (
			name       TEXT PRIMARY KEY,
			payload    BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create local_slots: %w", err)
	}
	return nil
}

// Load reads the slot payload.
func (p *PGSlots) Load(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRow(ctx, `SELECT payload FROM local_slots WHERE name = $1`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	return payload, nil
}

// Store upserts the slot payload.
func (p *PGSlots) Store(ctx context.Context, slot string, data []byte) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO local_slots (name, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()
	`, slot, data)
	if err != nil {
		return fmt.Errorf("store slot %s: %w", slot, err)
	}
	return nil
}

// Remove deletes the given slots.
func (p *PGSlots) Remove(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	if _, err := p.db.Exec(ctx, `DELETE FROM local_slots WHERE name = ANY($1)`, slots); err != nil {
		return fmt.Errorf("remove slots: %w", err)
	}
	return nil
}

// Close releases the pool.
func (p *PGSlots) Close() error {
	p.db.Close()
	return nil
}

var _ SlotBackend = (*PGSlots)(nil)
