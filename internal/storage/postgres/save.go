package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/game7/internal/game/snapshot"
)

// ErrSaveNotFound is returned when a save lookup yields no results.
var ErrSaveNotFound = errors.New("save not found")

// MaxSaveNameLen bounds the length of a save name.
const MaxSaveNameLen = 64

// Save is one stored snapshot.
type Save struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Snapshot  snapshot.Snapshot `json:"snapshot"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SaveSummary is the listing view of a Save.
type SaveSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Stage     int       `json:"stage"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveRepository provides save-slot persistence operations.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Create stores snap under a fresh id.
//
// Precondition: name must be non-empty after trimming and at most MaxSaveNameLen bytes.
// Postcondition: Returns the stored Save with ID and timestamps set.
func (r *SaveRepository) Create(ctx context.Context, name string, snap snapshot.Snapshot) (*Save, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxSaveNameLen {
		return nil, fmt.Errorf("save name must be 1-%d bytes, got %d", MaxSaveNameLen, len(name))
	}
	out := Save{ID: uuid.New(), Name: name, Snapshot: snap}
	err := r.db.QueryRow(ctx, `
		INSERT INTO saves (id, name, snapshot)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		out.ID, out.Name, snap,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting save: %w", err)
	}
	return &out, nil
}

// Get returns the save with id.
//
// Postcondition: Returns ErrSaveNotFound when no such save exists.
func (r *SaveRepository) Get(ctx context.Context, id uuid.UUID) (*Save, error) {
	var out Save
	err := r.db.QueryRow(ctx, `
		SELECT id, name, snapshot, created_at, updated_at
		FROM saves WHERE id = $1`,
		id,
	).Scan(&out.ID, &out.Name, &out.Snapshot, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("querying save: %w", err)
	}
	return &out, nil
}

// Update replaces the snapshot stored under id.
//
// Postcondition: Returns ErrSaveNotFound when no such save exists.
func (r *SaveRepository) Update(ctx context.Context, id uuid.UUID, snap snapshot.Snapshot) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE saves SET snapshot = $2, updated_at = NOW() WHERE id = $1`,
		id, snap,
	)
	if err != nil {
		return fmt.Errorf("updating save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}

// List returns every save, most recently updated first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) List(ctx context.Context) ([]SaveSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE((snapshot->>'stage')::int, 0), updated_at
		FROM saves ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	out := []SaveSummary{}
	for rows.Next() {
		var s SaveSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Stage, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning save: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves: %w", err)
	}
	return out, nil
}

// Delete removes the save with id.
//
// Postcondition: Returns ErrSaveNotFound when no such save exists.
func (r *SaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaveNotFound
	}
	return nil
}
