package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"mascota-mockups/models"
)

const mockupsSchema = `
	CREATE TABLE IF NOT EXISTS mockups (
		id            TEXT PRIMARY KEY,
		design_hash   TEXT NOT NULL,
		template_id   TEXT NOT NULL,
		format        TEXT NOT NULL,
		storage_path  TEXT NOT NULL,
		public_url    TEXT NOT NULL,
		width         INTEGER NOT NULL,
		height        INTEGER NOT NULL,
		size_bytes    BIGINT NOT NULL,
		placeholder   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS mockups_design_hash_idx ON mockups (design_hash);
`

// PostgresMockupRepository stores mockup records in Postgres
// Implements MockupRepositoryInterface
type PostgresMockupRepository struct {
	db *sql.DB
}

// NewPostgresMockupRepository creates a repository on an open connection
func NewPostgresMockupRepository(db *sql.DB) *PostgresMockupRepository {
	return &PostgresMockupRepository{db: db}
}

// Ensure PostgresMockupRepository implements MockupRepositoryInterface
var _ MockupRepositoryInterface = (*PostgresMockupRepository)(nil)

// EnsureSchema creates the mockups table when it does not exist
func (r *PostgresMockupRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, mockupsSchema); err != nil {
		return fmt.Errorf("failed to create mockups table: %w", err)
	}
	return nil
}

// Insert inserts a mockup record
func (r *PostgresMockupRepository) Insert(ctx context.Context, record *models.MockupRecord) error {
	log.Printf("💾 Repository.Insert called for mockup %s (template %s)", record.ID, record.TemplateID)

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO mockups (
			id, design_hash, template_id, format, storage_path, public_url,
			width, height, size_bytes, placeholder, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.DesignHash,
		record.TemplateID,
		string(record.Format),
		record.StoragePath,
		record.PublicURL,
		record.Width,
		record.Height,
		record.SizeBytes,
		record.Placeholder,
		record.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ Database INSERT error for mockup %s: %v", record.ID, err)
		return fmt.Errorf("failed to insert mockup: %w", err)
	}

	log.Printf("💾 Database: Successfully inserted mockup %s", record.ID)
	return nil
}

const selectMockup = `
	SELECT id, design_hash, template_id, format, storage_path, public_url,
	       width, height, size_bytes, placeholder, created_at
	FROM mockups
`

// GetByID retrieves a mockup record by id
func (r *PostgresMockupRepository) GetByID(ctx context.Context, id string) (*models.MockupRecord, error) {
	row := r.db.QueryRowContext(ctx, selectMockup+` WHERE id = $1`, id)

	record, err := scanMockup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMockupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mockup: %w", err)
	}
	return record, nil
}

// ListByDesignHash returns every mockup rendered from a design, newest first
func (r *PostgresMockupRepository) ListByDesignHash(ctx context.Context, designHash string) ([]models.MockupRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectMockup+` WHERE design_hash = $1 ORDER BY created_at DESC`, designHash)
	if err != nil {
		return nil, fmt.Errorf("failed to list mockups: %w", err)
	}
	defer rows.Close()

	records := []models.MockupRecord{}
	for rows.Next() {
		record, err := scanMockup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mockup: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Delete removes a mockup record
func (r *PostgresMockupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mockups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mockup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("⚠️  Warning: Could not get rows affected: %v", err)
		return nil
	}
	if rowsAffected == 0 {
		return ErrMockupNotFound
	}

	log.Printf("🗑️ Database: Deleted mockup %s", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMockup(row rowScanner) (*models.MockupRecord, error) {
	var record models.MockupRecord
	var format string
	err := row.Scan(
		&record.ID,
		&record.DesignHash,
		&record.TemplateID,
		&format,
		&record.StoragePath,
		&record.PublicURL,
		&record.Width,
		&record.Height,
		&record.SizeBytes,
		&record.Placeholder,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Format = models.RenderFormat(format)
	return &record, nil
}
