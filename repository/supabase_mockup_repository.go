package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/supabase-community/supabase-go"

	"mascota-mockups/models"
)

const mockupsTable = "mockups"

// supabaseMockupRow is the table layout of a mockup record
type supabaseMockupRow struct {
	ID          string    `json:"id"`
	DesignHash  string    `json:"design_hash"`
	TemplateID  string    `json:"template_id"`
	Format      string    `json:"format"`
	StoragePath string    `json:"storage_path"`
	PublicURL   string    `json:"public_url"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	SizeBytes   int64     `json:"size_bytes"`
	Placeholder bool      `json:"placeholder"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRow(r *models.MockupRecord) supabaseMockupRow {
	return supabaseMockupRow{
		ID:          r.ID,
		DesignHash:  r.DesignHash,
		TemplateID:  r.TemplateID,
		Format:      string(r.Format),
		StoragePath: r.StoragePath,
		PublicURL:   r.PublicURL,
		Width:       r.Width,
		Height:      r.Height,
		SizeBytes:   r.SizeBytes,
		Placeholder: r.Placeholder,
		CreatedAt:   r.CreatedAt,
	}
}

func (row supabaseMockupRow) record() models.MockupRecord {
	return models.MockupRecord{
		ID:          row.ID,
		DesignHash:  row.DesignHash,
		TemplateID:  row.TemplateID,
		Format:      models.RenderFormat(row.Format),
		StoragePath: row.StoragePath,
		PublicURL:   row.PublicURL,
		Width:       row.Width,
		Height:      row.Height,
		SizeBytes:   row.SizeBytes,
		Placeholder: row.Placeholder,
		CreatedAt:   row.CreatedAt,
	}
}

// SupabaseMockupRepository stores mockup records in a Supabase table
// Implements MockupRepositoryInterface
type SupabaseMockupRepository struct {
	client *supabase.Client
}

// Ensure SupabaseMockupRepository implements MockupRepositoryInterface
var _ MockupRepositoryInterface = (*SupabaseMockupRepository)(nil)

// NewSupabaseMockupRepository creates a Supabase client for the project
func NewSupabaseMockupRepository(url, serviceKey string) (*SupabaseMockupRepository, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseMockupRepository{client: client}, nil
}

// Insert inserts a mockup record
func (r *SupabaseMockupRepository) Insert(_ context.Context, record *models.MockupRecord) error {
	log.Printf("💾 Supabase: inserting mockup %s (template %s)", record.ID, record.TemplateID)

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, _, err := r.client.From(mockupsTable).
		Insert(toRow(record), false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert mockup: %w", err)
	}

	log.Printf("✅ Supabase: mockup %s inserted", record.ID)
	return nil
}

// GetByID retrieves a mockup record by id
func (r *SupabaseMockupRepository) GetByID(_ context.Context, id string) (*models.MockupRecord, error) {
	log.Printf("🔍 Supabase: fetching mockup %s", id)

	data, _, err := r.client.From(mockupsTable).
		Select("*", "exact", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query mockups: %w", err)
	}

	var rows []supabaseMockupRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrMockupNotFound
	}

	record := rows[0].record()
	return &record, nil
}

// ListByDesignHash returns every mockup rendered from a design, newest first
func (r *SupabaseMockupRepository) ListByDesignHash(_ context.Context, designHash string) ([]models.MockupRecord, error) {
	data, _, err := r.client.From(mockupsTable).
		Select("*", "exact", false).
		Eq("design_hash", designHash).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query mockups: %w", err)
	}

	var rows []supabaseMockupRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	records := make([]models.MockupRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	sortNewestFirst(records)
	return records, nil
}

// Delete removes a mockup record
func (r *SupabaseMockupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	_, _, err := r.client.From(mockupsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete mockup: %w", err)
	}

	log.Printf("🗑️ Supabase: mockup %s deleted", id)
	return nil
}
