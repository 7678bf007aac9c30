package service

import (
	"context"

	"mascota-mockups/models"
)

// MockupServiceInterface defines the contract for rendering and storing mockups
type MockupServiceInterface interface {
	ResolveDesign(ctx context.Context, designURL, designBase64 string) ([]byte, error)
	Render(ctx context.Context, design []byte, templateID string, opts RenderOptions) (*RenderResult, error)
	RenderBatch(ctx context.Context, design []byte, templateIDs []string, opts RenderOptions, progress func(index int, item models.BatchMockupItem)) (*models.BatchMockupResponse, error)
	TemplateIDsForStyle(styleID string) ([]string, error)
	GetRecord(ctx context.Context, id string) (*models.MockupRecord, error)
	ListRecords(ctx context.Context, designHash string) ([]models.MockupRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}
