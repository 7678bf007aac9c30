package repository

import (
	"context"
	"errors"

	"mascota-mockups/models"
)

// ErrMockupNotFound is returned when no record matches the requested id
var ErrMockupNotFound = errors.New("mockup not found")

// MockupRepositoryInterface defines the contract for mockup record operations
type MockupRepositoryInterface interface {
	Insert(ctx context.Context, record *models.MockupRecord) error
	GetByID(ctx context.Context, id string) (*models.MockupRecord, error)
	ListByDesignHash(ctx context.Context, designHash string) ([]models.MockupRecord, error)
	Delete(ctx context.Context, id string) error
}
