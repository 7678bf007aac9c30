package service

import (
	"context"

	"mascota-mockups/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListTemplateAssets(ctx context.Context, folderID string) ([]models.TemplateAsset, error)
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}
