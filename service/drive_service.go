package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"mascota-mockups/models"
)

// DriveRefScheme prefixes template backgrounds stored in Google Drive
const DriveRefScheme = "drive://"

var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService from a Service Account JSON file
// path or, when credentialsJSON is set, from inline JSON
func NewDriveService(credentialsPath, credentialsJSON string) (*DriveService, error) {
	ctx := context.Background()

	var opt option.ClientOption
	if credentialsJSON != "" {
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	} else {
		opt = option.WithCredentialsFile(credentialsPath)
	}

	driveService, err := drive.NewService(ctx, opt, option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// ListTemplateAssets lists the product photos of a Google Drive folder
func (ds *DriveService) ListTemplateAssets(ctx context.Context, folderID string) ([]models.TemplateAsset, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken

		if pageToken == "" {
			break
		}
	}

	var assets []models.TemplateAsset
	for _, file := range allFiles {
		if !imageMimeTypes[strings.ToLower(file.MimeType)] {
			continue
		}
		assets = append(assets, models.TemplateAsset{
			DriveFileID: file.Id,
			FileName:    file.Name,
			MimeType:    file.MimeType,
			Ref:         DriveRefScheme + file.Id,
			ImageURL:    fmt.Sprintf("https://drive.google.com/uc?id=%s", file.Id),
		})
	}

	log.Printf("🔍 Drive: Found %d template photos in folder %s (%d files)", len(assets), folderID, len(allFiles))
	return assets, nil
}

// DownloadImage downloads the content of a Drive file
func (ds *DriveService) DownloadImage(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive file %s: %w", fileID, err)
	}

	log.Printf("📥 Drive: Downloaded %s (%d bytes)", fileID, len(data))
	return data, nil
}
