package models

import "time"

// RenderFormat is the encoding of a rendered mockup
type RenderFormat string

const (
	FormatPNG  RenderFormat = "png"
	FormatJPEG RenderFormat = "jpeg"
	FormatWebP RenderFormat = "webp"
)

// ContentType returns the MIME type of the format
func (f RenderFormat) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// MockupRecord is a stored mockup generated for a design
type MockupRecord struct {
	ID          string       `json:"id"`
	DesignHash  string       `json:"designHash"`
	TemplateID  string       `json:"templateId"`
	Format      RenderFormat `json:"format"`
	StoragePath string       `json:"storagePath"`
	PublicURL   string       `json:"publicUrl"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	SizeBytes   int64        `json:"sizeBytes"`
	Placeholder bool         `json:"placeholder"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// RenderMockupRequest is the body of POST /mockups/render
type RenderMockupRequest struct {
	DesignURL    string       `json:"designUrl"`
	DesignBase64 string       `json:"designBase64"`
	TemplateID   string       `json:"templateId"`
	Format       RenderFormat `json:"format"`
	Quality      int          `json:"quality"`
	Thumb        int          `json:"thumb"`
	Store        bool         `json:"store"`
}

// BatchMockupRequest is the body of POST /mockups/batch and of the websocket stream
type BatchMockupRequest struct {
	DesignURL    string       `json:"designUrl"`
	DesignBase64 string       `json:"designBase64"`
	TemplateIDs  []string     `json:"templateIds"`
	StyleID      string       `json:"styleId"`
	Format       RenderFormat `json:"format"`
	Quality      int          `json:"quality"`
	Thumb        int          `json:"thumb"`
}

// BatchMockupItem is one template result in a batch response
type BatchMockupItem struct {
	TemplateID  string `json:"templateId"`
	DataURL     string `json:"dataUrl,omitempty"`
	Placeholder bool   `json:"placeholder"`
	Cached      bool   `json:"cached"`
	Error       string `json:"error,omitempty"`
	ErrorKind   string `json:"errorKind,omitempty"`
}

// BatchMockupResponse is the body returned by POST /mockups/batch
type BatchMockupResponse struct {
	DesignHash string            `json:"designHash"`
	Items      []BatchMockupItem `json:"items"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
}

// StoredMockupResponse is returned by POST /mockups/render when store=true
type StoredMockupResponse struct {
	Record      *MockupRecord `json:"record"`
	Placeholder bool          `json:"placeholder"`
	Cached      bool          `json:"cached"`
}

// Batch item error kinds
const (
	ErrorKindTemplateAsset    = "template_asset"
	ErrorKindSpriteInvalid    = "sprite_invalid"
	ErrorKindEmptySprite      = "empty_sprite"
	ErrorKindTemplateNotFound = "template_not_found"
	ErrorKindRenderFailed     = "render_failed"
)
