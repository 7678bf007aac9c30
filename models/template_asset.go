package models

// TemplateAsset is a product photo available in a Drive folder that can be
// referenced from a template's backgroundImage as drive://<DriveFileID>
type TemplateAsset struct {
	DriveFileID string `json:"driveFileId"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
	Ref         string `json:"ref"`
	ImageURL    string `json:"imageUrl"`
}
