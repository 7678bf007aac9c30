package controller

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"mascota-mockups/catalog"
	"mascota-mockups/models"
	"mascota-mockups/service"
)

// TemplateController handles HTTP requests for the template and product catalog
type TemplateController struct {
	catalog      *catalog.Catalog
	driveService service.DriveServiceInterface
}

// NewTemplateController creates a new TemplateController. driveService may be
// nil when Google Drive is not configured.
func NewTemplateController(cat *catalog.Catalog, driveService service.DriveServiceInterface) *TemplateController {
	return &TemplateController{
		catalog:      cat,
		driveService: driveService,
	}
}

// ListTemplates handles GET /templates?category=apparel
func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var templates []models.MockupTemplate
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		templates = c.catalog.TemplatesByCategory(models.TemplateCategory(strings.ToLower(category)))
	} else {
		templates = c.catalog.Templates()
	}
	if templates == nil {
		templates = []models.MockupTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /templates/{id}
func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	tmpl, ok := c.catalog.Template(id)
	if !ok {
		http.Error(w, fmt.Sprintf("Template not found: %s", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// ListCategories handles GET /catalog/categories
func (c *TemplateController) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.catalog.Categories())
}

// ListStyles handles GET /catalog/categories/{id}/styles
func (c *TemplateController) ListStyles(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := c.catalog.Category(id); !ok {
		http.Error(w, fmt.Sprintf("Category not found: %s", id), http.StatusNotFound)
		return
	}
	styles := c.catalog.StylesByProduct(id)
	if styles == nil {
		styles = []models.ProductStyle{}
	}
	writeJSON(w, http.StatusOK, styles)
}

// GetStyle handles GET /catalog/styles/{id}
// With ?heightCm= the response includes the recommended size for the pet,
// with ?size= the size matching that label ("Mini", "MN", "s")
func (c *TemplateController) GetStyle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	style, ok := c.catalog.Style(id)
	if !ok {
		http.Error(w, fmt.Sprintf("Style not found: %s", id), http.StatusNotFound)
		return
	}

	resp := struct {
		models.ProductStyle
		RecommendedSize *models.ProductSize `json:"recommendedSize,omitempty"`
		SelectedSize    *models.ProductSize `json:"selectedSize,omitempty"`
	}{ProductStyle: style}

	if label := r.URL.Query().Get("size"); label != "" {
		size, ok := c.catalog.SizeByLabel(style.ProductID, label)
		if !ok {
			http.Error(w, fmt.Sprintf("Size %s not available for style %s", label, id), http.StatusNotFound)
			return
		}
		resp.SelectedSize = &size
	}

	if raw := r.URL.Query().Get("heightCm"); raw != "" {
		height, err := strconv.ParseFloat(raw, 64)
		if err != nil || height <= 0 {
			http.Error(w, "heightCm must be a positive number", http.StatusBadRequest)
			return
		}
		if size, ok := c.catalog.RecommendSize(style.ProductID, height); ok {
			resp.RecommendedSize = &size
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListTemplateAssets handles GET /templates/assets?folderId=
// Lists the template photos stored in a Google Drive folder
func (c *TemplateController) ListTemplateAssets(w http.ResponseWriter, r *http.Request) {
	if c.driveService == nil {
		http.Error(w, "Google Drive is not configured", http.StatusServiceUnavailable)
		return
	}

	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))
	if folderID == "" {
		http.Error(w, "folderId query parameter is required", http.StatusBadRequest)
		return
	}

	assets, err := c.driveService.ListTemplateAssets(r.Context(), folderID)
	if err != nil {
		log.Printf("❌ ListTemplateAssets: %v", err)
		http.Error(w, fmt.Sprintf("Failed to list template assets: %v", err), http.StatusBadGateway)
		return
	}
	if assets == nil {
		assets = []models.TemplateAsset{}
	}
	writeJSON(w, http.StatusOK, assets)
}
