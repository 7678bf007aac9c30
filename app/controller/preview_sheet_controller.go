package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mascota-mockups/service"
)

// PreviewSheetController handles HTTP requests for printable preview sheets
type PreviewSheetController struct {
	mockups service.MockupServiceInterface
	sheets  *service.PreviewSheetService
}

// NewPreviewSheetController creates a new PreviewSheetController
func NewPreviewSheetController(mockups service.MockupServiceInterface, sheets *service.PreviewSheetService) *PreviewSheetController {
	return &PreviewSheetController{
		mockups: mockups,
		sheets:  sheets,
	}
}

// GetSheet handles GET /styles/{id}/sheet.pdf?design=<url>&format=pdf|html
func (c *PreviewSheetController) GetSheet(w http.ResponseWriter, r *http.Request) {
	styleID := mux.Vars(r)["id"]
	query := r.URL.Query()

	designRef := strings.TrimSpace(query.Get("design"))
	if designRef == "" {
		http.Error(w, "design query parameter is required", http.StatusBadRequest)
		return
	}

	format := strings.ToLower(query.Get("format"))
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "html" {
		http.Error(w, "Invalid format. Valid values: pdf, html", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	design, err := c.mockups.ResolveDesign(ctx, designRef, "")
	if err != nil {
		writeRenderError(w, err)
		return
	}

	log.Printf("🔍 GetSheet: style=%s format=%s", styleID, format)

	if format == "html" {
		html, err := c.sheets.RenderSheetHTML(ctx, design, styleID)
		if err != nil {
			writeSheetError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	pdf, err := c.sheets.GeneratePDF(ctx, design, styleID)
	if err != nil {
		writeSheetError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, styleID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("⚠️ GetSheet: failed to write PDF: %v", err)
	}
}

func writeSheetError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrStyleNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("❌ Preview sheet failed: %v", err)
	http.Error(w, fmt.Sprintf("Failed to generate preview sheet: %v", err), http.StatusInternalServerError)
}
