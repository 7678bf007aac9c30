package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"mascota-mockups/models"
	"mascota-mockups/service"
)

// maxRequestBytes bounds JSON bodies, which may carry a base64 design
const maxRequestBytes = 40 << 20

// MockupController handles HTTP requests for rendering mockups
type MockupController struct {
	mockups service.MockupServiceInterface
}

// NewMockupController creates a new MockupController
func NewMockupController(mockups service.MockupServiceInterface) *MockupController {
	return &MockupController{mockups: mockups}
}

// Render handles POST /mockups/render
// Returns the encoded image, or the stored record as JSON when store=true
func (c *MockupController) Render(w http.ResponseWriter, r *http.Request) {
	var req models.RenderMockupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		http.Error(w, "templateId is required", http.StatusBadRequest)
		return
	}

	opts, err := renderOptions(req.Format, req.Quality, req.Thumb)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts.Store = req.Store

	ctx := r.Context()
	design, err := c.mockups.ResolveDesign(ctx, req.DesignURL, req.DesignBase64)
	if err != nil {
		writeRenderError(w, err)
		return
	}

	result, err := c.mockups.Render(ctx, design, req.TemplateID, opts)
	if err != nil {
		log.Printf("❌ Render: template %s failed: %v", req.TemplateID, err)
		writeRenderError(w, err)
		return
	}

	w.Header().Set("X-Mockup-Placeholder", strconv.FormatBool(result.Placeholder))
	w.Header().Set("X-Mockup-Cache", cacheStatus(result.Cached))
	w.Header().Set("X-Design-Hash", result.DesignHash)

	if opts.Store {
		writeJSON(w, http.StatusCreated, models.StoredMockupResponse{
			Record:      result.Record,
			Placeholder: result.Placeholder,
			Cached:      result.Cached,
		})
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		log.Printf("⚠️ Render: failed to write response: %v", err)
	}
}

// Batch handles POST /mockups/batch
// Every template gets an item; failures are reported per item
func (c *MockupController) Batch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchMockupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	design, templateIDs, opts, err := prepareBatch(c.mockups, r, req)
	if err != nil {
		writeRenderError(w, err)
		return
	}

	resp, err := c.mockups.RenderBatch(ctx, design, templateIDs, opts, nil)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRecord handles GET /mockups/{id}
func (c *MockupController) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	record, err := c.mockups.GetRecord(r.Context(), id)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ListRecords handles GET /mockups?designHash=
func (c *MockupController) ListRecords(w http.ResponseWriter, r *http.Request) {
	designHash := strings.TrimSpace(r.URL.Query().Get("designHash"))
	if designHash == "" {
		http.Error(w, "designHash query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := c.mockups.ListRecords(r.Context(), designHash)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	if records == nil {
		records = []models.MockupRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// DeleteRecord handles DELETE /mockups/{id}
func (c *MockupController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := c.mockups.DeleteRecord(r.Context(), id); err != nil {
		writeRenderError(w, err)
		return
	}
	log.Printf("🗑️ Mockup record deleted: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// prepareBatch resolves the design, the template list and the output options of a batch request
func prepareBatch(mockups service.MockupServiceInterface, r *http.Request, req models.BatchMockupRequest) ([]byte, []string, service.RenderOptions, error) {
	opts, err := renderOptions(req.Format, req.Quality, req.Thumb)
	if err != nil {
		return nil, nil, opts, badRequest{err}
	}

	templateIDs := req.TemplateIDs
	if len(templateIDs) == 0 {
		if req.StyleID == "" {
			return nil, nil, opts, badRequest{fmt.Errorf("templateIds or styleId is required")}
		}
		templateIDs, err = mockups.TemplateIDsForStyle(req.StyleID)
		if err != nil {
			return nil, nil, opts, err
		}
	}

	design, err := mockups.ResolveDesign(r.Context(), req.DesignURL, req.DesignBase64)
	if err != nil {
		return nil, nil, opts, err
	}
	return design, templateIDs, opts, nil
}

// badRequest marks validation errors of a request
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func cacheStatus(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}
