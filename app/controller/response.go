package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mascota-mockups/mockup"
	"mascota-mockups/models"
	"mascota-mockups/repository"
	"mascota-mockups/service"
)

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// renderErrorStatus maps render and record errors to HTTP status codes
func renderErrorStatus(err error) int {
	var invalid badRequest
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, mockup.ErrEmptySprite):
		return http.StatusUnprocessableEntity
	case mockup.IsSpriteFailure(err), errors.Is(err, service.ErrNoDesign):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrStyleNotFound),
		errors.Is(err, repository.ErrMockupNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStorageDisabled), errors.Is(err, service.ErrRecordsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeRenderError writes err as JSON with its error kind
func writeRenderError(w http.ResponseWriter, err error) {
	status := renderErrorStatus(err)
	body := map[string]string{"error": err.Error()}
	if kind := service.ErrorKind(err); status >= http.StatusInternalServerError || kind != models.ErrorKindRenderFailed {
		body["errorKind"] = kind
	}
	writeJSON(w, status, body)
}

// renderOptions validates the output parameters shared by render and batch requests
func renderOptions(format models.RenderFormat, quality, thumb int) (service.RenderOptions, error) {
	f, err := service.ParseFormat(string(format))
	if err != nil {
		return service.RenderOptions{}, err
	}
	if quality < 0 || quality > 100 {
		return service.RenderOptions{}, errors.New("quality must be within [0,100]")
	}
	if thumb < 0 {
		return service.RenderOptions{}, errors.New("thumb must not be negative")
	}
	return service.RenderOptions{Format: f, Quality: quality, Thumb: thumb}, nil
}
