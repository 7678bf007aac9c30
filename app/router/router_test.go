package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPingAndCORS(t *testing.T) {
	r := SetupRoutes(&Controllers{})

	tests := []struct {
		name   string
		method string
		path   string
		status int
		cors   bool
	}{
		{"ping", http.MethodGet, "/ping", http.StatusOK, true},
		{"ping wrong method", http.MethodPost, "/ping", http.StatusMethodNotAllowed, false},
		{"preflight", http.MethodOptions, "/mockups/batch", http.StatusOK, true},
		{"unknown route", http.MethodGet, "/admin/items", http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin") == "*"; got != tt.cors {
				t.Errorf("CORS header present = %v, want %v", got, tt.cors)
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("ping body = %s", rec.Body.String())
	}
}
