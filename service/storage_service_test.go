package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSupabaseStorageService_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType, gotUpsert string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storage := NewSupabaseStorageService(srv.URL+"/", "secret", "mockups")
	url, err := storage.Upload(context.Background(), "/mockups/abc/x.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if gotPath != "/storage/v1/object/mockups/mockups/abc/x.png" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer secret" || gotType != "image/png" || gotUpsert != "true" || string(gotBody) != "png" {
		t.Errorf("request auth=%q type=%q upsert=%q body=%q", gotAuth, gotType, gotUpsert, gotBody)
	}
	if url != srv.URL+"/storage/v1/object/public/mockups/mockups/abc/x.png" {
		t.Errorf("public url = %s", url)
	}
}

func TestSupabaseStorageService_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	storage := NewSupabaseStorageService(srv.URL, "secret", "missing")
	if _, err := storage.Upload(context.Background(), "a.png", []byte("x"), "image/png"); err == nil {
		t.Error("Upload() should fail on 404")
	}
}
