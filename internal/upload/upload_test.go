// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
)

func testFile(name string) media.File {
	return media.File{Name: name, ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	l.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }

	url, err := l.Upload(context.Background(), testFile("Pool Side.JPG"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	prefix := "http://localhost:8080/uploads/2026/03/09/"
	if !strings.HasPrefix(url, prefix) || !strings.HasSuffix(url, "-pool-side.jpg") {
		t.Errorf("url = %q, want %s<uuid>-pool-side.jpg", url, prefix)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "http://localhost:8080/uploads/"))))
	if err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("file content = %q", data)
	}
}

func TestLocalUploadDistinctKeysForSameName(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), "/uploads")
	a, _ := l.Upload(context.Background(), testFile("room.jpg"))
	b, _ := l.Upload(context.Background(), testFile("room.jpg"))
	if a == b {
		t.Errorf("duplicate filenames produced the same URL %q", a)
	}
}

func TestLocalUploadHonoursCancelledContext(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), "/uploads")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Upload(ctx, testFile("a.jpg")); err == nil {
		t.Error("Upload with cancelled context succeeded")
	}
}

func TestHTTPUpload(t *testing.T) {
	var gotKey, gotName, gotFolder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(file)
		_ = file.Close()
		if string(body) != "jpeg-bytes" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		gotName = header.Filename
		gotFolder = r.FormValue("public_id")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn.test/lobby.jpg"})
	}))
	defer srv.Close()

	h, err := NewHTTP(Config{Endpoint: srv.URL, APIKey: "secret", Folder: "tournexus", Retries: 0})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}

	url, err := h.Upload(context.Background(), testFile("lobby.jpg"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.test/lobby.jpg" {
		t.Errorf("url = %q", url)
	}
	if gotKey != "secret" {
		t.Errorf("X-Api-Key = %q, want secret", gotKey)
	}
	if gotName != "lobby.jpg" {
		t.Errorf("filename = %q, want lobby.jpg", gotName)
	}
	if !strings.HasPrefix(gotFolder, "tournexus/") || !strings.HasSuffix(gotFolder, "-lobby.jpg") {
		t.Errorf("public_id = %q", gotFolder)
	}
}

func TestHTTPUploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server message", http.StatusBadRequest, `{"error":{"message":"invalid image"}}`, "invalid image"},
		{"plain failure", http.StatusInternalServerError, `{}`, "upload rejected"},
		{"missing url", http.StatusOK, `{}`, "no URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			h, _ := NewHTTP(Config{Endpoint: srv.URL, Retries: 0})
			_, err := h.Upload(context.Background(), testFile("a.jpg"))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Upload() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewSelectsProvider(t *testing.T) {
	if _, err := New(Config{Provider: ProviderLocal, Dir: t.TempDir()}); err != nil {
		t.Errorf("New(local) error: %v", err)
	}
	if _, err := New(Config{Provider: ProviderHTTP}); err == nil {
		t.Error("New(http) without endpoint succeeded")
	}
	if _, err := New(Config{Provider: "ftp"}); err == nil {
		t.Error("New(ftp) succeeded")
	}
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		prefix string
		file   media.File
		suffix string
	}{
		{"keeps extension", "listings", media.File{Name: "Sea View.JPG", ContentType: "image/jpeg"}, "-sea-view.jpg"},
		{"adds extension", "", media.File{Name: "camera-upload", ContentType: "image/png"}, "-camera-upload.png"},
		{"empty stem", "", media.File{Name: "!!!.webp", ContentType: "image/webp"}, "-image.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := objectKey(tt.prefix, tt.file, now)
			wantPrefix := strings.TrimPrefix(tt.prefix+"/2026/03/09/", "/")
			if !strings.HasPrefix(key, wantPrefix) {
				t.Errorf("objectKey() = %q, want prefix %q", key, wantPrefix)
			}
			if !strings.HasSuffix(key, tt.suffix) {
				t.Errorf("objectKey() = %q, want suffix %q", key, tt.suffix)
			}
		})
	}
}
