package asset

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImage_Kind(t *testing.T) {
	tests := []struct {
		ref  string
		want ImageKind
	}{
		{"https://cdn.example.com/card.png", ImageURL},
		{"HTTP://cdn.example.com/card.png", ImageURL},
		{"data:image/png;base64,AAAA", ImageDataURI},
		{"./out/card.png", ImageFile},
	}
	for _, tt := range tests {
		if got := NewImage(tt.ref).Kind(); got != tt.want {
			t.Errorf("Kind(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func TestImage_InlineFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	path := filepath.Join(t.TempDir(), "card.png")
	if err := os.WriteFile(path, png, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	mimeType, data, err := NewImage(path).Inline()
	if err != nil {
		t.Fatalf("Inline: %v", err)
	}
	if mimeType != "image/png" {
		t.Errorf("mime = %q, want image/png", mimeType)
	}
	if data != base64.StdEncoding.EncodeToString(png) {
		t.Errorf("unexpected payload %q", data)
	}

	url, err := NewImage(path).URL()
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("URL = %q", url)
	}
}

func TestImage_InlineDataURI(t *testing.T) {
	mimeType, data, err := NewImage("data:image/jpeg;base64,QUJD").Inline()
	if err != nil {
		t.Fatalf("Inline: %v", err)
	}
	if mimeType != "image/jpeg" || data != "QUJD" {
		t.Errorf("got %q %q", mimeType, data)
	}

	if _, _, err := NewImage("data:image/jpeg,plain").Inline(); err == nil {
		t.Error("expected error for non-base64 data URI")
	}
}

func TestImage_InlineErrors(t *testing.T) {
	if _, _, err := NewImage("").Inline(); err != ErrEmptyImage {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if _, _, err := NewImage("https://x/y.png").Inline(); err == nil {
		t.Error("expected error inlining remote URL")
	}
	if _, _, err := NewImage(filepath.Join(t.TempDir(), "missing.png")).Inline(); err == nil {
		t.Error("expected error for missing file")
	}
}
