package asset

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ImageKind classifies how an image reference is addressed.
type ImageKind string

const (
	ImageURL     ImageKind = "url"
	ImageDataURI ImageKind = "data"
	ImageFile    ImageKind = "file"
)

var ErrEmptyImage = errors.New("image reference is empty")

// Image is a reference to a generated image: an http(s) URL, a data URI or a local path.
type Image struct {
	Ref string `json:"ref" yaml:"ref"`
}

// NewImage wraps a raw reference.
func NewImage(ref string) Image {
	return Image{Ref: strings.TrimSpace(ref)}
}

// Kind reports how the reference is addressed.
func (i Image) Kind() ImageKind {
	lower := strings.ToLower(i.Ref)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return ImageURL
	case strings.HasPrefix(lower, "data:"):
		return ImageDataURI
	default:
		return ImageFile
	}
}

func (i Image) String() string { return i.Ref }

// Inline returns the image bytes as base64 with their MIME type. URLs are not fetched;
// providers that only accept inline data should pass them through as URLs instead.
func (i Image) Inline() (mimeType string, data string, err error) {
	if i.Ref == "" {
		return "", "", ErrEmptyImage
	}
	switch i.Kind() {
	case ImageURL:
		return "", "", fmt.Errorf("image %s is remote and cannot be inlined", i.Ref)
	case ImageDataURI:
		return parseDataURI(i.Ref)
	}

	// #nosec G304 -- the caller chose which image to validate
	raw, err := os.ReadFile(i.Ref)
	if err != nil {
		return "", "", fmt.Errorf("read image: %w", err)
	}
	return http.DetectContentType(raw), base64.StdEncoding.EncodeToString(raw), nil
}

// URL returns a reference usable by providers that take image URLs. Local files are
// converted to data URIs.
func (i Image) URL() (string, error) {
	switch i.Kind() {
	case ImageURL, ImageDataURI:
		return i.Ref, nil
	}
	mimeType, data, err := i.Inline()
	if err != nil {
		return "", err
	}
	return "data:" + mimeType + ";base64," + data, nil
}

func parseDataURI(uri string) (string, string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URI")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", "", fmt.Errorf("data URI must be base64 encoded")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return mimeType, payload, nil
}
