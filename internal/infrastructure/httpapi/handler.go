package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ultrapreps/visionqa/pkg/application"
	"github.com/ultrapreps/visionqa/pkg/domain/asset"
	"github.com/ultrapreps/visionqa/pkg/domain/report"
	"github.com/ultrapreps/visionqa/pkg/domain/review"
)

// maxBodyBytes bounds request bodies; inline data URIs make them large.
const maxBodyBytes = 32 << 20

// Handler serves the validation endpoints.
type Handler struct {
	validation *application.ValidationService
	review     *application.ReviewService
}

// NewHandler creates a new handler.
func NewHandler(validation *application.ValidationService, review *application.ReviewService) *Handler {
	return &Handler{validation: validation, review: review}
}

// HeroCardBody is the request body for POST /v1/herocard.
type HeroCardBody struct {
	Image string `json:"image"`
	application.HeroCardRequest
}

// MascotBody is the request body for POST /v1/mascot.
type MascotBody struct {
	Image string `json:"image"`
	application.MascotRequest
}

// BatchBody is the request body for POST /v1/batch.
type BatchBody struct {
	Items []application.AssetRequest `json:"items"`
}

// BatchResponse pairs the ordered results with the run report.
type BatchResponse struct {
	Results []asset.ValidationResult `json:"results"`
	Report  *report.BatchReport      `json:"report"`
}

// ImproveBody is the request body for POST /v1/improve.
type ImproveBody struct {
	OriginalPrompt string                 `json:"original_prompt"`
	Result         asset.ValidationResult `json:"result"`
}

// ReopenBody is the request body for POST /v1/reviews/reopen.
type ReopenBody struct {
	AssetID string `json:"asset_id"`
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	mode := "mock"
	if id := h.validation.ProviderID(); id != "" {
		mode = id
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": mode})
}

// Validate handles POST /v1/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req application.AssetRequest
	if !decode(w, r, &req) {
		return
	}
	image, c, err := req.Resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.validation.ValidateAsset(r.Context(), image, c))
}

// HeroCard handles POST /v1/herocard
func (h *Handler) HeroCard(w http.ResponseWriter, r *http.Request) {
	var req HeroCardBody
	if !decode(w, r, &req) {
		return
	}
	image := asset.NewImage(req.Image)
	if image.Ref == "" {
		writeError(w, http.StatusBadRequest, asset.ErrEmptyImage.Error())
		return
	}
	if err := req.HeroCardRequest.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.validation.ValidateHeroCard(r.Context(), image, req.HeroCardRequest))
}

// Mascot handles POST /v1/mascot
func (h *Handler) Mascot(w http.ResponseWriter, r *http.Request) {
	var req MascotBody
	if !decode(w, r, &req) {
		return
	}
	image := asset.NewImage(req.Image)
	if image.Ref == "" {
		writeError(w, http.StatusBadRequest, asset.ErrEmptyImage.Error())
		return
	}
	if err := req.MascotRequest.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.validation.ValidateMascot(r.Context(), image, req.MascotRequest))
}

// Batch handles POST /v1/batch
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchBody
	if !decode(w, r, &req) {
		return
	}
	items, err := application.BatchItems(req.Items)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, rep := h.validation.RunBatch(r.Context(), items)
	writeJSON(w, http.StatusOK, BatchResponse{Results: results, Report: rep})
}

// Improve handles POST /v1/improve
func (h *Handler) Improve(w http.ResponseWriter, r *http.Request) {
	var req ImproveBody
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.OriginalPrompt) == "" {
		writeError(w, http.StatusBadRequest, "original_prompt is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"prompt": h.validation.GenerateImprovementPrompt(req.OriginalPrompt, req.Result),
	})
}

// ListReviews handles GET /v1/reviews?state=
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	records, err := h.review.List(state)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*review.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// ReopenReview handles POST /v1/reviews/reopen
func (h *Handler) ReopenReview(w http.ResponseWriter, r *http.Request) {
	var req ReopenBody
	if !decode(w, r, &req) {
		return
	}
	if req.AssetID == "" {
		writeError(w, http.StatusBadRequest, "asset_id is required")
		return
	}
	rec, err := h.review.Reopen(req.AssetID)
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, application.ErrReviewNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "invalid request body"
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			msg = "request body is empty"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
