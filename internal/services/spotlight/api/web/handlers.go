// Package web exposes the spotlight service over HTTP with JSON bodies.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	weberrors "github.com/Tienisto/pub-dev/internal/platform/web/errors"
	"github.com/Tienisto/pub-dev/internal/services/spotlight"
	"github.com/Tienisto/pub-dev/internal/services/spotlight/observability/audit"
	"github.com/Tienisto/pub-dev/internal/services/spotlight/storage"
)

// maxFeaturedCount bounds the count query parameter so a caller cannot
// request an unbounded selection.
const maxFeaturedCount = 50

// NewHandler builds the spotlight HTTP surface. Every request is recorded
// through the audit store when one is provided.
func NewHandler(service *spotlight.Service, events storage.AuditEventStore) http.Handler {
	mux := http.NewServeMux()
	h := handlers{service: service}
	registerRoutes(mux, h)
	return audit.Middleware(events, mux)
}

type handlers struct {
	service *spotlight.Service
}

type videoPayload struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type videosResponse struct {
	Videos []videoPayload `json:"videos"`
}

type videosRequest struct {
	Videos []videoPayload `json:"videos"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (h handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h handlers) handleFeatured(w http.ResponseWriter, r *http.Request) {
	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxFeaturedCount {
			h.writeError(w, weberrors.E(weberrors.KindInvalidInput,
				fmt.Sprintf("count must be an integer between 1 and %d", maxFeaturedCount)))
			return
		}
		count = parsed
	}

	videos, err := h.service.Featured(r.Context(), count)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videosResponse{Videos: toPayloads(videos)})
}

func (h handlers) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.Videos(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videosResponse{Videos: toPayloads(videos)})
}

func (h handlers) handleReplaceVideos(w http.ResponseWriter, r *http.Request) {
	var request videosRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		h.writeError(w, weberrors.E(weberrors.KindInvalidInput, "request body must be a videos object"))
		return
	}

	videos := make([]storage.Video, 0, len(request.Videos))
	for _, payload := range request.Videos {
		videos = append(videos, storage.Video{
			Key:          payload.Key,
			URL:          payload.URL,
			Title:        payload.Title,
			Description:  payload.Description,
			ThumbnailURL: payload.ThumbnailURL,
		})
	}
	if err := h.service.ReplacePool(r.Context(), videos); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) writeError(w http.ResponseWriter, err error) {
	status := weberrors.HTTPStatus(err)
	body := errorBody{Kind: string(weberrors.KindOf(err)), Message: publicMessage(err, status)}
	writeJSON(w, status, errorResponse{Error: body})
}

// publicMessage keeps internal failure details out of responses; only typed
// application errors carry caller-safe messages.
func publicMessage(err error, status int) string {
	var appErr weberrors.Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return http.StatusText(status)
}

func toPayloads(videos []storage.Video) []videoPayload {
	payloads := make([]videoPayload, 0, len(videos))
	for _, video := range videos {
		payloads = append(payloads, videoPayload{
			Key:          video.Key,
			URL:          video.URL,
			Title:        video.Title,
			Description:  video.Description,
			ThumbnailURL: video.ThumbnailURL,
		})
	}
	return payloads
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}
