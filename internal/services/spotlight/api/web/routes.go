package web

import "net/http"

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /healthz", h.handleHealth)
	mux.HandleFunc(http.MethodGet+" /api/videos/featured", h.handleFeatured)
	mux.HandleFunc(http.MethodGet+" /api/admin/videos", h.handleListVideos)
	mux.HandleFunc(http.MethodPut+" /api/admin/videos", h.handleReplaceVideos)
}
