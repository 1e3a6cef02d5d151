package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/CatGalleryCrawler/internal/app"
	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/CatGalleryCrawler/internal/infra/metrics"
	"github.com/CatGalleryCrawler/pkg/config"
	"github.com/CatGalleryCrawler/pkg/pager"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxPageSize caps client-supplied page sizes. Unlike the in-process pager
// contract, query params are untrusted input and get clamped, not panicked
// on.
const MaxPageSize = 100

type GalleryHandler struct {
	reader          domain.CatReader
	window          *app.PageWindow
	defaultPageSize int
}

func NewGalleryHandler(reader domain.CatReader, window *app.PageWindow, defaultPageSize int) *GalleryHandler {
	return &GalleryHandler{reader: reader, window: window, defaultPageSize: defaultPageSize}
}

type pagingLinks struct {
	PrevKey *pager.Key `json:"prevKey"`
	NextKey *pager.Key `json:"nextKey"`
}

type galleryResponse struct {
	Data   []domain.CatImage `json:"data"`
	Paging pagingLinks       `json:"paging"`
}

func (h *GalleryHandler) ListCats(w http.ResponseWriter, r *http.Request) {
	var key *pager.Key
	if v := r.URL.Query().Get("page"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			metrics.GalleryRequests.WithLabelValues("list", "bad_request").Inc()
			http.Error(w, "invalid page parameter", http.StatusBadRequest)
			return
		}
		k := pager.Key(i)
		key = &k
	}

	pageSize := h.defaultPageSize
	if v := r.URL.Query().Get("pageSize"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i <= 0 {
			metrics.GalleryRequests.WithLabelValues("list", "bad_request").Inc()
			http.Error(w, "invalid pageSize parameter", http.StatusBadRequest)
			return
		}
		if i > MaxPageSize {
			i = MaxPageSize
		}
		pageSize = i
	}

	k := pager.Key(0)
	if key != nil {
		k = *key
	}

	// The window's page geometry is the crawler's page size; requests using
	// a custom size bypass it entirely.
	if pageSize == h.defaultPageSize {
		// The requested page is the consumer's last-viewed position, which
		// is where the next crawl cycle resumes after invalidation.
		h.window.SetAnchor(k)

		if page, ok := h.window.Get(k); ok {
			metrics.GalleryRequests.WithLabelValues("list", "cached").Inc()
			writeJSON(w, galleryResponse{
				Data:   page.Items,
				Paging: pagingLinks{PrevKey: page.PrevKey, NextKey: page.NextKey},
			})
			return
		}
	}

	req := pager.BuildRequest(key, pageSize)

	cats, err := h.reader.List(r.Context(), req.Skip, req.Limit)
	if err != nil {
		slog.Error("Failed to list cats", "error", err)
		metrics.GalleryRequests.WithLabelValues("list", "error").Inc()
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	res := pager.BuildResult(k, cats)

	if len(cats) == 0 && k == 0 {
		metrics.GalleryRequests.WithLabelValues("list", "not_found").Inc()
		w.WriteHeader(http.StatusNotFound)
		return
	}

	metrics.GalleryRequests.WithLabelValues("list", "success").Inc()
	writeJSON(w, galleryResponse{
		Data:   res.Items,
		Paging: pagingLinks{PrevKey: res.PrevKey, NextKey: res.NextKey},
	})
}

func (h *GalleryHandler) GetCat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	cat, err := h.reader.Get(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get cat", "id", id, "error", err)
		metrics.GalleryRequests.WithLabelValues("get", "error").Inc()
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if cat == nil {
		metrics.GalleryRequests.WithLabelValues("get", "not_found").Inc()
		w.WriteHeader(http.StatusNotFound)
		return
	}

	metrics.GalleryRequests.WithLabelValues("get", "success").Inc()
	writeJSON(w, cat)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func NewHTTPServer(cfg *config.Config, handler *GalleryHandler) *http.Server {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprint(w, "OK"); err != nil {
			slog.Warn("Failed to write health response", "error", err)
		}
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/cats", handler.ListCats).Methods("GET")
	r.HandleFunc("/cats/{id}", handler.GetCat).Methods("GET")

	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
}
