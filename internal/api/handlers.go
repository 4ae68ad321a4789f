// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/synthrec/internal/cache"
	"github.com/tomtom215/synthrec/internal/dataset"
	"github.com/tomtom215/synthrec/internal/logging"
	"github.com/tomtom215/synthrec/internal/metrics"
	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
	"github.com/tomtom215/synthrec/internal/synth"
)

// RecommendationReader is the read side of storage.RecommendationStore.
type RecommendationReader interface {
	Get(ctx context.Context, domain synth.Domain, user int) ([]recommend.Recommendation, error)
}

// HandlerConfig holds the file locations and limits the handlers serve from.
type HandlerConfig struct {
	// DataDir holds generated datasets and their metadata.
	DataDir string

	// OutputDir holds precomputed recommendation files.
	OutputDir string

	// Limits resolves and bounds the requested list size.
	Limits *recommend.Config

	// CacheTTL bounds how long file contents are served from memory.
	// Default: 1 minute.
	CacheTTL time.Duration

	// RequestTimeout bounds live inference.
	// Default: 10 seconds.
	RequestTimeout time.Duration
}

// Handler serves the recommendation API.
type Handler struct {
	config      HandlerConfig
	store       RecommendationReader
	models      *ModelRegistry
	metadata    *cache.Cache[*synth.Metadata]
	precomputed *cache.Cache[recommend.Precomputed]
	startTime   time.Time
}

// NewHandler creates a handler. store and models may be nil, in which case
// the endpoints backed by them answer 503 and 404 respectively.
func NewHandler(cfg HandlerConfig, store RecommendationReader, models *ModelRegistry) *Handler {
	if cfg.Limits == nil {
		cfg.Limits = recommend.DefaultConfig()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Handler{
		config:      cfg,
		store:       store,
		models:      models,
		metadata:    cache.New[*synth.Metadata](cfg.CacheTTL, 0),
		precomputed: cache.New[recommend.Precomputed](cfg.CacheTTL, 0),
		startTime:   time.Now(),
	}
}

// Close stops the handler's cache sweepers.
func (h *Handler) Close() {
	h.metadata.Close()
	h.precomputed.Close()
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status        string      `json:"status"`
	UptimeSeconds int64       `json:"uptimeSeconds"`
	StoreEnabled  bool        `json:"storeEnabled"`
	Models        []ModelInfo `json:"models"`
}

// StatsResponse is the payload of GET /api/stats.
type StatsResponse struct {
	DataType        string  `json:"dataType"`
	NumUsers        int     `json:"nUsers"`
	NumItems        int     `json:"nItems"`
	NumInteractions int     `json:"nInteractions"`
	Sparsity        float64 `json:"sparsity"`
}

// RecommendationsResponse is the payload of every recommendation endpoint.
type RecommendationsResponse struct {
	UserID          int                        `json:"userId"`
	DataType        string                     `json:"dataType"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		StoreEnabled:  h.store != nil,
		Models:        []ModelInfo{},
	}
	if h.models != nil {
		resp.Models = h.models.Models()
	}
	NewResponseWriter(w, r).Success(resp)
}

// Stats handles GET /api/stats?dataType=. The interaction count prefers the
// combined positive and negative total when the dataset recorded one.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := StatsRequest{DataType: dataTypeParam(r)}
	if !validate(rw, &req) {
		return
	}
	domain := synth.Domain(req.DataType)

	meta, err := h.metadata.GetOrLoad(string(domain), func() (*synth.Metadata, error) {
		return dataset.LoadMetadata(h.config.DataDir, domain)
	})
	if errors.Is(err, dataset.ErrDatasetNotFound) {
		rw.NotFound(ErrCodeDatasetNotFound, fmt.Sprintf("Metadata not found for data type %q", domain))
		return
	}
	if err != nil {
		rw.InternalError("Failed to read dataset metadata", err)
		return
	}

	rw.Success(StatsResponse{
		DataType:        string(domain),
		NumUsers:        meta.NumUsers,
		NumItems:        meta.NumItems,
		NumInteractions: meta.TotalInteractions(),
		Sparsity:        meta.Sparsity,
	})
}

// StoredRecommendations handles GET /api/recommendations/{dataType}/{userId}
// from the precomputed store.
func (h *Handler) StoredRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	topK, err := queryInt(r, "topK")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := StoredRecommendationsRequest{
		DataType: chi.URLParam(r, "dataType"),
		UserID:   chi.URLParam(r, "userId"),
		TopK:     topK,
	}
	if !validate(rw, &req) {
		return
	}
	userID, err := parseUserID(req.UserID)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	k, err := h.config.Limits.ResolveTopK(req.TopK)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if h.store == nil {
		rw.ServiceUnavailable("Recommendation store is not configured")
		return
	}
	domain := synth.Domain(req.DataType)

	recs, err := h.store.Get(r.Context(), domain, userID)
	if errors.Is(err, storage.ErrNotFound) {
		rw.NotFound(ErrCodeUserNotFound, fmt.Sprintf("No recommendations for user %d in %q", userID, domain))
		return
	}
	if err != nil {
		rw.InternalError("Failed to read recommendations", err)
		return
	}

	h.servePrecomputed(rw, domain, userID, recs, k)
}

// RecommendSimple handles POST /api/recommend-simple from the precomputed
// JSON file written by the precompute command.
func (h *Handler) RecommendSimple(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, k, ok := h.decodeRecommendRequest(w, r, rw)
	if !ok {
		return
	}
	domain := req.Domain()

	path := storage.PrecomputedPath(h.config.OutputDir, domain)
	all, err := h.precomputed.GetOrLoad(path, func() (recommend.Precomputed, error) {
		return storage.ReadPrecomputed(path)
	})
	if errors.Is(err, storage.ErrNotFound) {
		rw.NotFound(ErrCodeNotFound, fmt.Sprintf("Recommendations not found for data type %q", domain))
		return
	}
	if err != nil {
		rw.InternalError("Failed to read recommendations", err)
		return
	}

	recs, found := all[*req.UserID]
	if !found {
		rw.NotFound(ErrCodeUserNotFound, fmt.Sprintf("No recommendations for user %d in %q", *req.UserID, domain))
		return
	}

	h.servePrecomputed(rw, domain, *req.UserID, recs, k)
}

// Recommend handles POST /api/recommend with live inference against the
// loaded model.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, k, ok := h.decodeRecommendRequest(w, r, rw)
	if !ok {
		return
	}
	domain := req.Domain()

	var model *LoadedModel
	if h.models != nil {
		model, _ = h.models.Get(domain)
	}
	if model == nil {
		rw.NotFound(ErrCodeModelNotFound, fmt.Sprintf("No trained model for data type %q", domain))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	recs, err := model.Recommender.Recommend(ctx, *req.UserID, nil, k)
	switch {
	case errors.Is(err, recommend.ErrUserOutOfRange):
		rw.NotFound(ErrCodeUserNotFound, fmt.Sprintf("User %d not in model (%d users)", *req.UserID, model.Recommender.NumUsers()))
		return
	case errors.Is(err, recommend.ErrInvalidTopK):
		rw.BadRequest(err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Inference timed out")
		return
	case err != nil:
		rw.InternalError("Failed to generate recommendations", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("domain", string(domain)).
		Int("user", *req.UserID).
		Int("top_k", k).
		Int("model_version", model.Version).
		Msg("Live recommendations served")

	rw.SuccessWithMeta(RecommendationsResponse{
		UserID:          *req.UserID,
		DataType:        string(domain),
		Recommendations: recs,
	}, &APIMeta{Source: SourceLive})
}

// decodeRecommendRequest parses and validates a RecommendRequest body and
// resolves its list size. It writes the error response itself.
func (h *Handler) decodeRecommendRequest(w http.ResponseWriter, r *http.Request, rw *ResponseWriter) (*RecommendRequest, int, bool) {
	var req RecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return nil, 0, false
	}
	if !validate(rw, &req) {
		return nil, 0, false
	}
	k, err := h.config.Limits.ResolveTopK(req.TopK)
	if err != nil {
		rw.BadRequest(err.Error())
		return nil, 0, false
	}
	return &req, k, true
}

func (h *Handler) servePrecomputed(rw *ResponseWriter, domain synth.Domain, userID int, recs []recommend.Recommendation, k int) {
	metrics.RecordRecommendation(string(domain), SourcePrecomputed)
	rw.SuccessWithMeta(RecommendationsResponse{
		UserID:          userID,
		DataType:        string(domain),
		Recommendations: recommend.Truncate(recs, k),
	}, &APIMeta{Source: SourcePrecomputed})
}
