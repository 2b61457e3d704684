package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/cache"
	"github.com/oggyb/matchmaker/internal/config"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/scoring"
	"github.com/oggyb/matchmaker/internal/worker"
)

// Handler serves the recompute trigger and the shortlist read endpoint.
type Handler struct {
	cfg    *config.Config
	appCtx *app.AppContext
	worker *worker.Worker
	recs   *repository.RecommendationRepository
}

// NewHandler creates a handler with dependencies from AppContext.
func NewHandler(cfg *config.Config, appCtx *app.AppContext) *Handler {
	return &Handler{
		cfg:    cfg,
		appCtx: appCtx,
		worker: worker.New(appCtx),
		recs:   repository.NewRecommendationRepository(appCtx.DB),
	}
}

type recomputeResponse struct {
	OK        bool   `json:"ok"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed,omitempty"`
	LockID    string `json:"lockId"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type errorResponse struct {
	Error string `json:"error"`
	Step  string `json:"step"`
}

// Recompute runs one worker batch.
//
// Query parameters (all optional, clamped by the worker):
//   - batch:      jobs to claim this run
//   - candidates: candidate pool cap per job
//   - timeoutMs:  per-external-call timeout
//
// Per-job failures are reported in the job rows, not here: the run still
// answers ok with the processed count. Only setup-level failures (claim)
// produce a 500.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	opts := worker.OptionsFromConfig(h.cfg)
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("batch")); err == nil {
		opts.BatchSize = v
	}
	if v, err := strconv.Atoi(q.Get("candidates")); err == nil {
		opts.CandidateCap = v
	}
	if v, err := strconv.Atoi(q.Get("timeoutMs")); err == nil {
		opts.CallTimeout = time.Duration(v) * time.Millisecond
	}

	summary, err := h.worker.Run(r.Context(), opts)
	if err != nil {
		h.appCtx.Logger.Error("recompute run failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: err.Error(),
			Step:  "claim_queue",
		})
		return
	}

	writeJSON(w, http.StatusOK, recomputeResponse{
		OK:        true,
		Processed: summary.Processed,
		Failed:    summary.Failed,
		LockID:    summary.LockID,
		ElapsedMs: summary.Elapsed.Milliseconds(),
	})
}

type recommendationItem struct {
	RecommendedUserID uint64          `json:"recommended_user_id"`
	Score             int             `json:"score"`
	Reasons           scoring.Reasons `json:"reasons"`
	Status            string          `json:"status"`
}

type recommendationsResponse struct {
	UserID          uint64               `json:"user_id"`
	Recommendations []recommendationItem `json:"recommendations"`
}

// ListRecommendations returns a user's stored shortlist, cache-first:
//  1. Try the Redis shortlist key.
//  2. On a miss, read from the DB and repopulate the cache with a 1h TTL.
//
// The worker invalidates the key after every recompute, so cached data is at
// most one recompute old.
func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be a valid uint64", Step: "parse_user_id"})
		return
	}

	rc := h.appCtx.RedisCache
	key := rc.KeyForRecommendations(userID)

	if cached, _ := rc.Get(ctx, key); cached != "" {
		var resp recommendationsResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		// poisoned entry: fall through to the DB and overwrite it
	}

	resp, err := h.loadRecommendations(ctx, userID)
	if err != nil {
		h.appCtx.Logger.Error("list recommendations failed", "user_id", userID, "err", err)
		writeJSON(w, svcErr.HTTPStatus(err), errorResponse{Error: err.Error(), Step: "load_recommendations"})
		return
	}

	if b, err := json.Marshal(resp); err == nil {
		_ = rc.Set(ctx, key, string(b), cache.ShortlistTTL)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) loadRecommendations(ctx context.Context, userID uint64) (recommendationsResponse, error) {
	rows, err := h.recs.ListForUser(ctx, userID, worker.TopK)
	if err != nil {
		return recommendationsResponse{}, err
	}

	resp := recommendationsResponse{
		UserID:          userID,
		Recommendations: make([]recommendationItem, 0, len(rows)),
	}
	for _, row := range rows {
		item := recommendationItem{
			RecommendedUserID: row.RecommendedUserID,
			Score:             row.Score,
			Status:            row.Status,
		}
		// stored reasons are trusted: written by us, passed through verbatim
		_ = json.Unmarshal(row.Reasons, &item.Reasons)
		resp.Recommendations = append(resp.Recommendations, item)
	}
	return resp, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
