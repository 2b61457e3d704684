package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/cache"
	"github.com/oggyb/matchmaker/internal/db"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/repository"
	"github.com/oggyb/matchmaker/internal/scoring"
)

// Worker recomputes recommendation shortlists for queued users.
//
// One Run claims a bounded batch of queue jobs under a run-scoped lock token
// and processes them sequentially: load the requester's data, pull a capped
// candidate pool, bulk-load candidate data, score everyone, persist the top
// 50 and clear the job. Failures are isolated per job - a broken job is
// released for retry and the run moves on.
type Worker struct {
	queue    *repository.QueueRepository
	profiles *repository.ProfileRepository
	recs     *repository.RecommendationRepository
	cache    *cache.RedisCache
	appCtx   *app.AppContext
}

// New creates a worker with dependencies from AppContext.
func New(appCtx *app.AppContext) *Worker {
	return &Worker{
		queue:    repository.NewQueueRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		recs:     repository.NewRecommendationRepository(appCtx.DB),
		cache:    appCtx.RedisCache,
		appCtx:   appCtx,
	}
}

// Summary is what one run reports back to its caller.
type Summary struct {
	Processed int
	Failed    int
	LockID    string
	Elapsed   time.Duration
}

// scoredCandidate lives only while one job is being processed; the top 50
// become Recommendation rows.
type scoredCandidate struct {
	candidateID uint64
	result      scoring.Result
}

// Run claims and processes one batch. A claim failure is fatal for the run;
// anything after that is recovered per job. There is deliberately no overall
// run deadline - each external call carries its own timeout instead.
func (w *Worker) Run(ctx context.Context, opts Options) (Summary, error) {
	opts = opts.Normalize()
	start := time.Now()
	token := uuid.NewString()
	log := w.appCtx.Logger.With("lock_id", token)

	var jobs []db.QueueJob
	err := w.step(ctx, opts, "claim_queue", func(c context.Context) error {
		var err error
		jobs, err = w.queue.ClaimBatch(c, opts.BatchSize, token, opts.MaxAttempts)
		return err
	})
	if err != nil {
		return Summary{LockID: token, Elapsed: time.Since(start)}, fmt.Errorf("claim_queue: %w", err)
	}

	log.Info("claimed batch", "jobs", len(jobs), "batch_size", opts.BatchSize)

	summary := Summary{LockID: token}
	for i := range jobs {
		job := &jobs[i]
		if err := w.processJob(ctx, opts, job); err != nil {
			summary.Failed++
			log.Warn("job failed", "job_id", job.ID, "user_id", job.UserID, "err", err)
			if mfErr := w.queue.MarkFailed(ctx, job.ID, job.Attempts, err.Error()); mfErr != nil {
				log.Error("mark failed errored", "job_id", job.ID, "err", mfErr)
			}
			continue
		}
		summary.Processed++
	}

	summary.Elapsed = time.Since(start)
	log.Info("run complete", "processed", summary.Processed, "failed", summary.Failed, "elapsed", summary.Elapsed)
	return summary, nil
}

// processJob handles one queue job end to end. Returning an error releases
// the job for retry; returning nil means it was marked processed.
func (w *Worker) processJob(ctx context.Context, opts Options, job *db.QueueJob) error {
	log := w.appCtx.Logger.With("job_id", job.ID, "user_id", job.UserID)

	me, ready, err := w.loadRequester(ctx, opts, job.UserID)
	if err != nil {
		return err
	}
	if !ready {
		// Skip, not retry: onboarding has not written all three records
		// yet, and finishing onboarding re-enqueues the user.
		log.Info("requester data incomplete, skipping")
		return w.markProcessed(ctx, opts, job.ID)
	}

	var candidates []db.Profile
	err = w.step(ctx, opts, "load_candidates", func(c context.Context) error {
		var err error
		candidates, err = w.profiles.ListCandidates(c, job.UserID, opts.CandidateCap)
		return err
	})
	if err != nil {
		return err
	}

	ids := make([]uint64, len(candidates))
	for i, p := range candidates {
		ids[i] = p.ID
	}

	var interests map[uint64]*db.InterestRecord
	var prefs map[uint64]*db.PreferenceRecord
	err = w.step(ctx, opts, "load_candidate_data", func(c context.Context) error {
		var err error
		if interests, err = w.profiles.GetInterestsByIDs(c, ids); err != nil {
			return err
		}
		prefs, err = w.profiles.GetPreferencesByIDs(c, ids)
		return err
	})
	if err != nil {
		return err
	}

	// Candidates with no interest record are excluded outright, not
	// zero-scored.
	scored := make([]scoredCandidate, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		ir, ok := interests[p.ID]
		if !ok {
			continue
		}
		other := scoring.Inputs{Profile: p, Interests: ir, Preferences: prefs[p.ID]}
		scored = append(scored, scoredCandidate{
			candidateID: p.ID,
			result:      scoring.Score(me, other),
		})
	}

	rows, err := topK(job.UserID, scored, TopK)
	if err != nil {
		return err
	}

	err = w.step(ctx, opts, "upsert_recommendations", func(c context.Context) error {
		return w.recs.UpsertBatch(c, rows)
	})
	if err != nil {
		return err
	}

	if w.cache != nil {
		// Best effort: a stale shortlist expires on its own TTL anyway.
		if err := w.cache.InvalidateRecommendations(ctx, job.UserID); err != nil {
			log.Warn("cache invalidation failed", "err", err)
		}
	}

	log.Info("recommendations stored", "scored", len(scored), "persisted", len(rows))
	return w.markProcessed(ctx, opts, job.ID)
}

// loadRequester fetches the requester's profile, interests and preferences.
// ready=false means at least one record does not exist yet.
func (w *Worker) loadRequester(ctx context.Context, opts Options, userID uint64) (scoring.Inputs, bool, error) {
	var me scoring.Inputs
	err := w.step(ctx, opts, "load_requester", func(c context.Context) error {
		var err error
		if me.Profile, err = w.profiles.GetProfile(c, userID); err != nil {
			return err
		}
		if me.Interests, err = w.profiles.GetInterests(c, userID); err != nil {
			return err
		}
		me.Preferences, err = w.profiles.GetPreferences(c, userID)
		return err
	})
	if svcErr.NotFound(err) {
		return me, false, nil
	}
	if err != nil {
		return me, false, err
	}
	return me, true, nil
}

func (w *Worker) markProcessed(ctx context.Context, opts Options, jobID uint64) error {
	return w.step(ctx, opts, "mark_processed", func(c context.Context) error {
		return w.queue.MarkProcessed(c, jobID)
	})
}

// step wraps one external call with the per-call timeout. A deadline hit is
// surfaced as a labeled error like "load_candidates_timeout_10000ms" so the
// failing step is readable straight off the queue row.
func (w *Worker) step(ctx context.Context, opts Options, label string, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
	defer cancel()

	err := fn(callCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s_timeout_%dms: %w", label, opts.CallTimeout.Milliseconds(), err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}

// topK sorts scored candidates by score descending (candidate id ascending
// on ties, for determinism) and converts the best k into storage rows.
func topK(userID uint64, scored []scoredCandidate, k int) ([]db.Recommendation, error) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].result.Score != scored[j].result.Score {
			return scored[i].result.Score > scored[j].result.Score
		}
		return scored[i].candidateID < scored[j].candidateID
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	rows := make([]db.Recommendation, 0, len(scored))
	for _, sc := range scored {
		reasons, err := json.Marshal(sc.result.Reasons)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal reasons for %d: %w", sc.candidateID, err)
		}
		rows = append(rows, db.Recommendation{
			UserID:            userID,
			RecommendedUserID: sc.candidateID,
			Score:             sc.result.Score,
			Reasons:           reasons,
			Status:            "active",
		})
	}
	return rows, nil
}
