package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
)

// Claim batch sizes are clamped to this range regardless of caller input.
const (
	MinClaimLimit = 1
	MaxClaimLimit = 50
)

// QueueRepository provides data access methods for the recompute queue.
// It encapsulates claiming, completion and retry bookkeeping.
type QueueRepository struct {
	db *gorm.DB
}

// NewQueueRepository creates a new repository bound to the given DB connection.
func NewQueueRepository(database *gorm.DB) *QueueRepository {
	return &QueueRepository{db: database}
}

// Enqueue inserts a pending recompute job for the given user. Production
// enqueueing happens upstream on profile/interest/preference mutation; this
// method serves the seed command and tests.
func (r *QueueRepository) Enqueue(ctx context.Context, userID uint64) error {
	job := db.QueueJob{UserID: userID}
	return r.db.WithContext(ctx).Create(&job).Error
}

// ClaimBatch claims up to limit pending jobs for the given run token.
//
// Behavior:
//   - limit is clamped to [1,50].
//   - Candidates are unlocked, unprocessed jobs with attempts below
//     maxAttempts, oldest first (FIFO by created_at, id as tiebreak).
//   - The claim itself is a conditional update: rows are locked only where
//     locked_at IS NULL AND processed_at IS NULL still holds, so two
//     concurrent runs selecting the same row cannot both win it.
//   - Returns exactly the rows this token won.
//
// maxAttempts <= 0 disables the attempts cutoff.
func (r *QueueRepository) ClaimBatch(
	ctx context.Context,
	limit int,
	token string,
	maxAttempts int,
) ([]db.QueueJob, error) {
	if limit < MinClaimLimit {
		limit = MinClaimLimit
	}
	if limit > MaxClaimLimit {
		limit = MaxClaimLimit
	}

	var ids []uint64
	q := r.db.WithContext(ctx).
		Model(&db.QueueJob{}).
		Where("processed_at IS NULL AND locked_at IS NULL")
	if maxAttempts > 0 {
		q = q.Where("attempts < ?", maxAttempts)
	}
	if err := q.Order("created_at ASC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// Conditional lock: the WHERE clause re-checks eligibility, so a row
	// grabbed by a concurrent run in the meantime is silently skipped.
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).
		Model(&db.QueueJob{}).
		Where("id IN ? AND processed_at IS NULL AND locked_at IS NULL", ids).
		Updates(map[string]any{
			"locked_at": now,
			"locked_by": token,
		}).Error; err != nil {
		return nil, err
	}

	var jobs []db.QueueJob
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND locked_by = ? AND processed_at IS NULL", ids, token).
		Order("created_at ASC, id ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkProcessed terminates a job successfully: processed_at is set and the
// lock plus any stale error are cleared. Also used for the "data not ready"
// skip - a later data-completion event re-enqueues the user.
func (r *QueueRepository) MarkProcessed(ctx context.Context, jobID uint64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&db.QueueJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"processed_at": now,
			"locked_at":    nil,
			"locked_by":    nil,
			"last_error":   nil,
		}).Error
}

// MarkFailed releases a job for a future retry: attempts is bumped, the lock
// cleared and the error recorded on the row for operator inspection.
func (r *QueueRepository) MarkFailed(ctx context.Context, jobID uint64, attempts int, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&db.QueueJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"attempts":   attempts + 1,
			"locked_at":  nil,
			"locked_by":  nil,
			"last_error": errMsg,
		}).Error
}
