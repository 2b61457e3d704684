package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/matchmaker/internal/db"
)

// RecommendationRepository provides data access methods for persisted
// recommendation shortlists.
type RecommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new repository bound to the given DB connection.
func NewRecommendationRepository(database *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: database}
}

// UpsertBatch inserts or replaces shortlist rows.
//
// Behavior:
//   - If (user_id, recommended_user_id) exists → score/reasons/status are
//     overwritten in place. Never merged, never duplicated.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures the overwrite guarantee, which also makes the
//     write safe to repeat when two runs race on the same user.
func (r *RecommendationRepository) UpsertBatch(ctx context.Context, recs []db.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "recommended_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "reasons", "status", "updated_at",
			}),
		}).
		Create(&recs).Error
}

// ListForUser returns a user's stored shortlist, highest score first.
func (r *RecommendationRepository) ListForUser(ctx context.Context, userID uint64, limit int) ([]db.Recommendation, error) {
	var recs []db.Recommendation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC, recommended_user_id ASC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
