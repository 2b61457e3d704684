package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/matchmaker/internal/db"
)

// ProfileRepository provides read access to the profile, interest and
// preference tables this service scores from. All writes to those tables
// happen in the platform's edge services.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetProfile returns one user's profile snapshot.
// Absence surfaces as gorm.ErrRecordNotFound.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID uint64) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetInterests returns one user's interest record.
func (r *ProfileRepository) GetInterests(ctx context.Context, userID uint64) (*db.InterestRecord, error) {
	var rec db.InterestRecord
	if err := r.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetPreferences returns one user's preference record.
func (r *ProfileRepository) GetPreferences(ctx context.Context, userID uint64) (*db.PreferenceRecord, error) {
	var rec db.PreferenceRecord
	if err := r.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListCandidates returns every other user's profile, capped. The pool is
// deliberately unfiltered beyond "not the requester" - already-matched or
// blocked users are excluded by layers above this service, if at all.
func (r *ProfileRepository) ListCandidates(ctx context.Context, excludeUserID uint64, cap int) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeUserID).
		Order("id ASC").
		Limit(cap).
		Find(&profiles).Error
	return profiles, err
}

// GetInterestsByIDs bulk-loads interest records for the candidate pool in a
// single IN query, keyed by user id. Users without a record are simply
// absent from the map.
func (r *ProfileRepository) GetInterestsByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*db.InterestRecord, error) {
	out := make(map[uint64]*db.InterestRecord, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var recs []db.InterestRecord
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	for i := range recs {
		out[recs[i].UserID] = &recs[i]
	}
	return out, nil
}

// GetPreferencesByIDs bulk-loads preference records, keyed by user id.
func (r *ProfileRepository) GetPreferencesByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*db.PreferenceRecord, error) {
	out := make(map[uint64]*db.PreferenceRecord, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var recs []db.PreferenceRecord
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	for i := range recs {
		out[recs[i].UserID] = &recs[i]
	}
	return out, nil
}
