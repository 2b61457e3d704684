package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StringList stores a []string as a JSON text column so the same model
// works on MySQL and the SQLite test driver.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

// ContainsFold reports whether the list contains s, case-insensitively.
func (l StringList) ContainsFold(s string) bool {
	for _, v := range l {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// User table. Account CRUD (registration, login) lives in the platform's
// edge services; this service only reads users indirectly via profiles and
// writes them from the seed command.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Profile is the read-only reference snapshot of a user that scoring needs.
// The profile ID doubles as the user ID.
type Profile struct {
	ID        uint64    `gorm:"primaryKey"`
	Age       int       `gorm:"not null"`
	Gender    string    `gorm:"size:16;not null"`
	Location  string    `gorm:"size:128"`
	Intent    string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// InterestRecord holds one user's interests: a single favourite per category
// plus an "additional" list per category. Scoring iterates these via the
// scoring.Catalog table rather than touching fields by name.
type InterestRecord struct {
	UserID uint64 `gorm:"primaryKey"`

	FavoriteSong        string `gorm:"size:128"`
	FavoriteArtist      string `gorm:"size:128"`
	FavoriteMovie       string `gorm:"size:128"`
	FavoriteShow        string `gorm:"size:128"`
	FavoriteBook        string `gorm:"size:128"`
	FavoriteAuthor      string `gorm:"size:128"`
	FavoriteCuisine     string `gorm:"size:128"`
	FavoriteDish        string `gorm:"size:128"`
	FavoriteDrink       string `gorm:"size:128"`
	FavoriteDessert     string `gorm:"size:128"`
	FavoriteSport       string `gorm:"size:128"`
	FavoriteTeam        string `gorm:"size:128"`
	FavoriteHobby       string `gorm:"size:128"`
	FavoriteGame        string `gorm:"size:128"`
	FavoriteMusicGenre  string `gorm:"size:128"`
	FavoriteMovieGenre  string `gorm:"size:128"`
	FavoriteDestination string `gorm:"size:128"`
	FavoriteSeason      string `gorm:"size:128"`
	FavoriteHoliday     string `gorm:"size:128"`
	FavoriteAnimal      string `gorm:"size:128"`
	FavoriteColor       string `gorm:"size:128"`
	FavoriteActivity    string `gorm:"size:128"`
	FavoriteActor       string `gorm:"size:128"`
	FavoritePodcast     string `gorm:"size:128"`

	AdditionalSongs        StringList `gorm:"type:text"`
	AdditionalArtists      StringList `gorm:"type:text"`
	AdditionalMovies       StringList `gorm:"type:text"`
	AdditionalShows        StringList `gorm:"type:text"`
	AdditionalBooks        StringList `gorm:"type:text"`
	AdditionalAuthors      StringList `gorm:"type:text"`
	AdditionalCuisines     StringList `gorm:"type:text"`
	AdditionalDishes       StringList `gorm:"type:text"`
	AdditionalDrinks       StringList `gorm:"type:text"`
	AdditionalDesserts     StringList `gorm:"type:text"`
	AdditionalSports       StringList `gorm:"type:text"`
	AdditionalTeams        StringList `gorm:"type:text"`
	AdditionalHobbies      StringList `gorm:"type:text"`
	AdditionalGames        StringList `gorm:"type:text"`
	AdditionalMusicGenres  StringList `gorm:"type:text"`
	AdditionalMovieGenres  StringList `gorm:"type:text"`
	AdditionalDestinations StringList `gorm:"type:text"`
	AdditionalSeasons      StringList `gorm:"type:text"`
	AdditionalHolidays     StringList `gorm:"type:text"`
	AdditionalAnimals      StringList `gorm:"type:text"`
	AdditionalColors       StringList `gorm:"type:text"`
	AdditionalActivities   StringList `gorm:"type:text"`
	AdditionalActors       StringList `gorm:"type:text"`
	AdditionalPodcasts     StringList `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// PreferenceRecord holds the soft matching preferences used for score boosts.
type PreferenceRecord struct {
	UserID             uint64     `gorm:"primaryKey"`
	GenderPreference   string     `gorm:"size:16"`
	PreferredAgeGap    int        `gorm:"default:0"`
	SpokenLanguages    StringList `gorm:"type:text"`
	DistancePreference int        `gorm:"default:0"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

// QueueJob is one pending "recompute recommendations for this user" unit.
//
// Lifecycle:
//   - Inserted by upstream triggers whenever a user's profile, interests
//     or preferences change.
//   - Claimed by a worker run: locked_at/locked_by set by a conditional
//     update, so one run wins each row.
//   - On success processed_at is set; the row is never deleted (audit trail).
//   - On failure the lock is released and attempts incremented so a later
//     run retries it, until attempts reaches the configured maximum.
//
// A job is claimable iff processed_at IS NULL AND locked_at IS NULL.
type QueueJob struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	UserID      uint64     `gorm:"index;not null"`
	Attempts    int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index:idx_queue_claim,priority:2"`
	LockedAt    *time.Time `gorm:"index:idx_queue_claim,priority:1"`
	LockedBy    *string    `gorm:"size:64"`
	ProcessedAt *time.Time `gorm:"index"`
	LastError   *string    `gorm:"size:1024"`
}

// Recommendation is one persisted shortlist entry.
//
// Composite PK: (UserID, RecommendedUserID) — one row per pair; a recompute
// overwrites score/reasons in place rather than appending history.
type Recommendation struct {
	UserID            uint64    `gorm:"primaryKey;index:idx_rec_user_score,priority:1"`
	RecommendedUserID uint64    `gorm:"primaryKey"`
	Score             int       `gorm:"not null;index:idx_rec_user_score,priority:2,sort:desc"`
	Reasons           []byte    `gorm:"type:text"`
	Status            string    `gorm:"size:16;not null;default:'active'"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}
