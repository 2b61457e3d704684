package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	seedLocations = []string{"London", "Manchester", "Bristol", "Leeds"}
	seedIntents   = []string{"serious", "casual", "friendship"}
	seedLanguages = []string{"en", "fr", "es", "ar", "ur", "tr"}

	seedSongs    = []string{"Bohemian Rhapsody", "Blinding Lights", "Yesterday", "Levitating"}
	seedArtists  = []string{"Queen", "The Weeknd", "Adele", "Dua Lipa"}
	seedMovies   = []string{"Inception", "Interstellar", "Amelie", "The Matrix"}
	seedShows    = []string{"The Office", "Dark", "Chef's Table", "Planet Earth"}
	seedCuisines = []string{"Italian", "Turkish", "Japanese", "Lebanese"}
	seedSports   = []string{"Football", "Tennis", "Climbing", "Swimming"}
	seedHobbies  = []string{"Photography", "Baking", "Hiking", "Chess"}
	seedGenres   = []string{"Indie", "Jazz", "Hip-Hop", "Classical"}
)

func pick(r *rand.Rand, pool []string) string {
	return pool[r.Intn(len(pool))]
}

func pickN(r *rand.Rand, pool []string, n int) StringList {
	out := make(StringList, 0, n)
	for _, i := range r.Perm(len(pool)) {
		if len(out) == n {
			break
		}
		out = append(out, pool[i])
	}
	return out
}

// SeedTestData resets the database and populates it with demo users,
// profiles, interests, preferences and a full recompute queue.
//
// Behavior:
//  1. Clears all tables this service touches.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords, each with
//     a profile, an interest record drawn from small shared pools (so
//     overlaps actually occur) and a preference record.
//  3. Enqueues a recompute job for every user.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"recommendations", "queue_jobs", "preference_records", "interest_records", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE queue_jobs AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'queue_jobs')")
	}

	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	for i := 1; i <= 20; i++ {
		gender := "male"
		genderPref := "female"
		if i > 10 {
			gender = "female"
			genderPref = "male"
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := Profile{
			ID:       user.ID,
			Age:      22 + r.Intn(16),
			Gender:   gender,
			Location: pick(r, seedLocations),
			Intent:   pick(r, seedIntents),
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		interests := InterestRecord{
			UserID:             user.ID,
			FavoriteSong:       pick(r, seedSongs),
			FavoriteArtist:     pick(r, seedArtists),
			FavoriteMovie:      pick(r, seedMovies),
			FavoriteShow:       pick(r, seedShows),
			FavoriteCuisine:    pick(r, seedCuisines),
			FavoriteSport:      pick(r, seedSports),
			FavoriteHobby:      pick(r, seedHobbies),
			FavoriteMusicGenre: pick(r, seedGenres),
			AdditionalSongs:    pickN(r, seedSongs, 2),
			AdditionalArtists:  pickN(r, seedArtists, 2),
			AdditionalMovies:   pickN(r, seedMovies, 2),
			AdditionalCuisines: pickN(r, seedCuisines, 2),
			AdditionalSports:   pickN(r, seedSports, 2),
			AdditionalHobbies:  pickN(r, seedHobbies, 2),
		}
		if err := db.Create(&interests).Error; err != nil {
			return fmt.Errorf("failed to seed interests: %w", err)
		}

		prefs := PreferenceRecord{
			UserID:             user.ID,
			GenderPreference:   genderPref,
			PreferredAgeGap:    2 + r.Intn(6),
			SpokenLanguages:    append(StringList{"en"}, pick(r, seedLanguages)),
			DistancePreference: 10 + r.Intn(40),
		}
		if err := db.Create(&prefs).Error; err != nil {
			return fmt.Errorf("failed to seed preferences: %w", err)
		}

		job := QueueJob{UserID: user.ID}
		if err := db.Create(&job).Error; err != nil {
			return fmt.Errorf("failed to seed queue job: %w", err)
		}
	}
	log.Println("Seeded 20 users with profiles, interests, preferences and queue jobs.")

	return nil
}
