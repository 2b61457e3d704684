package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/db"
)

// singleSetters mirrors Catalog order so tests can fill the i-th category's
// favourite without naming all 24 fields at every call site.
var singleSetters = []func(*db.InterestRecord, string){
	func(r *db.InterestRecord, v string) { r.FavoriteSong = v },
	func(r *db.InterestRecord, v string) { r.FavoriteArtist = v },
	func(r *db.InterestRecord, v string) { r.FavoriteMovie = v },
	func(r *db.InterestRecord, v string) { r.FavoriteShow = v },
	func(r *db.InterestRecord, v string) { r.FavoriteBook = v },
	func(r *db.InterestRecord, v string) { r.FavoriteAuthor = v },
	func(r *db.InterestRecord, v string) { r.FavoriteCuisine = v },
	func(r *db.InterestRecord, v string) { r.FavoriteDish = v },
	func(r *db.InterestRecord, v string) { r.FavoriteDrink = v },
	func(r *db.InterestRecord, v string) { r.FavoriteDessert = v },
	func(r *db.InterestRecord, v string) { r.FavoriteSport = v },
	func(r *db.InterestRecord, v string) { r.FavoriteTeam = v },
	func(r *db.InterestRecord, v string) { r.FavoriteHobby = v },
	func(r *db.InterestRecord, v string) { r.FavoriteGame = v },
	func(r *db.InterestRecord, v string) { r.FavoriteMusicGenre = v },
	func(r *db.InterestRecord, v string) { r.FavoriteMovieGenre = v },
	func(r *db.InterestRecord, v string) { r.FavoriteDestination = v },
	func(r *db.InterestRecord, v string) { r.FavoriteSeason = v },
	func(r *db.InterestRecord, v string) { r.FavoriteHoliday = v },
	func(r *db.InterestRecord, v string) { r.FavoriteAnimal = v },
	func(r *db.InterestRecord, v string) { r.FavoriteColor = v },
	func(r *db.InterestRecord, v string) { r.FavoriteActivity = v },
	func(r *db.InterestRecord, v string) { r.FavoriteActor = v },
	func(r *db.InterestRecord, v string) { r.FavoritePodcast = v },
}

// recordWithSingles fills every favourite field; values are "<prefix>-<i>".
func recordWithSingles(prefix string) *db.InterestRecord {
	rec := &db.InterestRecord{}
	for i, set := range singleSetters {
		set(rec, fmt.Sprintf("%s-%d", prefix, i))
	}
	return rec
}

func TestScore_HalfOverlapNoBoosts(t *testing.T) {
	// 24 single comparisons considered, 12 matching:
	// matchPct = 0.2 + 0.5*0.8 = 0.6 → base 60, no boosts → 60.
	mine := recordWithSingles("shared")
	theirs := recordWithSingles("other")
	for i := 0; i < 12; i++ {
		singleSetters[i](theirs, fmt.Sprintf("shared-%d", i))
	}

	res := Score(
		Inputs{Profile: &db.Profile{Age: 30}, Interests: mine},
		Inputs{Profile: &db.Profile{Age: 31}, Interests: theirs},
	)

	assert.Equal(t, 60, res.Score)
	assert.Equal(t, 60, res.Reasons.BaseScore)
	assert.InDelta(t, 0.6, res.Reasons.MatchPercentage, 1e-9)
	assert.Equal(t, 0, res.Reasons.Boost)
	assert.Empty(t, res.Reasons.BoostBreakdown)
	assert.Len(t, res.Reasons.CommonInterests, 12)
	assert.Equal(t, AlgorithmVersion, res.Reasons.Algorithm)
}

func TestScore_CaseInsensitiveMatching(t *testing.T) {
	mine := &db.InterestRecord{FavoriteMovie: "Inception", AdditionalCuisines: db.StringList{"Turkish", "Japanese"}}
	theirs := &db.InterestRecord{FavoriteMovie: "INCEPTION", AdditionalCuisines: db.StringList{"japanese"}}

	res := Score(Inputs{Interests: mine}, Inputs{Interests: theirs})

	// two comparable categories, both matching
	assert.Equal(t, []string{"movie", "cuisine"}, res.Reasons.CommonInterests)
	assert.Equal(t, 100, res.Reasons.BaseScore)
}

func TestScore_CommonLabelDeduplicated(t *testing.T) {
	// single and additional both match in the same category → one label
	mine := &db.InterestRecord{FavoriteSport: "Tennis", AdditionalSports: db.StringList{"Climbing"}}
	theirs := &db.InterestRecord{FavoriteSport: "Tennis", AdditionalSports: db.StringList{"climbing", "Swimming"}}

	res := Score(Inputs{Interests: mine}, Inputs{Interests: theirs})

	assert.Equal(t, []string{"sport"}, res.Reasons.CommonInterests)
}

func TestScore_AllBoostsStack(t *testing.T) {
	// No interest data: base 0. Boosts: gender +3, age gap +3,
	// 2 shared languages +4, same location +3 = 13.
	me := Inputs{
		Profile:   &db.Profile{Age: 30, Gender: "male", Location: "London"},
		Interests: &db.InterestRecord{},
		Preferences: &db.PreferenceRecord{
			GenderPreference:   "female",
			PreferredAgeGap:    5,
			SpokenLanguages:    db.StringList{"en", "fr"},
			DistancePreference: 25,
		},
	}
	other := Inputs{
		Profile:   &db.Profile{Age: 28, Gender: "female", Location: "london"},
		Interests: &db.InterestRecord{},
		Preferences: &db.PreferenceRecord{
			SpokenLanguages: db.StringList{"FR", "EN", "es"},
		},
	}

	res := Score(me, other)

	require.Equal(t, 13, res.Reasons.Boost)
	assert.Equal(t, 13, res.Score)
	assert.Equal(t, 0, res.Reasons.BaseScore)
	assert.Zero(t, res.Reasons.MatchPercentage)

	points := map[string]int{}
	for _, e := range res.Reasons.BoostBreakdown {
		points[e.Factor] = e.Points
	}
	assert.Equal(t, map[string]int{
		"gender_preference": 3,
		"age_gap":           3,
		"shared_languages":  4,
		"same_location":     3,
	}, points)
}

func TestScore_LanguageBoostCapped(t *testing.T) {
	me := Inputs{
		Preferences: &db.PreferenceRecord{SpokenLanguages: db.StringList{"en", "fr", "es", "ar"}},
	}
	other := Inputs{
		Preferences: &db.PreferenceRecord{SpokenLanguages: db.StringList{"en", "fr", "es", "ar"}},
	}

	res := Score(me, other)

	require.Len(t, res.Reasons.BoostBreakdown, 1)
	assert.Equal(t, "shared_languages", res.Reasons.BoostBreakdown[0].Factor)
	assert.Equal(t, 5, res.Reasons.BoostBreakdown[0].Points)
}

func TestScore_GenderPreferenceBothNeverBoosts(t *testing.T) {
	me := Inputs{
		Profile:     &db.Profile{Gender: "male"},
		Preferences: &db.PreferenceRecord{GenderPreference: "both"},
	}
	other := Inputs{Profile: &db.Profile{Gender: "female"}}

	res := Score(me, other)
	assert.Zero(t, res.Reasons.Boost)
}

func TestScore_EmptyInputs(t *testing.T) {
	res := Score(Inputs{}, Inputs{})

	assert.Equal(t, 0, res.Score)
	assert.Zero(t, res.Reasons.MatchPercentage)
	assert.Empty(t, res.Reasons.CommonInterests)
	assert.Empty(t, res.Reasons.BoostBreakdown)
}

func TestScore_ClampedAtHundred(t *testing.T) {
	// Full overlap gives matchPct = clamp(0.2+0.8) = 1.0, base 100;
	// boosts would push past 100 and must be clamped.
	mine := recordWithSingles("same")
	theirs := recordWithSingles("same")
	me := Inputs{
		Profile:   &db.Profile{Age: 30, Gender: "male", Location: "Leeds"},
		Interests: mine,
		Preferences: &db.PreferenceRecord{
			GenderPreference:   "female",
			PreferredAgeGap:    10,
			SpokenLanguages:    db.StringList{"en"},
			DistancePreference: 5,
		},
	}
	other := Inputs{
		Profile:     &db.Profile{Age: 29, Gender: "female", Location: "Leeds"},
		Interests:   theirs,
		Preferences: &db.PreferenceRecord{SpokenLanguages: db.StringList{"en"}},
	}

	res := Score(me, other)

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 100, res.Reasons.BaseScore)
	assert.True(t, res.Reasons.Boost > 0)
}

func TestScore_AlwaysWithinRange(t *testing.T) {
	cases := []struct {
		name      string
		me, other Inputs
	}{
		{"nil everything", Inputs{}, Inputs{}},
		{"interests only mine", Inputs{Interests: recordWithSingles("a")}, Inputs{}},
		{"full overlap plus boosts", Inputs{
			Profile:     &db.Profile{Age: 20, Gender: "female", Location: "x"},
			Interests:   recordWithSingles("z"),
			Preferences: &db.PreferenceRecord{GenderPreference: "male", PreferredAgeGap: 50, SpokenLanguages: db.StringList{"en"}, DistancePreference: 1},
		}, Inputs{
			Profile:     &db.Profile{Age: 60, Gender: "male", Location: "x"},
			Interests:   recordWithSingles("z"),
			Preferences: &db.PreferenceRecord{SpokenLanguages: db.StringList{"en"}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Score(tc.me, tc.other)
			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, 100)
		})
	}
}
