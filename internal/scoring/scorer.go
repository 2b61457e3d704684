package scoring

import (
	"math"
	"strings"

	"github.com/oggyb/matchmaker/internal/db"
)

// AlgorithmVersion tags every stored reasons blob so old rows can be told
// apart after a scoring change.
const AlgorithmVersion = "interest-overlap-v1"

// Boost point values for the four soft preference factors.
const (
	genderBoost      = 3
	ageGapBoost      = 3
	locationBoost    = 3
	languageBoostMax = 5
)

// Inputs bundles everything known about one user for a scoring call.
type Inputs struct {
	Profile     *db.Profile
	Interests   *db.InterestRecord
	Preferences *db.PreferenceRecord
}

// BoostEntry records a single soft boost for explainability.
type BoostEntry struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

// Reasons is the full scoring breakdown persisted verbatim alongside the
// score. It is a contract for explainable recommendations: storage keeps it
// as-is, never summarized.
type Reasons struct {
	Algorithm       string       `json:"algorithm"`
	MatchPercentage float64      `json:"match_percentage"`
	BaseScore       int          `json:"base_score"`
	Boost           int          `json:"boost"`
	BoostBreakdown  []BoostEntry `json:"boost_breakdown"`
	CommonInterests []string     `json:"common_interests"`
}

// Result is the outcome of scoring one (requester, candidate) pair.
type Result struct {
	Score   int
	Reasons Reasons
}

// Score computes the compatibility of other for me. Pure: no I/O, no clock,
// deterministic for identical inputs.
//
// The base score comes from interest-category overlap across the Catalog:
// single favourites match on case-insensitive equality, additional lists on
// any shared element. matchPct = 0.2 + overlap/considered*0.8 (the 0.2 floor
// keeps some-interests-but-no-overlap pairs off a flat zero, the 0.8 scale
// leaves headroom for boosts). Four soft preference boosts are then added,
// each recorded in the breakdown, and the total clamped to [0,100].
//
// With no comparable interest data at all (considered == 0) the base score
// is 0 but boosts still apply, so a profile-only match can score above zero.
func Score(me, other Inputs) Result {
	overlap, considered, common := interestOverlap(me.Interests, other.Interests)

	var matchPct float64
	if considered > 0 {
		matchPct = 0.2 + float64(overlap)/float64(considered)*0.8
		matchPct = clamp01(matchPct)
	}
	baseScore := int(math.Round(matchPct * 100))

	boost, breakdown := softBoosts(me, other)

	final := baseScore + boost
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	return Result{
		Score: final,
		Reasons: Reasons{
			Algorithm:       AlgorithmVersion,
			MatchPercentage: matchPct,
			BaseScore:       baseScore,
			Boost:           boost,
			BoostBreakdown:  breakdown,
			CommonInterests: common,
		},
	}
}

// interestOverlap walks the catalog twice per category: once for the single
// favourite, once for the additional list. A comparison is considered only
// when both users have data for it; the category label is deduplicated when
// both comparisons of a category match.
func interestOverlap(mine, theirs *db.InterestRecord) (overlap, considered int, common []string) {
	common = []string{}
	if mine == nil || theirs == nil {
		return 0, 0, common
	}

	seen := make(map[string]bool, len(Catalog))
	addCommon := func(label string) {
		if !seen[label] {
			seen[label] = true
			common = append(common, label)
		}
	}

	for _, cat := range Catalog {
		a := strings.TrimSpace(cat.Value(mine))
		b := strings.TrimSpace(cat.Value(theirs))
		if a != "" && b != "" {
			considered++
			if strings.EqualFold(a, b) {
				overlap++
				addCommon(cat.Label)
			}
		}

		la, lb := cat.Extras(mine), cat.Extras(theirs)
		if len(la) > 0 && len(lb) > 0 {
			considered++
			if anyShared(la, lb) {
				overlap++
				addCommon(cat.Label)
			}
		}
	}
	return overlap, considered, common
}

func anyShared(a, b db.StringList) bool {
	for _, v := range a {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if b.ContainsFold(v) {
			return true
		}
	}
	return false
}

// softBoosts applies the four additive preference factors. Each factor is
// independent of interest overlap and is reported individually.
func softBoosts(me, other Inputs) (total int, breakdown []BoostEntry) {
	breakdown = []BoostEntry{}
	prefs := me.Preferences
	if prefs == nil {
		return 0, breakdown
	}
	add := func(factor string, points int) {
		total += points
		breakdown = append(breakdown, BoostEntry{Factor: factor, Points: points})
	}

	// Stated gender preference matches the candidate's gender.
	gp := strings.ToLower(strings.TrimSpace(prefs.GenderPreference))
	if gp != "" && gp != "both" && other.Profile != nil &&
		strings.EqualFold(gp, strings.TrimSpace(other.Profile.Gender)) {
		add("gender_preference", genderBoost)
	}

	// Ages within the preferred gap.
	if prefs.PreferredAgeGap > 0 && me.Profile != nil && other.Profile != nil {
		gap := me.Profile.Age - other.Profile.Age
		if gap < 0 {
			gap = -gap
		}
		if gap <= prefs.PreferredAgeGap {
			add("age_gap", ageGapBoost)
		}
	}

	// Shared spoken languages: 3 points at one, capped at 5.
	if other.Preferences != nil {
		shared := sharedCount(prefs.SpokenLanguages, other.Preferences.SpokenLanguages)
		if shared > 0 {
			points := 2 + shared
			if points > languageBoostMax {
				points = languageBoostMax
			}
			add("shared_languages", points)
		}
	}

	// Same-location string proxy; true distance is out of scope.
	if prefs.DistancePreference > 0 && me.Profile != nil && other.Profile != nil {
		a := strings.TrimSpace(me.Profile.Location)
		b := strings.TrimSpace(other.Profile.Location)
		if a != "" && strings.EqualFold(a, b) {
			add("same_location", locationBoost)
		}
	}

	return total, breakdown
}

func sharedCount(a, b db.StringList) int {
	n := 0
	for _, v := range a {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if b.ContainsFold(v) {
			n++
		}
	}
	return n
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
