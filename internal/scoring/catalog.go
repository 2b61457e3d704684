package scoring

import "github.com/oggyb/matchmaker/internal/db"

// Category is one entry of the fixed interest catalog. Value yields the
// single favourite for the category, Extras the "additional" list. Scoring
// iterates the catalog generically so no field is referenced by a bare
// string key anywhere.
type Category struct {
	Label  string
	Value  func(*db.InterestRecord) string
	Extras func(*db.InterestRecord) db.StringList
}

// Catalog is the immutable table of interest categories considered by the
// scorer. Order only affects the order of common_interests labels.
var Catalog = []Category{
	{"song", func(r *db.InterestRecord) string { return r.FavoriteSong }, func(r *db.InterestRecord) db.StringList { return r.AdditionalSongs }},
	{"artist", func(r *db.InterestRecord) string { return r.FavoriteArtist }, func(r *db.InterestRecord) db.StringList { return r.AdditionalArtists }},
	{"movie", func(r *db.InterestRecord) string { return r.FavoriteMovie }, func(r *db.InterestRecord) db.StringList { return r.AdditionalMovies }},
	{"show", func(r *db.InterestRecord) string { return r.FavoriteShow }, func(r *db.InterestRecord) db.StringList { return r.AdditionalShows }},
	{"book", func(r *db.InterestRecord) string { return r.FavoriteBook }, func(r *db.InterestRecord) db.StringList { return r.AdditionalBooks }},
	{"author", func(r *db.InterestRecord) string { return r.FavoriteAuthor }, func(r *db.InterestRecord) db.StringList { return r.AdditionalAuthors }},
	{"cuisine", func(r *db.InterestRecord) string { return r.FavoriteCuisine }, func(r *db.InterestRecord) db.StringList { return r.AdditionalCuisines }},
	{"dish", func(r *db.InterestRecord) string { return r.FavoriteDish }, func(r *db.InterestRecord) db.StringList { return r.AdditionalDishes }},
	{"drink", func(r *db.InterestRecord) string { return r.FavoriteDrink }, func(r *db.InterestRecord) db.StringList { return r.AdditionalDrinks }},
	{"dessert", func(r *db.InterestRecord) string { return r.FavoriteDessert }, func(r *db.InterestRecord) db.StringList { return r.AdditionalDesserts }},
	{"sport", func(r *db.InterestRecord) string { return r.FavoriteSport }, func(r *db.InterestRecord) db.StringList { return r.AdditionalSports }},
	{"team", func(r *db.InterestRecord) string { return r.FavoriteTeam }, func(r *db.InterestRecord) db.StringList { return r.AdditionalTeams }},
	{"hobby", func(r *db.InterestRecord) string { return r.FavoriteHobby }, func(r *db.InterestRecord) db.StringList { return r.AdditionalHobbies }},
	{"game", func(r *db.InterestRecord) string { return r.FavoriteGame }, func(r *db.InterestRecord) db.StringList { return r.AdditionalGames }},
	{"music_genre", func(r *db.InterestRecord) string { return r.FavoriteMusicGenre }, func(r *db.InterestRecord) db.StringList { return r.AdditionalMusicGenres }},
	{"movie_genre", func(r *db.InterestRecord) string { return r.FavoriteMovieGenre }, func(r *db.InterestRecord) db.StringList { return r.AdditionalMovieGenres }},
	{"destination", func(r *db.InterestRecord) string { return r.FavoriteDestination }, func(r *db.InterestRecord) db.StringList { return r.AdditionalDestinations }},
	{"season", func(r *db.InterestRecord) string { return r.FavoriteSeason }, func(r *db.InterestRecord) db.StringList { return r.AdditionalSeasons }},
	{"holiday", func(r *db.InterestRecord) string { return r.FavoriteHoliday }, func(r *db.InterestRecord) db.StringList { return r.AdditionalHolidays }},
	{"animal", func(r *db.InterestRecord) string { return r.FavoriteAnimal }, func(r *db.InterestRecord) db.StringList { return r.AdditionalAnimals }},
	{"color", func(r *db.InterestRecord) string { return r.FavoriteColor }, func(r *db.InterestRecord) db.StringList { return r.AdditionalColors }},
	{"activity", func(r *db.InterestRecord) string { return r.FavoriteActivity }, func(r *db.InterestRecord) db.StringList { return r.AdditionalActivities }},
	{"actor", func(r *db.InterestRecord) string { return r.FavoriteActor }, func(r *db.InterestRecord) db.StringList { return r.AdditionalActors }},
	{"podcast", func(r *db.InterestRecord) string { return r.FavoritePodcast }, func(r *db.InterestRecord) db.StringList { return r.AdditionalPodcasts }},
}
