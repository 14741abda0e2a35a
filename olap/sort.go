package olap

import (
	"cmp"
	"strings"
)

// Comparators for the stable per-view ordering. Text keys compare lowercased.

func foldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareGenreMonth(a, b GenreMonth) int {
	return cmp.Or(foldCompare(a.Genre, b.Genre), cmp.Compare(a.Month, b.Month))
}

func compareArtistMonth(a, b ArtistMonth) int {
	return cmp.Or(foldCompare(a.Artist, b.Artist), cmp.Compare(a.Month, b.Month))
}

func compareCityGenre(a, b CityGenre) int {
	return cmp.Or(foldCompare(a.City, b.City), foldCompare(a.Genre, b.Genre))
}

func compareTopSongByUser(a, b TopSongByUser) int {
	return cmp.Or(foldCompare(a.User, b.User), foldCompare(a.Song, b.Song))
}

func compareDailyTrend(a, b DailyTrend) int {
	return cmp.Compare(a.Date, b.Date)
}
