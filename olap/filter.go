package olap

// Filters narrow an already materialized view result; they never touch storage.
// An empty selection or AllValues matches every row. Month selections accept
// either the raw month or its label.

func FilterGenreMonth(rows []GenreMonth, genre, month string) []GenreMonth {
	return filter(rows, func(row GenreMonth) bool {
		return matches(genre, row.Genre) && matchesMonth(month, row.Month)
	})
}

func FilterArtistMonth(rows []ArtistMonth, artist, month string) []ArtistMonth {
	return filter(rows, func(row ArtistMonth) bool {
		return matches(artist, row.Artist) && matchesMonth(month, row.Month)
	})
}

func FilterCityGenre(rows []CityGenre, city, genre string) []CityGenre {
	return filter(rows, func(row CityGenre) bool {
		return matches(city, row.City) && matches(genre, row.Genre)
	})
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func matches(selected, value string) bool {
	return selected == "" || selected == AllValues || selected == value
}

func matchesMonth(selected, month string) bool {
	return matches(selected, month) || selected == MonthLabel(month)
}
