package olap

import (
	"context"
	"slices"
	"time"
)

const (
	// AllValues is the placeholder shown when no distinct values are available,
	// and the filter value that disables a dimension.
	AllValues = "All"
	// FallbackMonth stands in for the month list when the genre view is unavailable.
	FallbackMonth = "2024-01"
)

type MonthOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Genres lists the distinct genres of the genre/month view.
func (s *Service) Genres(ctx context.Context) []string {
	return distinctOrFallback(s.GenreMonth(ctx), DistinctGenres, AllValues)
}

// Artists lists the distinct artists of the artist/month view.
func (s *Service) Artists(ctx context.Context) []string {
	return distinctOrFallback(s.ArtistMonth(ctx), DistinctArtists, AllValues)
}

// Cities lists the distinct cities of the city/genre view.
func (s *Service) Cities(ctx context.Context) []string {
	return distinctOrFallback(s.CityGenre(ctx), DistinctCities, AllValues)
}

// Months lists the distinct months of the genre/month view.
func (s *Service) Months(ctx context.Context) []string {
	return distinctOrFallback(s.GenreMonth(ctx), DistinctMonths, FallbackMonth)
}

// MonthOptions pairs each distinct month with its display label.
func (s *Service) MonthOptions(ctx context.Context) []MonthOption {
	months := s.Months(ctx)
	options := make([]MonthOption, len(months))
	for idx, month := range months {
		options[idx] = MonthOption{Value: month, Label: MonthLabel(month)}
	}
	return options
}

func DistinctGenres(rows []GenreMonth) []string {
	return distinct(rows, func(row GenreMonth) string { return row.Genre })
}

func DistinctMonths(rows []GenreMonth) []string {
	return distinct(rows, func(row GenreMonth) string { return row.Month })
}

func DistinctArtists(rows []ArtistMonth) []string {
	return distinct(rows, func(row ArtistMonth) string { return row.Artist })
}

func DistinctCities(rows []CityGenre) []string {
	return distinct(rows, func(row CityGenre) string { return row.City })
}

// MonthLabel renders "2024-03" as "March 2024". Anything else is returned unchanged.
func MonthLabel(month string) string {
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return parsed.Format("January 2006")
}

func distinct[T any](rows []T, field func(T) string) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, field(row))
	}
	slices.Sort(values)
	return slices.Compact(values)
}

// distinctOrFallback never returns an empty list: selection controls need at least one entry.
func distinctOrFallback[T any](res Result[T], project func([]T) []string, fallback string) []string {
	if res.Degraded() {
		return []string{fallback}
	}
	values := project(res.Rows)
	if len(values) == 0 {
		return []string{fallback}
	}
	return values
}
