package olap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expki/go-olapcache/database"
	"github.com/expki/go-olapcache/database/dbtest"
	"github.com/expki/go-olapcache/olap"
)

func TestDistinctListsAreSortedAndUnique(t *testing.T) {
	t.Parallel()

	stub := dbtest.New().
		SetView(olap.ViewGenreMonth.Query(),
			database.Row{"genero": "Rock", "mes": "2024-02", "reproducciones": 1},
			database.Row{"genero": "Pop", "mes": "2024-01", "reproducciones": 2},
			database.Row{"genero": "Rock", "mes": "2024-01", "reproducciones": 3},
		).
		SetView(olap.ViewArtistMonth.Query(),
			database.Row{"artista": "Queen", "mes": "2024-01", "reproducciones": 1},
			database.Row{"artista": "ABBA", "mes": "2024-01", "reproducciones": 1},
		).
		SetView(olap.ViewCityGenre.Query(),
			database.Row{"ciudad": "lima", "genero": "Pop", "reproducciones": 1},
			database.Row{"ciudad": "Lima", "genero": "Rock", "reproducciones": 1},
		)
	f := newFixture(stub)

	assert.Equal(t, []string{"Pop", "Rock"}, f.service.Genres(t.Context()))
	assert.Equal(t, []string{"2024-01", "2024-02"}, f.service.Months(t.Context()))
	assert.Equal(t, []string{"ABBA", "Queen"}, f.service.Artists(t.Context()))
	// byte order: upper case first
	assert.Equal(t, []string{"Lima", "lima"}, f.service.Cities(t.Context()))
	// genres and months share one scan
	assert.Equal(t, 1, stub.ExecuteCalls(olap.ViewGenreMonth.Query()))
}

func TestDistinctListsFallBack(t *testing.T) {
	t.Parallel()

	stub := dbtest.New().
		FailView(olap.ViewGenreMonth.Query(), errors.New("read timeout")).
		FailView(olap.ViewCityGenre.Query(), errors.New("read timeout"))
	f := newFixture(stub)

	assert.Equal(t, []string{olap.AllValues}, f.service.Genres(t.Context()))
	assert.Equal(t, []string{olap.FallbackMonth}, f.service.Months(t.Context()))
	assert.Equal(t, []string{olap.AllValues}, f.service.Cities(t.Context()))
	// empty but healthy view
	assert.Equal(t, []string{olap.AllValues}, f.service.Artists(t.Context()))
	assert.Equal(t, []olap.MonthOption{{Value: "2024-01", Label: "January 2024"}}, f.service.MonthOptions(t.Context()))
}

func TestMonthLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "March 2024", olap.MonthLabel("2024-03"))
	assert.Equal(t, "December 1999", olap.MonthLabel("1999-12"))
	assert.Equal(t, "2024-13", olap.MonthLabel("2024-13"))
	assert.Equal(t, "spring", olap.MonthLabel("spring"))
	assert.Equal(t, "", olap.MonthLabel(""))
}

func TestFilters(t *testing.T) {
	t.Parallel()

	genres := []olap.GenreMonth{
		{Genre: "Pop", Month: "2024-01", Plays: 1},
		{Genre: "Pop", Month: "2024-02", Plays: 2},
		{Genre: "Rock", Month: "2024-01", Plays: 3},
	}
	assert.Equal(t, genres, olap.FilterGenreMonth(genres, olap.AllValues, ""))
	assert.Equal(t, genres[:2], olap.FilterGenreMonth(genres, "Pop", olap.AllValues))
	assert.Equal(t, []olap.GenreMonth{genres[0], genres[2]}, olap.FilterGenreMonth(genres, "", "2024-01"))
	assert.Equal(t, []olap.GenreMonth{genres[1]}, olap.FilterGenreMonth(genres, "Pop", "February 2024"))
	assert.Empty(t, olap.FilterGenreMonth(genres, "Jazz", ""))

	artists := []olap.ArtistMonth{
		{Artist: "ABBA", Month: "2024-01", Plays: 1},
		{Artist: "Queen", Month: "2024-01", Plays: 2},
	}
	assert.Equal(t, artists[1:], olap.FilterArtistMonth(artists, "Queen", "January 2024"))

	cities := []olap.CityGenre{
		{City: "Lima", Genre: "Pop", Plays: 1},
		{City: "Quito", Genre: "Pop", Plays: 2},
	}
	assert.Equal(t, cities, olap.FilterCityGenre(cities, "", "Pop"))
	assert.Equal(t, cities[:1], olap.FilterCityGenre(cities, "Lima", olap.AllValues))
}
