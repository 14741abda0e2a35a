package olap

import (
	"fmt"

	"github.com/expki/go-olapcache/config"
)

// View names one materialized rollup. Each view maps to exactly one storage query.
type View string

const (
	ViewGenreMonth    View = "genre_month"
	ViewArtistMonth   View = "artist_month"
	ViewCityGenre     View = "city_genre"
	ViewTopSongByUser View = "top_songs_by_user"
	ViewDailyTrend    View = "daily_trend"
)

// Views lists every view, hot ones first.
var Views = []View{ViewGenreMonth, ViewArtistMonth, ViewCityGenre, ViewTopSongByUser, ViewDailyTrend}

// HotViews are the filterable views warmed at startup.
var HotViews = []View{ViewGenreMonth, ViewArtistMonth, ViewCityGenre}

func ParseView(name string) (View, error) {
	for _, view := range Views {
		if string(view) == name {
			return view, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", name)
}

func (v View) String() string {
	return string(v)
}

func (v View) Table() string {
	switch v {
	case ViewGenreMonth:
		return "reproducciones_por_genero_mes"
	case ViewArtistMonth:
		return "reproducciones_por_artista_mes"
	case ViewCityGenre:
		return "reproducciones_por_ciudad_genero"
	case ViewTopSongByUser:
		return "top_canciones_por_usuario"
	case ViewDailyTrend:
		return "tendencia_por_dia"
	default:
		return ""
	}
}

// Query is the whole-view scan issued on a cache miss.
func (v View) Query() string {
	return "SELECT * FROM " + v.Table()
}

// FetchSize is the page size hint sent with the scan.
func (v View) FetchSize() int {
	switch v {
	case ViewTopSongByUser:
		return config.FETCH_SIZE_TOP_SONGS
	case ViewDailyTrend:
		return config.FETCH_SIZE_DAILY_TREND
	case ViewGenreMonth, ViewArtistMonth, ViewCityGenre:
		return config.FETCH_SIZE_ROLLUP
	default:
		return config.FETCH_SIZE_DEFAULT
	}
}
