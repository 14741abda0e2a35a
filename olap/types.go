package olap

type GenreMonth struct {
	Genre string `json:"genre"`
	Month string `json:"month"`
	Plays int    `json:"plays"`
}

type ArtistMonth struct {
	Artist string `json:"artist"`
	Month  string `json:"month"`
	Plays  int    `json:"plays"`
}

type CityGenre struct {
	City  string `json:"city"`
	Genre string `json:"genre"`
	Plays int    `json:"plays"`
}

// TopSongByUser joins a play count with the resolved user and song names.
// User reads "{id} - {name}".
type TopSongByUser struct {
	UserID int    `json:"user_id"`
	SongID int    `json:"song_id"`
	User   string `json:"user"`
	Song   string `json:"song"`
	Plays  int    `json:"plays"`
}

type DailyTrend struct {
	Date  string `json:"date"`
	Plays int    `json:"plays"`
}

// Result is the outcome of a view query. A failed query carries the storage
// error and an empty sequence; it is never cached. NamesErr is set when a joined
// view substituted sentinel names because lookups failed; those rows are cached.
type Result[T any] struct {
	Rows     []T
	Cached   bool
	Err      error
	NamesErr error
}

func (r Result[T]) Degraded() bool {
	return r.Err != nil || r.NamesErr != nil
}
