package olap

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/expki/go-olapcache/cache"
	"github.com/expki/go-olapcache/database"
	"github.com/expki/go-olapcache/logger"
	"github.com/expki/go-olapcache/metrics"
	"github.com/expki/go-olapcache/resolver"
)

// Service answers the aggregate views from the cache, falling back to one
// storage scan per view on a miss.
type Service struct {
	session  database.Session
	store    *cache.Store
	resolver *resolver.Resolver
	metrics  *metrics.Collectors
}

func New(session database.Session, store *cache.Store, res *resolver.Resolver, collectors *metrics.Collectors) *Service {
	return &Service{
		session:  session,
		store:    store,
		resolver: res,
		metrics:  collectors,
	}
}

// GenreMonth returns plays by genre and month, ordered by genre then month.
func (s *Service) GenreMonth(ctx context.Context) Result[GenreMonth] {
	return query(ctx, s, ViewGenreMonth, buildGenreMonth, compareGenreMonth)
}

// ArtistMonth returns plays by artist and month, ordered by artist then month.
func (s *Service) ArtistMonth(ctx context.Context) Result[ArtistMonth] {
	return query(ctx, s, ViewArtistMonth, buildArtistMonth, compareArtistMonth)
}

// CityGenre returns plays by city and genre, ordered by city then genre.
func (s *Service) CityGenre(ctx context.Context) Result[CityGenre] {
	return query(ctx, s, ViewCityGenre, buildCityGenre, compareCityGenre)
}

// TopSongsByUser returns per-user song play counts joined with user and song names.
func (s *Service) TopSongsByUser(ctx context.Context) Result[TopSongByUser] {
	return query(ctx, s, ViewTopSongByUser, s.buildTopSongs, compareTopSongByUser)
}

// DailyTrend returns plays per day in ascending date order.
func (s *Service) DailyTrend(ctx context.Context) Result[DailyTrend] {
	return query(ctx, s, ViewDailyTrend, buildDailyTrend, compareDailyTrend)
}

// ClearCache drops every cached view and batch resolution.
func (s *Service) ClearCache() {
	s.store.Clear()
	logger.Sugar().Info("query cache cleared")
}

// Warm runs the query of view for its cache side effect.
func (s *Service) Warm(ctx context.Context, view View) error {
	switch view {
	case ViewGenreMonth:
		return s.GenreMonth(ctx).Err
	case ViewArtistMonth:
		return s.ArtistMonth(ctx).Err
	case ViewCityGenre:
		return s.CityGenre(ctx).Err
	case ViewTopSongByUser:
		res := s.TopSongsByUser(ctx)
		return errors.Join(res.Err, res.NamesErr)
	case ViewDailyTrend:
		return s.DailyTrend(ctx).Err
	default:
		return fmt.Errorf("unknown view %q", view)
	}
}

// materialized is what the cache holds for a view: the sorted rows and, for joined
// views, the reason any names were substituted.
type materialized[T any] struct {
	rows     []T
	namesErr error
}

func query[T any](ctx context.Context, s *Service, v View, build func(context.Context, []database.Row) ([]T, error), compare func(a, b T) int) Result[T] {
	start := time.Now()
	cached, hit, err := cache.Fetch(ctx, s.store, cache.ViewKey(v.String()), func(ctx context.Context) (materialized[T], error) {
		raw, err := s.session.Execute(ctx, database.Statement{
			Query:    v.Query(),
			PageSize: v.FetchSize(),
		})
		if err != nil {
			return materialized[T]{}, err
		}
		values, namesErr := build(ctx, raw)
		slices.SortStableFunc(values, compare)
		logger.Sugar().Debugf("%s fetched %d rows (%dms)", v, len(values), time.Since(start).Milliseconds())
		return materialized[T]{rows: values, namesErr: namesErr}, nil
	})
	if hit {
		s.metrics.CacheHit(v.String())
	} else {
		s.metrics.CacheMiss(v.String())
	}
	if err != nil {
		s.metrics.StorageFailure(v.String())
		logger.Sugar().Errorw("view query failed", "view", v.String(), "error", err)
		return Result[T]{Rows: []T{}, Err: err}
	}
	return Result[T]{
		Rows:     append(make([]T, 0, len(cached.rows)), cached.rows...),
		Cached:   hit,
		NamesErr: cached.namesErr,
	}
}

func buildGenreMonth(_ context.Context, rows []database.Row) ([]GenreMonth, error) {
	out := make([]GenreMonth, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		genre, okGenre := row.String("genero")
		month, okMonth := row.String("mes")
		plays, okPlays := row.Int("reproducciones")
		if !okGenre || !okMonth || !okPlays {
			skipped++
			continue
		}
		out = append(out, GenreMonth{Genre: genre, Month: month, Plays: plays})
	}
	logSkipped(ViewGenreMonth, skipped)
	return out, nil
}

func buildArtistMonth(_ context.Context, rows []database.Row) ([]ArtistMonth, error) {
	out := make([]ArtistMonth, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		artist, okArtist := row.String("artista")
		month, okMonth := row.String("mes")
		plays, okPlays := row.Int("reproducciones")
		if !okArtist || !okMonth || !okPlays {
			skipped++
			continue
		}
		out = append(out, ArtistMonth{Artist: artist, Month: month, Plays: plays})
	}
	logSkipped(ViewArtistMonth, skipped)
	return out, nil
}

func buildCityGenre(_ context.Context, rows []database.Row) ([]CityGenre, error) {
	out := make([]CityGenre, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		city, okCity := row.String("ciudad")
		genre, okGenre := row.String("genero")
		plays, okPlays := row.Int("reproducciones")
		if !okCity || !okGenre || !okPlays {
			skipped++
			continue
		}
		out = append(out, CityGenre{City: city, Genre: genre, Plays: plays})
	}
	logSkipped(ViewCityGenre, skipped)
	return out, nil
}

func buildDailyTrend(_ context.Context, rows []database.Row) ([]DailyTrend, error) {
	out := make([]DailyTrend, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		date, okDate := row.String("fecha")
		plays, okPlays := row.Int("total_reproducciones")
		if !okDate || !okPlays {
			skipped++
			continue
		}
		out = append(out, DailyTrend{Date: date, Plays: plays})
	}
	logSkipped(ViewDailyTrend, skipped)
	return out, nil
}

// buildTopSongs resolves the distinct user and song ids with one batch per kind.
// The error reports names substituted because storage failed; the rows are still usable.
func (s *Service) buildTopSongs(ctx context.Context, rows []database.Row) ([]TopSongByUser, error) {
	type play struct {
		user, song, plays int
	}
	plays := make([]play, 0, len(rows))
	userIDs := make(map[int]struct{})
	songIDs := make(map[int]struct{})
	skipped := 0
	for _, row := range rows {
		user, okUser := row.Int("id_usuario")
		song, okSong := row.Int("id_cancion")
		count, okCount := row.Int("total_reproducciones")
		if !okUser || !okSong || !okCount {
			skipped++
			continue
		}
		userIDs[user] = struct{}{}
		songIDs[song] = struct{}{}
		plays = append(plays, play{user: user, song: song, plays: count})
	}
	logSkipped(ViewTopSongByUser, skipped)

	users := s.resolver.Resolve(ctx, resolver.User, keys(userIDs))
	songs := s.resolver.Resolve(ctx, resolver.Song, keys(songIDs))

	out := make([]TopSongByUser, len(plays))
	for idx, p := range plays {
		out[idx] = TopSongByUser{
			UserID: p.user,
			SongID: p.song,
			User:   fmt.Sprintf("%d - %s", p.user, users.Name(resolver.User, p.user)),
			Song:   songs.Name(resolver.Song, p.song),
			Plays:  p.plays,
		}
	}
	return out, errors.Join(resolutionErr(resolver.User, users), resolutionErr(resolver.Song, songs))
}

func resolutionErr(kind resolver.Kind, res resolver.Resolution) error {
	switch {
	case res.Err != nil:
		return errors.Join(fmt.Errorf("resolve %s", kind), res.Err)
	case res.Failed > 0:
		return fmt.Errorf("%d %s lookups failed", res.Failed, kind)
	default:
		return nil
	}
}

func keys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func logSkipped(view View, skipped int) {
	if skipped > 0 {
		logger.Sugar().Warnw("skipped malformed rows", "view", view.String(), "rows", skipped)
	}
}
