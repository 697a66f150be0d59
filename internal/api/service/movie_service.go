package service

import (
	"context"

	"watchroom/internal/metadata"
)

// MovieService fronts the external movie databases: OMDB for search and
// detail, TMDB for the billboards. Listing reads go through the Redis
// billboard cache; everything else is a straight proxy call.
type MovieService interface {
	Search(ctx context.Context, query string) ([]metadata.SearchResult, error)
	Details(ctx context.Context, imdbID string) (*metadata.MovieDetails, error)
	Trending(ctx context.Context) ([]metadata.TMDBMovie, error)
	TopRated(ctx context.Context) ([]metadata.TMDBMovie, error)
	ImdbID(ctx context.Context, tmdbID int64) (string, error)
}

type movieService struct {
	omdb  *metadata.OMDBClient
	tmdb  *metadata.TMDBClient
	cache *metadata.BillboardCache
}

func NewMovieService(omdb *metadata.OMDBClient, tmdb *metadata.TMDBClient, cache *metadata.BillboardCache) MovieService {
	return &movieService{omdb: omdb, tmdb: tmdb, cache: cache}
}

func (s *movieService) Search(ctx context.Context, query string) ([]metadata.SearchResult, error) {
	return s.omdb.Search(ctx, query)
}

func (s *movieService) Details(ctx context.Context, imdbID string) (*metadata.MovieDetails, error) {
	return s.omdb.Details(ctx, imdbID)
}

func (s *movieService) Trending(ctx context.Context) ([]metadata.TMDBMovie, error) {
	return s.listing(ctx, metadata.KeyTrending, s.tmdb.Trending)
}

func (s *movieService) TopRated(ctx context.Context) ([]metadata.TMDBMovie, error) {
	return s.listing(ctx, metadata.KeyTopRated, s.tmdb.TopRated)
}

func (s *movieService) listing(ctx context.Context, key string, fetch func(context.Context) ([]metadata.TMDBMovie, error)) ([]metadata.TMDBMovie, error) {
	if movies, ok := s.cache.GetMovies(ctx, key); ok {
		return movies, nil
	}
	movies, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	// best-effort: a failed cache write only costs the next reader a fetch
	_ = s.cache.SetMovies(ctx, key, movies)
	return movies, nil
}

func (s *movieService) ImdbID(ctx context.Context, tmdbID int64) (string, error) {
	if imdbID, ok := s.cache.GetImdbID(ctx, tmdbID); ok {
		return imdbID, nil
	}
	imdbID, err := s.tmdb.ImdbID(ctx, tmdbID)
	if err != nil {
		return "", err
	}
	_ = s.cache.SetImdbID(ctx, tmdbID, imdbID)
	return imdbID, nil
}
