package service

import (
	"context"
	"errors"
	"strings"

	"watchroom/internal/api/models"
	"watchroom/internal/api/repository"
)

var (
	ErrAlreadyInWatchlist = errors.New("movie already in watchlist")
	ErrNotInWatchlist     = errors.New("movie not in watchlist")
	ErrInvalidMovie       = errors.New("imdb id and title are required")
)

type WatchlistService interface {
	Add(ctx context.Context, userID string, item *models.WatchlistItem) error
	Remove(ctx context.Context, userID, imdbID string) error
	SetWatched(ctx context.Context, userID, imdbID string, watched bool) error
	List(ctx context.Context, userID string) ([]models.WatchlistItem, error)
}

type watchlistService struct {
	repo repository.WatchlistRepository
}

func NewWatchlistService(repo repository.WatchlistRepository) WatchlistService {
	return &watchlistService{repo: repo}
}

func (s *watchlistService) Add(ctx context.Context, userID string, item *models.WatchlistItem) error {
	if strings.TrimSpace(item.ImdbID) == "" || strings.TrimSpace(item.Title) == "" {
		return ErrInvalidMovie
	}

	// OMDB reports a missing poster as the literal string "N/A"
	if item.PosterURL != nil && *item.PosterURL == "N/A" {
		item.PosterURL = nil
	}

	exists, err := s.repo.Exists(ctx, userID, item.ImdbID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInWatchlist
	}

	item.UserID = userID
	item.Watched = false
	return s.repo.Add(ctx, item)
}

func (s *watchlistService) Remove(ctx context.Context, userID, imdbID string) error {
	if err := s.repo.Remove(ctx, userID, imdbID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotInWatchlist
		}
		return err
	}
	return nil
}

func (s *watchlistService) SetWatched(ctx context.Context, userID, imdbID string, watched bool) error {
	if err := s.repo.SetWatched(ctx, userID, imdbID, watched); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotInWatchlist
		}
		return err
	}
	return nil
}

func (s *watchlistService) List(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	return s.repo.List(ctx, userID)
}
