package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"watchroom/internal/api/models"
)

type WatchlistRepository interface {
	Add(ctx context.Context, item *models.WatchlistItem) error
	Remove(ctx context.Context, userID, imdbID string) error
	SetWatched(ctx context.Context, userID, imdbID string, watched bool) error
	List(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	ListForUsers(ctx context.Context, userIDs []string) ([]models.WatchlistItem, error)
	Exists(ctx context.Context, userID, imdbID string) (bool, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Add(ctx context.Context, item *models.WatchlistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("add to watchlist: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Remove(ctx context.Context, userID, imdbID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND imdb_id = ?", userID, imdbID).
		Delete(&models.WatchlistItem{})

	if result.Error != nil {
		return fmt.Errorf("remove from watchlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *watchlistRepository) SetWatched(ctx context.Context, userID, imdbID string, watched bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("user_id = ? AND imdb_id = ?", userID, imdbID).
		Update("watched", watched)

	if result.Error != nil {
		return fmt.Errorf("set watched: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *watchlistRepository) List(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}

// ListForUsers returns every member's items in one query; the merge
// engine does the grouping.
func (r *watchlistRepository) ListForUsers(ctx context.Context, userIDs []string) ([]models.WatchlistItem, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var items []models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list watchlists for users: %w", err)
	}
	return items, nil
}

func (r *watchlistRepository) Exists(ctx context.Context, userID, imdbID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("user_id = ? AND imdb_id = ?", userID, imdbID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
