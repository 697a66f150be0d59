package dto

import (
	"time"

	"watchroom/internal/api/models"
)

// AddToWatchlistRequest: payload for adding a movie to the caller's list
type AddToWatchlistRequest struct {
	ImdbID    string  `json:"imdb_id" binding:"required"`
	Title     string  `json:"title" binding:"required"`
	Year      string  `json:"year"`
	PosterURL *string `json:"poster_url"`
}

// SetWatchedRequest: payload for flipping the watched flag
type SetWatchedRequest struct {
	Watched *bool `json:"watched" binding:"required"`
}

// WatchlistItemResponse: one entry of the caller's personal list
type WatchlistItemResponse struct {
	ImdbID    string    `json:"imdb_id"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	PosterURL *string   `json:"poster_url,omitempty"`
	Watched   bool      `json:"watched"`
	AddedAt   time.Time `json:"created_at"`
}

// WatchlistResponse: the caller's full list
type WatchlistResponse struct {
	Items []WatchlistItemResponse `json:"items"`
	Total int                     `json:"total"`
}

func FromWatchlistItem(item models.WatchlistItem) WatchlistItemResponse {
	return WatchlistItemResponse{
		ImdbID:    item.ImdbID,
		Title:     item.Title,
		Year:      item.Year,
		PosterURL: item.PosterURL,
		Watched:   item.Watched,
		AddedAt:   item.AddedAt,
	}
}
