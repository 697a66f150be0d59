package models

import "time"

// WatchlistItem is one user's entry for one movie. A user can hold a
// given IMDb id at most once; the (user_id, imdb_id) pair is unique.
type WatchlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie" json:"user_id"`
	ImdbID    string    `gorm:"size:20;not null;uniqueIndex:idx_watchlist_user_movie" json:"imdb_id"`
	Title     string    `gorm:"not null" json:"title"`
	Year      string    `gorm:"size:10" json:"year"`
	PosterURL *string   `json:"poster_url,omitempty"`
	Watched   bool      `gorm:"default:false;not null" json:"watched"`
	AddedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (WatchlistItem) TableName() string {
	return "watchlists"
}
