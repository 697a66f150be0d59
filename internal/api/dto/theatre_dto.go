package dto

import (
	"time"

	"watchroom/internal/api/service"
	"watchroom/internal/merge"
)

// CreateTheatreRequest: payload for creating a theatre
type CreateTheatreRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	MergeMode string `json:"merge_mode"`
}

// SetMergeModeRequest: payload for the host changing the merge policy
type SetMergeModeRequest struct {
	MergeMode string `json:"merge_mode" binding:"required"`
}

// TheatreResponse: one theatre record
type TheatreResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	InviteCode       string  `json:"invite_code"`
	MergeMode        string  `json:"merge_mode"`
	HostID           string  `json:"host_id"`
	LastPickedImdbID *string `json:"last_picked_imdb_id,omitempty"`
}

// TheatreSummaryResponse: theatre plus overview counts
type TheatreSummaryResponse struct {
	TheatreResponse
	MemberCount int `json:"member_count"`
	MovieCount  int `json:"movie_count"`
}

// MemberResponse: a roster entry
type MemberResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsHost   bool   `json:"is_host"`
}

// MergedMovieResponse: one entry of the merged, ordered room list
type MergedMovieResponse struct {
	ImdbID    string    `json:"imdb_id"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	PosterURL *string   `json:"poster_url,omitempty"`
	Watched   bool      `json:"watched"`
	AddedAt   time.Time `json:"created_at"`
	AddedBy   []string  `json:"added_by"`
}

// TheatreViewResponse: the full room page payload
type TheatreViewResponse struct {
	Theatre TheatreResponse       `json:"theatre"`
	Members []MemberResponse      `json:"members"`
	Movies  []MergedMovieResponse `json:"movies"`
}

// ShuffleResponse: the outcome of a shuffle
type ShuffleResponse struct {
	PickedImdbID string `json:"picked_imdb_id"`
}

func FromTheatreView(view *service.TheatreView) TheatreViewResponse {
	members := make([]MemberResponse, 0, len(view.Members))
	for _, m := range view.Members {
		members = append(members, MemberResponse{
			ID:       m.ID,
			Username: m.Username,
			IsHost:   m.ID == view.Theatre.HostID,
		})
	}

	movies := make([]MergedMovieResponse, 0, len(view.Movies))
	for _, entry := range view.Movies {
		movies = append(movies, FromMergedEntry(entry))
	}

	return TheatreViewResponse{
		Theatre: TheatreResponse{
			ID:               view.Theatre.ID,
			Name:             view.Theatre.Name,
			InviteCode:       view.Theatre.InviteCode,
			MergeMode:        view.Theatre.MergeMode,
			HostID:           view.Theatre.HostID,
			LastPickedImdbID: view.Theatre.LastPickedImdbID,
		},
		Members: members,
		Movies:  movies,
	}
}

func FromMergedEntry(entry merge.Entry) MergedMovieResponse {
	return MergedMovieResponse{
		ImdbID:    entry.ImdbID,
		Title:     entry.Title,
		Year:      entry.Year,
		PosterURL: entry.PosterURL,
		Watched:   entry.Watched,
		AddedAt:   entry.AddedAt,
		AddedBy:   entry.AddedBy,
	}
}
