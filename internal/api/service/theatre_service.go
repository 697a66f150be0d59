package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"watchroom/internal/api/models"
	"watchroom/internal/api/repository"
	"watchroom/internal/merge"
)

var (
	ErrTheatreNotFound  = errors.New("theatre not found")
	ErrNotMember        = errors.New("not a member of this theatre")
	ErrHostOnly         = errors.New("only the host can do this")
	ErrHostCannotLeave  = errors.New("the host cannot leave; delete the theatre instead")
	ErrInvalidMergeMode = errors.New("invalid merge mode")
)

// TheatreView is the full per-read state of a theatre: roster plus the
// merged, ordered movie list. It is assembled from scratch on every
// request; nothing here is cached between reads.
type TheatreView struct {
	Theatre *models.Theatre
	Members []models.User
	Movies  []merge.Entry
}

// TheatreSummary is a theatre plus the counts shown on the overview page.
type TheatreSummary struct {
	Theatre     models.Theatre
	MemberCount int
	MovieCount  int
}

type TheatreService interface {
	Create(ctx context.Context, hostID, name, mergeMode string) (*models.Theatre, error)
	ListForUser(ctx context.Context, userID string) ([]TheatreSummary, error)
	View(ctx context.Context, inviteCode, userID string) (*TheatreView, error)
	Join(ctx context.Context, inviteCode, userID string) error
	Leave(ctx context.Context, inviteCode, userID string) error
	Delete(ctx context.Context, inviteCode, userID string) error
	SetMergeMode(ctx context.Context, inviteCode, userID, mergeMode string) error
	Shuffle(ctx context.Context, inviteCode, userID string) (string, error)
}

type theatreService struct {
	theatreRepo   repository.TheatreRepository
	watchlistRepo repository.WatchlistRepository
	picker        *merge.Picker
}

func NewTheatreService(
	theatreRepo repository.TheatreRepository,
	watchlistRepo repository.WatchlistRepository,
	picker *merge.Picker,
) TheatreService {
	return &theatreService{
		theatreRepo:   theatreRepo,
		watchlistRepo: watchlistRepo,
		picker:        picker,
	}
}

func (s *theatreService) Create(ctx context.Context, hostID, name, mergeMode string) (*models.Theatre, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("theatre name is required")
	}
	if mergeMode == "" {
		mergeMode = string(merge.ModeIntersection)
	}
	if !merge.Mode(mergeMode).Valid() {
		return nil, ErrInvalidMergeMode
	}

	theatre := &models.Theatre{
		Name:      strings.TrimSpace(name),
		MergeMode: mergeMode,
		HostID:    hostID,
	}
	if err := s.theatreRepo.Create(ctx, theatre); err != nil {
		return nil, err
	}

	// The host is always the first member
	if err := s.theatreRepo.AddSession(ctx, theatre.ID, hostID); err != nil {
		return nil, fmt.Errorf("join own theatre: %w", err)
	}

	return theatre, nil
}

func (s *theatreService) ListForUser(ctx context.Context, userID string) ([]TheatreSummary, error) {
	theatres, err := s.theatreRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]TheatreSummary, 0, len(theatres))
	for _, theatre := range theatres {
		memberIDs, err := s.theatreRepo.ListMemberIDs(ctx, theatre.ID)
		if err != nil {
			return nil, err
		}
		entries, err := s.mergedEntries(ctx, &theatre, memberIDs)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TheatreSummary{
			Theatre:     theatre,
			MemberCount: len(memberIDs),
			MovieCount:  len(entries),
		})
	}
	return summaries, nil
}

func (s *theatreService) View(ctx context.Context, inviteCode, userID string) (*TheatreView, error) {
	theatre, err := s.findTheatre(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, theatre.ID, userID); err != nil {
		return nil, err
	}

	members, err := s.theatreRepo.ListMembers(ctx, theatre.ID)
	if err != nil {
		return nil, err
	}
	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	entries, err := s.mergedEntries(ctx, theatre, memberIDs)
	if err != nil {
		return nil, err
	}

	pinned := ""
	if theatre.LastPickedImdbID != nil {
		pinned = *theatre.LastPickedImdbID
	}

	return &TheatreView{
		Theatre: theatre,
		Members: members,
		Movies:  merge.Order(entries, pinned),
	}, nil
}

func (s *theatreService) Join(ctx context.Context, inviteCode, userID string) error {
	theatre, err := s.findTheatre(ctx, inviteCode)
	if err != nil {
		return err
	}
	// AddSession is an upsert no-op for existing members, so a
	// duplicate join reports success
	return s.theatreRepo.AddSession(ctx, theatre.ID, userID)
}

func (s *theatreService) Leave(ctx context.Context, inviteCode, userID string) error {
	theatre, err := s.findTheatre(ctx, inviteCode)
	if err != nil {
		return err
	}
	if theatre.HostID == userID {
		return ErrHostCannotLeave
	}
	if err := s.theatreRepo.RemoveSession(ctx, theatre.ID, userID); err != nil {
		// Leaving a theatre you are not in is as left as it gets
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *theatreService) Delete(ctx context.Context, inviteCode, userID string) error {
	theatre, err := s.findTheatre(ctx, inviteCode)
	if err != nil {
		return err
	}
	if theatre.HostID != userID {
		return ErrHostOnly
	}
	return s.theatreRepo.Delete(ctx, theatre.ID)
}

func (s *theatreService) SetMergeMode(ctx context.Context, inviteCode, userID, mergeMode string) error {
	if !merge.Mode(mergeMode).Valid() {
		return ErrInvalidMergeMode
	}
	theatre, err := s.findTheatre(ctx, inviteCode)
	if err != nil {
		return err
	}
	if theatre.HostID != userID {
		return ErrHostOnly
	}
	return s.theatreRepo.UpdateMergeMode(ctx, theatre.ID, mergeMode)
}

// Shuffle draws a uniformly random unwatched movie from the merged list
// and persists it as tonight's pick. Concurrent shuffles race at the
// storage layer and the last commit wins.
func (s *theatreService) Shuffle(ctx context.Context, inviteCode, userID string) (string, error) {
	theatre, err := s.findTheatre(ctx, inviteCode)
	if err != nil {
		return "", err
	}
	if err := s.requireMember(ctx, theatre.ID, userID); err != nil {
		return "", err
	}

	memberIDs, err := s.theatreRepo.ListMemberIDs(ctx, theatre.ID)
	if err != nil {
		return "", err
	}
	entries, err := s.mergedEntries(ctx, theatre, memberIDs)
	if err != nil {
		return "", err
	}

	// Only unwatched movies are eligible
	candidates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Watched {
			candidates = append(candidates, entry.ImdbID)
		}
	}

	picked, err := s.picker.Pick(candidates)
	if err != nil {
		return "", err
	}

	// A pick only becomes visible once the commit lands
	if err := s.theatreRepo.UpdateLastPicked(ctx, theatre.ID, picked); err != nil {
		return "", err
	}
	return picked, nil
}

func (s *theatreService) findTheatre(ctx context.Context, inviteCode string) (*models.Theatre, error) {
	theatre, err := s.theatreRepo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return theatre, nil
}

func (s *theatreService) requireMember(ctx context.Context, theatreID, userID string) error {
	member, err := s.theatreRepo.IsMember(ctx, theatreID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	return nil
}

// mergedEntries recomputes the merged list for the current roster. Mode
// filtering is always a function of the members as they are right now,
// never of historical contributions.
func (s *theatreService) mergedEntries(ctx context.Context, theatre *models.Theatre, memberIDs []string) ([]merge.Entry, error) {
	items, err := s.watchlistRepo.ListForUsers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	return merge.Merge(toMergeItems(items), memberIDs, merge.Mode(theatre.MergeMode)), nil
}

func toMergeItems(items []models.WatchlistItem) []merge.Item {
	converted := make([]merge.Item, 0, len(items))
	for _, item := range items {
		converted = append(converted, merge.Item{
			UserID:    item.UserID,
			ImdbID:    item.ImdbID,
			Title:     item.Title,
			Year:      item.Year,
			PosterURL: item.PosterURL,
			Watched:   item.Watched,
			AddedAt:   item.AddedAt,
		})
	}
	return converted
}
