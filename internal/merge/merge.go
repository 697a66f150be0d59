// Package merge implements the theatre merge engine: combining the
// personal watchlists of a room's members into a single merged view,
// ordering that view for display, and drawing tonight's pick from it.
// Everything in this package is a pure function over in-memory inputs;
// all reads and writes happen in the calling service layer, and the
// merged view is recomputed from scratch on every read.
package merge

import "time"

// Mode selects how members' lists are combined.
type Mode string

const (
	// ModeUnion keeps everything from everyone.
	ModeUnion Mode = "union"
	// ModeIntersection keeps only movies every current member holds.
	ModeIntersection Mode = "intersection"
	// ModeExactlyOne keeps movies held by precisely one member. The
	// wire value is "xor" to match the theatres merge_mode enum.
	ModeExactlyOne Mode = "xor"
)

// Valid reports whether m is a recognised merge mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeUnion, ModeIntersection, ModeExactlyOne:
		return true
	}
	return false
}

// Item is one user's watchlist row as fed into the merge.
type Item struct {
	UserID    string
	ImdbID    string
	Title     string
	Year      string
	PosterURL *string
	Watched   bool
	AddedAt   time.Time
}

// Entry is the merged, per-theatre view of one movie. It is derived on
// every read and never persisted.
type Entry struct {
	ImdbID    string
	Title     string
	Year      string
	PosterURL *string
	// Watched is true only when every contributor has watched the
	// movie; a single unwatched contributor forces it false.
	Watched bool
	// AddedAt is the newest contributing timestamp; display fields
	// above come from that same newest item.
	AddedAt time.Time
	// AddedBy lists contributing user ids in discovery order.
	AddedBy []string
}

// Merge folds the members' watchlist items into one entry per movie and
// applies the mode filter. Entries come back in first-seen order; final
// presentation order is Order's job. The fold is stable: when two
// contributions share the newest AddedAt, the first one seen keeps the
// display fields.
func Merge(items []Item, memberIDs []string, mode Mode) []Entry {
	index := make(map[string]int, len(items))
	entries := make([]Entry, 0, len(items))

	for _, item := range items {
		i, ok := index[item.ImdbID]
		if !ok {
			index[item.ImdbID] = len(entries)
			entries = append(entries, Entry{
				ImdbID:    item.ImdbID,
				Title:     item.Title,
				Year:      item.Year,
				PosterURL: item.PosterURL,
				Watched:   item.Watched,
				AddedAt:   item.AddedAt,
				AddedBy:   []string{item.UserID},
			})
			continue
		}

		entry := &entries[i]
		// Latest added wins the display fields; strict comparison
		// keeps the fold stable on equal timestamps.
		if item.AddedAt.After(entry.AddedAt) {
			entry.Title = item.Title
			entry.Year = item.Year
			entry.PosterURL = item.PosterURL
			entry.AddedAt = item.AddedAt
		}
		if !item.Watched {
			entry.Watched = false
		}
		entry.AddedBy = append(entry.AddedBy, item.UserID)
	}

	switch mode {
	case ModeIntersection:
		filtered := entries[:0:0]
		for _, entry := range entries {
			if heldByAll(entry.AddedBy, memberIDs) {
				filtered = append(filtered, entry)
			}
		}
		return filtered
	case ModeExactlyOne:
		filtered := entries[:0:0]
		for _, entry := range entries {
			if len(entry.AddedBy) == 1 {
				filtered = append(filtered, entry)
			}
		}
		return filtered
	default:
		return entries
	}
}

// heldByAll reports whether every current member contributed the entry.
// Membership is evaluated against the current roster only: a former
// member's contributions stop counting the moment they leave.
func heldByAll(addedBy, memberIDs []string) bool {
	if len(memberIDs) == 0 {
		return false
	}
	held := make(map[string]struct{}, len(addedBy))
	for _, id := range addedBy {
		held[id] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := held[id]; !ok {
			return false
		}
	}
	return true
}
