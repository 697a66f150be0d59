package merge

import "sort"

// Order returns entries sorted for display: the pinned movie (tonight's
// pick) first, then by newest AddedAt, then unwatched before watched,
// with input order breaking any remaining ties. The input slice is not
// modified. A pinnedID that matches no entry pins nothing.
func Order(entries []Entry, pinnedID string) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if pinnedID != "" {
			if a.ImdbID == pinnedID {
				return b.ImdbID != pinnedID
			}
			if b.ImdbID == pinnedID {
				return false
			}
		}

		// Missing timestamps compare as the zero time here, which
		// sinks them below every real timestamp.
		if !a.AddedAt.Equal(b.AddedAt) {
			return a.AddedAt.After(b.AddedAt)
		}

		return !a.Watched && b.Watched
	})

	return sorted
}
