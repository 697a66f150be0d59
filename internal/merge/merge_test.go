package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func at(offset int) time.Time {
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(offset) * time.Hour)
}

func sampleItems() []Item {
	return []Item{
		{UserID: "x", ImdbID: "tt0001", Title: "Movie A", Year: "1999", AddedAt: at(1), Watched: false},
		{UserID: "y", ImdbID: "tt0001", Title: "Movie A (remaster)", Year: "2001", AddedAt: at(2), Watched: true},
		{UserID: "x", ImdbID: "tt0002", Title: "Movie B", Year: "2005", AddedAt: at(3), Watched: false},
	}
}

func imdbIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ImdbID)
	}
	return ids
}

func TestMergeUnion(t *testing.T) {
	members := []string{"x", "y"}
	entries := Merge(sampleItems(), members, ModeUnion)

	assert.Equal(t, []string{"tt0001", "tt0002"}, imdbIDs(entries))

	a := entries[0]
	assert.Equal(t, []string{"x", "y"}, a.AddedBy)
	// y's copy is newer, so its display fields win.
	assert.Equal(t, "Movie A (remaster)", a.Title)
	assert.Equal(t, at(2), a.AddedAt)
	// x has not watched it, which forces the merged flag false.
	assert.False(t, a.Watched)

	b := entries[1]
	assert.Equal(t, []string{"x"}, b.AddedBy)
	assert.False(t, b.Watched)
}

func TestMergeIntersection(t *testing.T) {
	members := []string{"x", "y"}
	entries := Merge(sampleItems(), members, ModeIntersection)

	assert.Equal(t, []string{"tt0001"}, imdbIDs(entries))
	for _, e := range entries {
		for _, m := range members {
			assert.Contains(t, e.AddedBy, m)
		}
	}
}

func TestMergeExactlyOne(t *testing.T) {
	entries := Merge(sampleItems(), []string{"x", "y"}, ModeExactlyOne)

	assert.Equal(t, []string{"tt0002"}, imdbIDs(entries))
	assert.Len(t, entries[0].AddedBy, 1)
}

func TestMergeWatchedRequiresAllContributors(t *testing.T) {
	items := []Item{
		{UserID: "x", ImdbID: "tt0003", AddedAt: at(1), Watched: true},
		{UserID: "y", ImdbID: "tt0003", AddedAt: at(2), Watched: true},
	}
	entries := Merge(items, []string{"x", "y"}, ModeUnion)
	assert.True(t, entries[0].Watched)

	items = append(items, Item{UserID: "z", ImdbID: "tt0003", AddedAt: at(3), Watched: false})
	entries = Merge(items, []string{"x", "y", "z"}, ModeUnion)
	assert.False(t, entries[0].Watched)
}

func TestMergeDisplayTieKeepsFirstSeen(t *testing.T) {
	items := []Item{
		{UserID: "x", ImdbID: "tt0004", Title: "first", AddedAt: at(1)},
		{UserID: "y", ImdbID: "tt0004", Title: "second", AddedAt: at(1)},
	}
	entries := Merge(items, []string{"x", "y"}, ModeUnion)
	assert.Equal(t, "first", entries[0].Title)
}

func TestMergeEmptyItems(t *testing.T) {
	for _, mode := range []Mode{ModeUnion, ModeIntersection, ModeExactlyOne} {
		assert.Empty(t, Merge(nil, []string{"x"}, mode))
	}
}

func TestMergeIntersectionEmptyWithListlessMember(t *testing.T) {
	// z joined but added nothing, so nothing is common to everyone.
	entries := Merge(sampleItems(), []string{"x", "y", "z"}, ModeIntersection)
	assert.Empty(t, entries)

	// The union stays nonempty regardless.
	assert.NotEmpty(t, Merge(sampleItems(), []string{"x", "y", "z"}, ModeUnion))
}

func TestMergeIntersectionIgnoresDepartedContributors(t *testing.T) {
	// y contributed tt0001 but is no longer a member.
	entries := Merge(sampleItems(), []string{"x"}, ModeIntersection)
	assert.Equal(t, []string{"tt0001", "tt0002"}, imdbIDs(entries))
}

func TestMergeModesPartitionUnion(t *testing.T) {
	members := []string{"x", "y"}
	items := sampleItems()

	union := Merge(items, members, ModeUnion)
	intersection := Merge(items, members, ModeIntersection)
	exactlyOne := Merge(items, members, ModeExactlyOne)

	unionIDs := imdbIDs(union)
	for _, e := range intersection {
		assert.Contains(t, unionIDs, e.ImdbID)
	}
	for _, e := range exactlyOne {
		assert.Contains(t, unionIDs, e.ImdbID)
		assert.Len(t, e.AddedBy, 1)
	}

	// Single-contributor and multi-contributor entries partition the union.
	multi := 0
	for _, e := range union {
		if len(e.AddedBy) > 1 {
			multi++
		}
	}
	assert.Equal(t, len(union), multi+len(exactlyOne))
}

func TestMergeIdempotent(t *testing.T) {
	members := []string{"x", "y"}
	first := Merge(sampleItems(), members, ModeUnion)
	second := Merge(sampleItems(), members, ModeUnion)
	assert.Equal(t, first, second)
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeUnion.Valid())
	assert.True(t, ModeIntersection.Valid())
	assert.True(t, ModeExactlyOne.Valid())
	assert.False(t, Mode("everything").Valid())
}
