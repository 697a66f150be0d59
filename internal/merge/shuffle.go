package merge

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrEmptyCandidates is returned when a shuffle is attempted with no
// eligible movies. Callers surface it distinctly; it is not a silent
// no-op.
var ErrEmptyCandidates = errors.New("no movies to pick from")

// Picker draws uniformly random picks. Safe for concurrent use; the
// underlying source is guarded because shuffle requests can race.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a Picker seeded from the wall clock.
func NewPicker() *Picker {
	return NewSeededPicker(time.Now().UnixNano())
}

// NewSeededPicker returns a deterministic Picker for tests.
func NewSeededPicker(seed int64) *Picker {
	return &Picker{rng: rand.New(rand.NewSource(seed))}
}

// Pick selects one candidate with equal probability 1/N. Candidates
// must already be filtered to eligible (unwatched, in-room) movies.
// rand.Intn is uniform over the index range, so there is no modulo
// bias to correct for.
func (p *Picker) Pick(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	p.mu.Lock()
	i := p.rng.Intn(len(candidates))
	p.mu.Unlock()
	return candidates[i], nil
}
