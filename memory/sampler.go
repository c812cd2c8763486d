package memory

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// firstN is a zerolog sampler that lets the first limit events through and
// drops everything after that until reset.
type firstN struct {
	limit uint32
	count atomic.Uint32
}

// Sample implements zerolog.Sampler.
func (s *firstN) Sample(zerolog.Level) bool {
	if s.count.Load() >= s.limit {
		return false
	}
	return s.count.Add(1) <= s.limit
}

func (s *firstN) reset() {
	s.count.Store(0)
}
