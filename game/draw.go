package game

import (
	"errors"
	"time"

	"github.com/bellapacxx/tombola-backend/models"
)

var (
	ErrSessionEnded   = errors.New("session has ended")
	ErrNumberRange    = errors.New("number must be an integer between 1 and 90")
	ErrAlreadyDrawn   = errors.New("number already drawn")
	ErrDuplicateDrawn = errors.New("drawn numbers must be unique")
)

// DrawResult is the outcome of a draw. Done means the pool was already
// exhausted and no number was produced.
type DrawResult struct {
	Done   bool
	Number int
}

// DrawNext draws the next number uniformly from the undrawn complement
// of 1..90. It never picks a drawn number: the pick is made on the
// complement, not by retrying. An empty complement ends the session.
func DrawNext(s *models.Session, rng Rand, now time.Time) (DrawResult, error) {
	if s.State.Ended {
		return DrawResult{}, ErrSessionEnded
	}
	remaining := make([]int, 0, 90-len(s.State.Drawn))
	for n := 1; n <= 90; n++ {
		if _, drawn := s.State.DrawnSet[n]; !drawn {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == 0 {
		s.MarkEnded(now)
		return DrawResult{Done: true}, nil
	}
	n := remaining[rng.Intn(len(remaining))]
	s.AppendDrawn(n)
	return DrawResult{Number: n}, nil
}

// DrawSpecific records a host-chosen number (manual out-of-band entry).
func DrawSpecific(s *models.Session, n int) (DrawResult, error) {
	if s.State.Ended {
		return DrawResult{}, ErrSessionEnded
	}
	if n < 1 || n > 90 {
		return DrawResult{}, ErrNumberRange
	}
	if _, drawn := s.State.DrawnSet[n]; drawn {
		return DrawResult{}, ErrAlreadyDrawn
	}
	s.AppendDrawn(n)
	return DrawResult{Number: n}, nil
}

// SetDrawn replaces the drawn sequence wholesale, as if the given
// numbers had been drawn in that order. Shrinking the set is allowed
// (replay/rewind). Win flags and winner history are wiped; the caller
// must re-run RecomputeWins so state matches the new sequence.
func SetDrawn(s *models.Session, nums []int) error {
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		if n < 1 || n > 90 {
			return ErrNumberRange
		}
		if _, dup := seen[n]; dup {
			return ErrDuplicateDrawn
		}
		seen[n] = struct{}{}
	}
	s.ReplaceDrawn(nums)
	s.ClearEnded()
	s.ResetWins()
	return nil
}

// ResetPartial clears draws, wins and manual marks but keeps players
// and cards.
func ResetPartial(s *models.Session) {
	s.ReplaceDrawn(nil)
	s.ClearEnded()
	s.ResetWins()
	for _, p := range s.Players {
		for _, c := range p.Cards {
			c.ManuallyMarked = nil
		}
	}
}

// End force-ends the session.
func End(s *models.Session, now time.Time) {
	s.MarkEnded(now)
}
