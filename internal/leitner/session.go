package leitner

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/Emily9121/WifeyMOOC/internal/deck"
)

// ErrNoCard is returned by Record when no card is being shown.
var ErrNoCard = errors.New("no current card")

// Session is one flashcard review session over a deck.
type Session struct {
	cards    []deck.Card
	progress map[string]*Progress
	queue    []deck.Card
	total    int
	current  *deck.Card
	now      func() time.Time
	rng      *rand.Rand
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand sets the random source used to shuffle reviewed cards.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// NewSession creates a session over cards, seeded with saved progress.
// Cards without progress start in box 1 and are due immediately. Saved
// progress for cards no longer in the deck is kept and saved back.
func NewSession(cards []deck.Card, saved []Progress, opts ...Option) *Session {
	s := &Session{
		cards:    cards,
		progress: make(map[string]*Progress, len(cards)),
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(s)
	}
	for i := range saved {
		p := saved[i]
		if p.Box < 1 {
			p.Box = 1
		}
		s.progress[p.CardID] = &p
	}
	for _, c := range cards {
		p, ok := s.progress[c.ID]
		if !ok {
			s.progress[c.ID] = &Progress{CardID: c.ID, Front: c.Front, Back: c.Back, Box: 1}
			continue
		}
		p.Front, p.Back = c.Front, c.Back
	}
	return s
}

// Start queues the due cards: box 1 first, most failed first, then the
// others in random order, truncated to size. A size <= 0 uses
// DefaultSessionSize.
func (s *Session) Start(size int) {
	if size <= 0 {
		size = DefaultSessionSize
	}
	now := s.now()
	var priority, rest []deck.Card
	for _, c := range s.cards {
		p := s.progress[c.ID]
		if !p.IsDue(now) {
			continue
		}
		if p.Box == 1 {
			priority = append(priority, c)
		} else {
			rest = append(rest, c)
		}
	}

	sort.SliceStable(priority, func(i, j int) bool {
		return s.progress[priority[i].ID].Failures() > s.progress[priority[j].ID].Failures()
	})
	s.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	s.queue = append(priority, rest...)
	if len(s.queue) > size {
		s.queue = s.queue[:size]
	}
	s.total = len(s.queue)
	s.current = nil
}

// Next pops the next card. It returns false when the session is over.
func (s *Session) Next() (deck.Card, bool) {
	if len(s.queue) == 0 {
		s.current = nil
		return deck.Card{}, false
	}
	c := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &c
	return c, true
}

// Current returns the card being shown.
func (s *Session) Current() (deck.Card, bool) {
	if s.current == nil {
		return deck.Card{}, false
	}
	return *s.current, true
}

// Record grades the current card and returns its updated progress.
func (s *Session) Record(correct bool) (Progress, error) {
	if s.current == nil {
		return Progress{}, ErrNoCard
	}
	p := s.progress[s.current.ID]
	p.Record(correct, s.now())
	return *p, nil
}

// Remaining returns the number of cards not yet shown.
func (s *Session) Remaining() int { return len(s.queue) }

// Total returns the number of cards queued at Start.
func (s *Session) Total() int { return s.total }

// Progress returns the state of one card.
func (s *Session) Progress(cardID string) (Progress, bool) {
	p, ok := s.progress[cardID]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

// Export returns every card's progress ordered by card id.
func (s *Session) Export() []Progress {
	out := make([]Progress, 0, len(s.progress))
	for _, p := range s.progress {
		cp := *p
		cp.Attempts = slices.Clone(p.Attempts)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	return out
}

// BoxCounts returns how many cards sit in each box.
func (s *Session) BoxCounts() map[int]int {
	counts := make(map[int]int, MaxBox)
	for _, p := range s.progress {
		counts[p.Box]++
	}
	return counts
}
