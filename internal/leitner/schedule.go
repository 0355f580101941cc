// Package leitner schedules flashcard reviews with five Leitner boxes.
package leitner

import "time"

// Intervals maps each box to its review interval in days.
var Intervals = map[int]int{1: 1, 2: 3, 3: 7, 4: 14, 5: 30}

// MaxBox is the highest box.
const MaxBox = 5

// DefaultSessionSize is the number of cards reviewed per session.
const DefaultSessionSize = 20

// Attempt is one review of a card.
type Attempt struct {
	Date    time.Time `json:"date"`
	Correct bool      `json:"correct"`
}

// Progress is the review state of one card. Front and Back are copied from
// the deck so progress files stay readable on their own.
type Progress struct {
	CardID     string    `json:"id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	Box        int       `json:"box"`
	ReviewDate time.Time `json:"reviewDate"`
	Attempts   []Attempt `json:"attempts"`
}

// IsDue returns true if the card is due for review (at or past the review
// date). Cards never scheduled are always due.
func (p *Progress) IsDue(now time.Time) bool {
	return !now.Before(p.ReviewDate)
}

// Failures counts incorrect attempts.
func (p *Progress) Failures() int {
	n := 0
	for _, a := range p.Attempts {
		if !a.Correct {
			n++
		}
	}
	return n
}

// Record appends the attempt, moves the card up one box on success or back
// to box 1 on failure, and schedules the next review.
func (p *Progress) Record(correct bool, now time.Time) {
	p.Attempts = append(p.Attempts, Attempt{Date: now, Correct: correct})
	if correct {
		p.Box = min(max(p.Box, 1)+1, MaxBox)
	} else {
		p.Box = 1
	}
	p.ReviewDate = now.AddDate(0, 0, IntervalDays(p.Box))
}

// IntervalDays returns the interval of box, clamping out-of-range boxes.
func IntervalDays(box int) int {
	return Intervals[min(max(box, 1), MaxBox)]
}
