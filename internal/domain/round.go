package domain

import (
	"strings"
	"time"
)

// Round represents a single timed word-submission phase
type Round struct {
	Number      int               `json:"number"`
	CreatedAt   time.Time         `json:"createdAt"`
	Duration    time.Duration     `json:"duration"`
	Submissions map[string]string `json:"submissions"` // playerID -> normalized word

	order []string // playerIDs in first-submission order
}

// NewRound creates a new round with the given number and start time
func NewRound(number int, createdAt time.Time, duration time.Duration) *Round {
	return &Round{
		Number:      number,
		CreatedAt:   createdAt,
		Duration:    duration,
		Submissions: make(map[string]string),
		order:       make([]string, 0),
	}
}

// NormalizeWord trims surrounding whitespace and case-folds a submission
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// EndsAt returns the deadline of the round
func (r *Round) EndsAt() time.Time {
	return r.CreatedAt.Add(r.Duration)
}

// TimeExpired reports whether the round deadline has passed
func (r *Round) TimeExpired(now time.Time) bool {
	return !now.Before(r.EndsAt())
}

// Remaining returns the time left before the deadline, never negative
func (r *Round) Remaining(now time.Time) time.Duration {
	left := r.EndsAt().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// record stores a normalized word, keeping the player's original position on overwrite
func (r *Round) record(playerID, word string) {
	if _, ok := r.Submissions[playerID]; !ok {
		r.order = append(r.order, playerID)
	}
	r.Submissions[playerID] = word
}

// HasSubmitted checks if a player has a submission this round
func (r *Round) HasSubmitted(playerID string) bool {
	_, ok := r.Submissions[playerID]
	return ok
}

// SubmissionCount returns the number of players who have submitted
func (r *Round) SubmissionCount() int {
	return len(r.Submissions)
}

// AllSubmitted returns true if every given player has submitted
func (r *Round) AllSubmitted(players []*Player) bool {
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !r.HasSubmitted(p.ID) {
			return false
		}
	}
	return true
}

// AllMatch returns true if there is at least one submission and all words are identical
func (r *Round) AllMatch() bool {
	if len(r.order) == 0 {
		return false
	}
	first := r.Submissions[r.order[0]]
	for _, id := range r.order[1:] {
		if r.Submissions[id] != first {
			return false
		}
	}
	return true
}

// Words returns the submitted words in first-submission order
func (r *Round) Words() []string {
	words := make([]string, 0, len(r.order))
	for _, id := range r.order {
		words = append(words, r.Submissions[id])
	}
	return words
}

// SubmissionsCopy returns a copy of the submissions map safe to hand to other goroutines
func (r *Round) SubmissionsCopy() map[string]string {
	out := make(map[string]string, len(r.Submissions))
	for id, word := range r.Submissions {
		out[id] = word
	}
	return out
}
