package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
)

// VoteTally accumulates the votes a normalized word received across the
// algorithms of one ensemble run. MeanScore is recomputed on every update and
// is never stale.
type VoteTally struct {
	word       string
	count      int
	totalScore float64
	meanScore  float64
}

// NewVoteTally creates a tally holding the first vote for word.
// The word is stored as given; callers normalize it with NormalizeWord.
func NewVoteTally(word string, score float64) *VoteTally {
	t := &VoteTally{word: word, count: 1, totalScore: score}
	t.recalculate()
	return t
}

// Word returns the normalized word the tally is keyed by.
func (t *VoteTally) Word() string { return t.word }

// Count returns the number of algorithms that voted for the word.
func (t *VoteTally) Count() int { return t.count }

// TotalScore returns the sum of the scores of every vote.
func (t *VoteTally) TotalScore() float64 { return t.totalScore }

// MeanScore returns TotalScore divided by Count.
func (t *VoteTally) MeanScore() float64 { return t.meanScore }

// AddVote records one more vote carrying score.
func (t *VoteTally) AddVote(score float64) {
	t.count++
	t.totalScore += score
	t.recalculate()
}

// Merge adds count votes with a combined score of score.
// Count must be a positive integer and score a finite number.
func (t *VoteTally) Merge(count int, score float64) error {
	if count < 1 {
		return fmt.Errorf("%w: vote count increment must be positive, got %d", ErrInvalidConfiguration, count)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("%w: vote score must be a finite number, got %f", ErrInvalidConfiguration, score)
	}

	t.count += count
	t.totalScore += score
	t.recalculate()
	return nil
}

func (t *VoteTally) recalculate() { t.meanScore = t.totalScore / float64(t.count) }

// String renders the tally for reports.
func (t *VoteTally) String() string {
	return fmt.Sprintf("word: '%s' | count: '%d' | mean_score: %0.3f", t.word, t.count, t.meanScore)
}

// MarshalJSON exposes the unexported fields for reporting.
func (t *VoteTally) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Word       string  `json:"word"`
		Count      int     `json:"count"`
		TotalScore float64 `json:"total_score"`
		MeanScore  float64 `json:"mean_score"`
	}{t.word, t.count, t.totalScore, t.meanScore})
}

// CompareTallies orders tallies by vote count, highest first, and then by
// rounded mean score, highest first. Entries equal on both keys compare as 0
// so a stable sort keeps first-seen order.
func CompareTallies(a, b *VoteTally) int {
	if c := cmp.Compare(b.count, a.count); c != 0 {
		return c
	}
	return cmp.Compare(Round(b.meanScore, ScorePrecision), Round(a.meanScore, ScorePrecision))
}

// Ballot is the full record of one ensemble run: the best prediction of
// every algorithm that found a match, and the resulting ranked tallies.
type Ballot struct {
	// Winners holds each algorithm's best prediction, highest score first.
	Winners []Prediction `json:"winners"`

	// Tallies holds the consensus ranking after top-N slicing.
	Tallies []*VoteTally `json:"tallies"`
}
