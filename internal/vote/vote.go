// Package vote provides the small accumulate-then-argmax tally shared by
// the collection aggregator's boosted vote (C2) and the ensemble
// decider's weighted vote (C3). The number of distinct languages per
// item is bounded by the number of configured classifiers, so a
// sorted-on-read slice is enough -- no heap needed.
package vote

import "sort"

// Tally accumulates a float score per language code.
type Tally struct {
	scores map[string]float64
	order  []string // first-inserted order, for stable tie-breaking
}

// New returns an empty Tally.
func New() *Tally {
	return &Tally{scores: make(map[string]float64)}
}

// Add accumulates amount onto lang's running score.
func (t *Tally) Add(lang string, amount float64) {
	if _, ok := t.scores[lang]; !ok {
		t.order = append(t.order, lang)
	}
	t.scores[lang] += amount
}

// Score returns lang's current accumulated score (0 if never added to).
func (t *Tally) Score(lang string) float64 {
	return t.scores[lang]
}

// Len returns the number of distinct languages with a recorded score.
func (t *Tally) Len() int {
	return len(t.scores)
}

// Entry is one language's accumulated score.
type Entry struct {
	Lang  string
	Score float64
}

// Entries returns all (lang, score) pairs sorted by descending score;
// ties are broken by first-inserted order ("first-inserted wins"), giving
// a deterministic result across repeated runs on the same input.
func (t *Tally) Entries() []Entry {
	rank := make(map[string]int, len(t.order))
	for i, lang := range t.order {
		rank[lang] = i
	}

	entries := make([]Entry, 0, len(t.scores))
	for lang, score := range t.scores {
		entries = append(entries, Entry{Lang: lang, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return rank[entries[i].Lang] < rank[entries[j].Lang]
	})
	return entries
}

// Winner returns the top-scoring language, its score, and whether the top
// two languages are tied on score (in which case the caller should treat
// the result as "no decision").
func (t *Tally) Winner() (lang string, score float64, tie bool) {
	entries := t.Entries()
	if len(entries) == 0 {
		return "", 0, false
	}
	top := entries[0]
	if len(entries) > 1 && entries[1].Score == top.Score {
		return top.Lang, top.Score, true
	}
	return top.Lang, top.Score, false
}

// DropBelow removes every language whose score is strictly less than min,
// returning a new Tally (the receiver is left untouched).
func (t *Tally) DropBelow(min float64) *Tally {
	out := New()
	for _, lang := range t.order {
		if t.scores[lang] >= min {
			out.Add(lang, t.scores[lang])
		}
	}
	return out
}
