package types

// CollectionStats is the per-collection statistics document C2 produces
// from the stage-1 records belonging to one collection: a frequency
// breakdown per classifier (plus orig_lg and the ensemble's boosted-vote
// decision), a per-classifier, per-language agreement rate with the
// ensemble decision, the overall agreement rate of items' original
// metadata language, and the dominant language, the most frequent
// ensemble decision.
type CollectionStats struct {
	Collection string `json:"collection"`
	N          int    `json:"n"`

	// LidDistributions maps classifier name -> language -> relative
	// frequency of that language among the classifier's top predictions.
	// Converted from raw counts to frequencies only after LgSupport and
	// OverallOrigLgSupport have been computed from the raw counts.
	LidDistributions map[string]map[string]float64 `json:"lid_distributions"`

	// LgSupport maps classifier name (or "orig_lg") -> language ->
	// conditional agreement rate: the fraction of items where that
	// classifier's top prediction was lang for which the ensemble
	// decision also landed on lang.
	LgSupport map[string]map[string]float64 `json:"lg_support"`

	// OverallOrigLgSupport is the fraction of orig_lg predictions the
	// ensemble agreed with, nil when no item in the collection carried
	// an orig_lg.
	OverallOrigLgSupport *float64 `json:"overall_orig_lg_support"`

	DominantLanguage      string  `json:"dominant_language"`
	DominantLanguageRatio float64 `json:"dominant_language_ratio"`

	// ContentitemTypeDistribution maps content-item type (e.g. "ar",
	// "page") -> raw count within the collection. Unlike LidDistributions,
	// this is never converted to a relative frequency.
	ContentitemTypeDistribution map[string]int `json:"contentitem_type_distribution"`
}

// Vote is one language's share of an ensemble decision, emitted on
// FinalRecord when the decider's R3 weighted vote produced the outcome.
type Vote struct {
	Lang string  `json:"lang"`
	Vote float64 `json:"vote"`
}

// FinalRecord is the per-item output of the ensemble decider (C3): the
// decided language, which rule produced it, and -- when the decision
// came from the weighted vote rather than a short-circuit rule -- the
// vote breakdown that led to it.
type FinalRecord struct {
	ID     string `json:"id"`
	Type   string `json:"tp"`
	Len    int    `json:"len"`
	OrigLg string `json:"orig_lg,omitempty"`

	Collection string `json:"collection"`
	Year       string `json:"year"`

	// Lg is nil for image items ("lg = null"); LgDecision is empty only
	// in that same case (rule R0).
	Lg         *string `json:"lg"`
	LgDecision string  `json:"lg_decision,omitempty"`

	Votes []Vote `json:"votes,omitempty"`

	// AlphabeticalRatio and Classifiers are carried through from the
	// stage-1 record unchanged; they play no part in the decision
	// cascade itself, only in the final record's shape.
	AlphabeticalRatio float64
	HasAlphaRatio     bool
	Classifiers       *ClassifierFields

	Version LIDVersion `json:"version"`
}
