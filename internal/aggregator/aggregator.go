// Package aggregator implements the collection aggregator (C2): it
// reduces a stream of stage-1 records belonging to one collection into
// a single CollectionStats document.
package aggregator

import (
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/textstat"
	"github.com/impresso-project/lid-ensemble-go/internal/vote"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

const admissionAlphaRatioFloor = 0.5

// origLgKey is the pseudo-classifier name lid_distributions and
// lg_support use for the item's metadata language.
const origLgKey = "orig_lg"

// ensembleKey is the pseudo-classifier name lid_distributions uses for
// the per-item boosted-vote winner.
const ensembleKey = "ensemble"

// Aggregator accumulates stage-1 records for one collection. Add
// records in stream order, then call Finalize once to produce the
// CollectionStats document; an Aggregator must not be reused after
// Finalize.
type Aggregator struct {
	cfg ensconfig.C2Config

	collection string

	typeCounts map[string]int

	n int

	// raw counts, converted to relative frequencies in Finalize.
	lidCounts map[string]map[string]int

	// raw counts of "classifier/orig_lg top == ensemble winner",
	// converted to conditional relative frequency in Finalize.
	supportCounts map[string]map[string]int

	// ensembleOrder records each ensemble-winning language the first
	// time it is seen, so Finalize's dominant_language argmax can break
	// ties by "first-inserted wins".
	ensembleOrder []string
	ensembleSeen  map[string]bool
}

// New returns an empty Aggregator for collection, configured by cfg.
func New(collection string, cfg ensconfig.C2Config) *Aggregator {
	return &Aggregator{
		cfg:           cfg,
		collection:    collection,
		typeCounts:    make(map[string]int),
		lidCounts:     make(map[string]map[string]int),
		supportCounts: make(map[string]map[string]int),
		ensembleSeen:  make(map[string]bool),
	}
}

// Add folds one stage-1 record into the running aggregate.
func (a *Aggregator) Add(rec types.Stage1Record) {
	a.typeCounts[rec.Type]++

	if rec.Type == "img" {
		return
	}
	if !rec.HasAlphaRatio {
		return
	}
	if rec.AlphabeticalRatio < admissionAlphaRatioFloor {
		return
	}
	if float64(rec.Len)*rec.AlphabeticalRatio < float64(a.cfg.MinimalTextLength) {
		return
	}
	a.n++

	tops := make(map[string]string) // lid name -> top lang, present lids only
	if rec.Classifiers != nil {
		for _, name := range rec.Classifiers.Names() {
			preds, _ := rec.Classifiers.Get(name)
			top, ok := preds.Top()
			if !ok {
				continue
			}
			a.bump(name, top.Lang)
			tops[name] = top.Lang
		}
	}
	if rec.OrigLg != "" {
		a.bump(origLgKey, rec.OrigLg)
		tops[origLgKey] = rec.OrigLg
	}

	winner, ok := a.boostedVote(tops, rec.Classifiers)
	if !ok {
		return
	}
	a.bump(ensembleKey, winner)
	if !a.ensembleSeen[winner] {
		a.ensembleSeen[winner] = true
		a.ensembleOrder = append(a.ensembleOrder, winner)
	}
	for lid, lang := range tops {
		if lang == winner {
			a.bumpSupport(lid, winner)
		}
	}
}

func (a *Aggregator) bump(lid, lang string) {
	m, ok := a.lidCounts[lid]
	if !ok {
		m = make(map[string]int)
		a.lidCounts[lid] = m
	}
	m[lang]++
}

func (a *Aggregator) bumpSupport(lid, lang string) {
	m, ok := a.supportCounts[lid]
	if !ok {
		m = make(map[string]int)
		a.supportCounts[lid] = m
	}
	m[lang]++
}

// boostedVote computes the per-item ensemble decision: each present
// classifier (and orig_lg, when present) contributes a vote for
// its top language; a boosted_lids classifier's vote counts boost_factor
// instead of 1 only when at least one other system voted for the same
// language ("supported-only boosting"). Returns ("", false) when the
// top two languages tie, or when no language survives the thresholds.
func (a *Aggregator) boostedVote(tops map[string]string, classifiers *types.ClassifierFields) (string, bool) {
	admissible := setOf(a.cfg.AdmissibleLanguages)
	boosted := setOf(a.cfg.BoostedLids)

	// voters[lid] = lang, restricted to classifiers that clear the
	// admissible-language and minimal-probability filters. orig_lg has
	// no probability and is filtered only by admissible_languages.
	voters := make(map[string]string, len(tops))
	for lid, lang := range tops {
		if len(admissible) > 0 && !admissible[lang] {
			continue
		}
		if lid != origLgKey {
			preds, ok := classifiers.Get(lid)
			if !ok {
				continue
			}
			top, ok := preds.Top()
			if !ok || top.Prob < a.cfg.MinimalLidProbability {
				continue
			}
		}
		voters[lid] = lang
	}

	tally := vote.New()
	for lid, lang := range voters {
		amount := 1.0
		if boosted[lid] && hasOtherVoterFor(voters, lid, lang) {
			amount = a.cfg.BoostFactor
		}
		tally.Add(lang, amount)
	}

	surviving := tally.DropBelow(a.cfg.MinimalVoteScore)
	lang, _, tie := surviving.Winner()
	if tie || lang == "" {
		return "", false
	}
	return lang, true
}

func hasOtherVoterFor(voters map[string]string, excludeLid, lang string) bool {
	for lid, l := range voters {
		if lid != excludeLid && l == lang {
			return true
		}
	}
	return false
}

func setOf(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// Finalize produces the CollectionStats document for every record Added
// so far. Support ratios are computed from raw counts before
// lid_distributions is converted to relative frequencies -- that
// ordering matters, since support divides by the raw lid_distributions
// counts, not by the normalized frequencies.
func (a *Aggregator) Finalize() types.CollectionStats {
	overallOrigLgSupport, hasOverall := a.computeOverallOrigLgSupport()

	lgSupport := make(map[string]map[string]float64, len(a.supportCounts))
	for lid, langs := range a.supportCounts {
		out := make(map[string]float64, len(langs))
		for lang, count := range langs {
			denom := a.lidCounts[lid][lang]
			if denom > 0 {
				out[lang] = textstat.Round(float64(count)/float64(denom), a.cfg.RoundNDigits)
			}
		}
		lgSupport[lid] = out
	}

	lidDistributions := make(map[string]map[string]float64, len(a.lidCounts))
	for lid, langs := range a.lidCounts {
		out := make(map[string]float64, len(langs))
		for lang, count := range langs {
			if a.n > 0 {
				out[lang] = textstat.Round(float64(count)/float64(a.n), a.cfg.RoundNDigits)
			}
		}
		lidDistributions[lid] = out
	}

	dominantLang, dominantRatio := argmax(lidDistributions[ensembleKey], a.ensembleOrder)

	typeCounts := make(map[string]int, len(a.typeCounts))
	for tp, count := range a.typeCounts {
		typeCounts[tp] = count
	}

	stats := types.CollectionStats{
		Collection:                  a.collection,
		N:                           a.n,
		LidDistributions:            lidDistributions,
		LgSupport:                   lgSupport,
		DominantLanguage:            dominantLang,
		DominantLanguageRatio:       textstat.Round(dominantRatio, a.cfg.RoundNDigits),
		ContentitemTypeDistribution: typeCounts,
	}
	if hasOverall {
		rounded := textstat.Round(overallOrigLgSupport, a.cfg.RoundNDigits)
		stats.OverallOrigLgSupport = &rounded
	}
	return stats
}

// computeOverallOrigLgSupport computes
// Σ lg_support[orig_lg][lang] / Σ lid_distributions[orig_lg][lang], both
// sums taken over raw counts (before either map is normalized). Returns
// (0, false) when the denominator is 0 ("null / 0 → null").
func (a *Aggregator) computeOverallOrigLgSupport() (float64, bool) {
	denom := 0
	for _, count := range a.lidCounts[origLgKey] {
		denom += count
	}
	if denom == 0 {
		return 0, false
	}
	numer := 0
	for _, count := range a.supportCounts[origLgKey] {
		numer += count
	}
	return float64(numer) / float64(denom), true
}

// argmax returns the key with the highest value in dist and that value.
// Ties are broken by order, the first language to ever win an item's
// ensemble vote ("first-inserted wins").
func argmax(dist map[string]float64, order []string) (string, float64) {
	if len(dist) == 0 {
		return "", 0
	}
	best := order[0]
	for _, k := range order[1:] {
		if dist[k] > dist[best] {
			best = k
		}
	}
	return best, dist[best]
}
