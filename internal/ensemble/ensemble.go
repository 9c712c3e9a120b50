// Package ensemble implements the ensemble decider (C3): combining a
// stage-1 record with its collection's stats document, it runs the R0-R3
// rule cascade and emits a final record.
package ensemble

import (
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/textstat"
	"github.com/impresso-project/lid-ensemble-go/internal/vote"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// minimalOrigLgSupport is the epsilon probability assigned to the
// synthetic orig_lg pseudo-classifier when C2 recorded no support for
// that language at all (rule R1).
const minimalOrigLgSupport = 1e-5

// defaultMajorLangs are excluded from rule R2b's "minor language" test.
var defaultMajorLangs = map[string]bool{"de": true, "fr": true, "en": true, "it": true}

const (
	DecisionAll              = "all"
	DecisionAllButImpressoFt = "all-but-impresso_ft"
	DecisionDominantByLen    = "dominant-by-len"
	DecisionDominantByLowVote = "dominant-by-lowvote"
	DecisionVoting           = "voting"
)

// topPrediction is one present classifier's top prediction, carried
// alongside its name through the cascade.
type topPrediction struct {
	lid  string
	lang string
	prob float64
}

// Decide runs the R0-R3 cascade for one stage-1 record against its
// collection's stats document, producing a final record. collection and
// year are the values ID parsing already derived for rec.
func Decide(rec types.Stage1Record, collection, year string, stats types.CollectionStats, cfg ensconfig.C3Config) types.FinalRecord {
	out := types.FinalRecord{
		ID:                rec.ID,
		Type:              rec.Type,
		Len:               rec.Len,
		OrigLg:            rec.OrigLg,
		Collection:        collection,
		Year:              year,
		AlphabeticalRatio: rec.AlphabeticalRatio,
		HasAlphaRatio:     rec.HasAlphaRatio,
		Classifiers:       rec.Classifiers,
		Version:           rec.Version,
	}

	if rec.Type == "img" {
		return out // R0: lg stays nil, lg_decision stays empty.
	}

	dominantLg := stats.DominantLanguage
	dominantRatio := stats.DominantLanguageRatio

	tops := presentTops(rec, cfg.Lids)

	// R1: fold orig_lg in as a synthetic classifier, or drop it.
	trustOrigLg := stats.OverallOrigLgSupport != nil && *stats.OverallOrigLgSupport > cfg.ThresholdConfidenceOrigLg
	if trustOrigLg && rec.OrigLg != "" {
		prob := minimalOrigLgSupport
		if support, ok := stats.LgSupport["orig_lg"]; ok {
			if s, ok := support[rec.OrigLg]; ok && s > 0 {
				prob = s
			}
		}
		tops = append(tops, topPrediction{lid: "orig_lg", lang: rec.OrigLg, prob: prob})
	}

	// R2a: unanimous.
	if lang, unanimous := unanimousLang(tops); unanimous {
		return decided(out, lang, DecisionAll, nil)
	}

	// R2b: non-ft consensus on a minor language.
	if lang, ok := nonFtConsensus(tops, rec, stats, cfg); ok {
		return decided(out, lang, DecisionAllButImpressoFt, nil)
	}

	// R2c: too short.
	if rec.Len < cfg.MinimalTextLength {
		return decided(out, dominantLg, DecisionDominantByLen, nil)
	}

	// R3: weighted vote, or a fallback to the dominant language when the
	// item's own text is too noisy to trust (alphabetical_ratio gate).
	var tally *vote.Tally
	if rec.HasAlphaRatio && rec.AlphabeticalRatio < cfg.AlphabeticalRatioThreshold {
		tally = vote.New()
		tally.Add(dominantLg, 1)
	} else {
		tally = weightedVote(tops, collection, stats, dominantLg, dominantRatio, cfg)
	}

	winner, score, _ := tally.Winner()
	if winner == "" || score < cfg.MinimalVotingScore {
		return decided(out, dominantLg, DecisionDominantByLowVote, nil)
	}
	return decided(out, winner, DecisionVoting, roundedVotes(tally, cfg.RoundNDigits))
}

func decided(out types.FinalRecord, lang, decision string, votes []types.Vote) types.FinalRecord {
	l := lang
	out.Lg = &l
	out.LgDecision = decision
	out.Votes = votes
	return out
}

// presentTops returns the top prediction of every classifier in lids
// that rec's Classifiers actually carries a (non-nil) prediction for, in
// lids order.
func presentTops(rec types.Stage1Record, lids []string) []topPrediction {
	if rec.Classifiers == nil {
		return nil
	}
	out := make([]topPrediction, 0, len(lids))
	for _, lid := range lids {
		preds, ok := rec.Classifiers.Get(lid)
		if !ok {
			continue
		}
		top, ok := preds.Top()
		if !ok {
			continue
		}
		out = append(out, topPrediction{lid: lid, lang: top.Lang, prob: top.Prob})
	}
	return out
}

// unanimousLang reports whether every entry in tops names the same
// language, returning it if so.
func unanimousLang(tops []topPrediction) (string, bool) {
	if len(tops) == 0 {
		return "", false
	}
	lang := tops[0].lang
	for _, t := range tops[1:] {
		if t.lang != lang {
			return "", false
		}
	}
	return lang, true
}

// nonFtConsensus implements R2b: excluding impresso_ft, if exactly one
// distinct language L remains, L is not one of the major default
// languages, L appears in the collection's ensemble distribution, and
// the item's effective length clears minimal_text_length.
func nonFtConsensus(tops []topPrediction, rec types.Stage1Record, stats types.CollectionStats, cfg ensconfig.C3Config) (string, bool) {
	langs := make(map[string]bool)
	for _, t := range tops {
		if t.lid == "impresso_ft" {
			continue
		}
		langs[t.lang] = true
	}
	if len(langs) != 1 {
		return "", false
	}
	var lang string
	for l := range langs {
		lang = l
	}
	if defaultMajorLangs[lang] {
		return "", false
	}
	if _, ok := stats.LidDistributions["ensemble"][lang]; !ok {
		return "", false
	}
	ratio := rec.AlphabeticalRatio
	if !rec.HasAlphaRatio {
		ratio = 1.0
	}
	if float64(rec.Len)*ratio < float64(cfg.MinimalTextLength) {
		return "", false
	}
	return lang, true
}

// weightedVote tallies each present classifier's top prediction with a
// dominance penalty and a Luxembourgish boost, applied independently of
// the collection aggregator's own boosted vote.
func weightedVote(tops []topPrediction, collection string, stats types.CollectionStats, dominantLg string, dominantRatio float64, cfg ensconfig.C3Config) *vote.Tally {
	admissible := setOf(cfg.AdmissibleLanguages)
	excludeLb := setOf(cfg.ExcludeLb)

	tally := vote.New()
	for _, t := range tops {
		if len(admissible) > 0 && !admissible[t.lang] {
			continue
		}
		if t.lang == "lb" && excludeLb[collection] {
			continue
		}
		if t.prob < cfg.MinimalLidProbability {
			continue
		}
		support, ok := lookupSupport(stats, t.lid, t.lang)
		if !ok || support == 0 {
			continue
		}

		v := t.prob * support
		if dominantRatio >= cfg.DominantLanguageThreshold && t.lang != dominantLg {
			v *= 1 - (dominantRatio-cfg.DominantLanguageThreshold)/(1-cfg.DominantLanguageThreshold)
		}
		if t.lid == "impresso_ft" && t.lang == "lb" {
			v *= cfg.WeightLbImpressoFt
		}
		tally.Add(t.lang, v)
	}
	return tally
}

func lookupSupport(stats types.CollectionStats, lid, lang string) (float64, bool) {
	byLang, ok := stats.LgSupport[lid]
	if !ok {
		return 0, false
	}
	s, ok := byLang[lang]
	return s, ok
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

func roundedVotes(tally *vote.Tally, ndigits int) []types.Vote {
	entries := tally.Entries()
	out := make([]types.Vote, len(entries))
	for i, e := range entries {
		out[i] = types.Vote{Lang: e.Lang, Vote: textstat.Round(e.Score, ndigits)}
	}
	return out
}
