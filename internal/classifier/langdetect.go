package classifier

import (
	"context"
	"sort"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// SeededPredictFunc is the raw statistical-detector call langdetect
// wraps: one draw of the model seeded deterministically, so repeated
// runs over identical bytes produce identical draws.
type SeededPredictFunc func(ctx context.Context, text string, seed int64) (types.Predictions, error)

// LangDetect wraps the statistical detector (langdetect): it re-draws up
// to Redraws times with seed, seed+1, seed+2, ... and averages the
// resulting probabilities, early-stopping once a draw's top language is
// in DefaultLangs and exceeds EarlyStopProb. Seeding the re-draw loop
// deterministically keeps repeated runs over identical input bytes
// numerically identical.
type LangDetect struct {
	predict      SeededPredictFunc
	seed         int64
	redraws      int
	defaultLangs map[string]bool
	earlyStop    float64
}

// NewLangDetect returns a langdetect wrapper. defaultLangs is the set of
// languages eligible for early-stopping; seed is the base seed for the
// first draw; redraws bounds how many draws are attempted.
func NewLangDetect(predict SeededPredictFunc, seed int64, redraws int, defaultLangs []string, earlyStopProb float64) *LangDetect {
	set := make(map[string]bool, len(defaultLangs))
	for _, l := range defaultLangs {
		set[l] = true
	}
	return &LangDetect{
		predict:      predict,
		seed:         seed,
		redraws:      redraws,
		defaultLangs: set,
		earlyStop:    earlyStopProb,
	}
}

func (l *LangDetect) Name() string { return "langdetect" }

func (l *LangDetect) Predict(ctx context.Context, text string) (types.Predictions, error) {
	sums := make(map[string]float64)
	order := []string{}
	draws := 0

	for i := 0; i < l.redraws; i++ {
		draw, err := l.predict(ctx, text, l.seed+int64(i))
		if err != nil {
			return nil, err
		}
		draws++
		for _, p := range draw {
			if _, ok := sums[p.Lang]; !ok {
				order = append(order, p.Lang)
			}
			sums[p.Lang] += p.Prob
		}

		if top, ok := draw.Top(); ok && l.defaultLangs[top.Lang] && top.Prob > l.earlyStop {
			break
		}
	}

	out := make(types.Predictions, 0, len(order))
	for _, lang := range order {
		out = append(out, types.Prediction{Lang: lang, Prob: sums[lang] / float64(draws)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Prob > out[j].Prob })
	return out, nil
}
