package classifier

import (
	"context"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// Lingua wraps the lingua detector, which receives text unnormalized:
// only the FastText-style models and langid get a text normalization
// pass before classification.
type Lingua struct {
	predict PredictFunc
}

// NewLingua returns a lingua wrapper delegating the actual model call to
// predict.
func NewLingua(predict PredictFunc) *Lingua {
	return &Lingua{predict: predict}
}

func (l *Lingua) Name() string { return "lingua" }

func (l *Lingua) Predict(ctx context.Context, text string) (types.Predictions, error) {
	return l.predict(ctx, text)
}
