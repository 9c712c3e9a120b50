package classifier

import (
	"context"

	"github.com/impresso-project/lid-ensemble-go/internal/textstat"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// LangID wraps the n-gram classifier (langid), which is fed lowercased
// text.
type LangID struct {
	predict PredictFunc
}

// NewLangID returns a langid wrapper delegating the actual model call to
// predict.
func NewLangID(predict PredictFunc) *LangID {
	return &LangID{predict: predict}
}

func (l *LangID) Name() string { return "langid" }

func (l *LangID) Predict(ctx context.Context, text string) (types.Predictions, error) {
	return l.predict(ctx, textstat.Lower(text))
}
