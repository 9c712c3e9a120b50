package classifier

import (
	"context"

	"github.com/impresso-project/lid-ensemble-go/internal/textstat"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// FastText wraps a FastText-style model (impresso_ft, wp_ft), which is
// fed digit-stripped text.
type FastText struct {
	name    string
	predict PredictFunc
}

// NewFastText returns a FastText wrapper named name, delegating the
// actual model call to predict.
func NewFastText(name string, predict PredictFunc) *FastText {
	return &FastText{name: name, predict: predict}
}

func (f *FastText) Name() string { return f.name }

func (f *FastText) Predict(ctx context.Context, text string) (types.Predictions, error) {
	return f.predict(ctx, textstat.StripDigits(text))
}
