// Package classifier wraps the five language-identification systems the
// driver (C1) fans a content item out to: langdetect, langid,
// impresso_ft, wp_ft and lingua. Each wrapper applies the text
// normalization its underlying system expects before delegating to a
// PredictFunc -- the actual model call, supplied by the caller so this
// package stays free of any model-loading or FFI concerns.
package classifier

import (
	"context"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// Classifier predicts a ranked language distribution for a piece of
// text. Implementations must return predictions sorted by descending
// probability; only the first is ever consulted downstream.
type Classifier interface {
	Name() string
	Predict(ctx context.Context, text string) (types.Predictions, error)
}

// PredictFunc is the raw model call a Classifier wrapper normalizes text
// for and delegates to. Implementations are expected to be safe for
// concurrent use, since the driver fans classifiers out over items
// concurrently.
type PredictFunc func(ctx context.Context, text string) (types.Predictions, error)
