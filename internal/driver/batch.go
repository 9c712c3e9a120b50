package driver

import (
	"context"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// ClassifyBatch runs ClassifyItem over items in order, returning
// records in the same order as items. Only the per-item classifier
// fan-out is concurrent; items themselves are processed one at a time.
func (d *Driver) ClassifyBatch(ctx context.Context, items []types.ContentItem, counters *Counters) ([]types.Stage1Record, error) {
	records := make([]types.Stage1Record, len(items))
	for i, item := range items {
		rec, err := d.ClassifyItem(ctx, item, counters)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}
