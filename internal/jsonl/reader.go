// Package jsonl reads and writes the line-delimited JSON documents that
// flow between the three components: stage-0 content items, stage-1
// records and final records (collection-stats documents are kept by
// internal/store instead). Parsing
// goes through gjson so that fields this package doesn't know about
// (schema drift in the corpus) are tolerated rather than rejected, and
// writing goes through sjson so stage-1/final records are built up
// field-by-field in configured classifier order without a struct
// needing reflection over its tags.
package jsonl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// maxLineSize bounds a single JSONL line; rebuilt-text articles can run
// long, so this is generous relative to bufio.Scanner's 64KiB default.
const maxLineSize = 16 * 1024 * 1024

// ContentItemReader reads stage-0 content items from a line-delimited
// JSON stream, one object per line.
type ContentItemReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewContentItemReader wraps r for reading.
func NewContentItemReader(r io.Reader) *ContentItemReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &ContentItemReader{scanner: scanner}
}

// Next reads and parses the next line, returning io.EOF once the stream
// is exhausted. A malformed line returns an error identifying the line
// number; a malformed line aborts only that line, so callers that want
// fail-fast behavior should stop on the first error instead of skipping
// it.
func (r *ContentItemReader) Next() (types.ContentItem, error) {
	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		if !gjson.ValidBytes(raw) {
			return types.ContentItem{}, fmt.Errorf("jsonl: line %d: not valid JSON", r.line)
		}
		parsed := gjson.ParseBytes(raw)
		item := types.ContentItem{
			ID:   parsed.Get("id").String(),
			Type: parsed.Get("tp").String(),
		}
		if ft := parsed.Get("ft"); ft.Exists() && ft.Type == gjson.String {
			item.Text = ft.String()
			item.HasText = true
		}
		if lg := parsed.Get("lg"); lg.Exists() && lg.Type == gjson.String {
			item.OrigLg = lg.String()
		}
		return item, nil
	}
	if err := r.scanner.Err(); err != nil {
		return types.ContentItem{}, fmt.Errorf("jsonl: line %d: %w", r.line, err)
	}
	return types.ContentItem{}, io.EOF
}

// ReadAll drains r into a slice, stopping at the first malformed line.
func ReadAll(r io.Reader) ([]types.ContentItem, error) {
	reader := NewContentItemReader(r)
	var items []types.ContentItem
	for {
		item, err := reader.Next()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}
