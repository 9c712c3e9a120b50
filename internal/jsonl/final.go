package jsonl

import (
	"fmt"
	"io"

	"github.com/tidwall/sjson"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// FinalWriter writes final records (C3 output) as line-delimited JSON.
type FinalWriter struct {
	w io.Writer
}

// NewFinalWriter wraps w for writing.
func NewFinalWriter(w io.Writer) *FinalWriter {
	return &FinalWriter{w: w}
}

// Write appends one final record line.
func (w *FinalWriter) Write(rec types.FinalRecord) error {
	doc := "{}"
	doc, err := sjson.Set(doc, "id", rec.ID)
	if err != nil {
		return err
	}
	doc, _ = sjson.Set(doc, "tp", rec.Type)
	doc, _ = sjson.Set(doc, "len", rec.Len)
	if rec.OrigLg != "" {
		doc, _ = sjson.Set(doc, "orig_lg", rec.OrigLg)
	}
	doc, _ = sjson.Set(doc, "collection", rec.Collection)
	doc, _ = sjson.Set(doc, "year", rec.Year)
	if rec.HasAlphaRatio {
		doc, _ = sjson.Set(doc, "alphabetical_ratio", rec.AlphabeticalRatio)
	}
	if rec.Classifiers != nil {
		for _, name := range rec.Classifiers.Names() {
			preds, _ := rec.Classifiers.Get(name)
			doc, _ = sjson.Set(doc, name, predictionsToPlain(preds))
		}
	}

	if rec.Lg != nil {
		doc, _ = sjson.Set(doc, "lg", *rec.Lg)
	} else {
		doc, _ = sjson.SetRaw(doc, "lg", "null")
	}
	if rec.LgDecision != "" {
		doc, _ = sjson.Set(doc, "lg_decision", rec.LgDecision)
	}
	if len(rec.Votes) > 0 {
		votes := make([]map[string]any, len(rec.Votes))
		for i, v := range rec.Votes {
			votes[i] = map[string]any{"lang": v.Lang, "vote": v.Vote}
		}
		doc, _ = sjson.Set(doc, "votes", votes)
	}
	doc, _ = sjson.Set(doc, "impresso_language_identifier_version.version", rec.Version.Version)
	doc, _ = sjson.Set(doc, "impresso_language_identifier_version.ts", rec.Version.Ts)
	if rec.Version.RunID != "" {
		doc, _ = sjson.Set(doc, "impresso_language_identifier_version.run_id", rec.Version.RunID)
	}

	_, err = fmt.Fprintln(w.w, doc)
	return err
}
