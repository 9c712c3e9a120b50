package jsonl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// Stage1Reader reads stage-1 records, pulling the classifier fields
// named in lids (in that order) out of each line.
type Stage1Reader struct {
	scanner *bufio.Scanner
	lids    []string
	line    int
}

// NewStage1Reader wraps r, configured to look for the given classifier
// field names.
func NewStage1Reader(r io.Reader, lids []string) *Stage1Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Stage1Reader{scanner: scanner, lids: lids}
}

// Next reads and parses the next stage-1 record.
func (r *Stage1Reader) Next() (types.Stage1Record, error) {
	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		if !gjson.ValidBytes(raw) {
			return types.Stage1Record{}, fmt.Errorf("jsonl: line %d: not valid JSON", r.line)
		}
		parsed := gjson.ParseBytes(raw)

		rec := types.Stage1Record{
			ID:     parsed.Get("id").String(),
			Type:   parsed.Get("tp").String(),
			Len:    int(parsed.Get("len").Int()),
			OrigLg: parsed.Get("orig_lg").String(),
			Version: types.LIDVersion{
				Version: parsed.Get("language_identifier_version.version").String(),
				Ts:      parsed.Get("language_identifier_version.ts").String(),
				RunID:   parsed.Get("language_identifier_version.run_id").String(),
			},
		}
		if ratio := parsed.Get("alphabetical_ratio"); ratio.Exists() {
			rec.AlphabeticalRatio = ratio.Float()
			rec.HasAlphaRatio = true
		}

		cf := types.NewClassifierFields(r.lids)
		for _, lid := range r.lids {
			field := parsed.Get(lid)
			if !field.Exists() || field.Type == gjson.Null {
				// absent, or null for a failed classifier: the declared
				// value stays nil.
				continue
			}
			cf.Set(lid, parsePredictions(field))
		}
		rec.Classifiers = cf

		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return types.Stage1Record{}, fmt.Errorf("jsonl: line %d: %w", r.line, err)
	}
	return types.Stage1Record{}, io.EOF
}

func parsePredictions(field gjson.Result) types.Predictions {
	arr := field.Array()
	preds := make(types.Predictions, 0, len(arr))
	for _, p := range arr {
		preds = append(preds, types.Prediction{
			Lang: p.Get("lang").String(),
			Prob: p.Get("prob").Float(),
		})
	}
	return preds
}

// Stage1Writer writes stage-1 records as line-delimited JSON, emitting
// each record's classifier fields in the order of its
// ClassifierFields.Names(), which ClassifierFields keeps stable.
type Stage1Writer struct {
	w io.Writer
}

// NewStage1Writer wraps w for writing.
func NewStage1Writer(w io.Writer) *Stage1Writer {
	return &Stage1Writer{w: w}
}

// Write appends one stage-1 record line.
func (w *Stage1Writer) Write(rec types.Stage1Record) error {
	doc := "{}"
	var err error
	doc, err = sjson.Set(doc, "id", rec.ID)
	if err != nil {
		return err
	}
	doc, _ = sjson.Set(doc, "tp", rec.Type)
	doc, _ = sjson.Set(doc, "len", rec.Len)
	if rec.OrigLg != "" {
		doc, _ = sjson.Set(doc, "orig_lg", rec.OrigLg)
	}
	if rec.HasAlphaRatio {
		doc, _ = sjson.Set(doc, "alphabetical_ratio", rec.AlphabeticalRatio)
	}
	if rec.Classifiers != nil {
		for _, name := range rec.Classifiers.Names() {
			preds, _ := rec.Classifiers.Get(name)
			doc, _ = sjson.Set(doc, name, predictionsToPlain(preds))
		}
	}
	doc, _ = sjson.Set(doc, "language_identifier_version.version", rec.Version.Version)
	doc, _ = sjson.Set(doc, "language_identifier_version.ts", rec.Version.Ts)
	if rec.Version.RunID != "" {
		doc, _ = sjson.Set(doc, "language_identifier_version.run_id", rec.Version.RunID)
	}

	_, err = fmt.Fprintln(w.w, doc)
	return err
}

func predictionsToPlain(preds types.Predictions) []map[string]any {
	if preds == nil {
		return nil
	}
	out := make([]map[string]any, len(preds))
	for i, p := range preds {
		out[i] = map[string]any{"lang": p.Lang, "prob": p.Prob}
	}
	return out
}
