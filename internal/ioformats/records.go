package ioformats

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"fakenews-features/internal/models"
)

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

var recordHeader = []string{
	"index", "label", "subject", "year", "month",
	"word_count", "question_marks", "negativity", "opposition_count",
	"first_person_count", "second_third_person_count", "lexical_diversity",
	"title_length", "text_length", "clean_text",
}

// WriteRecordsCSV writes the feature table. Year and month are blank when
// the article had no publication date.
func WriteRecordsCSV(w io.Writer, records []models.LabeledRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return err
	}
	for _, r := range records {
		year, month := "", ""
		if !r.Published.IsZero() {
			year = strconv.Itoa(r.Published.Year())
			month = strconv.Itoa(int(r.Published.Month()))
		}
		f := r.Features
		row := []string{
			strconv.Itoa(r.Index), string(r.Label), r.Subject, year, month,
			strconv.Itoa(f.WordCount),
			strconv.Itoa(f.QuestionMarks),
			strconv.FormatFloat(f.Negativity, 'f', -1, 64),
			strconv.Itoa(f.OppositionCount),
			strconv.Itoa(f.FirstPersonCount),
			strconv.Itoa(f.SecondThirdPersonCount),
			strconv.FormatFloat(f.LexicalDiversity, 'f', -1, 64),
			strconv.Itoa(f.TitleLength),
			strconv.Itoa(f.TextLength),
			f.CleanText,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
