// Package analysis aggregates extracted feature records into a corpus
// report comparing fake and true articles.
package analysis

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"fakenews-features/internal/models"
	"fakenews-features/internal/stats"
)

// Alpha is the significance level for the lexical diversity comparison.
const Alpha = 0.05

// Columns are the correlation matrix variables, in output order.
var Columns = []string{
	"is_fake",
	"word_count",
	"negativity",
	"first_person_count",
	"second_third_person_count",
	"lexical_diversity",
	"title_length",
	"text_length",
	"year",
	"month",
}

// Float marshals NaN and infinities as JSON null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f Float) String() string {
	v := float64(f)
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

type DiversityTest struct {
	FakeMean    Float  `json:"fake_mean"`
	TrueMean    Float  `json:"true_mean"`
	T           Float  `json:"t"`
	DF          Float  `json:"df"`
	P           Float  `json:"p"`
	Significant bool   `json:"significant"`
	Error       string `json:"error,omitempty"`
}

type Correlation struct {
	Columns []string  `json:"columns"`
	Matrix  [][]Float `json:"matrix"`
}

type LengthSummary struct {
	Title Float `json:"mean_title_length"`
	Text  Float `json:"mean_text_length"`
}

type MonthCount struct {
	Month string `json:"month"`
	Fake  int    `json:"fake"`
	True  int    `json:"true"`
}

type Report struct {
	Total       int                             `json:"total"`
	Counts      map[models.Label]int            `json:"counts"`
	Diversity   DiversityTest                   `json:"lexical_diversity_test"`
	Correlation Correlation                     `json:"correlation"`
	Lengths     map[models.Label]LengthSummary  `json:"lengths"`
	Subjects    map[models.Label]map[string]int `json:"subjects"`
	Monthly     []MonthCount                    `json:"monthly"`
}

var labels = []models.Label{models.LabelFake, models.LabelTrue}

// Analyze builds a Report over records. Records without a label still
// count toward the total and the correlation (as is_fake = 0) but not
// toward per-label summaries.
func Analyze(records []models.LabeledRecord) Report {
	r := Report{
		Total:    len(records),
		Counts:   make(map[models.Label]int),
		Lengths:  make(map[models.Label]LengthSummary),
		Subjects: make(map[models.Label]map[string]int),
	}

	byLabel := make(map[models.Label][]models.LabeledRecord)
	for _, rec := range records {
		r.Counts[rec.Label]++
		byLabel[rec.Label] = append(byLabel[rec.Label], rec)
	}

	r.Diversity = diversityTest(byLabel[models.LabelFake], byLabel[models.LabelTrue])
	r.Correlation = correlate(records)

	for _, l := range labels {
		group := byLabel[l]
		r.Lengths[l] = LengthSummary{
			Title: Float(stats.Mean(column(group, func(f models.FeatureRecord) float64 { return float64(f.TitleLength) }))),
			Text:  Float(stats.Mean(column(group, func(f models.FeatureRecord) float64 { return float64(f.TextLength) }))),
		}
		subjects := make(map[string]int)
		for _, rec := range group {
			if rec.Subject != "" {
				subjects[rec.Subject]++
			}
		}
		r.Subjects[l] = subjects
	}
	r.Monthly = monthly(records)
	return r
}

func diversityTest(fake, truth []models.LabeledRecord) DiversityTest {
	div := func(f models.FeatureRecord) float64 { return f.LexicalDiversity }
	a, b := column(fake, div), column(truth, div)
	d := DiversityTest{
		FakeMean: Float(stats.Mean(a)),
		TrueMean: Float(stats.Mean(b)),
		T:        Float(math.NaN()),
		DF:       Float(math.NaN()),
		P:        Float(math.NaN()),
	}
	res, err := stats.WelchTTest(a, b)
	if err != nil {
		d.Error = fmt.Sprintf("need at least two FAKE and two TRUE records: %v", err)
		return d
	}
	d.T, d.DF, d.P = Float(res.T), Float(res.DF), Float(res.P)
	d.Significant = res.Significant(Alpha)
	return d
}

func correlate(records []models.LabeledRecord) Correlation {
	cols := make([]stats.Column, len(Columns))
	for i, name := range Columns {
		cols[i] = stats.Column{Name: name, Values: make([]float64, len(records))}
	}
	for i, rec := range records {
		f := rec.Features
		year, month := math.NaN(), math.NaN()
		if !rec.Published.IsZero() {
			year, month = float64(rec.Published.Year()), float64(rec.Published.Month())
		}
		row := []float64{
			rec.Label.IsFake(),
			float64(f.WordCount),
			f.Negativity,
			float64(f.FirstPersonCount),
			float64(f.SecondThirdPersonCount),
			f.LexicalDiversity,
			float64(f.TitleLength),
			float64(f.TextLength),
			year,
			month,
		}
		for c, v := range row {
			cols[c].Values[i] = v
		}
	}
	m := stats.CorrelationMatrix(cols)
	out := Correlation{Columns: Columns, Matrix: make([][]Float, len(m))}
	for i, row := range m {
		out.Matrix[i] = make([]Float, len(row))
		for j, v := range row {
			out.Matrix[i][j] = Float(v)
		}
	}
	return out
}

func monthly(records []models.LabeledRecord) []MonthCount {
	idx := make(map[string]*MonthCount)
	for _, rec := range records {
		if rec.Published.IsZero() {
			continue
		}
		key := rec.Published.Format("2006-01")
		mc, ok := idx[key]
		if !ok {
			mc = &MonthCount{Month: key}
			idx[key] = mc
		}
		switch rec.Label {
		case models.LabelFake:
			mc.Fake++
		case models.LabelTrue:
			mc.True++
		}
	}
	out := make([]MonthCount, 0, len(idx))
	for _, mc := range idx {
		out = append(out, *mc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func column(recs []models.LabeledRecord, f func(models.FeatureRecord) float64) []float64 {
	out := make([]float64, len(recs))
	for i, rec := range recs {
		out[i] = f(rec.Features)
	}
	return out
}

type section struct {
	title  string
	header []string
	rows   [][]string
}

// WriteText renders r as a sequence of titled plain-text tables.
func (r Report) WriteText(w io.Writer) error {
	for i, sec := range r.sections() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, sec.title)
		if err := renderTable(w, sec.header, sec.rows); err != nil {
			return err
		}
	}
	return nil
}

func (r Report) sections() []section {
	counts := section{title: "Articles", header: []string{"label", "count"}}
	for _, l := range labels {
		counts.rows = append(counts.rows, []string{string(l), strconv.Itoa(r.Counts[l])})
	}
	if n := r.Counts[models.LabelUnknown]; n > 0 {
		counts.rows = append(counts.rows, []string{"unlabeled", strconv.Itoa(n)})
	}
	counts.rows = append(counts.rows, []string{"total", strconv.Itoa(r.Total)})

	d := r.Diversity
	div := section{
		title:  "Lexical diversity (Welch t-test)",
		header: []string{"statistic", "value"},
		rows: [][]string{
			{"mean FAKE", d.FakeMean.String()},
			{"mean TRUE", d.TrueMean.String()},
		},
	}
	switch {
	case d.Error != "":
		div.rows = append(div.rows, []string{"result", d.Error})
	default:
		verdict := "not significant"
		if d.Significant {
			verdict = "significant"
		}
		div.rows = append(div.rows,
			[]string{"t", d.T.String()},
			[]string{"df", d.DF.String()},
			[]string{"p", d.P.String()},
			[]string{"result", fmt.Sprintf("%s at %.2f", verdict, Alpha)},
		)
	}

	fake, truth := r.Lengths[models.LabelFake], r.Lengths[models.LabelTrue]
	lengths := section{
		title:  "Mean lengths",
		header: []string{"length", "FAKE", "TRUE"},
		rows: [][]string{
			{"title", fake.Title.String(), truth.Title.String()},
			{"text", fake.Text.String(), truth.Text.String()},
		},
	}

	corr := section{title: "Correlation", header: append([]string{"feature"}, r.Correlation.Columns...)}
	for i, name := range r.Correlation.Columns {
		row := []string{name}
		for _, v := range r.Correlation.Matrix[i] {
			row = append(row, v.String())
		}
		corr.rows = append(corr.rows, row)
	}

	subjects := section{title: "Subjects", header: []string{"label", "subject", "count"}}
	for _, l := range labels {
		names := make([]string, 0, len(r.Subjects[l]))
		for s := range r.Subjects[l] {
			names = append(names, s)
		}
		sort.Strings(names)
		for _, s := range names {
			subjects.rows = append(subjects.rows, []string{string(l), s, strconv.Itoa(r.Subjects[l][s])})
		}
	}

	out := []section{counts, div, lengths, corr, subjects}
	if len(r.Monthly) > 0 {
		months := section{title: "Monthly", header: []string{"month", "FAKE", "TRUE"}}
		for _, mc := range r.Monthly {
			months.rows = append(months.rows, []string{mc.Month, strconv.Itoa(mc.Fake), strconv.Itoa(mc.True)})
		}
		out = append(out, months)
	}
	return out
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// ErrEmpty is returned by Validate for a report with no records.
var ErrEmpty = errors.New("no records to analyze")

// Validate reports whether the input to Analyze was usable.
func (r Report) Validate() error {
	if r.Total == 0 {
		return ErrEmpty
	}
	return nil
}
