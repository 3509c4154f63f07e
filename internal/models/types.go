
package models

import (
	"fmt"
	"strings"
	"time"
)

type Label string

const (
	LabelUnknown Label = ""
	LabelFake    Label = "FAKE"
	LabelTrue    Label = "TRUE"
)

// ParseLabel accepts FAKE/TRUE in any case and the dataset's numeric
// encoding (0 = fake, 1 = true). An empty string yields LabelUnknown.
func ParseLabel(s string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return LabelUnknown, nil
	case "FAKE", "0":
		return LabelFake, nil
	case "TRUE", "1":
		return LabelTrue, nil
	}
	return LabelUnknown, fmt.Errorf("unknown label %q", s)
}

// IsFake is the numeric target used in correlation (1 = fake).
func (l Label) IsFake() float64 {
	if l == LabelFake {
		return 1
	}
	return 0
}

type Article struct {
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	Label     Label     `json:"label,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Published time.Time `json:"published,omitzero"`
}

type FeatureRecord struct {
	WordCount              int     `json:"word_count"`
	QuestionMarks          int     `json:"question_marks"`
	Negativity             float64 `json:"negativity"`
	OppositionCount        int     `json:"opposition_count"`
	FirstPersonCount       int     `json:"first_person_count"`
	SecondThirdPersonCount int     `json:"second_third_person_count"`
	LexicalDiversity       float64 `json:"lexical_diversity"`
	TitleLength            int     `json:"title_length"`
	TextLength             int     `json:"text_length"`
	CleanText              string  `json:"clean_text"`
}

// LabeledRecord joins a FeatureRecord back to its article's identity and
// ground truth for aggregation.
type LabeledRecord struct {
	Index     int           `json:"index"`
	Label     Label         `json:"label,omitempty"`
	Subject   string        `json:"subject,omitempty"`
	Published time.Time     `json:"published,omitzero"`
	Features  FeatureRecord `json:"features"`
}
