package models

import (
	"encoding/json"
	"fmt"
)

// PartCount is the number of parts every question carries.
const PartCount = 5

// QuestionCount is the number of questions on every answer script.
const QuestionCount = 5

// PartLabels are the fixed part keys of a question, in display order.
var PartLabels = [PartCount]string{"a", "b", "c", "d", "e"}

// Parts holds the scores of one question, indexed in PartLabels order.
// The fixed size keeps the part key set of a row from ever changing.
type Parts [PartCount]Score

func partIndex(label string) (int, bool) {
	for i, l := range PartLabels {
		if l == label {
			return i, true
		}
	}
	return 0, false
}

// Get returns the score of the part with the given label.
func (p Parts) Get(label string) (Score, bool) {
	i, ok := partIndex(label)
	if !ok {
		return Score{}, false
	}
	return p[i], true
}

func (p Parts) Total() int {
	sum := 0
	for _, s := range p {
		sum += s.Value()
	}
	return sum
}

func (p Parts) MarshalJSON() ([]byte, error) {
	out := make(map[string]Score, PartCount)
	for i, label := range PartLabels {
		out[label] = p[i]
	}
	return json.Marshal(out)
}

func (p *Parts) UnmarshalJSON(data []byte) error {
	var in map[string]Score
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var parts Parts
	for i := range parts {
		parts[i] = Scored(0)
	}
	for label, score := range in {
		i, ok := partIndex(label)
		if !ok {
			return fmt.Errorf("unknown part %q", label)
		}
		parts[i] = score
	}

	*p = parts
	return nil
}

// MarksRow is the grading of one question.
type MarksRow struct {
	Question string `json:"q" validate:"required"`
	Parts    Parts  `json:"parts"`
}

// NewMarksRow builds a row from display strings in PartLabels order.
// Missing trailing values score zero.
func NewMarksRow(question string, values ...string) MarksRow {
	row := MarksRow{Question: question}
	for i := range row.Parts {
		if i < len(values) {
			row.Parts[i] = ParseScore(values[i])
		} else {
			row.Parts[i] = Scored(0)
		}
	}
	return row
}

// EmptyMarks returns the unevaluated placeholder marks: every part of
// Q1..Q5 scored zero.
func EmptyMarks() []MarksRow {
	marks := make([]MarksRow, QuestionCount)
	for i := range marks {
		marks[i] = NewMarksRow(fmt.Sprintf("Q%d", i+1))
	}
	return marks
}

// CloneMarks returns a copy of marks that shares no memory with the input.
func CloneMarks(marks []MarksRow) []MarksRow {
	if marks == nil {
		return nil
	}
	out := make([]MarksRow, len(marks))
	copy(out, marks)
	return out
}

// ComputeTotal sums every part of every row. Not applicable parts and
// unparseable input contribute zero, so the result is never negative.
func ComputeTotal(marks []MarksRow) int {
	total := 0
	for _, row := range marks {
		total += row.Parts.Total()
	}
	return total
}
