package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NotApplicableMark is the display form of a part that does not apply to a question.
const NotApplicableMark = "-"

// MaxPartScore is the largest mark one part can carry. Larger values are
// treated like malformed input and score zero, which keeps totals from
// overflowing.
const MaxPartScore = 1000

// Score is the mark awarded for one part of a question. A part is either
// scored with an integer in [0, MaxPartScore] or marked as not applicable.
type Score struct {
	value      int
	applicable bool
}

func Scored(n int) Score {
	if n < 0 || n > MaxPartScore {
		n = 0
	}
	return Score{value: n, applicable: true}
}

func NotApplicable() Score {
	return Score{}
}

func (s Score) IsApplicable() bool {
	return s.applicable
}

// Value returns the points contributed to a total. Not applicable parts count as zero.
func (s Score) Value() int {
	if !s.applicable {
		return 0
	}
	return s.value
}

func (s Score) String() string {
	if !s.applicable {
		return NotApplicableMark
	}
	return strconv.Itoa(s.value)
}

// ParseScore converts a display string into a Score. It never fails:
// "-" is not applicable, while empty, malformed or out of range input
// scores zero.
func ParseScore(raw string) Score {
	if raw == NotApplicableMark {
		return NotApplicable()
	}
	if raw == "" {
		return Scored(0)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return Scored(0)
	}
	return Scored(n)
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scored(0)
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid score: %w", err)
		}
		*s = ParseScore(raw)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid score: %w", err)
	}
	*s = ParseScore(n.String())
	return nil
}
