package models

import (
	"strings"
)

// GrievanceDateLayout is the minute-precision layout of grievance timestamps.
const GrievanceDateLayout = "2006-01-02 15:04"

type ScriptStatus string

const (
	ScriptStatusPending ScriptStatus = "pending"
	ScriptStatusGraded  ScriptStatus = "graded"
)

func (s ScriptStatus) String() string {
	return string(s)
}

type RecheckStatus string

const (
	RecheckNotSubmitted RecheckStatus = "not-submitted"
	RecheckUnderReview  RecheckStatus = "under-review"
	RecheckUpdated      RecheckStatus = "updated"
	RecheckUnchanged    RecheckStatus = "unchanged"
)

// AnswerScript is one student's submission and grading record for one subject.
// The pair (RollNo, SubjectCode) identifies it; ID is a secondary key.
type AnswerScript struct {
	ID             string        `json:"id"`
	RollNo         string        `json:"roll_no"`
	SubjectCode    string        `json:"subject_code"`
	SubmissionDate string        `json:"submission_date"`
	Status         ScriptStatus  `json:"status"`
	HasGrievance   bool          `json:"has_grievance"`
	GrievanceText  string        `json:"grievance_text,omitempty"`
	GrievanceDate  string        `json:"grievance_date,omitempty"`
	RecheckOutcome RecheckStatus `json:"recheck_outcome,omitempty"` // updated|unchanged after a resolution
	Marks          []MarksRow    `json:"marks"`
}

// Clone returns a deep copy of the script.
func (s AnswerScript) Clone() AnswerScript {
	s.Marks = CloneMarks(s.Marks)
	return s
}

// Matches reports whether the script has the given natural key.
// Subject codes compare case-insensitively.
func (s AnswerScript) Matches(rollNo, subjectCode string) bool {
	return s.RollNo == rollNo && strings.EqualFold(s.SubjectCode, subjectCode)
}

func (s AnswerScript) Total() int {
	return ComputeTotal(s.Marks)
}

// RecheckStatus derives the grievance state shown to the student.
func (s AnswerScript) RecheckStatus() RecheckStatus {
	if s.HasGrievance {
		return RecheckUnderReview
	}
	if s.RecheckOutcome != "" {
		return s.RecheckOutcome
	}
	return RecheckNotSubmitted
}

// ClearGrievance drops the grievance sub-state.
func (s *AnswerScript) ClearGrievance() {
	s.HasGrievance = false
	s.GrievanceText = ""
	s.GrievanceDate = ""
}

// CanonicalSubjectCode is the stored form of a subject code.
func CanonicalSubjectCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// StudentResult is the per-subject view a student sees.
type StudentResult struct {
	SubjectCode   string        `json:"subject_code"`
	SubjectName   string        `json:"subject_name"`
	Marks         *int          `json:"marks"` // nil when pending or unpublished
	RecheckStatus RecheckStatus `json:"recheck_status"`
}

type Subject struct {
	Code string `json:"code" mapstructure:"code"`
	Name string `json:"name" mapstructure:"name"`
}

type DashboardStats struct {
	Assigned         int  `json:"assigned"`
	Graded           int  `json:"graded"`
	Pending          int  `json:"pending"`
	OpenGrievances   int  `json:"open_grievances"`
	ResultsPublished bool `json:"results_published"`
}
