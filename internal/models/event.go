package models

type EventType string

const (
	EventMarksSaved         EventType = "marks.saved"
	EventGrievanceSubmitted EventType = "grievance.submitted"
	EventGrievanceAccepted  EventType = "grievance.accepted"
	EventGrievanceRejected  EventType = "grievance.rejected"
	EventResultsPublished   EventType = "results.published"
)

// EvaluationEvent is published after a script or the publication flag changes.
type EvaluationEvent struct {
	ID            string        `json:"id"`
	Type          EventType     `json:"type"`
	RollNo        string        `json:"roll_no,omitempty"`
	SubjectCode   string        `json:"subject_code,omitempty"`
	Total         *int          `json:"total,omitempty"`
	RecheckStatus RecheckStatus `json:"recheck_status,omitempty"`
	Published     *bool         `json:"published,omitempty"`
	Timestamp     int64         `json:"timestamp"`
}
