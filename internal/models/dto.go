package models

// Data Transfer Objects

type SaveMarksRequest struct {
	Marks []MarksRow `json:"marks" validate:"required,len=5,dive"`
}

type SubmitGrievanceRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type AcceptGrievanceRequest struct {
	Marks []MarksRow `json:"marks" validate:"required,len=5,dive"`
}

type SetPublicationRequest struct {
	Published *bool `json:"published" validate:"required"`
}

type PublicationResponse struct {
	Published bool `json:"published"`
}

type ScriptsResponse struct {
	Scripts []AnswerScript `json:"scripts"`
	Total   int            `json:"total"`
}

type StudentResultsResponse struct {
	RollNo    string          `json:"roll_no"`
	Published bool            `json:"published"`
	Results   []StudentResult `json:"results"`
}
