package models

// DefaultSubjects is the subject directory used when none is configured.
var DefaultSubjects = []Subject{
	{Code: "CS3001", Name: "Data Structures & Algorithms"},
	{Code: "CS3002", Name: "Operating Systems"},
	{Code: "CS3003", Name: "Database Management Systems"},
	{Code: "CS3004", Name: "Computer Networks"},
	{Code: "CS3005", Name: "Software Engineering"},
	{Code: "MA2001", Name: "Discrete Mathematics"},
}

// SubjectDirectory maps subject codes to display names. It is read-only
// after construction.
type SubjectDirectory struct {
	subjects []Subject
	names    map[string]string
}

func NewSubjectDirectory(subjects []Subject) *SubjectDirectory {
	d := &SubjectDirectory{
		subjects: make([]Subject, 0, len(subjects)),
		names:    make(map[string]string, len(subjects)),
	}
	for _, s := range subjects {
		code := CanonicalSubjectCode(s.Code)
		if _, dup := d.names[code]; dup {
			continue
		}
		d.subjects = append(d.subjects, Subject{Code: code, Name: s.Name})
		d.names[code] = s.Name
	}
	return d
}

// Name returns the display name of a subject, or the code itself
// unchanged when the directory does not know it.
func (d *SubjectDirectory) Name(code string) string {
	if name, ok := d.names[CanonicalSubjectCode(code)]; ok {
		return name
	}
	return code
}

func (d *SubjectDirectory) List() []Subject {
	out := make([]Subject, len(d.subjects))
	copy(out, d.subjects)
	return out
}
