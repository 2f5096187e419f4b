package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrScriptNotFound  = errors.New("script not found")
	ErrDuplicateScript = errors.New("script already exists for this roll number and subject")
	ErrNoOpenGrievance = errors.New("script has no open grievance")
)

type EvaluationStore interface {
	Add(script models.AnswerScript) (*models.AnswerScript, error)
	List() []models.AnswerScript
	ListByRollNo(rollNo string) []models.AnswerScript
	Get(rollNo, subjectCode string) *models.AnswerScript
	SaveMarks(rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error)
	SubmitGrievance(rollNo, subjectCode, text string) (*models.AnswerScript, error)
	AcceptGrievance(rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error)
	RejectGrievance(rollNo, subjectCode string) (*models.AnswerScript, error)
	AcceptOpenGrievance(rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error)
	RejectOpenGrievance(rollNo, subjectCode string) (*models.AnswerScript, error)
	ResultsPublished() bool
	SetResultsPublished(published bool)
}

// memoryStore keeps scripts in insertion order. Every method runs as a
// single critical section and hands out copies only.
type memoryStore struct {
	mu        sync.RWMutex
	scripts   []models.AnswerScript
	published bool
	now       func() time.Time
	logger    zerolog.Logger
}

func NewEvaluationStore(now func() time.Time, logger zerolog.Logger) EvaluationStore {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		now:    now,
		logger: logger,
	}
}

func (s *memoryStore) indexOf(rollNo, subjectCode string) int {
	for i := range s.scripts {
		if s.scripts[i].Matches(rollNo, subjectCode) {
			return i
		}
	}
	return -1
}

func (s *memoryStore) Add(script models.AnswerScript) (*models.AnswerScript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	script.SubjectCode = models.CanonicalSubjectCode(script.SubjectCode)
	if s.indexOf(script.RollNo, script.SubjectCode) != -1 {
		return nil, ErrDuplicateScript
	}

	if script.ID == "" {
		script.ID = uuid.New().String()
	}
	if script.Status == "" {
		script.Status = models.ScriptStatusPending
	}
	if script.Marks == nil {
		script.Marks = models.EmptyMarks()
	}
	if !script.HasGrievance {
		script.ClearGrievance()
	}

	stored := script.Clone()
	s.scripts = append(s.scripts, stored)

	s.logger.Debug().
		Str("script_id", stored.ID).
		Str("roll_no", stored.RollNo).
		Str("subject_code", stored.SubjectCode).
		Msg("Script added")

	out := stored.Clone()
	return &out, nil
}

func (s *memoryStore) List() []models.AnswerScript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AnswerScript, len(s.scripts))
	for i := range s.scripts {
		out[i] = s.scripts[i].Clone()
	}
	return out
}

func (s *memoryStore) ListByRollNo(rollNo string) []models.AnswerScript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AnswerScript
	for i := range s.scripts {
		if s.scripts[i].RollNo == rollNo {
			out = append(out, s.scripts[i].Clone())
		}
	}
	return out
}

func (s *memoryStore) Get(rollNo, subjectCode string) *models.AnswerScript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(rollNo, subjectCode)
	if idx == -1 {
		return nil
	}

	out := s.scripts[idx].Clone()
	return &out
}

// update applies fn to the script with the given natural key under the
// write lock and returns a copy of the result. fn must leave the script
// untouched when it returns an error.
func (s *memoryStore) update(rollNo, subjectCode string, fn func(*models.AnswerScript) error) (*models.AnswerScript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(rollNo, subjectCode)
	if idx == -1 {
		return nil, ErrScriptNotFound
	}

	if err := fn(&s.scripts[idx]); err != nil {
		return nil, err
	}

	out := s.scripts[idx].Clone()
	return &out, nil
}

func (s *memoryStore) SaveMarks(rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error) {
	return s.update(rollNo, subjectCode, func(script *models.AnswerScript) error {
		script.Marks = models.CloneMarks(marks)
		script.Status = models.ScriptStatusGraded
		return nil
	})
}

func (s *memoryStore) SubmitGrievance(rollNo, subjectCode, text string) (*models.AnswerScript, error) {
	stamp := s.now().UTC().Format(models.GrievanceDateLayout)

	return s.update(rollNo, subjectCode, func(script *models.AnswerScript) error {
		script.HasGrievance = true
		script.GrievanceText = text
		script.GrievanceDate = stamp
		script.RecheckOutcome = ""
		return nil
	})
}

func (s *memoryStore) AcceptGrievance(rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error) {
	return s.update(rollNo, subjectCode, func(script *models.AnswerScript) error {
		acceptGrievance(script, marks)
		return nil
	})
}

func (s *memoryStore) RejectGrievance(rollNo, subjectCode string) (*models.AnswerScript, error) {
	return s.update(rollNo, subjectCode, func(script *models.AnswerScript) error {
		rejectGrievance(script)
		return nil
	})
}

// AcceptOpenGrievance is AcceptGrievance that fails with ErrNoOpenGrievance,
// checked under the same lock, when the script has no grievance to resolve.
func (s *memoryStore) AcceptOpenGrievance(rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error) {
	return s.update(rollNo, subjectCode, func(script *models.AnswerScript) error {
		if !script.HasGrievance {
			return ErrNoOpenGrievance
		}
		acceptGrievance(script, marks)
		return nil
	})
}

// RejectOpenGrievance is RejectGrievance guarded the same way as AcceptOpenGrievance.
func (s *memoryStore) RejectOpenGrievance(rollNo, subjectCode string) (*models.AnswerScript, error) {
	return s.update(rollNo, subjectCode, func(script *models.AnswerScript) error {
		if !script.HasGrievance {
			return ErrNoOpenGrievance
		}
		rejectGrievance(script)
		return nil
	})
}

func acceptGrievance(script *models.AnswerScript, marks []models.MarksRow) {
	before := script.Total()
	script.Marks = models.CloneMarks(marks)
	script.ClearGrievance()

	if script.Total() != before {
		script.RecheckOutcome = models.RecheckUpdated
	} else {
		script.RecheckOutcome = models.RecheckUnchanged
	}
}

func rejectGrievance(script *models.AnswerScript) {
	script.ClearGrievance()
	script.RecheckOutcome = models.RecheckUnchanged
}

func (s *memoryStore) ResultsPublished() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.published
}

func (s *memoryStore) SetResultsPublished(published bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.published = published
}
