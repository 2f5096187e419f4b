package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/repository"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/service/integration"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrScriptNotFound  = errors.New("script not found")
	ErrEmptyGrievance  = errors.New("grievance text is required")
	ErrNoOpenGrievance = errors.New("script has no open grievance")
)

type EvaluationService interface {
	ListScripts(ctx context.Context) ([]models.AnswerScript, error)
	GetScript(ctx context.Context, rollNo, subjectCode string) (*models.AnswerScript, error)
	SaveMarks(ctx context.Context, rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error)
	SubmitGrievance(ctx context.Context, rollNo, subjectCode, text string) (*models.AnswerScript, error)
	AcceptGrievance(ctx context.Context, rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error)
	RejectGrievance(ctx context.Context, rollNo, subjectCode string) (*models.AnswerScript, error)
	GetStudentResults(ctx context.Context, rollNo string) ([]models.StudentResult, error)
	ResultsPublished(ctx context.Context) bool
	SetResultsPublished(ctx context.Context, published bool) error
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ListSubjects(ctx context.Context) []models.Subject
}

type evaluationService struct {
	store    repository.EvaluationStore
	subjects *models.SubjectDirectory
	notifier integration.EventNotifier
	now      func() time.Time
	logger   zerolog.Logger
}

func NewEvaluationService(
	store repository.EvaluationStore,
	subjects *models.SubjectDirectory,
	notifier integration.EventNotifier,
	now func() time.Time,
	logger zerolog.Logger,
) EvaluationService {
	if notifier == nil {
		notifier = integration.NewLogNotifier(logger)
	}
	if now == nil {
		now = time.Now
	}
	return &evaluationService{
		store:    store,
		subjects: subjects,
		notifier: notifier,
		now:      now,
		logger:   logger,
	}
}

func (s *evaluationService) ListScripts(ctx context.Context) ([]models.AnswerScript, error) {
	return s.store.List(), nil
}

func (s *evaluationService) GetScript(ctx context.Context, rollNo, subjectCode string) (*models.AnswerScript, error) {
	script := s.store.Get(rollNo, subjectCode)
	if script == nil {
		return nil, ErrScriptNotFound
	}
	return script, nil
}

func (s *evaluationService) SaveMarks(ctx context.Context, rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error) {
	script, err := s.store.SaveMarks(rollNo, subjectCode, marks)
	if err != nil {
		return nil, s.storeError("save marks", err)
	}

	total := script.Total()
	s.logger.Info().
		Str("roll_no", script.RollNo).
		Str("subject_code", script.SubjectCode).
		Int("total", total).
		Msg("Marks saved")

	s.publish(ctx, &models.EvaluationEvent{
		Type:        models.EventMarksSaved,
		RollNo:      script.RollNo,
		SubjectCode: script.SubjectCode,
		Total:       &total,
	})

	return script, nil
}

func (s *evaluationService) SubmitGrievance(ctx context.Context, rollNo, subjectCode, text string) (*models.AnswerScript, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyGrievance
	}

	script, err := s.store.SubmitGrievance(rollNo, subjectCode, text)
	if err != nil {
		return nil, s.storeError("submit grievance", err)
	}

	s.logger.Info().
		Str("roll_no", script.RollNo).
		Str("subject_code", script.SubjectCode).
		Str("grievance_date", script.GrievanceDate).
		Msg("Grievance submitted")

	s.publish(ctx, &models.EvaluationEvent{
		Type:          models.EventGrievanceSubmitted,
		RollNo:        script.RollNo,
		SubjectCode:   script.SubjectCode,
		RecheckStatus: script.RecheckStatus(),
	})

	return script, nil
}

func (s *evaluationService) AcceptGrievance(ctx context.Context, rollNo, subjectCode string, marks []models.MarksRow) (*models.AnswerScript, error) {
	script, err := s.store.AcceptOpenGrievance(rollNo, subjectCode, marks)
	if err != nil {
		return nil, s.storeError("accept grievance", err)
	}

	total := script.Total()
	s.logger.Info().
		Str("roll_no", script.RollNo).
		Str("subject_code", script.SubjectCode).
		Int("total", total).
		Str("recheck_status", string(script.RecheckStatus())).
		Msg("Grievance accepted")

	s.publish(ctx, &models.EvaluationEvent{
		Type:          models.EventGrievanceAccepted,
		RollNo:        script.RollNo,
		SubjectCode:   script.SubjectCode,
		Total:         &total,
		RecheckStatus: script.RecheckStatus(),
	})

	return script, nil
}

func (s *evaluationService) RejectGrievance(ctx context.Context, rollNo, subjectCode string) (*models.AnswerScript, error) {
	script, err := s.store.RejectOpenGrievance(rollNo, subjectCode)
	if err != nil {
		return nil, s.storeError("reject grievance", err)
	}

	s.logger.Info().
		Str("roll_no", script.RollNo).
		Str("subject_code", script.SubjectCode).
		Msg("Grievance rejected")

	s.publish(ctx, &models.EvaluationEvent{
		Type:          models.EventGrievanceRejected,
		RollNo:        script.RollNo,
		SubjectCode:   script.SubjectCode,
		RecheckStatus: script.RecheckStatus(),
	})

	return script, nil
}

func (s *evaluationService) GetStudentResults(ctx context.Context, rollNo string) ([]models.StudentResult, error) {
	published := s.store.ResultsPublished()
	scripts := s.store.ListByRollNo(rollNo)

	results := make([]models.StudentResult, 0, len(scripts))
	for _, script := range scripts {
		result := models.StudentResult{
			SubjectCode:   script.SubjectCode,
			SubjectName:   s.subjects.Name(script.SubjectCode),
			RecheckStatus: script.RecheckStatus(),
		}
		if published && script.Status == models.ScriptStatusGraded {
			total := script.Total()
			result.Marks = &total
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *evaluationService) ResultsPublished(ctx context.Context) bool {
	return s.store.ResultsPublished()
}

func (s *evaluationService) SetResultsPublished(ctx context.Context, published bool) error {
	s.store.SetResultsPublished(published)

	s.logger.Info().Bool("published", published).Msg("Results publication changed")

	s.publish(ctx, &models.EvaluationEvent{
		Type:      models.EventResultsPublished,
		Published: &published,
	})

	return nil
}

func (s *evaluationService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	scripts := s.store.List()

	stats := &models.DashboardStats{
		Assigned:         len(scripts),
		ResultsPublished: s.store.ResultsPublished(),
	}
	for _, script := range scripts {
		if script.Status == models.ScriptStatusGraded {
			stats.Graded++
		}
		if script.HasGrievance {
			stats.OpenGrievances++
		}
	}
	stats.Pending = stats.Assigned - stats.Graded

	return stats, nil
}

func (s *evaluationService) ListSubjects(ctx context.Context) []models.Subject {
	return s.subjects.List()
}

func (s *evaluationService) storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrScriptNotFound):
		return ErrScriptNotFound
	case errors.Is(err, repository.ErrNoOpenGrievance):
		return ErrNoOpenGrievance
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// publish never fails the caller; the change is already stored.
func (s *evaluationService) publish(ctx context.Context, event *models.EvaluationEvent) {
	event.ID = uuid.New().String()
	event.Timestamp = s.now().Unix()

	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Error().
			Err(err).
			Str("event_type", string(event.Type)).
			Msg("Failed to publish evaluation event")
	}
}
