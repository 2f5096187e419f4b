package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/repository"
	"github.com/rs/zerolog"
)

type fakeNotifier struct {
	events []models.EvaluationEvent
	err    error
}

func (f *fakeNotifier) Publish(_ context.Context, event *models.EvaluationEvent) error {
	f.events = append(f.events, *event)
	return f.err
}

func (f *fakeNotifier) Close() error { return nil }

func (f *fakeNotifier) last(t *testing.T) models.EvaluationEvent {
	t.Helper()
	if len(f.events) == 0 {
		t.Fatalf("no events published")
	}
	return f.events[len(f.events)-1]
}

func newTestService(t *testing.T) (EvaluationService, repository.EvaluationStore, *fakeNotifier) {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 12, 18, 8, 30, 0, 0, time.UTC) }

	store := repository.NewEvaluationStore(now, zerolog.Nop())
	if err := repository.Seed(store, repository.FixtureScripts()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	notifier := &fakeNotifier{}
	svc := NewEvaluationService(store, models.NewSubjectDirectory(models.DefaultSubjects), notifier, now, zerolog.Nop())
	return svc, store, notifier
}

func TestGetScript_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.GetScript(context.Background(), "230547", "PH1001"); !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("err = %v, want ErrScriptNotFound", err)
	}
}

func TestSaveMarks_PublishesEvent(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	script, err := svc.SaveMarks(ctx, "230512", "cs3002", repository.GradedFixtureMarks())
	if err != nil {
		t.Fatalf("SaveMarks: %v", err)
	}
	if script.Status != models.ScriptStatusGraded {
		t.Fatalf("status = %q, want graded", script.Status)
	}

	ev := notifier.last(t)
	if ev.Type != models.EventMarksSaved || ev.RollNo != "230512" || ev.SubjectCode != "CS3002" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Total == nil || *ev.Total != 70 {
		t.Fatalf("event total = %v, want 70", ev.Total)
	}
	if ev.ID == "" || ev.Timestamp == 0 {
		t.Fatalf("event missing id or timestamp: %+v", ev)
	}

	if _, err := svc.SaveMarks(ctx, "000000", "CS3002", nil); !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("err = %v, want ErrScriptNotFound", err)
	}
}

func TestSubmitGrievance_Validation(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SubmitGrievance(ctx, "230558", "CS3005", "   \n\t"); !errors.Is(err, ErrEmptyGrievance) {
		t.Fatalf("err = %v, want ErrEmptyGrievance", err)
	}
	if store.Get("230558", "CS3005").HasGrievance {
		t.Fatalf("blank grievance must not reach the store")
	}
	if len(notifier.events) != 0 {
		t.Fatalf("no event expected for rejected input")
	}

	script, err := svc.SubmitGrievance(ctx, "230558", "CS3005", "  Q1 (a) was skipped.  ")
	if err != nil {
		t.Fatalf("SubmitGrievance: %v", err)
	}
	if script.GrievanceText != "Q1 (a) was skipped." || script.GrievanceDate != "2025-12-18 08:30" {
		t.Fatalf("unexpected grievance: %q at %q", script.GrievanceText, script.GrievanceDate)
	}
	if ev := notifier.last(t); ev.Type != models.EventGrievanceSubmitted || ev.RecheckStatus != models.RecheckUnderReview {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestResolveGrievance_RequiresOpenGrievance(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RejectGrievance(ctx, "230523", "CS3003"); !errors.Is(err, ErrNoOpenGrievance) {
		t.Fatalf("reject: err = %v, want ErrNoOpenGrievance", err)
	}
	if _, err := svc.AcceptGrievance(ctx, "230523", "CS3003", models.EmptyMarks()); !errors.Is(err, ErrNoOpenGrievance) {
		t.Fatalf("accept: err = %v, want ErrNoOpenGrievance", err)
	}
	if _, err := svc.RejectGrievance(ctx, "000000", "CS3003"); !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("reject unknown: err = %v, want ErrScriptNotFound", err)
	}
}

func TestAcceptAndRejectGrievance(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	updated := repository.GradedFixtureMarks()
	updated[1].Parts[1] = models.Scored(4)

	script, err := svc.AcceptGrievance(ctx, "230547", "CS3002", updated)
	if err != nil {
		t.Fatalf("AcceptGrievance: %v", err)
	}
	if script.HasGrievance || script.Total() != 74 || script.RecheckStatus() != models.RecheckUpdated {
		t.Fatalf("unexpected script after accept: %+v", script)
	}
	if ev := notifier.last(t); ev.Type != models.EventGrievanceAccepted || *ev.Total != 74 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	script, err = svc.RejectGrievance(ctx, "230545", "CS3004")
	if err != nil {
		t.Fatalf("RejectGrievance: %v", err)
	}
	if script.HasGrievance || script.Total() != 70 || script.RecheckStatus() != models.RecheckUnchanged {
		t.Fatalf("unexpected script after reject: %+v", script)
	}
	if ev := notifier.last(t); ev.Type != models.EventGrievanceRejected || ev.RecheckStatus != models.RecheckUnchanged {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestGetStudentResults(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	results, err := svc.GetStudentResults(ctx, "230547")
	if err != nil {
		t.Fatalf("GetStudentResults: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("len(results) = %d, want 6", len(results))
	}
	for _, r := range results {
		if r.Marks != nil {
			t.Fatalf("marks for %s must be hidden while unpublished", r.SubjectCode)
		}
	}

	if err := svc.SetResultsPublished(ctx, true); err != nil {
		t.Fatalf("SetResultsPublished: %v", err)
	}

	results, err = svc.GetStudentResults(ctx, "230547")
	if err != nil {
		t.Fatalf("GetStudentResults: %v", err)
	}

	wantOrder := []string{"CS3002", "CS3001", "CS3003", "CS3004", "CS3005", "MA2001"}
	for i, r := range results {
		if r.SubjectCode != wantOrder[i] {
			t.Fatalf("result %d subject = %s, want %s", i, r.SubjectCode, wantOrder[i])
		}

		script := store.Get("230547", r.SubjectCode)
		switch script.Status {
		case models.ScriptStatusPending:
			if r.Marks != nil {
				t.Fatalf("pending %s should have nil marks", r.SubjectCode)
			}
		case models.ScriptStatusGraded:
			if r.Marks == nil || *r.Marks != models.ComputeTotal(script.Marks) {
				t.Fatalf("graded %s marks = %v, want %d", r.SubjectCode, r.Marks, models.ComputeTotal(script.Marks))
			}
		}
	}

	if results[0].RecheckStatus != models.RecheckUnderReview || results[1].RecheckStatus != models.RecheckNotSubmitted {
		t.Fatalf("unexpected recheck statuses: %+v", results[:2])
	}
	if results[5].SubjectName != "Discrete Mathematics" {
		t.Fatalf("subject name = %q", results[5].SubjectName)
	}
}

func TestGetStudentResults_UnknownSubjectPassesThrough(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	if _, err := store.Add(models.AnswerScript{RollNo: "240001", SubjectCode: "PH1001"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := svc.GetStudentResults(ctx, "240001")
	if err != nil {
		t.Fatalf("GetStudentResults: %v", err)
	}
	if len(results) != 1 || results[0].SubjectName != "PH1001" {
		t.Fatalf("unexpected results: %+v", results)
	}

	results, _ = svc.GetStudentResults(ctx, "nobody")
	if results == nil || len(results) != 0 {
		t.Fatalf("unknown roll should yield an empty, non-nil slice")
	}
}

func TestSetResultsPublished_PublishesEvent(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	if svc.ResultsPublished(ctx) {
		t.Fatalf("results should start unpublished")
	}
	svc.SetResultsPublished(ctx, true)
	svc.SetResultsPublished(ctx, false)
	if svc.ResultsPublished(ctx) {
		t.Fatalf("last write should win")
	}

	ev := notifier.last(t)
	if ev.Type != models.EventResultsPublished || ev.Published == nil || *ev.Published {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	svc, store, notifier := newTestService(t)
	notifier.err = errors.New("broker down")

	if _, err := svc.SaveMarks(context.Background(), "230501", "CS3001", repository.GradedFixtureMarks()); err != nil {
		t.Fatalf("SaveMarks should succeed when publishing fails: %v", err)
	}
	if store.Get("230501", "CS3001").Status != models.ScriptStatusGraded {
		t.Fatalf("marks were not saved")
	}
}

func TestGetDashboardStats(t *testing.T) {
	svc, _, _ := newTestService(t)

	stats, err := svc.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}

	want := models.DashboardStats{Assigned: 13, Graded: 8, Pending: 5, OpenGrievances: 2}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}
