package repository

import (
	"fmt"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
)

// GradedFixtureMarks is the marks sheet shared by every graded script of
// the roster fixture. It totals 70.
func GradedFixtureMarks() []models.MarksRow {
	return []models.MarksRow{
		models.NewMarksRow("Q1", "2", "3", "5", "4", "-"),
		models.NewMarksRow("Q2", "4", "-", "3", "2", "5"),
		models.NewMarksRow("Q3", "5", "4", "-", "3", "2"),
		models.NewMarksRow("Q4", "-", "2", "4", "5", "3"),
		models.NewMarksRow("Q5", "3", "5", "2", "-", "4"),
	}
}

func pendingScript(id, rollNo, subject, date string) models.AnswerScript {
	return models.AnswerScript{
		ID:             id,
		RollNo:         rollNo,
		SubjectCode:    subject,
		SubmissionDate: date,
		Status:         models.ScriptStatusPending,
		Marks:          models.EmptyMarks(),
	}
}

func gradedScript(id, rollNo, subject, date string) models.AnswerScript {
	return models.AnswerScript{
		ID:             id,
		RollNo:         rollNo,
		SubjectCode:    subject,
		SubmissionDate: date,
		Status:         models.ScriptStatusGraded,
		Marks:          GradedFixtureMarks(),
	}
}

func withGrievance(s models.AnswerScript, text, date string) models.AnswerScript {
	s.HasGrievance = true
	s.GrievanceText = text
	s.GrievanceDate = date
	return s
}

// FixtureScripts returns the roster the service starts with.
func FixtureScripts() []models.AnswerScript {
	return []models.AnswerScript{
		pendingScript("1", "230501", "CS3001", "2025-12-10"),
		pendingScript("2", "230512", "CS3002", "2025-12-11"),
		gradedScript("3", "230523", "CS3003", "2025-12-10"),
		pendingScript("4", "230534", "CS3001", "2025-12-12"),
		withGrievance(gradedScript("5", "230545", "CS3004", "2025-12-11"),
			"I believe Q3 part (c) was marked incorrectly. My approach using dynamic programming is valid as per the textbook reference on page 247.",
			"2025-12-15 14:32"),
		withGrievance(gradedScript("6", "230547", "CS3002", "2025-12-12"),
			"Q2 part (b) was left unevaluated but I have written a valid solution.",
			"2025-12-16 09:15"),
		gradedScript("7", "230558", "CS3005", "2025-12-10"),
		pendingScript("8", "230569", "CS3003", "2025-12-11"),

		// Every subject for roll 230547
		gradedScript("9", "230547", "CS3001", "2025-12-10"),
		gradedScript("10", "230547", "CS3003", "2025-12-10"),
		pendingScript("11", "230547", "CS3004", "2025-12-11"),
		gradedScript("12", "230547", "CS3005", "2025-12-10"),
		gradedScript("13", "230547", "MA2001", "2025-12-12"),
	}
}

// Seed loads scripts into the store in order.
func Seed(store EvaluationStore, scripts []models.AnswerScript) error {
	for _, s := range scripts {
		if _, err := store.Add(s); err != nil {
			return fmt.Errorf("failed to seed script %s/%s: %w", s.RollNo, s.SubjectCode, err)
		}
	}
	return nil
}
