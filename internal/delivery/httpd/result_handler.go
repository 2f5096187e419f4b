package httpd

import (
	"net/http"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/pkg/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetStudentResults(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")
	ctx := r.Context()

	results, err := h.evaluationService.GetStudentResults(ctx, rollNo)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, models.StudentResultsResponse{
		RollNo:    rollNo,
		Published: h.evaluationService.ResultsPublished(ctx),
		Results:   results,
	})
}

func (h *Handler) GetPublication(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, models.PublicationResponse{
		Published: h.evaluationService.ResultsPublished(r.Context()),
	})
}

func (h *Handler) SetPublication(w http.ResponseWriter, r *http.Request) {
	var req models.SetPublicationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	if err := h.evaluationService.SetResultsPublished(ctx, *req.Published); err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, models.PublicationResponse{
		Published: h.evaluationService.ResultsPublished(ctx),
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.evaluationService.GetDashboardStats(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, stats)
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, h.evaluationService.ListSubjects(r.Context()))
}
