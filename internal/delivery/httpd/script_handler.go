package httpd

import (
	"net/http"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/pkg/utils"
	"github.com/go-chi/chi/v5"
)

func scriptKey(r *http.Request) (string, string) {
	return chi.URLParam(r, "rollNo"), chi.URLParam(r, "subjectCode")
}

func (h *Handler) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.evaluationService.ListScripts(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, models.ScriptsResponse{
		Scripts: scripts,
		Total:   len(scripts),
	})
}

func (h *Handler) GetScript(w http.ResponseWriter, r *http.Request) {
	rollNo, subjectCode := scriptKey(r)

	script, err := h.evaluationService.GetScript(r.Context(), rollNo, subjectCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, script)
}

func (h *Handler) SaveMarks(w http.ResponseWriter, r *http.Request) {
	rollNo, subjectCode := scriptKey(r)

	var req models.SaveMarksRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	script, err := h.evaluationService.SaveMarks(r.Context(), rollNo, subjectCode, req.Marks)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, script)
}

func (h *Handler) SubmitGrievance(w http.ResponseWriter, r *http.Request) {
	rollNo, subjectCode := scriptKey(r)

	var req models.SubmitGrievanceRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	script, err := h.evaluationService.SubmitGrievance(r.Context(), rollNo, subjectCode, req.Text)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, script)
}

func (h *Handler) AcceptGrievance(w http.ResponseWriter, r *http.Request) {
	rollNo, subjectCode := scriptKey(r)

	var req models.AcceptGrievanceRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	script, err := h.evaluationService.AcceptGrievance(r.Context(), rollNo, subjectCode, req.Marks)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, script)
}

func (h *Handler) RejectGrievance(w http.ResponseWriter, r *http.Request) {
	rollNo, subjectCode := scriptKey(r)

	script, err := h.evaluationService.RejectGrievance(r.Context(), rollNo, subjectCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	utils.SuccessResponse(w, script)
}
