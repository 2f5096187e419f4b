package httpd

import (
	"errors"
	"net/http"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/service"
	"github.com/RubachokBoss/exam-portal/evaluation-service/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// EventQueue reports the backlog of evaluation events awaiting delivery.
type EventQueue interface {
	Pending() int
}

type Handler struct {
	evaluationService service.EvaluationService
	events            EventQueue
	validate          *validator.Validate
	logger            zerolog.Logger
}

// NewHandler builds the HTTP handler. events may be nil.
func NewHandler(evaluationService service.EvaluationService, events EventQueue, logger zerolog.Logger) *Handler {
	return &Handler{
		evaluationService: evaluationService,
		events:            events,
		validate:          validator.New(),
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/scripts", func(r chi.Router) {
			r.Get("/", h.ListScripts)
			r.Route("/{rollNo}/{subjectCode}", func(r chi.Router) {
				r.Get("/", h.GetScript)
				r.Put("/marks", h.SaveMarks)
				r.Post("/grievance", h.SubmitGrievance)
				r.Post("/grievance/accept", h.AcceptGrievance)
				r.Post("/grievance/reject", h.RejectGrievance)
			})
		})

		api.Get("/students/{rollNo}/results", h.GetStudentResults)

		api.Route("/results/publication", func(r chi.Router) {
			r.Get("/", h.GetPublication)
			r.Put("/", h.SetPublication)
		})

		api.Get("/dashboard", h.GetDashboard)
		api.Get("/subjects", h.ListSubjects)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "evaluation-service",
		"timestamp": time.Now().UTC(),
	}
	if h.events != nil {
		response["pending_events"] = h.events.Pending()
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.ReadJSON(r, dst); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrScriptNotFound):
		utils.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyGrievance):
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoOpenGrievance):
		utils.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		utils.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
