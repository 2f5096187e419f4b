package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/config"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/delivery/httpd"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/middleware"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/repository"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/service"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/service/integration"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type App struct {
	server   *http.Server
	logger   zerolog.Logger
	config   *config.Config
	notifier integration.EventNotifier
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	notifier := integration.NewAsyncNotifier(
		newNotifier(cfg.RabbitMQ, log),
		cfg.Notifier.Workers,
		cfg.Notifier.QueueSize,
		cfg.Notifier.PublishTimeout,
		log,
	)

	store := repository.NewEvaluationStore(time.Now, log)
	if cfg.Evaluation.SeedFixture {
		if err := repository.Seed(store, repository.FixtureScripts()); err != nil {
			notifier.Close()
			return nil, fmt.Errorf("failed to seed evaluation store: %w", err)
		}
	}
	store.SetResultsPublished(cfg.Evaluation.ResultsPublished)

	evaluationService := service.NewEvaluationService(
		store,
		models.NewSubjectDirectory(subjectsFromConfig(cfg.Subjects)),
		notifier,
		time.Now,
		log,
	)

	handler := httpd.NewHandler(evaluationService, notifier, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      NewRouter(cfg, handler, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:   server,
		logger:   log,
		config:   cfg,
		notifier: notifier,
	}, nil
}

// NewRouter builds the chi router with the middleware stack and routes.
func NewRouter(cfg *config.Config, handler *httpd.Handler, log zerolog.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	if cfg.Server.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	return router
}

func newNotifier(cfg config.RabbitMQConfig, log zerolog.Logger) integration.EventNotifier {
	if !cfg.Enabled {
		return integration.NewLogNotifier(log)
	}

	notifier, err := integration.NewRabbitMQNotifier(cfg.URL, cfg.Exchange, cfg.QueueName, cfg.BindingKey, log)
	if err != nil {
		// Events are informational; keep serving without the broker.
		log.Error().Err(err).Msg("Failed to create RabbitMQ notifier, falling back to log notifier")
		return integration.NewLogNotifier(log)
	}
	return notifier
}

func subjectsFromConfig(subjects []config.SubjectConfig) []models.Subject {
	if len(subjects) == 0 {
		return models.DefaultSubjects
	}

	out := make([]models.Subject, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, models.Subject{Code: s.Code, Name: s.Name})
	}
	return out
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting evaluation service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, then drains
// and closes the event notifier so their events are still delivered.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down evaluation service...")

	err := a.server.Shutdown(ctx)

	if a.notifier != nil {
		if closeErr := a.notifier.Close(); closeErr != nil {
			a.logger.Error().Err(closeErr).Msg("Failed to close event notifier")
		}
	}

	return err
}
