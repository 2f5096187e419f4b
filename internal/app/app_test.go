package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/config"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/models"
	"github.com/RubachokBoss/exam-portal/evaluation-service/internal/service/integration"
	"github.com/rs/zerolog"
)

type countingNotifier struct {
	mu        sync.Mutex
	delivered int
}

func (c *countingNotifier) Publish(_ context.Context, _ *models.EvaluationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered++
	return nil
}

func (c *countingNotifier) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:        ":0",
			RequestTimeout: 5 * time.Second,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
		Evaluation: config.EvaluationConfig{
			SeedFixture:      true,
			ResultsPublished: true,
		},
		Subjects: []config.SubjectConfig{
			{Code: "CS3001", Name: "Algorithms"},
		},
	}
}

func TestNew_WiresSeededStore(t *testing.T) {
	a, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/230547/results", nil)
	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, body)
	}
	if !strings.Contains(body, `"subject_name":"Algorithms"`) {
		t.Fatalf("configured subject directory not used: %s", body)
	}
	if !strings.Contains(body, `"subject_name":"CS3002"`) {
		t.Fatalf("unknown subject should pass through as its code: %s", body)
	}
	if !strings.Contains(body, `"marks":70`) {
		t.Fatalf("results should be published from config: %s", body)
	}
}

func TestNew_WithoutFixture(t *testing.T) {
	cfg := testConfig()
	cfg.Evaluation.SeedFixture = false

	a, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scripts", nil))
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Fatalf("store should be empty: %s", rec.Body.String())
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	a, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scripts/230501/CS3001/marks", nil)
	req.Header.Set("Origin", "http://portal.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("missing CORS allow origin header, status %d", rec.Code)
	}
}

func TestSubjectsFromConfig_FallsBackToDefaults(t *testing.T) {
	if got := subjectsFromConfig(nil); len(got) != 6 {
		t.Fatalf("len = %d, want 6 default subjects", len(got))
	}
}

func TestNew_HealthReportsPendingEvents(t *testing.T) {
	a, err := New(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.notifier.Close()

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if !strings.Contains(rec.Body.String(), `"pending_events":`) {
		t.Fatalf("health should report the event queue: %s", rec.Body.String())
	}
}

func TestShutdown_DeliversEventsFromInFlightRequests(t *testing.T) {
	next := &countingNotifier{}
	notifier := integration.NewAsyncNotifier(next, 1, 4, time.Second, zerolog.Nop())

	started := make(chan struct{})
	release := make(chan struct{})
	publishErr := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		publishErr <- notifier.Publish(r.Context(), &models.EvaluationEvent{Type: models.EventMarksSaved})
		w.WriteHeader(http.StatusNoContent)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	a := &App{
		server:   &http.Server{Handler: mux},
		logger:   zerolog.Nop(),
		config:   testConfig(),
		notifier: notifier,
	}
	go a.server.Serve(ln)

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			resp.Body.Close()
		}
	}()
	<-started

	shutdownDone := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownDone <- a.Shutdown(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	if err := <-shutdownDone; err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-publishErr; err != nil {
		t.Fatalf("in-flight request could not publish: %v", err)
	}
	if next.delivered != 1 {
		t.Fatalf("delivered = %d, want 1", next.delivered)
	}
}
