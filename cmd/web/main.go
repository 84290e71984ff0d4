package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"brand-visual-studio/internal/builder"
	"brand-visual-studio/internal/config"
	"brand-visual-studio/internal/form"
	"brand-visual-studio/internal/lifecycle"
	"brand-visual-studio/internal/studio"
)

//go:embed static/*
var staticFS embed.FS

const (
	sessionCookie  = "studio_session"
	maxFormBytes   = 1 << 20
	defaultTimeout = 240 * time.Second
)

type generator interface {
	Series(ctx context.Context, key string, in studio.GenerationInputs, r studio.Renderer) (studio.Result, error)
	Story(ctx context.Context, key string, req studio.StoryRequest, r studio.Renderer) (studio.Result, error)
	State(key string) lifecycle.State
}

type server struct {
	studio  generator
	logger  *slog.Logger
	timeout time.Duration
}

type apiError struct {
	Error string `json:"error"`
}

type batchResponse struct {
	BatchID string         `json:"batch_id"`
	Items   []studio.Entry `json:"items"`
	Skipped int            `json:"skipped,omitempty"`
}

type stateResponse struct {
	State string `json:"state"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := cfg.NewLogger(os.Stdout)

	st, err := builder.BuildStudio(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("studio init failed", "err", err)
		os.Exit(1)
	}

	s := &server{studio: st, logger: logger, timeout: cfg.RequestTimeout}

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           withLogging(s.routes(), logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	logger.Info("web started", "addr", cfg.WebAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/series", s.handleSeries)
	mux.HandleFunc("/api/story", s.handleStory)
	mux.HandleFunc("/api/state", s.handleState)

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticSub)))
	return mux
}

func (s *server) handleSeries(w http.ResponseWriter, r *http.Request) {
	s.handleFlow(w, r, func(ctx context.Context, key string, get form.Getter, rr studio.Renderer) (studio.Result, error) {
		return s.studio.Series(ctx, key, form.Inputs(get), rr)
	})
}

func (s *server) handleStory(w http.ResponseWriter, r *http.Request) {
	s.handleFlow(w, r, func(ctx context.Context, key string, get form.Getter, rr studio.Renderer) (studio.Result, error) {
		return s.studio.Story(ctx, key, form.StoryRequest(get), rr)
	})
}

type flowFunc func(ctx context.Context, key string, get form.Getter, r studio.Renderer) (studio.Result, error)

func (s *server) handleFlow(w http.ResponseWriter, r *http.Request, run flowFunc) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid form"})
		return
	}

	key := sessionID(w, r)

	timeout := s.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	rr := &responseRenderer{}
	res, err := run(ctx, key, r.FormValue, rr)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, batchResponse{BatchID: res.BatchID, Items: rr.entries, Skipped: res.Skipped})
	case errors.Is(err, lifecycle.ErrBusy):
		writeJSON(w, http.StatusConflict, apiError{Error: studio.BusyMessage})
	case studio.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, apiError{Error: rr.message})
	default:
		writeJSON(w, http.StatusBadGateway, apiError{Error: rr.message})
	}
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: s.studio.State(sessionID(w, r)).String()})
}

// responseRenderer keeps the end state of one flow for the JSON response; the
// browser script owns the actual loading indicator.
type responseRenderer struct {
	entries []studio.Entry
	message string
}

func (r *responseRenderer) Loading() {
	r.entries = nil
	r.message = ""
}

func (r *responseRenderer) Results(entries []studio.Entry) {
	r.entries = entries
	r.message = ""
}

func (r *responseRenderer) Failure(message string) {
	r.entries = nil
	r.message = message
}

// sessionID returns the caller's session, issuing a new cookie on first use.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds())
	})
}
