// Package preview serves a web page that shows a paint run as it happens.
//
// The page polls /api/frame for the latest canvas. POST /api/init starts a
// new run in the background; only one run at a time is allowed per server.
// Every progress report is also written to a session.Store so other
// processes can read frames by session ID.
package preview

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
	"github.com/matzehuels/rainbowsmoke/pkg/session"
)

//go:embed preview.html
var indexHTML []byte

// DefaultScale enlarges preview frames so a 256×128 canvas fills the page.
const DefaultScale = 2

// Config wires a Server.
type Config struct {
	Runner   *pipeline.Runner
	Store    session.Store    // NewMemoryStore when nil
	Options  pipeline.Options // template for every run
	FrameTTL time.Duration    // session.DefaultTTL when zero
	Scale    int              // DefaultScale when zero
	Logger   *log.Logger
}

// Server is the preview HTTP handler plus the background run it controls.
type Server struct {
	cfg     Config
	session *session.Session
	router  chi.Router

	// mu orders Start's wg.Add against Close's wg.Wait.
	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Server. Call Close to stop a run in progress.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.FrameTTL <= 0 {
		cfg.FrameTTL = session.DefaultTTL
	}
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		session: session.New(),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.cfg.Logger))

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Post("/init", s.handleInit)
		r.Get("/frame", s.handleFrame)
		r.Get("/sessions/{id}/frame", s.handleSessionFrame)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start begins a new run in the background and returns its session ID.
func (s *Server) Start() (string, error) {
	opts := s.cfg.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}
	// Always paint so the page has something to animate.
	opts.Refresh = true

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", errs.New(errs.ErrCodeServerClosed, "preview server is shutting down")
	}

	id, err := s.session.Begin(opts.Width * opts.Height)
	if err != nil {
		return "", err
	}
	logger := s.cfg.Logger.With("session", id)
	opts.Logger = logger
	opts.Progress = func(done, total int, snap *canvas.Canvas) error {
		if err := s.session.Report(done, total, snap); err != nil {
			return err
		}
		s.publish(logger)
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		logger.Info("starting run", "size", opts.Width*opts.Height, "strategy", opts.Strategy)
		res, err := s.cfg.Runner.Execute(s.ctx, opts)
		var final *canvas.Canvas
		if res != nil {
			final = res.Canvas
		}
		s.session.Finish(final, err)
		s.publish(logger)
		if err != nil {
			logger.Error("run failed", "error", err)
			return
		}
		logger.Info("run finished", "duration", res.Stats.PaintTime)
	}()
	return id, nil
}

// publish stores the current frame. Store failures only cost other processes
// a fresh frame, so they are logged rather than returned to the engine.
func (s *Server) publish(logger *log.Logger) {
	frame, err := s.session.State().Frame(s.cfg.Scale)
	if err != nil {
		logger.Warn("encode frame", "error", err)
		return
	}
	if err := s.cfg.Store.Set(s.ctx, frame, s.cfg.FrameTTL); err != nil {
		logger.Warn("store frame", "error", err)
	}
}

// Wait blocks until the current run, if any, has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Close cancels a run in progress and waits for it to stop.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

type initResponse struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}

func (s *Server) handleInit(w http.ResponseWriter, _ *http.Request) {
	id, err := s.Start()
	switch {
	case errs.Is(err, errs.ErrCodeAlreadyRunning):
		writeJSON(w, http.StatusConflict, initResponse{Status: "already_running", Session: s.session.ID()})
	case errs.Is(err, errs.ErrCodeServerClosed):
		writeError(w, http.StatusServiceUnavailable, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, initResponse{Status: "ok", Session: id})
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	frame, err := s.session.State().Frame(s.cfg.Scale)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleSessionFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errs.Is(err, errs.ErrCodeSessionNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusBadGateway, err)
	default:
		writeJSON(w, http.StatusOK, frame)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": errs.UserMessage(err),
		"code":  string(errs.GetCode(err)),
	})
}

// requestLogger logs each request at debug level through the charm logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
