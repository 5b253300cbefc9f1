// Package session tracks preview paint runs and shares their frames.
//
// A [Session] is the live state of one run in one process: the latest canvas
// snapshot, how far the run got and whether it is still going. Its Report
// method is a [smoke.ProgressFunc], so the engine feeds it directly.
//
// A [Frame] is the encoded, JSON-friendly view of that state. Frames are
// written to a [Store] so that other processes (or a later request) can read
// them by session ID:
//   - [MemoryStore]: in-process storage for a single server and for tests
//   - [RedisStore]: shared storage for several preview servers
//
// Frames expire after a TTL. Nothing here is durable.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rainbowsmoke/pkg/core/canvas"
	"github.com/matzehuels/rainbowsmoke/pkg/core/smoke"
	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/sink"
)

// DefaultTTL is how long a stored frame stays readable after its last update.
const DefaultTTL = time.Hour

// Session holds the state of the current preview run. All methods are safe
// for concurrent use; the engine goroutine writes through Report while HTTP
// handlers read through State.
type Session struct {
	mu        sync.Mutex
	id        string
	snapshot  *canvas.Canvas
	iteration int
	total     int
	running   bool
	err       error
	updated   time.Time
	now       func() time.Time
}

// New returns an idle session.
func New() *Session {
	return &Session{now: time.Now}
}

// Begin starts a new run of total colors and returns its ID. It fails with
// ALREADY_RUNNING while a previous run has not finished.
func (s *Session) Begin(total int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return "", errs.New(errs.ErrCodeAlreadyRunning, "session %s is still painting", s.id)
	}
	s.id = uuid.NewString()
	s.snapshot = nil
	s.iteration = 0
	s.total = total
	s.running = true
	s.err = nil
	s.updated = s.now()
	return s.id, nil
}

// Report records a progress snapshot. The engine hands over its own copy of
// the canvas, so it is stored without cloning.
func (s *Session) Report(processed, total int, snapshot *canvas.Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iteration = processed
	s.total = total
	if snapshot != nil {
		s.snapshot = snapshot
	}
	s.updated = s.now()
	return nil
}

var _ smoke.ProgressFunc = (*Session)(nil).Report

// Finish marks the run as done. final, when non-nil, replaces the last
// snapshot; err records why the run stopped early.
func (s *Session) Finish(final *canvas.Canvas, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if final != nil {
		s.snapshot = final.Clone()
		s.iteration = final.PlacedCount()
	}
	s.running = false
	s.err = err
	s.updated = s.now()
}

// Running reports whether a run is in progress.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ID returns the current run's ID, or "" before the first Begin.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State is a point-in-time copy of a Session.
type State struct {
	ID        string
	Canvas    *canvas.Canvas // nil until the first report
	Iteration int
	Total     int
	Running   bool
	Err       error
	UpdatedAt time.Time
}

// State returns a copy of the session. The canvas is shared but never
// written after it is stored.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:        s.id,
		Canvas:    s.snapshot,
		Iteration: s.iteration,
		Total:     s.total,
		Running:   s.running,
		Err:       s.err,
		UpdatedAt: s.updated,
	}
}

// Progress returns the completed fraction in [0, 1].
func (st State) Progress() float64 {
	if st.Total <= 0 {
		return 0
	}
	return float64(st.Iteration) / float64(st.Total)
}

// Frame is the encoded view of a session served to the preview page.
type Frame struct {
	Session   string    `json:"session"`
	Image     string    `json:"image"` // base64 PNG, empty before the first report
	Iteration int       `json:"iteration"`
	Total     int       `json:"total"`
	Progress  float64   `json:"progress"` // fraction in [0, 1]
	Running   bool      `json:"running"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Frame encodes the state, scaling the image by scale (see sink.WithScale).
func (st State) Frame(scale int) (*Frame, error) {
	f := &Frame{
		Session:   st.ID,
		Iteration: st.Iteration,
		Total:     st.Total,
		Progress:  st.Progress(),
		Running:   st.Running,
		UpdatedAt: st.UpdatedAt,
	}
	if st.Err != nil {
		f.Error = errs.UserMessage(st.Err)
	}
	if st.Canvas != nil {
		img, err := sink.Base64PNG(st.Canvas, sink.WithScale(scale))
		if err != nil {
			return nil, err
		}
		f.Image = img
	}
	return f, nil
}
