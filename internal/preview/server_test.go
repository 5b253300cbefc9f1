package preview

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
	"github.com/matzehuels/rainbowsmoke/pkg/session"
)

func newTestServer(t *testing.T, store session.Store) *Server {
	t.Helper()
	s := New(Config{
		Store:   store,
		Options: pipeline.Options{Width: 8, Height: 4, ProgressInterval: 8},
		Scale:   1,
		Logger:  log.New(io.Discard),
	})
	t.Cleanup(func() { s.Close() })
	return s
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/frame") {
		t.Error("index page should poll /api/frame")
	}
}

func TestFrameBeforeInit(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame", nil))

	f := decode[session.Frame](t, rec.Body)
	if f.Image != "" || f.Running || f.Total != 0 || f.Progress != 0 {
		t.Errorf("idle frame = %+v", f)
	}
}

func TestInitRunsToCompletion(t *testing.T) {
	store := session.NewMemoryStore()
	s := newTestServer(t, store)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/init", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/init status = %d, want 200", rec.Code)
	}
	resp := decode[initResponse](t, rec.Body)
	if resp.Status != "ok" || resp.Session == "" {
		t.Fatalf("init response = %+v", resp)
	}

	s.Wait()

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame", nil))
	f := decode[session.Frame](t, rec.Body)
	if f.Running {
		t.Error("run should be finished")
	}
	if f.Iteration != 32 || f.Total != 32 || f.Progress != 1 {
		t.Errorf("frame = %d/%d (%v), want 32/32 (1)", f.Iteration, f.Total, f.Progress)
	}
	if f.Image == "" {
		t.Error("finished frame should carry an image")
	}
	if f.Session != resp.Session {
		t.Errorf("frame session = %q, want %q", f.Session, resp.Session)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+resp.Session+"/frame", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET session frame status = %d, want 200", rec.Code)
	}
	stored := decode[session.Frame](t, rec.Body)
	if stored.Iteration != 32 || stored.Running {
		t.Errorf("stored frame = %+v", stored)
	}
}

func TestInitWhileRunning(t *testing.T) {
	s := newTestServer(t, nil)
	if _, err := s.session.Begin(1); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/init", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("POST /api/init status = %d, want 409", rec.Code)
	}
	if resp := decode[initResponse](t, rec.Body); resp.Status != "already_running" {
		t.Errorf("status = %q, want already_running", resp.Status)
	}
}

func TestInitAfterClose(t *testing.T) {
	s := newTestServer(t, nil)
	s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/init", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("POST /api/init status = %d, want 503", rec.Code)
	}
	if resp := decode[map[string]string](t, rec.Body); resp["code"] != string(errs.ErrCodeServerClosed) {
		t.Errorf("code = %q, want %s", resp["code"], errs.ErrCodeServerClosed)
	}
}

func TestStartRacesClose(t *testing.T) {
	s := newTestServer(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = s.Start()
			}
		}()
	}
	s.Close()
	wg.Wait()

	if _, err := s.Start(); !errs.Is(err, errs.ErrCodeServerClosed) {
		t.Errorf("Start() after Close error = %v, want SERVER_CLOSED", err)
	}
	s.Wait()
}

func TestInitInvalidOptions(t *testing.T) {
	s := New(Config{Options: pipeline.Options{Strategy: "bogus"}, Logger: log.New(io.Discard)})
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/init", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decode[map[string]string](t, rec.Body)
	if body["code"] != "INVALID_STRATEGY" {
		t.Errorf("code = %q, want INVALID_STRATEGY", body["code"])
	}
	if s.session.Running() {
		t.Error("failed init should not leave a run marked as running")
	}
}

func TestSessionFrameNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/nope/frame", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/init", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/init status = %d, want 405", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/frame")
	if err != nil {
		t.Fatalf("GET /api/frame: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
