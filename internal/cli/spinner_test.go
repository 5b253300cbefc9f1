package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/rainbowsmoke/pkg/cache"
	"github.com/matzehuels/rainbowsmoke/pkg/observability"
	"github.com/matzehuels/rainbowsmoke/pkg/pipeline"
)

// syncBuffer lets the spinner goroutine and the test share a buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	sp := startSpinner(context.Background(), &out, "Loading rgb...")
	sp.Stop()
	sp.Stop() // idempotent

	got := out.String()
	if !strings.Contains(got, "Loading rgb...") {
		t.Errorf("output %q missing message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q should end by clearing the line", got)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sp := startSpinner(ctx, &syncBuffer{}, "Loading")
	cancel()

	select {
	case <-sp.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
	sp.Stop()
}

// recordedHooks keeps the names of the events it received.
type recordedHooks struct {
	observability.NoopPipelineHooks
	observability.NoopHTTPHooks
	mu     sync.Mutex
	events []string
}

func (r *recordedHooks) add(name string) {
	r.mu.Lock()
	r.events = append(r.events, name)
	r.mu.Unlock()
}

func (r *recordedHooks) OnLoadStart(context.Context, string) { r.add("load-start") }
func (r *recordedHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
	r.add("load-complete")
}
func (r *recordedHooks) OnRequest(context.Context, string, string, string) { r.add("request") }

func TestLoadStagesMessages(t *testing.T) {
	sp := startSpinner(context.Background(), &syncBuffer{}, "")
	defer sp.Stop()
	next := &recordedHooks{}
	st := &loadStages{sp: sp, pipeline: next, http: next}
	ctx := context.Background()

	steps := []struct {
		fire func()
		want string
	}{
		{func() { st.OnLoadStart(ctx, "https://example.com/a.png") }, "Loading https://example.com/a.png..."},
		{func() { st.OnRequest(ctx, "GET", "example.com", "/a.png") }, "Downloading example.com/a.png..."},
		{func() { st.OnError(ctx, "GET", "example.com", "/a.png", errors.New("reset")) }, "Retrying example.com..."},
		{func() { st.OnResponse(ctx, "GET", "example.com", "/a.png", 200, time.Millisecond) }, "Resampling image..."},
	}
	for _, s := range steps {
		s.fire()
		if got := sp.Message(); got != s.want {
			t.Errorf("message = %q, want %q", got, s.want)
		}
	}

	st.OnLoadComplete(ctx, "https://example.com/a.png", 4, time.Millisecond, nil)
	select {
	case <-sp.stopped:
	default:
		t.Error("spinner still running after load completed")
	}

	want := []string{"load-start", "request", "load-complete"}
	if strings.Join(next.events, ",") != strings.Join(want, ",") {
		t.Errorf("forwarded events = %v, want %v", next.events, want)
	}
}

func TestTrackLoadFollowsImageDownload(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var body bytes.Buffer
	if err := png.Encode(&body, img); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body.Bytes())
	}))
	defer srv.Close()

	prev := &recordedHooks{}
	observability.SetPipelineHooks(prev)
	observability.SetHTTPHooks(prev)
	defer observability.Reset()

	var out syncBuffer
	sp := startSpinner(context.Background(), &out, "Loading")
	restore := trackLoad(sp)

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
	colors, err := runner.LoadColors(context.Background(), pipeline.Options{Image: srv.URL + "/img.png", Width: 4, Height: 2})
	restore()
	sp.Stop()
	if err != nil {
		t.Fatalf("LoadColors: %v", err)
	}
	if len(colors) != 8 {
		t.Errorf("colors = %d, want 8", len(colors))
	}

	if !strings.Contains(out.String(), "Loading") {
		t.Errorf("spinner output %q missing load stage", out.String())
	}
	if observability.Pipeline() != observability.PipelineHooks(prev) {
		t.Error("restore did not reinstate the previous pipeline hooks")
	}
	if got := strings.Join(prev.events, ","); got != "load-start,request,load-complete" {
		t.Errorf("previous hooks saw %q, want load-start,request,load-complete", got)
	}
}
