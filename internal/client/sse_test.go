package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/call-blitz/tui/internal/session"
)

func sseServer(t *testing.T, wantPath string, events []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantPath != "" && r.URL.Path != wantPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer is not a flusher")
			return
		}
		for _, ev := range events {
			fmt.Fprint(w, ev)
			flusher.Flush()
		}
	}))
}

// collect drains the frame channel with a timeout so a broken stream fails
// the test instead of hanging it.
func collect(t *testing.T, ch <-chan session.Frame) []session.Frame {
	t.Helper()
	var frames []session.Frame
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return frames
			}
			frames = append(frames, f)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestStreamEndpoint(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"token template", "http://x:8000", "/api/stream/:sessionId", "http://x:8000/api/stream/abc"},
		{"suffix convention", "http://x:8000", "/api/stream", "http://x:8000/api/stream/abc"},
		{"trailing slashes", "http://x:8000/", "/api/stream/", "http://x:8000/api/stream/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(tt.base, tt.path, nil)
			if got := s.endpoint("abc"); got != tt.want {
				t.Errorf("endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStreamDeliversTypedFrames(t *testing.T) {
	srv := sseServer(t, "/api/stream/sess-1", []string{
		"event: session_start\ndata: {\"session_id\":\"sess-1\",\"status\":\"calling\",\"businesses\":[{\"name\":\"Apex\",\"phone\":\"+441\"}]}\n\n",
		": keepalive\n\n",
		"event: call_started\ndata: {\"business\":\"Apex\",\"phone\":\"+441\",\"status\":\"ringing\"}\n\n",
		"event: call_result\ndata: {\"business\":\"Apex\",\"result\":\"£85\"}\n\n",
		"event: bogus_event\ndata: {}\n\n",
		"event: session_complete\ndata: {\"summary\":\"done\",\"results\":[{\"business\":\"Apex\",\"status\":\"complete\",\"result\":\"£85\"}]}\n\n",
	})
	defer srv.Close()

	s := NewStream(srv.URL, "/api/stream/:sessionId", nil)
	frames := collect(t, s.Open(context.Background(), "sess-1"))

	// open + 4 known frames + trailing transport error (EOF).
	if len(frames) != 6 {
		t.Fatalf("got %d frames: %#v", len(frames), frames)
	}
	if _, ok := frames[0].(session.TransportOpen); !ok {
		t.Errorf("frames[0] = %T, want TransportOpen", frames[0])
	}
	start, ok := frames[1].(session.SessionStart)
	if !ok {
		t.Fatalf("frames[1] = %T, want SessionStart", frames[1])
	}
	if start.SessionID != "sess-1" || len(start.Businesses) != 1 || start.Businesses[0].Phone != "+441" {
		t.Errorf("SessionStart = %+v", start)
	}
	if _, ok := frames[2].(session.CallStarted); !ok {
		t.Errorf("frames[2] = %T, want CallStarted", frames[2])
	}
	res, ok := frames[3].(session.CallResult)
	if !ok || res.Result != "£85" {
		t.Errorf("frames[3] = %#v, want CallResult £85", frames[3])
	}
	done, ok := frames[4].(session.SessionComplete)
	if !ok || done.Summary != "done" || len(done.Results) != 1 {
		t.Errorf("frames[4] = %#v, want SessionComplete", frames[4])
	}
	if _, ok := frames[5].(session.TransportError); !ok {
		t.Errorf("frames[5] = %T, want TransportError", frames[5])
	}
}

func TestStreamMalformedPayloadDegrades(t *testing.T) {
	srv := sseServer(t, "", []string{
		"event: call_result\ndata: {not json at all\n\n",
	})
	defer srv.Close()

	s := NewStream(srv.URL, "/api/stream", nil)
	frames := collect(t, s.Open(context.Background(), "sess-1"))

	var found bool
	for _, f := range frames {
		if e, ok := f.(session.SessionError); ok {
			found = true
			if e.Message != "" {
				t.Errorf("malformed payload should use the fallback message, got %q", e.Message)
			}
		}
	}
	if !found {
		t.Errorf("no SessionError frame for malformed payload: %#v", frames)
	}
}

func TestStreamEmptySessionIDIsNoop(t *testing.T) {
	s := NewStream("http://localhost:1", "/api/stream", nil)
	if ch := s.Open(context.Background(), ""); ch != nil {
		t.Error("Open with empty session id should not connect")
	}
}

func TestStreamNon200IsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such session", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewStream(srv.URL, "/api/stream", nil)
	frames := collect(t, s.Open(context.Background(), "ghost"))

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1: %#v", len(frames), frames)
	}
	te, ok := frames[0].(session.TransportError)
	if !ok || te.Err == nil {
		t.Errorf("frames[0] = %#v, want TransportError with cause", frames[0])
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := NewStream(srv.URL, "/api/stream", nil)
	ch := s.Open(context.Background(), "sess-1")

	s.Close()
	s.Close() // second close must be safe

	// The reader goroutine shuts down and closes the channel.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("channel not closed after Close()")
		}
	}
}

func TestStreamReopenReplacesConnection(t *testing.T) {
	srv := sseServer(t, "", []string{
		"event: status\ndata: {\"status\":\"searching\",\"message\":\"Finding plumbers...\"}\n\n",
	})
	defer srv.Close()

	s := NewStream(srv.URL, "/api/stream", nil)
	old := s.Open(context.Background(), "sess-a")
	fresh := s.Open(context.Background(), "sess-b")

	// The first channel must close without hanging; the second still works.
	collect(t, old)
	frames := collect(t, fresh)
	if len(frames) == 0 {
		t.Fatal("no frames from replacement connection")
	}
	if _, ok := frames[0].(session.TransportOpen); !ok {
		t.Errorf("frames[0] = %T, want TransportOpen", frames[0])
	}
}
