package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/call-blitz/tui/internal/session"
)

// sessionToken is the placeholder substituted into the stream path template.
const sessionToken = ":sessionId"

// Stream owns the server-sent-events connection for one session at a time.
// Open establishes exactly one connection and delivers decoded frames on the
// returned channel, in arrival order, until the server ends the stream or
// Close is called. Opening again closes the previous connection first, so
// frames from an old session can never leak into a new one.
type Stream struct {
	base string
	path string
	// No client timeout: the connection is long-lived by design and is torn
	// down through the context instead.
	httpc *http.Client
	log   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewStream creates a stream adapter for the given base URL and path
// template. The template either contains a ":sessionId" token or receives
// the session id as a path suffix.
func NewStream(base, path string, log *zap.Logger) *Stream {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stream{
		base:  strings.TrimRight(base, "/"),
		path:  path,
		httpc: &http.Client{},
		log:   log,
	}
}

// endpoint builds the stream URL for a session id.
func (s *Stream) endpoint(sessionID string) string {
	if strings.Contains(s.path, sessionToken) {
		return s.base + strings.Replace(s.path, sessionToken, sessionID, 1)
	}
	return s.base + strings.TrimRight(s.path, "/") + "/" + sessionID
}

// Open subscribes to the event stream for sessionID and returns the frame
// channel. The channel is closed when the stream ends for any reason; the
// last frame before a close is a TransportError carrying the cause (io.EOF
// when the server finished the stream normally). An empty sessionID is a
// no-op returning a nil channel.
func (s *Stream) Open(ctx context.Context, sessionID string) <-chan session.Frame {
	if sessionID == "" {
		return nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	ch := make(chan session.Frame, 64)
	go s.run(ctx, sessionID, ch)
	return ch
}

// Close tears down the current connection. Idempotent; after it returns the
// reader goroutine stops sending and closes its frame channel.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Stream) run(ctx context.Context, sessionID string, ch chan<- session.Frame) {
	defer close(ch)

	url := s.endpoint(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.send(ctx, ch, session.TransportError{Err: err})
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpc.Do(req)
	if err != nil {
		s.send(ctx, ch, session.TransportError{Err: err})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.send(ctx, ch, session.TransportError{
			Err: fmt.Errorf("stream %s: unexpected status %d", url, resp.StatusCode),
		})
		return
	}

	s.log.Debug("stream open", zap.String("url", url))
	if !s.send(ctx, ch, session.TransportOpen{}) {
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var event string
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			// Blank line terminates one SSE message.
			if event != "" || data.Len() > 0 {
				if f, ok := decodeFrame(event, data.Bytes()); ok {
					if !s.send(ctx, ch, f) {
						return
					}
				} else {
					s.log.Debug("skipping unknown event", zap.String("event", event))
				}
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// Comment line; the server uses these as keepalives.
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if ctx.Err() != nil {
		return
	}
	err = scanner.Err()
	if err == nil {
		// Normal end of stream: the server closes after a terminal frame.
		err = io.EOF
	}
	s.log.Debug("stream closed", zap.String("url", url), zap.Error(err))
	s.send(ctx, ch, session.TransportError{Err: err})
}

// send delivers a frame unless the stream has been cancelled. It reports
// whether delivery happened.
func (s *Stream) send(ctx context.Context, ch chan<- session.Frame, f session.Frame) bool {
	select {
	case ch <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
