package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/call-blitz/tui/internal/session"
)

// API makes REST calls to the Blitz backend.
type API struct {
	baseURL string
	client  *http.Client
}

// NewAPI creates a client targeting the given base URL (e.g. "http://localhost:8000").
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// StartCampaign sends the user's request to POST /api/chat. The backend
// classifies it, kicks off the calling workflow in the background, and
// replies immediately with the session id to stream against.
func (a *API) StartCampaign(ctx context.Context, message string, location *session.LatLng) (*ChatResponse, error) {
	var out ChatResponse
	body := ChatRequest{Message: message, Location: location}
	if err := a.post(ctx, "/api/chat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches GET /api/session/{id}, a one-shot snapshot of the
// campaign used to resync after the stream has been torn down.
func (a *API) GetSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	var out SessionResponse
	if err := a.get(ctx, "/api/session/"+sessionID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *API) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: %d %s", path, resp.StatusCode, string(respBody))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
