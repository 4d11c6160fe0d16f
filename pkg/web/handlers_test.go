package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hazardcam/hazardcam/pkg/session"
)

func newTestServer() *Server {
	mgr := session.NewManager(session.Config{FrameInterval: time.Millisecond})
	return NewServer("0", mgr)
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var decoded map[string]any
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(data) > 0 {
		json.Unmarshal(data, &decoded)
	}
	return resp, decoded
}

func TestHandleStatus_BeforeModelLoad(t *testing.T) {
	s := newTestServer()

	resp, body := doJSON(t, s, "GET", "/api/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code %d", resp.StatusCode)
	}
	if body["state"] != "idle" {
		t.Errorf("state is %v, want idle", body["state"])
	}
	if body["status"] != string(session.StatusModelLoading) {
		t.Errorf("status is %v, want %s", body["status"], session.StatusModelLoading)
	}
	if body["model_ready"] != false {
		t.Errorf("model_ready is %v, want false", body["model_ready"])
	}
}

func TestHandleStart_ModelNotReady(t *testing.T) {
	s := newTestServer()

	resp, body := doJSON(t, s, "POST", "/api/session/start", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status code %d, want 503", resp.StatusCode)
	}
	if body["error"] == nil {
		t.Error("error body missing")
	}
}

func TestHandleStart_ModelFailed(t *testing.T) {
	mgr := session.NewManager(session.Config{FrameInterval: time.Millisecond})
	mgr.SetModelError(errors.New("corrupt onnx"))
	s := NewServer("0", mgr)

	resp, _ := doJSON(t, s, "POST", "/api/session/start", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status code %d, want 503", resp.StatusCode)
	}
}

func TestHandleStop_Idempotent(t *testing.T) {
	s := newTestServer()

	for i := 0; i < 2; i++ {
		resp, body := doJSON(t, s, "POST", "/api/session/stop", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("stop %d: status code %d", i+1, resp.StatusCode)
		}
		if body["state"] != "idle" {
			t.Errorf("stop %d: state is %v, want idle", i+1, body["state"])
		}
	}
}

func TestHandleSetMode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMode   string
	}{
		{"dangerous only", `{"mode":"dangerous"}`, http.StatusOK, "dangerous"},
		{"back to all", `{"mode":"all"}`, http.StatusOK, "all"},
		{"unknown mode", `{"mode":"everything"}`, http.StatusBadRequest, ""},
		{"empty mode", `{}`, http.StatusBadRequest, ""},
		{"garbage body", `not json`, http.StatusBadRequest, ""},
	}

	s := newTestServer()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, s, "PUT", "/api/mode", tc.body)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status code %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			if tc.wantMode != "" && body["mode"] != tc.wantMode {
				t.Errorf("mode is %v, want %s", body["mode"], tc.wantMode)
			}
		})
	}
}

func TestHandleDangerousClasses(t *testing.T) {
	s := newTestServer()

	resp, body := doJSON(t, s, "GET", "/api/classes/dangerous", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code %d", resp.StatusCode)
	}

	classes, ok := body["classes"].([]any)
	if !ok || len(classes) != 3 {
		t.Fatalf("classes is %v, want three entries", body["classes"])
	}
	seen := map[string]bool{}
	for _, c := range classes {
		seen[c.(string)] = true
	}
	for _, want := range []string{"knife", "scissors", "baseball bat"} {
		if !seen[want] {
			t.Errorf("missing class %q", want)
		}
	}
}
