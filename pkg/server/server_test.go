package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/stepmotion/pkg/store"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

func testSequence(algorithmID string) *trace.Sequence {
	return &trace.Sequence{
		FormatVersion: trace.FormatVersion,
		AlgorithmID:   algorithmID,
		Inputs:        map[string]any{"array": []any{3.0, 1.0}},
		Steps: []trace.Step{
			{
				Index:         0,
				ID:            "initial",
				Title:         "Initial Array",
				Explanation:   "We start with the unsorted array.",
				State:         map[string]any{"array": []any{3.0, 1.0}},
				CodeHighlight: &trace.CodeHighlight{Language: "pseudocode", Lines: []int{1}},
			},
			{
				Index:         1,
				ID:            "done",
				Title:         "Sorted",
				Explanation:   "The array is sorted.",
				State:         map[string]any{"array": []any{1.0, 3.0}},
				CodeHighlight: &trace.CodeHighlight{Language: "pseudocode", Lines: []int{5}},
				IsTerminal:    true,
			},
		},
		GeneratedAt: "2025-06-01T12:00:00Z",
		GeneratedBy: trace.GeneratedByPython,
	}
}

// newTestServer builds a server over a DirStore holding one bubble-sort
// trace.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore() error: %v", err)
	}
	if err := st.Put(context.Background(), testSequence("bubble-sort")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	srv := httptest.NewServer(New(st, nil, nil, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("status = %q, want ok", out["status"])
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestListAlgorithms(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/api/algorithms")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Algorithms []struct {
			ID       string `json:"id"`
			Layout   string `json:"layout"`
			HasTrace bool   `json:"hasTrace"`
		} `json:"algorithms"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Algorithms) == 0 {
		t.Fatal("expected catalog entries")
	}

	found := false
	for _, alg := range out.Algorithms {
		if alg.ID == "bubble-sort" {
			found = true
			if !alg.HasTrace {
				t.Error("bubble-sort should report hasTrace")
			}
			if alg.Layout != "sorting-array" {
				t.Errorf("bubble-sort layout = %q, want sorting-array", alg.Layout)
			}
		} else if alg.HasTrace {
			t.Errorf("%s should not report hasTrace", alg.ID)
		}
	}
	if !found {
		t.Error("bubble-sort missing from listing")
	}
}

func TestGetAlgorithm(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/algorithms/bubble-sort")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var alg struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Layout string `json:"layout"`
	}
	if err := json.Unmarshal(body, &alg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if alg.Title == "" || alg.Layout == "" {
		t.Errorf("incomplete metadata: %+v", alg)
	}

	resp, body = get(t, srv.URL+"/api/algorithms/no-such-algorithm")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown algorithm status = %d, want 404", resp.StatusCode)
	}
	var errOut map[string]string
	if err := json.Unmarshal(body, &errOut); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if errOut["code"] != "CATALOG_NOT_FOUND" {
		t.Errorf("error code = %q, want CATALOG_NOT_FOUND", errOut["code"])
	}
}

func TestGetSteps(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/algorithms/bubble-sort/steps")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	seq, err := trace.ReadSequence(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("response is not a valid sequence: %v", err)
	}
	if seq.AlgorithmID != "bubble-sort" || len(seq.Steps) != 2 {
		t.Errorf("unexpected sequence: %s with %d steps", seq.AlgorithmID, len(seq.Steps))
	}

	resp, _ = get(t, srv.URL+"/api/algorithms/linear-search/steps")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing trace status = %d, want 404", resp.StatusCode)
	}
}

func TestGetFrame(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/algorithms/bubble-sort/frames/0")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if _, err := png.Decode(bytes.NewReader(body)); err != nil {
		t.Errorf("body is not a PNG: %v", err)
	}

	// Transition frame between steps 0 and 1.
	resp, _ = get(t, srv.URL+"/api/algorithms/bubble-sort/frames/1?t=0.5")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("transition frame status = %d, want 200", resp.StatusCode)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/algorithms/bubble-sort/frames/99", http.StatusBadRequest},
		{"/api/algorithms/bubble-sort/frames/xyz", http.StatusBadRequest},
		{"/api/algorithms/bubble-sort/frames/0?t=1.5", http.StatusBadRequest},
		{"/api/algorithms/bubble-sort/frames/0?w=0", http.StatusBadRequest},
		{"/api/algorithms/bubble-sort/frames/0?w=99999", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, _ := get(t, srv.URL+tt.path)
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}
}

func TestGetFrameThumbnail(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/algorithms/bubble-sort/frames/0?w=200")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("body is not a PNG: %v", err)
	}
	if got := img.Bounds().Dx(); got != 200 {
		t.Errorf("thumbnail width = %d, want 200", got)
	}
}

func TestGetAnimation(t *testing.T) {
	if testing.Short() {
		t.Skip("gif encoding is slow")
	}
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/algorithms/bubble-sort/animation.gif")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/gif" {
		t.Errorf("Content-Type = %q, want image/gif", ct)
	}
	if !bytes.HasPrefix(body, []byte("GIF8")) {
		t.Errorf("body is not a GIF: %.8s", body)
	}
}
