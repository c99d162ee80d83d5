package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/contextrelay/internal/config"
	"github.com/user/contextrelay/internal/types"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&config.GitHubConfig{Token: "ghp-test", Owner: "octocat", Repo: "context"}, WithBaseURL(srv.URL))
}

func TestWriteFileCreate(t *testing.T) {
	var put putContentsRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/context/contents/docs/notes.md" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&put); err != nil {
				t.Fatal(err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]any{"html_url": "https://github.com/octocat/context/blob/main/docs/notes.md"},
				"commit":  map[string]any{"sha": "abc123"},
			})
		}
	}))

	res, err := client.WriteFile(context.Background(), "docs/notes.md", "hello", "add notes", "main")
	if err != nil {
		t.Fatal(err)
	}
	if res.CommitSHA != "abc123" {
		t.Errorf("expected commit sha abc123, got %s", res.CommitSHA)
	}
	if res.FileURL == "" {
		t.Error("expected file url")
	}
	if put.SHA != "" {
		t.Errorf("create must omit the version token, got %q", put.SHA)
	}
	if put.Branch != "main" {
		t.Errorf("expected branch main, got %s", put.Branch)
	}
	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "hello" {
		t.Errorf("expected content hello, got %q", decoded)
	}
}

func TestWriteFileUpdateIncludesSHA(t *testing.T) {
	var put putContentsRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("ref") != "main" {
				t.Errorf("expected ref=main, got %s", r.URL.Query().Get("ref"))
			}
			json.NewEncoder(w).Encode(map[string]any{"sha": "oldsha", "content": "", "encoding": "base64"})
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&put); err != nil {
				t.Fatal(err)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]any{"html_url": "https://github.com/octocat/context/blob/main/notes.md"},
				"commit":  map[string]any{"sha": "def456"},
			})
		}
	}))

	res, err := client.WriteFile(context.Background(), "notes.md", "updated", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if put.SHA != "oldsha" {
		t.Errorf("update must carry the version token, got %q", put.SHA)
	}
	if put.Message != "Update notes.md" {
		t.Errorf("expected defaulted commit message, got %q", put.Message)
	}
	if res.CommitSHA != "def456" {
		t.Errorf("unexpected commit sha %s", res.CommitSHA)
	}
}

func TestWriteFileConflict(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"sha": "stale"})
		case http.MethodPut:
			http.Error(w, `{"message":"notes.md does not match stale"}`, http.StatusConflict)
		}
	}))

	_, err := client.WriteFile(context.Background(), "notes.md", "c", "m", "main")
	var ue *types.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", ue.StatusCode)
	}
	if ue.Message != "notes.md does not match stale" {
		t.Errorf("expected store message, got %q", ue.Message)
	}
}

func TestWriteFileLookupFailureAborts(t *testing.T) {
	putCalled := false
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusForbidden)
		case http.MethodPut:
			putCalled = true
		}
	}))

	_, err := client.WriteFile(context.Background(), "notes.md", "c", "m", "main")
	var ue *types.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", ue.StatusCode)
	}
	if putCalled {
		t.Error("a failed lookup must not fall through to a write")
	}
}

// fakeStore is an in-memory stand-in for the contents API, enough for a
// write-then-read round trip.
type fakeStore struct {
	content string // base64 as stored
	sha     string
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if f.sha == "" {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"sha": f.sha, "content": f.content, "encoding": "base64",
			"html_url": "https://github.com/octocat/context/blob/main/rt.md",
		})
	case http.MethodPut:
		var put putContentsRequest
		if err := json.NewDecoder(r.Body).Decode(&put); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.content = put.Content
		f.sha = "sha-1"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]any{"html_url": "https://github.com/octocat/context/blob/main/rt.md"},
			"commit":  map[string]any{"sha": "commit-1"},
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	client := testClient(t, &fakeStore{})

	const content = "# Title\n\nline one\nline two with unicode: héllo ✓\n"
	if _, err := client.WriteFile(context.Background(), "rt.md", content, "round trip", "main"); err != nil {
		t.Fatal(err)
	}

	file, err := client.ReadFile(context.Background(), "rt.md", "main")
	if err != nil {
		t.Fatal(err)
	}
	if file.Content != content {
		t.Errorf("round trip mismatch:\nwrote %q\nread  %q", content, file.Content)
	}
	if file.SHA == "" {
		t.Error("expected a version token on read")
	}
}

func TestReadFileNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.ReadFile(context.Background(), "missing.md", "main")
	var ue *types.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", ue.StatusCode)
	}
}

func TestWriteFileMissingConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.GitHubConfig
		want string
	}{
		{"token", config.GitHubConfig{Owner: "o", Repo: "r"}, "GITHUB_TOKEN"},
		{"owner", config.GitHubConfig{Token: "t", Repo: "r"}, "GITHUB_OWNER"},
		{"repo", config.GitHubConfig{Token: "t", Owner: "o"}, "GITHUB_REPO"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := New(&tc.cfg)
			_, err := client.WriteFile(context.Background(), "p.md", "c", "m", "")
			var ce *types.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if ce.Missing != tc.want {
				t.Errorf("expected %s, got %s", tc.want, ce.Missing)
			}
		})
	}
}
