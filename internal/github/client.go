// Package github talks to the GitHub repository contents API. A write is an
// explicit two-call sequence: look up the current blob SHA, then create or
// update the path. The sequence is not transactional; a concurrent writer
// can invalidate the SHA between the two calls, and the resulting conflict
// is surfaced to the caller unchanged.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/contextrelay/internal/config"
	"github.com/user/contextrelay/internal/types"
)

const (
	defaultBaseURL = "https://api.github.com"

	// DefaultBranch is the branch written when the caller does not name one.
	DefaultBranch = "main"
)

// Client writes files to a single configured repository.
type Client struct {
	cfg     *config.GitHubConfig
	baseURL string
	client  *http.Client
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests use a local
// server).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// New creates a GitHub client for the configured repository coordinates.
func New(cfg *config.GitHubConfig, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) checkConfig() error {
	switch {
	case c.cfg.Token == "":
		return &types.ConfigError{Missing: "GITHUB_TOKEN"}
	case c.cfg.Owner == "":
		return &types.ConfigError{Missing: "GITHUB_OWNER"}
	case c.cfg.Repo == "":
		return &types.ConfigError{Missing: "GITHUB_REPO"}
	}
	return nil
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.cfg.Owner, c.cfg.Repo, path)
}

type contentsResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	HTMLURL  string `json:"html_url"`
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type putContentsResponse struct {
	Content struct {
		HTMLURL string `json:"html_url"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// stat fetches the current blob for path on branch. A nil result with nil
// error means the path does not exist yet; any failure other than 404
// aborts instead of being mistaken for absence.
func (c *Client) stat(ctx context.Context, path, branch string) (*contentsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(path)+"?ref="+branch, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Service: "github", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamError{Service: "github", Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, upstreamFromBody(resp.StatusCode, body)
	}

	var file contentsResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, &types.UpstreamError{Service: "github", Message: fmt.Sprintf("decode contents: %v", err)}
	}
	return &file, nil
}

// ReadFile returns the decoded content and version token of path on branch.
func (c *Client) ReadFile(ctx context.Context, path, branch string) (*types.RepoFile, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}
	if branch == "" {
		branch = DefaultBranch
	}

	file, err := c.stat(ctx, path, branch)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, &types.UpstreamError{
			Service:    "github",
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("%s not found on %s", path, branch),
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(file.Content)
	if err != nil {
		// The API wraps base64 at 60 columns; strip the newlines and retry.
		decoded, err = base64.StdEncoding.DecodeString(stripNewlines(file.Content))
		if err != nil {
			return nil, &types.UpstreamError{Service: "github", Message: fmt.Sprintf("decode content: %v", err)}
		}
	}
	return &types.RepoFile{Content: string(decoded), SHA: file.SHA}, nil
}

// WriteFile commits content to path on branch, creating the file when it
// does not exist and updating it otherwise. The lookup's version token is
// included on update and omitted on create.
func (c *Client) WriteFile(ctx context.Context, path, content, message, branch string) (*types.WriteResult, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}
	if branch == "" {
		branch = DefaultBranch
	}
	if message == "" {
		message = fmt.Sprintf("Update %s", path)
	}

	existing, err := c.stat(ctx, path, branch)
	if err != nil {
		return nil, err
	}

	payload := putContentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  branch,
	}
	if existing != nil {
		payload.SHA = existing.SHA
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal contents request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.UpstreamError{Service: "github", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamError{Service: "github", Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, upstreamFromBody(resp.StatusCode, body)
	}

	var result putContentsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &types.UpstreamError{Service: "github", Message: fmt.Sprintf("decode commit: %v", err)}
	}
	return &types.WriteResult{
		CommitSHA: result.Commit.SHA,
		FileURL:   result.Content.HTMLURL,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

func upstreamFromBody(status int, body []byte) *types.UpstreamError {
	var apiErr struct {
		Message string `json:"message"`
	}
	msg := string(body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &types.UpstreamError{Service: "github", StatusCode: status, Message: msg}
}

func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
