// internal/server/handlers.go
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/contextrelay/internal/relay"
	"github.com/user/contextrelay/internal/types"
)

type slackMessagesRequest struct {
	Channel   string `json:"channel"`
	Limit     int    `json:"limit"`
	OlderThan string `json:"older_than"`
}

func (s *Server) handleGetSlackMessages(c *gin.Context) {
	var req slackMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
		return
	}

	hist, err := s.fetcher.FetchMessages(c.Request.Context(), req.Channel, req.Limit, req.OlderThan)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": hist.Messages,
		"count":    len(hist.Messages),
		"has_more": hist.HasMore,
	})
}

type saveToGithubRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Message string `json:"message"`
	Branch  string `json:"branch"`
}

func (s *Server) handleSaveToGithub(c *gin.Context) {
	var req saveToGithubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	res, err := s.writer.WriteFile(c.Request.Context(), req.Path, req.Content, req.Message, req.Branch)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"commit_sha": res.CommitSHA,
		"file_url":   res.FileURL,
	})
}

type slackToGithubRequest struct {
	SlackChannel  string `json:"slack_channel"`
	GithubPath    string `json:"github_path"`
	MessageLimit  int    `json:"message_limit"`
	CommitMessage string `json:"commit_message"`
}

func (s *Server) handleSlackToGithubContext(c *gin.Context) {
	var req slackToGithubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.SlackChannel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slack_channel is required"})
		return
	}
	if req.GithubPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "github_path is required"})
		return
	}

	res, err := s.relay.Run(c.Request.Context(), relay.Params{
		Channel:       req.SlackChannel,
		Path:          req.GithubPath,
		Limit:         req.MessageLimit,
		CommitMessage: req.CommitMessage,
	})
	if err != nil {
		// A non-nil result means the fetch half succeeded before the write
		// failed; report how far the operation got.
		if res != nil {
			c.JSON(errorStatus(err), gin.H{
				"error":                    errorMessage(err),
				"slack_messages_retrieved": res.MessagesRetrieved,
			})
			return
		}
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"messages_saved": res.MessagesSaved,
		"github_url":     res.FileURL,
		"commit_sha":     res.CommitSHA,
	})
}

// writeError maps the error taxonomy onto the uniform {error} shape:
// ConfigError is a 500, UpstreamError mirrors the upstream status when one
// is known and is a 500 otherwise.
func (s *Server) writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("handler failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": errorMessage(err)})
}

func errorStatus(err error) int {
	var ue *types.UpstreamError
	if errors.As(err, &ue) && ue.StatusCode > 0 {
		return ue.StatusCode
	}
	return http.StatusInternalServerError
}

// errorMessage prefers the upstream-reported string over the wrapped form
// so callers see the provider's own error text.
func errorMessage(err error) string {
	var ue *types.UpstreamError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}
