// internal/server/functions.go
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type functionParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

type functionSpec struct {
	Name        string          `json:"name"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	Description string          `json:"description"`
	Parameters  []functionParam `json:"parameters"`
}

// catalog is the static function listing served to orchestrating agents.
var catalog = []functionSpec{
	{
		Name:        "get_slack_messages",
		Method:      http.MethodPost,
		Path:        "/functions/get_slack_messages",
		Description: "Fetch one page of message history from a Slack channel, newest first.",
		Parameters: []functionParam{
			{Name: "channel", Type: "string", Required: true, Description: "Slack channel ID to read from."},
			{Name: "limit", Type: "integer", Required: false, Description: "Maximum messages to return (default 100)."},
			{Name: "older_than", Type: "string", Required: false, Description: "Timestamp cursor; only messages older than it are returned."},
		},
	},
	{
		Name:        "save_to_github",
		Method:      http.MethodPost,
		Path:        "/functions/save_to_github",
		Description: "Create or update a file in the configured GitHub repository.",
		Parameters: []functionParam{
			{Name: "path", Type: "string", Required: true, Description: "File path within the repository."},
			{Name: "content", Type: "string", Required: true, Description: "File content to commit."},
			{Name: "message", Type: "string", Required: false, Description: "Commit message (defaulted when omitted)."},
			{Name: "branch", Type: "string", Required: false, Description: "Target branch (default main)."},
		},
	},
	{
		Name:        "slack_to_github_context",
		Method:      http.MethodPost,
		Path:        "/functions/slack_to_github_context",
		Description: "Fetch Slack messages, format them as a markdown document, and commit it to GitHub.",
		Parameters: []functionParam{
			{Name: "slack_channel", Type: "string", Required: true, Description: "Slack channel ID to read from."},
			{Name: "github_path", Type: "string", Required: true, Description: "Repository path for the generated document."},
			{Name: "message_limit", Type: "integer", Required: false, Description: "Maximum messages to fetch (default 100)."},
			{Name: "commit_message", Type: "string", Required: false, Description: "Commit message (defaulted with a timestamp when omitted)."},
		},
	},
}

func (s *Server) handleFunctions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"functions": catalog,
		"count":     len(catalog),
	})
}
