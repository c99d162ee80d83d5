// Package relay chains a channel-history fetch into a repository commit.
// The pipeline is linear with no retry or compensation: a fetch failure
// aborts, and a write failure after a successful fetch is reported as a
// partial failure carrying the retrieved-message count.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/user/contextrelay/internal/types"
)

// The composite path always writes the store's default branch.
const targetBranch = "main"

// Relay runs the composite fetch-format-write operation.
type Relay struct {
	fetcher types.MessageFetcher
	writer  types.FileWriter
	now     func() time.Time
}

// New creates a Relay over the given provider clients.
func New(fetcher types.MessageFetcher, writer types.FileWriter) *Relay {
	return &Relay{
		fetcher: fetcher,
		writer:  writer,
		now:     time.Now,
	}
}

// Params describes one composite run.
type Params struct {
	Channel       string
	Path          string
	Limit         int
	CommitMessage string
}

// Run fetches channel history, renders it as a markdown document, and
// commits the document. When the write fails after a successful fetch, the
// returned result is non-nil alongside the error and carries the count of
// messages that were retrieved.
func (r *Relay) Run(ctx context.Context, p Params) (*types.RelayResult, error) {
	hist, err := r.fetcher.FetchMessages(ctx, p.Channel, p.Limit, "")
	if err != nil {
		return nil, err
	}

	generatedAt := r.now()
	doc := BuildDocument(p.Channel, hist.Messages, generatedAt)

	message := p.CommitMessage
	if message == "" {
		message = fmt.Sprintf("Add Slack context from %s - %s", p.Channel, generatedAt.Format(time.RFC3339))
	}

	written, err := r.writer.WriteFile(ctx, p.Path, doc, message, targetBranch)
	if err != nil {
		return &types.RelayResult{MessagesRetrieved: len(hist.Messages)}, err
	}

	return &types.RelayResult{
		MessagesRetrieved: len(hist.Messages),
		MessagesSaved:     len(hist.Messages),
		CommitSHA:         written.CommitSHA,
		FileURL:           written.FileURL,
	}, nil
}
