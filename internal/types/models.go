// internal/types/models.go
package types

import (
	"strconv"
	"time"
)

// Message is a single channel message as returned by the messaging provider.
type Message struct {
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
	Text      string `json:"text"`
}

// Time parses the provider timestamp ("seconds.fraction" since the epoch).
// Returns the zero time when the timestamp is malformed.
func (m Message) Time() time.Time {
	f, err := strconv.ParseFloat(m.Timestamp, 64)
	if err != nil {
		return time.Time{}
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// History is one page of channel history in provider order, newest first.
type History struct {
	Messages []Message
	HasMore  bool
}

// RepoFile is the current state of a repository file. SHA is the store's
// optimistic-concurrency token for its content.
type RepoFile struct {
	Content string
	SHA     string
}

// WriteResult describes a completed repository commit.
type WriteResult struct {
	CommitSHA string
	FileURL   string
}

// RelayResult is the outcome of the composite fetch-then-write operation.
// MessagesRetrieved is set as soon as the fetch half succeeds, even when the
// subsequent write fails.
type RelayResult struct {
	MessagesRetrieved int
	MessagesSaved     int
	CommitSHA         string
	FileURL           string
}
