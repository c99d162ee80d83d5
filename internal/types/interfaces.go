// internal/types/interfaces.go
package types

import "context"

// MessageFetcher reads one page of channel history from the messaging
// provider. olderThan is an optional opaque timestamp cursor bounding the
// page from above.
type MessageFetcher interface {
	FetchMessages(ctx context.Context, channel string, limit int, olderThan string) (*History, error)
}

// FileWriter commits a file to the repository store, creating or updating
// the path on the given branch.
type FileWriter interface {
	WriteFile(ctx context.Context, path, content, message, branch string) (*WriteResult, error)
}
