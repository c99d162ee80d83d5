// internal/relay/format.go
package relay

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/user/contextrelay/internal/types"
)

const messageTimeLayout = "2006-01-02 15:04:05"

// BuildDocument renders one page of channel history as a markdown document.
// The provider hands messages newest first; the document reads oldest first,
// top to bottom. Output is deterministic for a fixed input except for the
// embedded generation timestamp.
func BuildDocument(channel string, messages []types.Message, generatedAt time.Time) string {
	oldest := make([]types.Message, len(messages))
	copy(oldest, messages)
	sort.SliceStable(oldest, func(i, j int) bool {
		return oldest[i].Time().Before(oldest[j].Time())
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Slack Context: %s\n\n", channel)
	fmt.Fprintf(&sb, "Generated: %s\n\n", generatedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Total messages: %d\n\n", len(oldest))
	sb.WriteString("---\n\n")

	for _, m := range oldest {
		fmt.Fprintf(&sb, "### %s - %s\n\n", m.Author, m.Time().Format(messageTimeLayout))
		sb.WriteString(m.Text)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}
