package discovery

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedText parses an RSS or Atom document and returns the plain text of its
// items, one field per line. Markup inside item fields is stripped the same
// way Normalize strips a page.
func FeedText(body string) (string, error) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse feed: %w", err)
	}

	var lines []string
	for _, item := range feed.Items {
		for _, field := range []string{item.Title, item.Description, item.Content} {
			if field == "" {
				continue
			}
			if text := collapseSpace(Normalize(field)); text != "" {
				lines = append(lines, text)
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
