package extract

import (
	"strings"

	"github.com/openshelf/warden/internal/resources"
)

// maxTextPreviewChars caps the inline body included in the prompt.
const maxTextPreviewChars = 2000

func extractText(item resources.Item) Content {
	if item.Text == nil || strings.TrimSpace(item.Text.Body) == "" {
		return Content{Summary: FallbackSummary}
	}

	body := item.Text.Body
	c := Content{
		SizeBytes: int64(len(body)),
		WordCount: len(strings.Fields(body)),
	}

	if len(body) > maxTextPreviewChars {
		body = body[:maxTextPreviewChars]
	}
	c.Summary = strings.TrimSpace(body)

	return c
}
