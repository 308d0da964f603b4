package extract

import "github.com/openshelf/warden/internal/resources"

// extractLink describes a link item from its submitted metadata. The
// target page is never fetched.
func extractLink(item resources.Item) Content {
	if item.Link == nil || item.Link.URL == "" {
		return Content{Summary: FallbackSummary}
	}

	return Content{
		URL:      item.Link.URL,
		Title:    item.Link.Title,
		SiteName: item.Link.SiteName,
		Summary:  "Link metadata only; the target page was not fetched.",
	}
}
