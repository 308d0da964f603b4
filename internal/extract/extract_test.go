package extract

import (
	"image/color"
	"strings"
	"testing"

	"github.com/openshelf/warden/internal/resources"
)

func TestExtractText(t *testing.T) {
	t.Run("body and word count", func(t *testing.T) {
		item := resources.Item{
			Type: resources.ItemMarkdown,
			Text: &resources.TextItem{Body: "one two three four"},
		}

		c := extractText(item)

		if c.Summary != "one two three four" {
			t.Errorf("Summary = %q", c.Summary)
		}
		if c.WordCount != 4 {
			t.Errorf("WordCount = %d, want 4", c.WordCount)
		}
		if c.SizeBytes != int64(len(item.Text.Body)) {
			t.Errorf("SizeBytes = %d", c.SizeBytes)
		}
	})

	t.Run("long body truncated in summary", func(t *testing.T) {
		body := strings.Repeat("word ", 1000)
		item := resources.Item{
			Type: resources.ItemBlog,
			Text: &resources.TextItem{Body: body},
		}

		c := extractText(item)

		if len(c.Summary) > maxTextPreviewChars {
			t.Errorf("Summary length = %d, want <= %d", len(c.Summary), maxTextPreviewChars)
		}
		if c.WordCount != 1000 {
			t.Errorf("WordCount = %d, want full count before truncation", c.WordCount)
		}
	})

	t.Run("missing body falls back", func(t *testing.T) {
		c := extractText(resources.Item{Type: resources.ItemBlog})
		if c.Summary != FallbackSummary {
			t.Errorf("Summary = %q, want fallback", c.Summary)
		}
	})

	t.Run("whitespace-only body falls back", func(t *testing.T) {
		c := extractText(resources.Item{
			Type: resources.ItemBlog,
			Text: &resources.TextItem{Body: "   \n\t  "},
		})
		if c.Summary != FallbackSummary {
			t.Errorf("Summary = %q, want fallback", c.Summary)
		}
	})
}

func TestExtractLink(t *testing.T) {
	t.Run("metadata passthrough", func(t *testing.T) {
		item := resources.Item{
			Type: resources.ItemLink,
			Link: &resources.LinkItem{
				URL:      "https://example.com/lesson",
				Title:    "Lesson One",
				SiteName: "Example Academy",
			},
		}

		c := extractLink(item)

		if c.URL != item.Link.URL || c.Title != "Lesson One" || c.SiteName != "Example Academy" {
			t.Errorf("Content = %+v", c)
		}
	})

	t.Run("missing url falls back", func(t *testing.T) {
		c := extractLink(resources.Item{Type: resources.ItemLink})
		if c.Summary != FallbackSummary {
			t.Errorf("Summary = %q, want fallback", c.Summary)
		}
	})
}

func TestDescribe(t *testing.T) {
	t.Run("pdf metadata line", func(t *testing.T) {
		c := Content{PageCount: 12, WordCount: 3400, Summary: "extracted text"}
		desc := c.Describe()

		if !strings.Contains(desc, "12 pages") {
			t.Errorf("Describe() = %q, missing page count", desc)
		}
		if !strings.HasSuffix(desc, "extracted text") {
			t.Errorf("Describe() = %q, summary not last", desc)
		}
	})

	t.Run("image metadata line", func(t *testing.T) {
		c := Content{Format: "png", Width: 800, Height: 600, HasAlpha: true}
		desc := c.Describe()

		if !strings.Contains(desc, "png, 800x600") {
			t.Errorf("Describe() = %q, missing dimensions", desc)
		}
		if !strings.Contains(desc, "transparent") {
			t.Errorf("Describe() = %q, missing alpha note", desc)
		}
	})

	t.Run("link metadata line", func(t *testing.T) {
		c := Content{URL: "https://example.com", Title: "T", SiteName: "S"}
		desc := c.Describe()

		if !strings.Contains(desc, "https://example.com") {
			t.Errorf("Describe() = %q, missing url", desc)
		}
	})
}

func TestHasAlpha(t *testing.T) {
	if !hasAlpha(color.NRGBAModel) {
		t.Error("hasAlpha(NRGBA) = false")
	}
	if hasAlpha(color.GrayModel) {
		t.Error("hasAlpha(Gray) = true")
	}
	if hasAlpha(color.YCbCrModel) {
		t.Error("hasAlpha(YCbCr) = true")
	}
}
