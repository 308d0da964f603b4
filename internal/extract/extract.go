// Package extract derives textual descriptions of resource items for AI
// analysis. Extraction is best-effort: failures degrade to a sentinel
// description rather than propagating errors, so a corrupt file never
// blocks moderation of the resource that contains it.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/pkg/storage"
)

// FallbackSummary is used when an item's content cannot be read or parsed.
const FallbackSummary = "could not extract content"

// Content describes what was extracted from a single item. Fields beyond
// Summary are populated per item type and fold into the description sent
// to the model.
type Content struct {
	Summary   string
	SizeBytes int64

	// pdf
	PageCount int

	// pdf, text
	WordCount int

	// image
	Width    int
	Height   int
	Format   string
	HasAlpha bool

	// link
	URL      string
	Title    string
	SiteName string
}

// Extractor reads item content from blob storage and produces descriptions.
type Extractor struct {
	storage  storage.System
	maxFetch int64
	logger   *slog.Logger
}

// New creates an Extractor. maxFetch caps the number of bytes read from
// storage for any single file item.
func New(store storage.System, maxFetch int64, logger *slog.Logger) *Extractor {
	return &Extractor{
		storage:  store,
		maxFetch: maxFetch,
		logger:   logger.With("system", "extract"),
	}
}

// Extract produces a Content for an item. It never returns an error:
// unreadable or unparseable content yields the fallback summary so
// analysis can proceed with what is known.
func (e *Extractor) Extract(ctx context.Context, item resources.Item) Content {
	switch item.Type {
	case resources.ItemPDF:
		return e.extractPDF(ctx, item)
	case resources.ItemImage:
		return e.extractImage(ctx, item)
	case resources.ItemLink:
		return extractLink(item)
	case resources.ItemBlog, resources.ItemMarkdown:
		return extractText(item)
	default:
		e.logger.Warn("unknown item type", "type", item.Type)
		return Content{Summary: FallbackSummary}
	}
}

// fetch downloads a file item's blob, capped at maxFetch bytes. Oversized
// or unreadable blobs report failure rather than partial content.
func (e *Extractor) fetch(ctx context.Context, file *resources.FileItem) ([]byte, bool) {
	if file == nil {
		return nil, false
	}

	rc, err := e.storage.Download(ctx, file.StorageKey)
	if err != nil {
		e.logger.Warn("download failed", "key", file.StorageKey, "error", err)
		return nil, false
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, e.maxFetch+1))
	if err != nil {
		e.logger.Warn("read failed", "key", file.StorageKey, "error", err)
		return nil, false
	}

	if int64(len(data)) > e.maxFetch {
		e.logger.Warn("file exceeds extraction cap",
			"key", file.StorageKey,
			"cap", e.maxFetch,
		)
		return nil, false
	}

	return data, true
}

// Describe renders the content as the text block included in the
// moderation prompt.
func (c Content) Describe() string {
	var b strings.Builder

	if c.PageCount > 0 {
		fmt.Fprintf(&b, "PDF document, %d pages, %d words extracted.\n", c.PageCount, c.WordCount)
	}
	if c.Format != "" {
		fmt.Fprintf(&b, "Image: %s, %dx%d", c.Format, c.Width, c.Height)
		if c.HasAlpha {
			b.WriteString(", transparent")
		}
		b.WriteString(".\n")
	}
	if c.URL != "" {
		fmt.Fprintf(&b, "External link: %s", c.URL)
		if c.Title != "" {
			fmt.Fprintf(&b, " (%s)", c.Title)
		}
		if c.SiteName != "" {
			fmt.Fprintf(&b, " on %s", c.SiteName)
		}
		b.WriteString("\n")
	}

	b.WriteString(c.Summary)
	return strings.TrimSpace(b.String())
}
