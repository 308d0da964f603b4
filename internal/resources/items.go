package resources

import "fmt"

// ItemType discriminates the content item union.
type ItemType string

const (
	ItemPDF      ItemType = "pdf"
	ItemImage    ItemType = "image"
	ItemLink     ItemType = "link"
	ItemBlog     ItemType = "blog"
	ItemMarkdown ItemType = "markdown"
)

// Item is one ordered content entry within a resource. It is a tagged union:
// exactly one variant field matching Type must be set. Items are stored as a
// jsonb document on the resource row.
type Item struct {
	Type  ItemType  `json:"type"`
	Order int       `json:"order"`
	File  *FileItem `json:"file,omitempty"`
	Link  *LinkItem `json:"link,omitempty"`
	Text  *TextItem `json:"text,omitempty"`
}

// FileItem references an uploaded blob for pdf and image items.
type FileItem struct {
	StorageKey  string `json:"storage_key"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// LinkItem holds external link metadata. Links are never fetched during
// analysis; the stored metadata is all the model sees.
type LinkItem struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	SiteName string `json:"site_name"`
}

// TextItem holds raw authored content for blog and markdown items.
type TextItem struct {
	Body string `json:"body"`
}

// Validate checks that the item type is known and the matching variant is
// populated.
func (i Item) Validate() error {
	switch i.Type {
	case ItemPDF, ItemImage:
		if i.File == nil || i.File.StorageKey == "" {
			return fmt.Errorf("%w: %s item requires a file with storage_key", ErrInvalidItem, i.Type)
		}
	case ItemLink:
		if i.Link == nil || i.Link.URL == "" {
			return fmt.Errorf("%w: link item requires a url", ErrInvalidItem)
		}
	case ItemBlog, ItemMarkdown:
		if i.Text == nil || i.Text.Body == "" {
			return fmt.Errorf("%w: %s item requires text body", ErrInvalidItem, i.Type)
		}
	default:
		return fmt.Errorf("%w: unknown item type %q", ErrInvalidItem, i.Type)
	}
	return nil
}

// ValidateItems checks that at least one item exists and every item is valid.
func ValidateItems(items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// StorageKeys returns the blob keys referenced by file-backed items.
func StorageKeys(items []Item) []string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if item.File != nil && item.File.StorageKey != "" {
			keys = append(keys, item.File.StorageKey)
		}
	}
	return keys
}
