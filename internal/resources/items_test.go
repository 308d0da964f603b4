package resources_test

import (
	"errors"
	"testing"

	"github.com/openshelf/warden/internal/resources"
)

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    resources.Item
		wantErr bool
	}{
		{
			"valid pdf",
			resources.Item{Type: resources.ItemPDF, File: &resources.FileItem{StorageKey: "docs/a.pdf"}},
			false,
		},
		{
			"valid image",
			resources.Item{Type: resources.ItemImage, File: &resources.FileItem{StorageKey: "img/b.png"}},
			false,
		},
		{
			"valid link",
			resources.Item{Type: resources.ItemLink, Link: &resources.LinkItem{URL: "https://example.com"}},
			false,
		},
		{
			"valid blog",
			resources.Item{Type: resources.ItemBlog, Text: &resources.TextItem{Body: "content"}},
			false,
		},
		{
			"valid markdown",
			resources.Item{Type: resources.ItemMarkdown, Text: &resources.TextItem{Body: "# heading"}},
			false,
		},
		{
			"pdf without file",
			resources.Item{Type: resources.ItemPDF},
			true,
		},
		{
			"pdf with empty storage key",
			resources.Item{Type: resources.ItemPDF, File: &resources.FileItem{}},
			true,
		},
		{
			"link without url",
			resources.Item{Type: resources.ItemLink, Link: &resources.LinkItem{Title: "untitled"}},
			true,
		},
		{
			"blog without body",
			resources.Item{Type: resources.ItemBlog, Text: &resources.TextItem{}},
			true,
		},
		{
			"unknown type",
			resources.Item{Type: resources.ItemType("video")},
			true,
		},
		{
			"mismatched variant",
			resources.Item{Type: resources.ItemLink, File: &resources.FileItem{StorageKey: "x"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				if !errors.Is(err, resources.ErrInvalidItem) {
					t.Errorf("Validate() = %v, want ErrInvalidItem", err)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestValidateItems(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		if err := resources.ValidateItems(nil); !errors.Is(err, resources.ErrNoItems) {
			t.Errorf("ValidateItems(nil) = %v, want ErrNoItems", err)
		}
	})

	t.Run("one invalid item fails the list", func(t *testing.T) {
		items := []resources.Item{
			{Type: resources.ItemBlog, Text: &resources.TextItem{Body: "fine"}},
			{Type: resources.ItemPDF},
		}
		if err := resources.ValidateItems(items); !errors.Is(err, resources.ErrInvalidItem) {
			t.Errorf("ValidateItems = %v, want ErrInvalidItem", err)
		}
	})
}

func TestStorageKeys(t *testing.T) {
	items := []resources.Item{
		{Type: resources.ItemPDF, File: &resources.FileItem{StorageKey: "docs/a.pdf"}},
		{Type: resources.ItemLink, Link: &resources.LinkItem{URL: "https://example.com"}},
		{Type: resources.ItemImage, File: &resources.FileItem{StorageKey: "img/b.png"}},
	}

	keys := resources.StorageKeys(items)
	want := []string{"docs/a.pdf", "img/b.png"}

	if len(keys) != len(want) {
		t.Fatalf("StorageKeys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("StorageKeys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
