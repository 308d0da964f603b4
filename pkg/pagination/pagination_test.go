package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/openshelf/warden/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values use defaults", 0, 0, 1, 20},
		{"negative page clamped", -5, 10, 1, 10},
		{"oversized page size clamped", 2, 500, 2, 100},
		{"valid request unchanged", 3, 50, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(testConfig())

			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("normalized = %d/%d, want %d/%d",
					req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Errorf("Offset = %d, want 50", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "10")
	values.Set("search", "algebra")
	values.Set("sort", "name,-created_at")

	req := pagination.PageRequestFromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("page = %d/%d", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "algebra" {
		t.Errorf("Search = %v", req.Search)
	}
	if len(req.Sort) != 2 || !req.Sort[1].Descending {
		t.Errorf("Sort = %v", req.Sort)
	}

	empty := pagination.PageRequestFromQuery(url.Values{}, testConfig())
	if empty.Page != 1 || empty.PageSize != 20 || empty.Search != nil {
		t.Errorf("empty query request = %+v", empty)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	t.Run("string format", func(t *testing.T) {
		var s pagination.SortFields
		if err := json.Unmarshal([]byte(`"name,-created_at"`), &s); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if len(s) != 2 || s[0].Field != "name" || !s[1].Descending {
			t.Errorf("SortFields = %v", s)
		}
	})

	t.Run("array format", func(t *testing.T) {
		var s pagination.SortFields
		data := `[{"Field":"name","Descending":true}]`
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if len(s) != 1 || !s[0].Descending {
			t.Errorf("SortFields = %v", s)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty result", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		result := pagination.NewPageResult[string](nil, 0, 1, 20)
		if result.Data == nil {
			t.Error("Data = nil, want empty slice")
		}
	})
}
