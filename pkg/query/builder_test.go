package query_test

import (
	"testing"

	"github.com/openshelf/warden/pkg/query"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "resources", "r").
		Project("id", "ID").
		Project("name", "Name").
		Project("status", "Status").
		Project("tags", "Tags")
}

func ptr[T any](v T) *T {
	return &v
}

func TestBuild(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(projection()).Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("default sort applied", func(t *testing.T) {
		sql, _ := query.NewBuilder(projection(), query.SortField{Field: "Name"}).Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r ORDER BY r.name ASC"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})

	t.Run("explicit sort overrides default", func(t *testing.T) {
		sql, _ := query.NewBuilder(projection(), query.SortField{Field: "Name"}).
			OrderByFields([]query.SortField{{Field: "Status", Descending: true}}).
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r ORDER BY r.status DESC"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
	})
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereEquals("Status", "pending").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.resources r WHERE r.status = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "pending" {
		t.Errorf("args = %v, want [pending]", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(projection(), query.SortField{Field: "Name"}).
		BuildPage(3, 20)

	want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r ORDER BY r.name ASC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(projection()).BuildSingle("ID", "abc")

	want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r WHERE r.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}

func TestBuildSingleOrNull(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereEquals("Status", "pending").
		BuildSingleOrNull()

	want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r WHERE r.status = $1 LIMIT 1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want one arg", args)
	}
}

func TestParameterRenumbering(t *testing.T) {
	t.Run("sequential conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(projection()).
			WhereEquals("Status", "pending").
			WhereContains("Name", ptr("algebra")).
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r WHERE r.status = $1 AND r.name ILIKE $2"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 || args[1] != "%algebra%" {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("search expands across fields", func(t *testing.T) {
		sql, args := query.NewBuilder(projection()).
			WhereSearch(ptr("math"), "Name", "Status").
			WhereEquals("ID", "x").
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r" +
			" WHERE (r.name ILIKE $1 OR r.status ILIKE $2) AND r.id = $3"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 3 {
			t.Errorf("args = %v, want 3", args)
		}
	})

	t.Run("in clause numbers each value", func(t *testing.T) {
		sql, args := query.NewBuilder(projection()).
			WhereIn("Status", []any{"pending", "approved"}).
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r WHERE r.status IN ($1, $2)"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 {
			t.Errorf("args = %v, want 2", args)
		}
	})

	t.Run("raw expression renumbered with fluent conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(projection()).
			WhereEquals("Status", "pending").
			WhereExpr("r.tags @> $%d::jsonb", `["math"]`).
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r" +
			" WHERE r.status = $1 AND r.tags @> $2::jsonb"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 2 {
			t.Errorf("args = %v, want 2", args)
		}
	})
}

func TestConditionNoOps(t *testing.T) {
	sql, args := query.NewBuilder(projection()).
		WhereEquals("Status", nil).
		WhereContains("Name", nil).
		WhereContains("Name", ptr("")).
		WhereIn("Status", nil).
		WhereSearch(nil, "Name").
		Build()

	want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r"
	if sql != want {
		t.Errorf("sql = %q, want no conditions", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestWhereNullable(t *testing.T) {
	t.Run("nil produces IS NULL", func(t *testing.T) {
		var val *string
		sql, args := query.NewBuilder(projection()).
			WhereNullable("Name", val).
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r WHERE r.name IS NULL"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("value produces equality", func(t *testing.T) {
		sql, args := query.NewBuilder(projection()).
			WhereNullable("Name", ptr("x")).
			Build()

		want := "SELECT r.id, r.name, r.status, r.tags FROM public.resources r WHERE r.name = $1"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 1 {
			t.Errorf("args = %v, want one arg", args)
		}
	})
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "name", []query.SortField{{Field: "name"}}},
		{"descending prefix", "-created_at", []query.SortField{{Field: "created_at", Descending: true}}},
		{
			"mixed with whitespace",
			"name, -created_at",
			[]query.SortField{{Field: "name"}, {Field: "created_at", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
