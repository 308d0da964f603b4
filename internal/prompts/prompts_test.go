package prompts_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/openshelf/warden/internal/prompts"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", prompts.ErrNotFound, http.StatusNotFound},
		{"duplicate", prompts.ErrDuplicate, http.StatusConflict},
		{"invalid stage", prompts.ErrInvalidStage, http.StatusBadRequest},
		{"invalid prompt", prompts.ErrInvalidPrompt, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", prompts.ErrNotFound), http.StatusNotFound},
		{"wrapped invalid prompt", fmt.Errorf("decode failed: %w", prompts.ErrInvalidPrompt), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prompts.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStages(t *testing.T) {
	stages := prompts.Stages()

	if len(stages) != 1 {
		t.Fatalf("len(Stages()) = %d, want 1", len(stages))
	}
	if stages[0] != prompts.StageModerate {
		t.Errorf("Stages()[0] = %q, want %q", stages[0], prompts.StageModerate)
	}
}

func TestParseStage(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		stage, err := prompts.ParseStage("moderate")
		if err != nil {
			t.Fatalf("ParseStage error: %v", err)
		}
		if stage != prompts.StageModerate {
			t.Errorf("ParseStage = %q", stage)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := prompts.ParseStage("classify"); !errors.Is(err, prompts.ErrInvalidStage) {
			t.Errorf("ParseStage = %v, want ErrInvalidStage", err)
		}
	})
}

func TestStageUnmarshalJSON(t *testing.T) {
	t.Run("valid stage", func(t *testing.T) {
		var s prompts.Stage
		if err := json.Unmarshal([]byte(`"moderate"`), &s); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if s != prompts.StageModerate {
			t.Errorf("stage = %q", s)
		}
	})

	t.Run("unknown stage rejected", func(t *testing.T) {
		var s prompts.Stage
		err := json.Unmarshal([]byte(`"enhance"`), &s)
		if !errors.Is(err, prompts.ErrInvalidStage) {
			t.Errorf("Unmarshal = %v, want ErrInvalidStage", err)
		}
	})

	t.Run("non-string rejected", func(t *testing.T) {
		var s prompts.Stage
		if err := json.Unmarshal([]byte(`42`), &s); err == nil {
			t.Error("Unmarshal accepted a number")
		}
	})
}

func TestInstructions(t *testing.T) {
	t.Run("moderate stage has default rubric", func(t *testing.T) {
		text, err := prompts.Instructions(prompts.StageModerate)
		if err != nil {
			t.Fatalf("Instructions error: %v", err)
		}
		if !strings.Contains(text, "content moderator") {
			t.Errorf("default instructions missing rubric: %q", text)
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		if _, err := prompts.Instructions(prompts.Stage("other")); !errors.Is(err, prompts.ErrInvalidStage) {
			t.Errorf("Instructions = %v, want ErrInvalidStage", err)
		}
	})
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("stage", "moderate")
	values.Set("name", "strict")
	values.Set("active", "true")

	f := prompts.FiltersFromQuery(values)

	if f.Stage == nil || *f.Stage != prompts.StageModerate {
		t.Errorf("Stage = %v", f.Stage)
	}
	if f.Name == nil || *f.Name != "strict" {
		t.Errorf("Name = %v", f.Name)
	}
	if f.Active == nil || !*f.Active {
		t.Errorf("Active = %v", f.Active)
	}

	empty := prompts.FiltersFromQuery(url.Values{})
	if empty.Stage != nil || empty.Name != nil || empty.Active != nil {
		t.Errorf("empty query produced filters: %+v", empty)
	}
}
