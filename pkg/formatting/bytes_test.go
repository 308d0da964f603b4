package formatting_test

import (
	"testing"

	"github.com/openshelf/warden/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 0, "2 KB"},
		{"megabytes with precision", 50 * 1024 * 1024, 1, "50.0 MB"},
		{"fractional gigabytes", 1536 * 1024 * 1024, 1, "1.5 GB"},
		{"negative precision clamped", 1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	sizes := []int64{1024, 50 * 1024 * 1024, 3 * 1024 * 1024 * 1024}

	for _, n := range sizes {
		formatted := formatting.FormatBytes(n, 0)
		parsed, err := formatting.ParseBytes(formatted)
		if err != nil {
			t.Fatalf("ParseBytes(%q) error: %v", formatted, err)
		}
		if parsed != n {
			t.Errorf("round trip %d -> %q -> %d", n, formatted, parsed)
		}
	}
}
