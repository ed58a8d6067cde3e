package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "debug", false},
		{"", "info", false},
		{"WARN", "warn", false},
		{"error", "error", false},
		{"loud", "info", true},
	}
	for _, tt := range tests {
		lvl, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error state %v", tt.in, err)
		}
		if lvl.String() != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, lvl)
		}
	}
}

func TestNew(t *testing.T) {
	if _, err := New("info", "json"); err != nil {
		t.Errorf("json logger failed: %v", err)
	}
	if _, err := New("debug", "console"); err != nil {
		t.Errorf("console logger failed: %v", err)
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Error("expected no-op logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Error("expected logger to pass through")
	}
}
