package jsonutil

import (
	"strings"
	"testing"
)

func TestMarshalIndentWithNewline_TrailingNewline(t *testing.T) {
	data, err := MarshalIndentWithNewline(map[string]string{"a": "b"}, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndentWithNewline: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("expected a trailing newline")
	}
}

func TestMarshalIndentWithNewline_DoesNotEscapeHTML(t *testing.T) {
	data, err := MarshalIndentWithNewline(map[string]string{"notes": "a < b && c > d"}, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndentWithNewline: %v", err)
	}
	if strings.Contains(string(data), "\\u003c") {
		t.Error("expected raw '<' rather than an escaped unicode sequence")
	}
}
