package errors

import (
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(fmt.Errorf("habit %q not found", "Water")); got != `Error: habit "Water" not found` {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("invalid mood %d", 9); got != "Error: invalid mood 9" {
		t.Errorf("Formatf() = %q", got)
	}
}
