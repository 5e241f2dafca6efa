package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(stiFrame(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"label", "Open", "Close", "1/1/2020", "110", "45"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_Truncates(t *testing.T) {
	var buf bytes.Buffer
	NewTableFormatter(&buf).Render([]string{"key", "value"}, [][]string{{"cwd", strings.Repeat("x", 40)}})

	out := buf.String()
	if strings.Contains(out, strings.Repeat("x", DefaultCellWidth)) {
		t.Errorf("cell not truncated:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("missing ellipsis:\n%s", out)
	}
}
