package shell

import "testing"

func TestSuggest(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
	}{
		{"prefix", "ST", []string{"STI", "PRICES"}, "STI"},
		{"case insensitive", "sti", []string{"STI"}, "STI"},
		{"typo", "Prces", []string{"Prices", "Volume"}, "Prices"},
		{"swapped letters", "SIT", []string{"STI"}, "STI"},
		{"nothing close", "Volume", []string{"A", "B"}, ""},
		{"no candidates", "A", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggest(tt.input, tt.candidates); got != tt.want {
				t.Errorf("suggest(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReport_Error(t *testing.T) {
	if got := errorf(CodeDataframeNotFound, "dataframe %s not found", "X").Error(); got != "Error/E001: dataframe X not found" {
		t.Errorf("got %q", got)
	}
	if got := warnf(CodeMissingSource, "empty").Error(); got != "Warning/W001: empty" {
		t.Errorf("got %q", got)
	}
	r := notFound(CodeParameterNotFound, "parameter set", "Pp", []string{"P1", "Q"})
	if r.Message != "parameter set Pp not found (did you mean P1?)" {
		t.Errorf("message = %q", r.Message)
	}
}
