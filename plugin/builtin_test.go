package plugin

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/vegasq/tapps/frame"
)

// runBuiltin runs a registered built-in through Run
func runBuiltin(t *testing.T, name, method string, df *frame.Dataframe) (*ParameterSet, error) {
	t.Helper()
	reg := NewDefaultRegistry()
	p, _ := reg.Get(name)
	params := p.Parameters()
	params.AnalysisName = "test"
	params.Method = method
	params.Dataframe = df
	return Run(context.Background(), reg, params)
}

func value(t *testing.T, df *frame.Dataframe, label, series string) any {
	t.Helper()
	v, err := df.Value(label, series)
	if err != nil {
		t.Fatalf("Value(%s, %s) error = %v", label, series, err)
	}
	return v
}

func TestTemplate_Summation(t *testing.T) {
	out, err := runBuiltin(t, "template", "summation", priceFrame(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.Results.Labels(); !reflect.DeepEqual(got, []string{"Close", "Open"}) {
		t.Errorf("labels = %v", got)
	}
	if got := value(t, out.Results, "Close", "summation"); got != 215.0 {
		t.Errorf("Close sum = %v", got)
	}
	if got := value(t, out.Results, "Open", "summation"); got != 140.0 {
		t.Errorf("Open sum = %v", got)
	}
}

func TestTemplate_UnknownMethod(t *testing.T) {
	if _, err := runBuiltin(t, "template", "product", priceFrame(t)); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestSummarize_BySeries(t *testing.T) {
	out, err := runBuiltin(t, "summarize", "by_series", priceFrame(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.Results.SeriesNames(); !reflect.DeepEqual(got, statNames) {
		t.Errorf("series = %v", got)
	}

	tests := []struct {
		label, stat string
		want        any
	}{
		{"Close", StatCount, int64(3)},
		{"Close", StatSum, 215.0},
		{"Close", StatMedian, 60.0},
		{"Close", StatMin, 45.0},
		{"Close", StatMax, 110.0},
		{"Open", StatCount, int64(2)},
		{"Open", StatMean, 70.0},
		{"Open", StatMedian, 70.0},
	}
	for _, tt := range tests {
		if got := value(t, out.Results, tt.label, tt.stat); got != tt.want {
			t.Errorf("%s %s = %v, want %v", tt.label, tt.stat, got, tt.want)
		}
	}

	sd := value(t, out.Results, "Close", StatStdDev).(float64)
	if math.Abs(sd-34.0343) > 1e-3 {
		t.Errorf("Close stddev = %v", sd)
	}
}

func TestSummarize_ByLabels(t *testing.T) {
	out, err := runBuiltin(t, "summarize", "by_labels", priceFrame(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.Results.Labels(); !reflect.DeepEqual(got, []string{"L1", "L2", "L3"}) {
		t.Errorf("labels = %v", got)
	}
	if got := value(t, out.Results, "L1", StatMean); got != 105.0 {
		t.Errorf("L1 mean = %v", got)
	}
	if got := value(t, out.Results, "L3", StatCount); got != int64(1) {
		t.Errorf("L3 count = %v", got)
	}
	if got := value(t, out.Results, "L3", StatStdDev); got != nil {
		t.Errorf("L3 stddev = %v, want nil for one value", got)
	}
}

func TestSummarize_Errors(t *testing.T) {
	bad := frame.New("bad")
	if err := bad.AddData(map[string][]any{"x": {"abc"}}, []string{"a"}, nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		df     *frame.Dataframe
	}{
		{"non-numeric", "by_series", bad},
		{"unknown method", "by_month", priceFrame(t)},
		{"no dataframe", "by_series", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runBuiltin(t, "summarize", tt.method, tt.df); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDescribe_Empty(t *testing.T) {
	stats := describe(nil)
	if stats[StatCount] != int64(0) {
		t.Errorf("count = %v", stats[StatCount])
	}
	for _, name := range []string{StatSum, StatMean, StatMedian, StatStdDev} {
		if stats[name] != nil {
			t.Errorf("%s = %v, want nil", name, stats[name])
		}
	}
}
