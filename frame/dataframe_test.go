package frame

import (
	"errors"
	"reflect"
	"testing"
)

// newSTI builds the frame from the load scenario: labels are dates, values
// are uncast strings.
func newSTI(t *testing.T) *Dataframe {
	t.Helper()
	df := New("STI")
	for _, col := range []struct {
		name   string
		values []any
	}{
		{"Open", []any{"100", "40"}},
		{"Close", []any{"110", "45"}},
	} {
		s, err := NewSeries(col.name, col.values, []string{"1/1/2020", "2/1/2020"})
		if err != nil {
			t.Fatalf("NewSeries: %v", err)
		}
		if err := df.AddSeries(s, nil); err != nil {
			t.Fatalf("AddSeries: %v", err)
		}
	}
	return df
}

func mustValidate(t *testing.T, df *Dataframe) {
	t.Helper()
	if err := df.Validate(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestAddSeries_Basic(t *testing.T) {
	df := newSTI(t)
	mustValidate(t, df)

	if got := df.SeriesNames(); !reflect.DeepEqual(got, []string{"Open", "Close"}) {
		t.Errorf("series names = %v", got)
	}
	row, ok := df.Row("1/1/2020")
	if !ok {
		t.Fatal("label 1/1/2020 missing")
	}
	if !reflect.DeepEqual(row, []any{"100", "110"}) {
		t.Errorf("row = %v", row)
	}
}

func TestAddSeries_FillIn(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		fillIn   any
		expected map[string][]any
	}{
		{
			name:   "superset of labels",
			labels: []string{"A", "B", "C"},
			fillIn: nil,
			expected: map[string][]any{
				"A": {1.0, 10.0},
				"B": {2.0, 20.0},
				"C": {nil, 30.0},
			},
		},
		{
			name:   "subset of labels",
			labels: []string{"A"},
			fillIn: "NA",
			expected: map[string][]any{
				"A": {1.0, 10.0},
				"B": {2.0, "NA"},
			},
		},
		{
			name:   "disjoint labels",
			labels: []string{"X"},
			fillIn: 0.0,
			expected: map[string][]any{
				"A": {1.0, 0.0},
				"B": {2.0, 0.0},
				"X": {0.0, 10.0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := New("df")
			first, _ := NewSeries("first", []any{1.0, 2.0}, []string{"A", "B"})
			if err := df.AddSeries(first, tt.fillIn); err != nil {
				t.Fatal(err)
			}
			values := make([]any, len(tt.labels))
			for i := range values {
				values[i] = float64(10 * (i + 1))
			}
			second, _ := NewSeries("second", values, tt.labels)
			if err := df.AddSeries(second, tt.fillIn); err != nil {
				t.Fatal(err)
			}
			mustValidate(t, df)
			if df.NumLabels() != len(tt.expected) {
				t.Fatalf("expected %d labels, got %d", len(tt.expected), df.NumLabels())
			}
			for label, want := range tt.expected {
				got, _ := df.Row(label)
				if !reflect.DeepEqual(got, want) {
					t.Errorf("row %s = %v, want %v", label, got, want)
				}
			}
		})
	}
}

func TestAddSeries_Errors(t *testing.T) {
	df := newSTI(t)
	dup, _ := NewSeries("Open", []any{"1"}, []string{"x"})
	if err := df.AddSeries(dup, nil); !errors.Is(err, ErrSeriesExists) {
		t.Errorf("expected ErrSeriesExists, got %v", err)
	}
	bad := Series{Name: "Bad", Values: []any{1.0}, Labels: nil}
	if err := df.AddSeries(bad, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	mustValidate(t, df)
	if df.NumSeries() != 2 {
		t.Errorf("failed adds changed the frame: %v", df.SeriesNames())
	}
}

func TestAddSeries_GeneratedName(t *testing.T) {
	df := New("df")
	s, _ := NewSeries("", []any{1.0}, []string{"a"})
	if err := df.AddSeries(s, nil); err != nil {
		t.Fatal(err)
	}
	names := df.SeriesNames()
	if len(names) != 1 || len(names[0]) != 8 {
		t.Errorf("expected one 8-character name, got %v", names)
	}
}

func TestAddSeries_RepeatedLabel(t *testing.T) {
	df := New("df")
	s, _ := NewSeries("v", []any{1.0, 2.0}, []string{"a", "a"})
	if err := df.AddSeries(s, nil); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, df)
	if v, _ := df.Value("a", "v"); v != 2.0 {
		t.Errorf("expected last value to win, got %v", v)
	}
}

func TestAddData_SortedSeries(t *testing.T) {
	df := New("df")
	err := df.AddData(map[string][]any{
		"seriesB": {20.0, 21.0},
		"seriesA": {10.0, 11.0},
	}, []string{"A", "B"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	mustValidate(t, df)
	if got := df.SeriesNames(); !reflect.DeepEqual(got, []string{"seriesA", "seriesB"}) {
		t.Errorf("series names = %v", got)
	}
}

func TestRenameSeries(t *testing.T) {
	df := newSTI(t)
	if err := df.RenameSeries("Open", "OpenPrice"); err != nil {
		t.Fatal(err)
	}
	if got := df.SeriesNames(); !reflect.DeepEqual(got, []string{"OpenPrice", "Close"}) {
		t.Errorf("series names = %v", got)
	}
	if err := df.RenameSeries("Missing", "X"); !errors.Is(err, ErrSeriesNotFound) {
		t.Errorf("expected ErrSeriesNotFound, got %v", err)
	}
	if err := df.RenameSeries("Close", "OpenPrice"); !errors.Is(err, ErrSeriesExists) {
		t.Errorf("expected ErrSeriesExists, got %v", err)
	}
}

func TestRenameLabel(t *testing.T) {
	df := newSTI(t)
	if err := df.RenameLabel("1/1/2020", "first"); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, df)
	if got := df.Labels(); !reflect.DeepEqual(got, []string{"first", "2/1/2020"}) {
		t.Errorf("labels = %v", got)
	}
	if row, _ := df.Row("first"); !reflect.DeepEqual(row, []any{"100", "110"}) {
		t.Errorf("row = %v", row)
	}
	if err := df.RenameLabel("nope", "x"); !errors.Is(err, ErrLabelNotFound) {
		t.Errorf("expected ErrLabelNotFound, got %v", err)
	}
}

func TestMergeSeries(t *testing.T) {
	dst := New("dst")
	open, _ := NewSeries("Open", []any{1.0, 2.0}, []string{"a", "b"})
	_ = dst.AddSeries(open, nil)

	src := New("src")
	volume, _ := NewSeries("Volume", []any{5.0, 6.0}, []string{"b", "c"})
	_ = src.AddSeries(volume, nil)
	_ = src.AddSeries(open, nil)

	if err := dst.MergeSeries(src, "Volume", nil); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, dst)
	want := map[string][]any{
		"a": {1.0, nil},
		"b": {2.0, 5.0},
		"c": {nil, 6.0},
	}
	for label, w := range want {
		if got, _ := dst.Row(label); !reflect.DeepEqual(got, w) {
			t.Errorf("row %s = %v, want %v", label, got, w)
		}
	}

	if err := dst.MergeSeries(src, "Open", nil); !errors.Is(err, ErrSeriesExists) {
		t.Errorf("expected ErrSeriesExists on collision, got %v", err)
	}
	if err := dst.MergeSeries(src, "Missing", nil); !errors.Is(err, ErrSeriesNotFound) {
		t.Errorf("expected ErrSeriesNotFound, got %v", err)
	}
	if dst.NumSeries() != 2 {
		t.Errorf("failed merges changed the frame: %v", dst.SeriesNames())
	}
}

func TestMergeLabels(t *testing.T) {
	build := func(name string, values map[string]float64) *Dataframe {
		df := New(name)
		s := Series{Name: "v"}
		for _, label := range []string{"a", "b", "c"} {
			if v, ok := values[label]; ok {
				s.Append(label, v)
			}
		}
		_ = df.AddSeries(s, nil)
		return df
	}

	tests := []struct {
		name    string
		replace bool
		changed int
		want    map[string]float64
	}{
		{"no replace", false, 1, map[string]float64{"a": 1, "b": 2, "c": 30}},
		{"replace", true, 2, map[string]float64{"a": 1, "b": 20, "c": 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := build("dst", map[string]float64{"a": 1, "b": 2})
			src := build("src", map[string]float64{"b": 20, "c": 30})
			changed, err := dst.MergeLabels(src, tt.replace)
			if err != nil {
				t.Fatal(err)
			}
			mustValidate(t, dst)
			if changed != tt.changed {
				t.Errorf("changed = %d, want %d", changed, tt.changed)
			}
			for label, w := range tt.want {
				if v, _ := dst.Value(label, "v"); v != w {
					t.Errorf("%s = %v, want %v", label, v, w)
				}
			}
		})
	}
}

func TestMergeLabels_SeriesMismatch(t *testing.T) {
	dst := newSTI(t)
	src := New("src")
	s, _ := NewSeries("Open", []any{"1"}, []string{"x"})
	_ = src.AddSeries(s, nil)

	if _, err := dst.MergeLabels(src, true); !errors.Is(err, ErrSeriesMismatch) {
		t.Fatalf("expected ErrSeriesMismatch, got %v", err)
	}
	if dst.HasLabel("x") {
		t.Error("mismatched merge mutated the destination")
	}
}

func TestClone_Independent(t *testing.T) {
	df := newSTI(t)
	clone := df.Clone("copy")
	if clone.Name != "copy" {
		t.Errorf("name = %s", clone.Name)
	}
	if err := clone.SetValue("1/1/2020", "Open", "999"); err != nil {
		t.Fatal(err)
	}
	if v, _ := df.Value("1/1/2020", "Open"); v != "100" {
		t.Errorf("clone shares rows with source: %v", v)
	}
	mustValidate(t, clone)
}

func TestSeries_Extract(t *testing.T) {
	df := newSTI(t)
	s, err := df.Series("Close")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Values, []any{"110", "45"}) {
		t.Errorf("values = %v", s.Values)
	}
}
