package reader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/parquet-go/parquet-go"
)

type priceRow struct {
	Date   string  `parquet:"Date"`
	Open   float64 `parquet:"Open"`
	Volume int64   `parquet:"Volume"`
	Up     bool    `parquet:"Up"`
}

// writePrices creates a parquet file with the given rows and returns its path
func writePrices(t *testing.T, rows []priceRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.parquet")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[priceRow](file)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write rows: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return path
}

func TestLoadParquet(t *testing.T) {
	path := writePrices(t, []priceRow{
		{Date: "1/1/2020", Open: 100.5, Volume: 1200, Up: true},
		{Date: "2/1/2020", Open: 40, Volume: 800, Up: false},
	})

	df, err := LoadParquet(path, "P", nil)
	if err != nil {
		t.Fatalf("LoadParquet() error = %v", err)
	}
	if df.Name != "P" {
		t.Errorf("name = %s", df.Name)
	}
	if got := df.Labels(); !reflect.DeepEqual(got, []string{"1/1/2020", "2/1/2020"}) {
		t.Errorf("labels = %v", got)
	}
	if got := df.SeriesNames(); !reflect.DeepEqual(got, []string{"Open", "Volume", "Up"}) {
		t.Errorf("series = %v", got)
	}

	row, _ := df.Row("1/1/2020")
	want := []any{100.5, int64(1200), true}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("row = %#v, want %#v", row, want)
	}
}

func TestLoadParquet_Missing(t *testing.T) {
	if _, err := LoadParquet(filepath.Join(t.TempDir(), "nope.parquet"), "x", nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReader_ColumnInfos(t *testing.T) {
	path := writePrices(t, []priceRow{{Date: "d", Open: 1, Volume: 2, Up: true}})

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer func() { _ = r.Close() }()

	infos := r.ColumnInfos()
	wantTypes := map[string]string{
		"Date":   "STRING",
		"Open":   "FLOAT64",
		"Volume": "INT64",
		"Up":     "BOOLEAN",
	}
	if len(infos) != len(wantTypes) {
		t.Fatalf("got %d columns, want %d", len(infos), len(wantTypes))
	}
	for _, info := range infos {
		if info.Type != wantTypes[info.Name] {
			t.Errorf("%s type = %s, want %s", info.Name, info.Type, wantTypes[info.Name])
		}
		if !info.Scalar {
			t.Errorf("%s should be scalar", info.Name)
		}
	}

	label, series, err := r.Columns()
	if err != nil {
		t.Fatalf("Columns() error = %v", err)
	}
	if label != "Date" {
		t.Errorf("label column = %s", label)
	}
	if !reflect.DeepEqual(series, []string{"Open", "Volume", "Up"}) {
		t.Errorf("series = %v", series)
	}
}
