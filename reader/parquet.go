package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/tapps/frame"
)

// Metadata keys written by output.ParquetFormatter. When present they give the
// label column and the series order; otherwise the first column holds labels
// and the remaining columns follow schema order.
const (
	MetaLabelColumn = "tapps.label"
	MetaSeries      = "tapps.series"
)

// Reader reads parquet files and returns rows as maps.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader creates a new parquet reader for the specified file path.
//
// Example:
//
//	reader, err := NewReader("prices.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads all rows from the parquet file into memory.
//
// Each row is returned as a map where keys are column names and values are
// the column values.
func (r *Reader) ReadAll() ([]map[string]any, error) {
	rows := make([]map[string]any, 0)

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]any)
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Columns returns the label column and the series columns in order
func (r *Reader) Columns() (string, []string, error) {
	fields := r.pqFile.Schema().Fields()
	if len(fields) == 0 {
		return "", nil, errors.New("parquet file has no columns")
	}

	label, ok := r.pqFile.Lookup(MetaLabelColumn)
	if !ok {
		label = fields[0].Name()
	}

	if raw, ok := r.pqFile.Lookup(MetaSeries); ok {
		var series []string
		if err := json.Unmarshal([]byte(raw), &series); err != nil {
			return "", nil, fmt.Errorf("invalid %s metadata: %w", MetaSeries, err)
		}
		return label, series, nil
	}

	series := make([]string, 0, len(fields)-1)
	for _, info := range r.ColumnInfos() {
		if info.Name != label && info.Scalar {
			series = append(series, info.Name)
		}
	}
	return label, series, nil
}

// Schema returns the parquet file schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close closes the parquet reader and releases associated resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// LoadParquet reads a parquet file into a new dataframe called name. Values
// keep their numeric and boolean types; rows with no label are labelled by
// position.
func LoadParquet(path, name string, fillIn any) (*frame.Dataframe, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	labelCol, seriesCols, err := r.Columns()
	if err != nil {
		return nil, err
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = labelText(row[labelCol], i)
	}

	df := frame.New(name)
	for _, col := range seriesCols {
		s := frame.Series{Name: col}
		for i, row := range rows {
			s.Append(labels[i], normalize(row[col]))
		}
		if err := df.AddSeries(s, fillIn); err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
	}
	return df, nil
}

func labelText(v any, index int) string {
	switch val := normalize(v).(type) {
	case nil:
		return strconv.Itoa(index)
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// normalize maps parquet row values onto frame cell types
func normalize(v any) any {
	switch val := v.(type) {
	case nil, string, float64, int64, bool:
		return val
	case []byte:
		return string(val)
	case float32:
		return float64(val)
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(val)
	}
}
