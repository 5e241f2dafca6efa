package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/reader"
)

type columnKind int

const (
	kindString columnKind = iota
	kindDouble
	kindInt64
	kindBoolean
)

// ParquetFormatter writes a dataframe as a parquet file. Series whose values
// share one numeric or boolean type keep it; anything else is stored as
// text. The label column and series order are recorded as key/value
// metadata so reader.LoadParquet restores the frame layout.
type ParquetFormatter struct {
	writer io.Writer
}

// NewParquetFormatter creates a new parquet formatter
func NewParquetFormatter(w io.Writer) *ParquetFormatter {
	return &ParquetFormatter{writer: w}
}

// SetOutput sets the output writer
func (p *ParquetFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes df as a single parquet file
func (p *ParquetFormatter) Format(df *frame.Dataframe) error {
	names := df.SeriesNames()
	labelCol := LabelHeader
	for df.HasSeries(labelCol) {
		labelCol = "_" + labelCol
	}

	kinds := make([]columnKind, len(names))
	group := parquet.Group{labelCol: parquet.String()}
	for i, name := range names {
		kinds[i] = seriesKind(df, i)
		group[name] = parquet.Optional(kindNode(kinds[i]))
	}
	schema := parquet.NewSchema("tapps", group)

	order, err := json.Marshal(names)
	if err != nil {
		return err
	}

	w := parquet.NewWriter(p.writer, schema,
		parquet.KeyValueMetadata(reader.MetaLabelColumn, labelCol),
		parquet.KeyValueMetadata(reader.MetaSeries, string(order)),
	)

	labelLeaf, _ := schema.Lookup(labelCol)
	leaves := make([]int, len(names))
	for i, name := range names {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return fmt.Errorf("column %s missing from schema", name)
		}
		leaves[i] = leaf.ColumnIndex
	}

	rows := make([]parquet.Row, 0, df.NumLabels())
	for _, label := range df.Labels() {
		values, _ := df.Row(label)
		row := make(parquet.Row, len(names)+1)
		row[labelLeaf.ColumnIndex] = parquet.ByteArrayValue([]byte(label)).Level(0, 0, labelLeaf.ColumnIndex)
		for i, v := range values {
			row[leaves[i]] = cellValue(v, kinds[i], leaves[i])
		}
		rows = append(rows, row)
	}

	if _, err := w.WriteRows(rows); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func kindNode(k columnKind) parquet.Node {
	switch k {
	case kindDouble:
		return parquet.Leaf(parquet.DoubleType)
	case kindInt64:
		return parquet.Int(64)
	case kindBoolean:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}

// seriesKind picks the storage type of the series at index i
func seriesKind(df *frame.Dataframe, i int) columnKind {
	kind, seen := kindString, false
	for _, label := range df.Labels() {
		row, _ := df.Row(label)
		var k columnKind
		switch row[i].(type) {
		case nil:
			continue
		case float64:
			k = kindDouble
		case int64:
			k = kindInt64
		case bool:
			k = kindBoolean
		default:
			return kindString
		}
		if seen && k != kind {
			return kindString
		}
		kind, seen = k, true
	}
	return kind
}

func cellValue(v any, k columnKind, column int) parquet.Value {
	if v == nil {
		return parquet.NullValue().Level(0, 0, column)
	}
	var value parquet.Value
	switch k {
	case kindDouble:
		value = parquet.DoubleValue(v.(float64))
	case kindInt64:
		value = parquet.Int64Value(v.(int64))
	case kindBoolean:
		value = parquet.BooleanValue(v.(bool))
	default:
		value = parquet.ByteArrayValue([]byte(FormatValue(v)))
	}
	return value.Level(0, 1, column)
}

// SaveParquet writes df to path, replacing any existing file
func SaveParquet(path string, df *frame.Dataframe) error {
	return writeFile(path, NewParquetFormatter(nil), df)
}
