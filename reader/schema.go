package reader

import (
	"github.com/parquet-go/parquet-go"
)

// ColumnInfo describes one top-level parquet column
type ColumnInfo struct {
	Name     string
	Type     string
	Optional bool
	// Scalar is false for groups and repeated columns, which cannot become a series
	Scalar bool
}

// ColumnInfos lists the top-level columns of the file in schema order
func (r *Reader) ColumnInfos() []ColumnInfo {
	fields := r.pqFile.Schema().Fields()
	infos := make([]ColumnInfo, 0, len(fields))
	for _, field := range fields {
		infos = append(infos, ColumnInfo{
			Name:     field.Name(),
			Type:     columnType(field),
			Optional: field.Optional(),
			Scalar:   len(field.Fields()) == 0 && !field.Repeated(),
		})
	}
	return infos
}

// columnType returns a user-friendly type name for a parquet field.
func columnType(field parquet.Field) string {
	if field.Type() == nil || len(field.Fields()) > 0 {
		return "GROUP"
	}

	// Check logical type first for more specific typing
	if logicalType := field.Type().LogicalType(); logicalType != nil {
		switch name := logicalType.String(); name {
		case "STRING", "UTF8":
			return "STRING"
		case "DATE", "TIME", "TIMESTAMP", "DECIMAL", "JSON", "ENUM", "UUID":
			return name
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}
