package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vegasq/tapps/frame"
)

// CSVFormatter writes a dataframe as delimited text. The first column holds
// labels, one row per label in display order.
type CSVFormatter struct {
	writer    io.Writer
	separator string
	newline   string
	header    bool
}

// NewCSVFormatter creates a CSV formatter with a header row, "," separator
// and "\n" line terminator
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, separator: ",", newline: "\n", header: true}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// SetSeparator sets the field separator. Empty keeps the current one.
func (c *CSVFormatter) SetSeparator(sep string) {
	if sep != "" {
		c.separator = sep
	}
}

// SetNewline sets the row terminator. Empty keeps the current one.
func (c *CSVFormatter) SetNewline(newline string) {
	if newline != "" {
		c.newline = newline
	}
}

// SetHeader controls whether the series names are written first
func (c *CSVFormatter) SetHeader(header bool) {
	c.header = header
}

// Format writes df as delimited text
func (c *CSVFormatter) Format(df *frame.Dataframe) error {
	records := make([][]string, 0, df.NumLabels()+1)
	if c.header {
		records = append(records, append([]string{LabelHeader}, df.SeriesNames()...))
	}
	for _, label := range df.Labels() {
		row, _ := df.Row(label)
		record := make([]string, 0, len(row)+1)
		record = append(record, label)
		for _, v := range row {
			record = append(record, FormatValue(v))
		}
		records = append(records, record)
	}

	if comma, ok := c.standardDialect(); ok {
		csvWriter := csv.NewWriter(c.writer)
		csvWriter.Comma = comma
		csvWriter.UseCRLF = c.newline == "\r\n"
		if err := csvWriter.WriteAll(records); err != nil {
			return fmt.Errorf("failed to flush CSV writer: %w", err)
		}
		return nil
	}

	// Separators encoding/csv cannot express are joined literally
	for _, record := range records {
		if _, err := io.WriteString(c.writer, strings.Join(record, c.separator)+c.newline); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSVFormatter) standardDialect() (rune, bool) {
	if utf8.RuneCountInString(c.separator) != 1 || (c.newline != "\n" && c.newline != "\r\n") {
		return 0, false
	}
	comma, _ := utf8.DecodeRuneInString(c.separator)
	if comma == '"' || comma == '\r' || comma == '\n' {
		return 0, false
	}
	return comma, true
}

// FormatValue converts a cell to its text form. Nil becomes the empty string.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case frame.Invalid:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// SaveCSV writes df to path, creating or truncating the file
func SaveCSV(path string, df *frame.Dataframe, separator, newline string, header bool) error {
	f := NewCSVFormatter(nil)
	f.SetSeparator(separator)
	f.SetNewline(newline)
	f.SetHeader(header)
	return writeFile(path, f, df)
}
