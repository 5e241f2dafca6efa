package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/vegasq/tapps/frame"
)

// CSVOptions controls how a delimited file is read
type CSVOptions struct {
	// Separator between fields. Defaults to ",".
	Separator string
	// Header marks the first row as series names
	Header bool
	// FillIn pads short rows and rows missing from a series
	FillIn any
	// Newline terminates each row. Defaults to "\n"; "\r\n" is also accepted.
	Newline string
}

// DefaultCSVOptions returns the options used when nothing is configured
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Separator: ",", Header: true, Newline: "\n"}
}

// ErrEmptyFile is returned when a delimited file holds no rows
var ErrEmptyFile = errors.New("file has no rows")

// LoadCSV reads a delimited file into a new dataframe called name. Series
// names come from the header row, or are S1, S2, ... without one. The first
// column of each data row is its label. Values are kept as trimmed strings.
func LoadCSV(path, name string, opts CSVOptions) (*frame.Dataframe, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	records, err := ReadRecords(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return RecordsToFrame(records, name, opts)
}

// ReadRecords splits delimited input into trimmed fields. Single-character
// separators with a standard newline go through encoding/csv so quoted
// fields work; anything else is split literally.
func ReadRecords(r io.Reader, opts CSVOptions) ([][]string, error) {
	sep := opts.Separator
	if sep == "" {
		sep = ","
	}
	newline := opts.Newline
	if newline == "" {
		newline = "\n"
	}

	if utf8.RuneCountInString(sep) == 1 && (newline == "\n" || newline == "\r\n") {
		comma, _ := utf8.DecodeRuneInString(sep)
		if comma != '"' && comma != '\r' && comma != '\n' {
			cr := csv.NewReader(r)
			cr.Comma = comma
			cr.FieldsPerRecord = -1
			cr.LazyQuotes = true
			cr.TrimLeadingSpace = true
			records, err := cr.ReadAll()
			if err != nil {
				return nil, err
			}
			for _, rec := range records {
				for i := range rec {
					rec[i] = strings.TrimSpace(rec[i])
				}
			}
			return records, nil
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var records [][]string
	for _, line := range strings.Split(string(data), newline) {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, sep)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		records = append(records, fields)
	}
	return records, nil
}

// RecordsToFrame builds a dataframe from split rows
func RecordsToFrame(records [][]string, name string, opts CSVOptions) (*frame.Dataframe, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	var names []string
	if opts.Header {
		if len(records[0]) > 0 {
			names = records[0][1:]
		}
		records = records[1:]
	} else {
		width := 0
		for _, rec := range records {
			width = max(width, len(rec)-1)
		}
		names = make([]string, width)
		for i := range names {
			names[i] = fmt.Sprintf("S%d", i+1)
		}
	}

	df := frame.New(name)
	for i, seriesName := range names {
		s := frame.Series{Name: seriesName}
		for _, rec := range records {
			if len(rec) == 0 {
				continue
			}
			var value any = opts.FillIn
			if i+1 < len(rec) {
				value = rec[i+1]
			}
			s.Append(rec[0], value)
		}
		if err := df.AddSeries(s, opts.FillIn); err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return df, nil
}
