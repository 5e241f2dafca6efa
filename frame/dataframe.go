package frame

import (
	"fmt"
	"slices"
	"sort"
)

// Dataframe is a named table: an ordered list of unique series names and a
// label -> row mapping. Every row holds exactly one value per series.
//
// Label order is kept for display only; it carries no meaning.
type Dataframe struct {
	Name   string
	series []string
	rows   map[string][]any
	labels []string
}

// New creates an empty dataframe
func New(name string) *Dataframe {
	return &Dataframe{Name: name, rows: make(map[string][]any)}
}

// SeriesNames returns a copy of the series names in order
func (df *Dataframe) SeriesNames() []string {
	if df == nil {
		return nil
	}
	return append([]string(nil), df.series...)
}

// Labels returns a copy of the labels in insertion order
func (df *Dataframe) Labels() []string {
	if df == nil {
		return nil
	}
	return append([]string(nil), df.labels...)
}

// NumSeries returns the number of series
func (df *Dataframe) NumSeries() int {
	if df == nil {
		return 0
	}
	return len(df.series)
}

// NumLabels returns the number of labels (rows)
func (df *Dataframe) NumLabels() int {
	if df == nil {
		return 0
	}
	return len(df.labels)
}

// SeriesIndex returns the position of a series, or -1
func (df *Dataframe) SeriesIndex(name string) int {
	if df == nil {
		return -1
	}
	return slices.Index(df.series, name)
}

// HasSeries reports whether the frame holds a series called name
func (df *Dataframe) HasSeries(name string) bool {
	return df.SeriesIndex(name) >= 0
}

// HasLabel reports whether the frame holds a row for label
func (df *Dataframe) HasLabel(label string) bool {
	if df == nil {
		return false
	}
	_, ok := df.rows[label]
	return ok
}

// Row returns a copy of the values for label
func (df *Dataframe) Row(label string) ([]any, bool) {
	if df == nil {
		return nil, false
	}
	row, ok := df.rows[label]
	if !ok {
		return nil, false
	}
	return append([]any(nil), row...), true
}

// Value returns the value at (label, series)
func (df *Dataframe) Value(label, series string) (any, error) {
	idx := df.SeriesIndex(series)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	row, ok := df.rows[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLabelNotFound, label)
	}
	return row[idx], nil
}

// SetValue changes the value at (label, series)
func (df *Dataframe) SetValue(label, series string, value any) error {
	idx := df.SeriesIndex(series)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	row, ok := df.rows[label]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, label)
	}
	row[idx] = value
	return nil
}

// Series extracts one column, labels in frame order
func (df *Dataframe) Series(name string) (Series, error) {
	idx := df.SeriesIndex(name)
	if idx < 0 {
		return Series{}, fmt.Errorf("%w: %s", ErrSeriesNotFound, name)
	}
	s := Series{
		Name:   name,
		Values: make([]any, 0, len(df.labels)),
		Labels: make([]string, 0, len(df.labels)),
	}
	for _, label := range df.labels {
		s.Append(label, df.rows[label][idx])
	}
	return s, nil
}

// AddSeries adds a column. Labels new to the frame get a row pre-filled with
// fillIn for every earlier series; existing labels missing from s are padded
// with fillIn. A blank series name is replaced by a generated one. When a
// label repeats within s, the last value wins.
func (df *Dataframe) AddSeries(s Series, fillIn any) error {
	if err := s.Validate(); err != nil {
		return err
	}
	name := s.Name
	if name == "" {
		name = df.generateSeriesName()
	}
	if df.HasSeries(name) {
		return fmt.Errorf("%w: %s", ErrSeriesExists, name)
	}

	prior := len(df.series)
	df.series = append(df.series, name)
	for i, label := range s.Labels {
		row, ok := df.rows[label]
		if !ok {
			row = make([]any, prior, prior+1)
			for j := range row {
				row[j] = fillIn
			}
			df.labels = append(df.labels, label)
		}
		if len(row) > prior {
			row[prior] = s.Values[i]
		} else {
			row = append(row, s.Values[i])
		}
		df.rows[label] = row
	}
	for _, label := range df.labels {
		if row := df.rows[label]; len(row) < len(df.series) {
			df.rows[label] = append(row, fillIn)
		}
	}
	return nil
}

// AddData adds one series per map entry, in sorted series-name order, all
// sharing the same labels.
func (df *Dataframe) AddData(data map[string][]any, labels []string, fillIn any) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := NewSeries(name, data[name], labels)
		if err != nil {
			return fmt.Errorf("series %s: %w", name, err)
		}
		if err := df.AddSeries(s, fillIn); err != nil {
			return err
		}
	}
	return nil
}

// AddRow adds a new label with one value per series
func (df *Dataframe) AddRow(label string, values []any) error {
	if len(values) != len(df.series) {
		return fmt.Errorf("%w: row %q has %d values, frame has %d series", ErrInvariant, label, len(values), len(df.series))
	}
	if df.HasLabel(label) {
		return fmt.Errorf("%w: %s", ErrLabelExists, label)
	}
	df.rows[label] = append([]any(nil), values...)
	df.labels = append(df.labels, label)
	return nil
}

// RenameSeries replaces a series name in place
func (df *Dataframe) RenameSeries(oldName, newName string) error {
	idx := df.SeriesIndex(oldName)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSeriesNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if df.HasSeries(newName) {
		return fmt.Errorf("%w: %s", ErrSeriesExists, newName)
	}
	df.series[idx] = newName
	return nil
}

// RenameLabel replaces a label in place, keeping its display position
func (df *Dataframe) RenameLabel(oldLabel, newLabel string) error {
	row, ok := df.rows[oldLabel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLabelNotFound, oldLabel)
	}
	if oldLabel == newLabel {
		return nil
	}
	if df.HasLabel(newLabel) {
		return fmt.Errorf("%w: %s", ErrLabelExists, newLabel)
	}
	delete(df.rows, oldLabel)
	df.rows[newLabel] = row
	df.labels[slices.Index(df.labels, oldLabel)] = newLabel
	return nil
}

// MergeSeries copies series name from src into df. It fails with
// ErrSeriesExists, leaving df unchanged, when df already has that series.
func (df *Dataframe) MergeSeries(src *Dataframe, name string, fillIn any) error {
	s, err := src.Series(name)
	if err != nil {
		return err
	}
	if df.HasSeries(name) {
		return fmt.Errorf("%w: %s", ErrSeriesExists, name)
	}
	return df.AddSeries(s, fillIn)
}

// MergeLabels copies rows from src into df. Without replace only labels
// absent from df are added; with replace, rows for labels present in both
// are overwritten. Both frames must have identical series name lists.
// It returns the number of rows added or overwritten.
func (df *Dataframe) MergeLabels(src *Dataframe, replace bool) (int, error) {
	if src == nil {
		return 0, fmt.Errorf("%w: no source frame", ErrSeriesMismatch)
	}
	if !slices.Equal(df.series, src.series) {
		return 0, fmt.Errorf("%w: %v vs %v", ErrSeriesMismatch, src.series, df.series)
	}
	changed := 0
	for _, label := range src.labels {
		row := append([]any(nil), src.rows[label]...)
		if _, ok := df.rows[label]; ok {
			if !replace {
				continue
			}
		} else {
			df.labels = append(df.labels, label)
		}
		df.rows[label] = row
		changed++
	}
	return changed, nil
}

// Clone returns a deep copy under a new name
func (df *Dataframe) Clone(name string) *Dataframe {
	out := New(name)
	if df == nil {
		return out
	}
	out.series = append([]string(nil), df.series...)
	out.labels = append([]string(nil), df.labels...)
	for label, row := range df.rows {
		out.rows[label] = append([]any(nil), row...)
	}
	return out
}

// emptyLike returns a frame with df's series names and no rows
func (df *Dataframe) emptyLike(name string) *Dataframe {
	out := New(name)
	out.series = df.SeriesNames()
	return out
}

// Validate checks the frame's invariants: unique series names, one label
// entry per row and every row as long as the series list.
func (df *Dataframe) Validate() error {
	seen := make(map[string]bool, len(df.series))
	for _, name := range df.series {
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrSeriesExists, name)
		}
		seen[name] = true
	}
	if len(df.labels) != len(df.rows) {
		return fmt.Errorf("%w: %d labels, %d rows", ErrInvariant, len(df.labels), len(df.rows))
	}
	for _, label := range df.labels {
		row, ok := df.rows[label]
		if !ok {
			return fmt.Errorf("%w: %s", ErrLabelNotFound, label)
		}
		if len(row) != len(df.series) {
			return fmt.Errorf("%w: label %q has %d values, %d series", ErrInvariant, label, len(row), len(df.series))
		}
	}
	return nil
}

func (df *Dataframe) generateSeriesName() string {
	for {
		name := randomName()
		if !df.HasSeries(name) {
			return name
		}
	}
}
