package frame

import (
	"fmt"
	"strconv"
)

// Series is one named column: values aligned with labels by position.
type Series struct {
	Name   string
	Values []any
	Labels []string
}

// NewSeries builds a series. When labels is nil the values are labelled by
// position ("0", "1", ...).
func NewSeries(name string, values []any, labels []string) (Series, error) {
	if labels == nil {
		labels = make([]string, len(values))
		for i := range values {
			labels[i] = strconv.Itoa(i)
		}
	}
	if len(values) != len(labels) {
		return Series{}, fmt.Errorf("%w: %d values, %d labels", ErrLengthMismatch, len(values), len(labels))
	}
	return Series{
		Name:   name,
		Values: append([]any(nil), values...),
		Labels: append([]string(nil), labels...),
	}, nil
}

// Append adds one labelled value
func (s *Series) Append(label string, value any) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, value)
}

// Len returns the number of values
func (s Series) Len() int {
	return len(s.Values)
}

// Validate checks that values and labels have the same length
func (s Series) Validate() error {
	if len(s.Values) != len(s.Labels) {
		return fmt.Errorf("%w: series %q has %d values, %d labels", ErrLengthMismatch, s.Name, len(s.Values), len(s.Labels))
	}
	return nil
}

// Value returns the value for label
func (s Series) Value(label string) (any, bool) {
	for i, l := range s.Labels {
		if l == label {
			return s.Values[i], true
		}
	}
	return nil, false
}
