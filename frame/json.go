package frame

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Dataframes are encoded with tagged cells so that every value type survives
// a round trip:
//
//	null          no value
//	{"s": "x"}    string
//	{"f": "1.5"}  float64 (text form keeps NaN and infinities)
//	{"i": "42"}   int64
//	{"b": true}   bool
//	{"e": cell}   Invalid wrapping the original cell

type frameJSON struct {
	Name   string    `json:"name"`
	Series []string  `json:"series"`
	Rows   []rowJSON `json:"rows"`
}

type rowJSON struct {
	Label  string            `json:"label"`
	Values []json.RawMessage `json:"values"`
}

type cellJSON struct {
	S *string         `json:"s,omitempty"`
	F *string         `json:"f,omitempty"`
	I *string         `json:"i,omitempty"`
	B *bool           `json:"b,omitempty"`
	E json.RawMessage `json:"e,omitempty"`
}

// MarshalJSON encodes the frame with tagged cells, rows in label order
func (df *Dataframe) MarshalJSON() ([]byte, error) {
	out := frameJSON{Name: df.Name, Series: df.SeriesNames(), Rows: make([]rowJSON, 0, len(df.labels))}
	if out.Series == nil {
		out.Series = []string{}
	}
	for _, label := range df.labels {
		row := rowJSON{Label: label, Values: make([]json.RawMessage, len(df.series))}
		for i, v := range df.rows[label] {
			cell, err := EncodeCell(v)
			if err != nil {
				return nil, fmt.Errorf("label %s: %w", label, err)
			}
			row.Values[i] = cell
		}
		out.Rows = append(out.Rows, row)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a frame written by MarshalJSON and validates it
func (df *Dataframe) UnmarshalJSON(data []byte) error {
	var in frameJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	decoded := New(in.Name)
	seen := make(map[string]bool, len(in.Series))
	for _, name := range in.Series {
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrSeriesExists, name)
		}
		seen[name] = true
	}
	decoded.series = append([]string(nil), in.Series...)
	for _, row := range in.Rows {
		values := make([]any, len(row.Values))
		for i, raw := range row.Values {
			v, err := DecodeCell(raw)
			if err != nil {
				return fmt.Errorf("label %s: %w", row.Label, err)
			}
			values[i] = v
		}
		if err := decoded.AddRow(row.Label, values); err != nil {
			return err
		}
	}
	*df = *decoded
	return nil
}

// EncodeCell encodes one value as a tagged cell
func EncodeCell(v any) (json.RawMessage, error) {
	var c cellJSON
	switch val := v.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case string:
		c.S = &val
	case float64:
		s := strconv.FormatFloat(val, 'g', -1, 64)
		c.F = &s
	case float32:
		s := strconv.FormatFloat(float64(val), 'g', -1, 32)
		c.F = &s
	case int64:
		s := strconv.FormatInt(val, 10)
		c.I = &s
	case int:
		s := strconv.Itoa(val)
		c.I = &s
	case bool:
		c.B = &val
	case Invalid:
		inner, err := EncodeCell(val.Source)
		if err != nil {
			return nil, err
		}
		c.E = inner
	default:
		s := fmt.Sprint(val)
		c.S = &s
	}
	return json.Marshal(c)
}

// DecodeCell decodes a tagged cell
func DecodeCell(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var c cellJSON
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	switch {
	case c.S != nil:
		return *c.S, nil
	case c.F != nil:
		return strconv.ParseFloat(*c.F, 64)
	case c.I != nil:
		return strconv.ParseInt(*c.I, 10, 64)
	case c.B != nil:
		return *c.B, nil
	case c.E != nil:
		src, err := DecodeCell(c.E)
		if err != nil {
			return nil, err
		}
		return Invalid{Source: src}, nil
	default:
		return nil, fmt.Errorf("empty cell %s", string(raw))
	}
}
