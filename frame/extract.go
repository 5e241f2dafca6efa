package frame

import "fmt"

// ExtractValue returns a new frame holding the labels for which any series
// value satisfies op value. A nil receiver yields an empty frame, so callers
// can keep a pipeline going when the source is missing.
func (df *Dataframe) ExtractValue(op Op, value any, newName string) *Dataframe {
	if df == nil {
		return New(newName)
	}
	if op == Wildcard {
		return df.Clone(newName)
	}
	out := df.emptyLike(newName)
	for _, label := range df.labels {
		row := df.rows[label]
		for _, v := range row {
			if Match(v, op, value) {
				out.rows[label] = append([]any(nil), row...)
				out.labels = append(out.labels, label)
				break
			}
		}
	}
	return out
}

// ExtractSeriesValue returns a new frame holding the labels whose value in
// series satisfies op value. A nil receiver yields an empty frame. When the
// series does not exist the result is empty and correctly shaped, and the
// error reports the missing series; a wildcard copies every row regardless.
func (df *Dataframe) ExtractSeriesValue(series string, op Op, value any, newName string) (*Dataframe, error) {
	if df == nil {
		return New(newName), nil
	}
	if op == Wildcard {
		return df.Clone(newName), nil
	}
	out := df.emptyLike(newName)
	idx := df.SeriesIndex(series)
	if idx < 0 {
		return out, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}
	for _, label := range df.labels {
		row := df.rows[label]
		if Match(row[idx], op, value) {
			out.rows[label] = append([]any(nil), row...)
			out.labels = append(out.labels, label)
		}
	}
	return out, nil
}
