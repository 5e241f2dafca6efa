package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CastType is the target of a cast statement
type CastType string

const (
	CastAlpha    CastType = "alpha"    // string
	CastNonalpha CastType = "nonalpha" // float64
	CastFloat    CastType = "float"    // float64
	CastReal     CastType = "real"     // float64
	CastInteger  CastType = "integer"  // int64
)

// ParseCastType validates a cast type name
func ParseCastType(name string) (CastType, error) {
	switch t := CastType(strings.ToLower(name)); t {
	case CastAlpha, CastNonalpha, CastFloat, CastReal, CastInteger:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCastType, name)
	}
}

// CastPolicy decides what replaces a value that cannot be converted
type CastPolicy string

const (
	// PolicyReplace stores an Invalid marker holding the original value
	PolicyReplace CastPolicy = "replace"
	// PolicyKeep leaves the original value in place
	PolicyKeep CastPolicy = "keep"
	// PolicyFillin stores the frame's fill-in value
	PolicyFillin CastPolicy = "fillin"
)

// ParseCastPolicy validates a cast error policy name
func ParseCastPolicy(name string) (CastPolicy, error) {
	switch p := CastPolicy(strings.ToLower(name)); p {
	case PolicyReplace, PolicyKeep, PolicyFillin:
		return p, nil
	case "":
		return PolicyReplace, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCastPolicy, name)
	}
}

// Invalid marks a value that failed a cast
type Invalid struct {
	Source any
}

func (v Invalid) String() string {
	return fmt.Sprintf("#INVALID(%v)", v.Source)
}

// CastResult describes the outcome of Cast
type CastResult struct {
	// Missing lists selected series that are not in the frame
	Missing []string
	// Failed counts values that could not be converted
	Failed int
}

// AllSeries selects every series in Cast
const AllSeries = "all"

// Cast converts every value in the selected series to t. A selector of nil
// or ["all"] selects every series. nil values stay nil. Values that cannot
// be converted are handled according to policy. Selected series that do not
// exist are reported in the result, not as an error.
func (df *Dataframe) Cast(t CastType, policy CastPolicy, fillIn any, selector []string) (CastResult, error) {
	var result CastResult
	if _, err := ParseCastType(string(t)); err != nil {
		return result, err
	}
	if _, err := ParseCastPolicy(string(policy)); err != nil {
		return result, err
	}

	var indexes []int
	if len(selector) == 0 || (len(selector) == 1 && selector[0] == AllSeries) {
		for i := range df.series {
			indexes = append(indexes, i)
		}
	} else {
		for _, name := range selector {
			idx := df.SeriesIndex(name)
			if idx < 0 {
				result.Missing = append(result.Missing, name)
				continue
			}
			indexes = append(indexes, idx)
		}
	}

	for _, label := range df.labels {
		row := df.rows[label]
		for _, idx := range indexes {
			if row[idx] == nil {
				continue
			}
			converted, ok := CastValue(row[idx], t)
			if ok {
				row[idx] = converted
				continue
			}
			result.Failed++
			switch policy {
			case PolicyKeep:
			case PolicyFillin:
				row[idx] = fillIn
			default:
				row[idx] = Invalid{Source: row[idx]}
			}
		}
	}
	return result, nil
}

// CastValue converts one value to t, reporting whether it succeeded
func CastValue(v any, t CastType) (any, bool) {
	if inv, ok := v.(Invalid); ok {
		v = inv.Source
	}
	switch t {
	case CastAlpha:
		return toText(v)
	case CastNonalpha, CastFloat, CastReal:
		return toNumber(v)
	case CastInteger:
		return toInteger(v)
	default:
		return nil, false
	}
}

func toText(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprint(val), true
	}
}

func toNumber(v any) (any, bool) {
	if f, ok := toFloat64(v); ok {
		return f, true
	}
	switch val := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return nil, false
	}
}

func toInteger(v any) (any, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case string:
		text := strings.TrimSpace(val)
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, false
		}
		return floatToInt(f)
	case bool:
		if val {
			return int64(1), true
		}
		return int64(0), true
	}
	if f, ok := toFloat64(v); ok {
		return floatToInt(math.Trunc(f))
	}
	return nil, false
}

func floatToInt(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil, false
	}
	return int64(f), true
}
