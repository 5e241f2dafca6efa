package plugin

import (
	"context"
	"fmt"
	"math"
	"slices"
)

// Summary statistic names, which become series of the results frame
const (
	StatMean   = "arithmetic_mean"
	StatCount  = "count"
	StatMax    = "maximum"
	StatMedian = "median"
	StatMin    = "minimum"
	StatStdDev = "standard_deviation"
	StatSum    = "summation"
)

var statNames = []string{StatMean, StatCount, StatMax, StatMedian, StatMin, StatStdDev, StatSum}

// Summarize produces descriptive statistics of a dataframe, either one row
// per series (by_series) or one row per label (by_labels)
type Summarize struct{}

func (*Summarize) Manifest() Manifest {
	return Manifest{
		Name:             "summarize",
		Release:          "1",
		Category:         CategoryStatistics,
		ShortDescription: "Generates summary statistics of a dataframe, by series or by labels",
		LongDescription: "Statistics: arithmetic mean, count, maximum, median, minimum, " +
			"standard deviation and summation.",
		License: "GPLv3",
	}
}

func (*Summarize) Parameters() *ParameterSet {
	p := NewParameterSet("summarize")
	p.Method = "by_series"
	return p
}

func (*Summarize) Instructions() string {
	return standardInstructions + `Plugin specific:
    analytical_method  by_series (summarize each series) or
                       by_labels (summarize each label)
`
}

func (*Summarize) Run(_ context.Context, p *ParameterSet) (*ParameterSet, error) {
	if err := requireDataframe(p); err != nil {
		return nil, err
	}
	df := p.Dataframe

	var (
		groups [][]any
		labels []string
		what   string
	)
	switch p.Method {
	case "by_series", "":
		groups, labels, what = columns(df), df.SeriesNames(), "series "
	case "by_labels":
		for _, label := range df.Labels() {
			row, _ := df.Row(label)
			groups = append(groups, row)
		}
		labels, what = df.Labels(), "label "
	default:
		return nil, fmt.Errorf("unknown method %q", p.Method)
	}

	data := make(map[string][]any, len(statNames))
	for i, group := range groups {
		values, err := numbers(what+labels[i], group)
		if err != nil {
			return nil, err
		}
		for name, v := range describe(values) {
			data[name] = append(data[name], v)
		}
	}
	if len(groups) == 0 {
		for _, name := range statNames {
			data[name] = nil
		}
	}

	if err := p.Results.AddData(data, labels, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// describe computes every statistic of values. Statistics that are undefined
// for the sample size are nil.
func describe(values []float64) map[string]any {
	n := len(values)
	stats := map[string]any{
		StatCount:  int64(n),
		StatSum:    nil,
		StatMean:   nil,
		StatMax:    nil,
		StatMin:    nil,
		StatMedian: nil,
		StatStdDev: nil,
	}
	if n == 0 {
		return stats
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)
	stats[StatSum] = sum
	stats[StatMean] = mean
	stats[StatMin] = sorted[0]
	stats[StatMax] = sorted[n-1]
	if n%2 == 1 {
		stats[StatMedian] = sorted[n/2]
	} else {
		stats[StatMedian] = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	if n > 1 {
		ss := 0.0
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}
		// small samples use the sample estimate
		if n < 30 {
			stats[StatStdDev] = math.Sqrt(ss / float64(n-1))
		} else {
			stats[StatStdDev] = math.Sqrt(ss / float64(n))
		}
	}
	return stats
}
