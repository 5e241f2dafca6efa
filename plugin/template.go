package plugin

import (
	"context"
	"fmt"
)

// Template is the reference plugin. Its only method, summation, adds up every
// series of the input dataframe.
type Template struct{}

func (*Template) Manifest() Manifest {
	return Manifest{
		Name:             "template",
		Release:          "1",
		Category:         CategoryUnclassified,
		ShortDescription: "Reference plugin: sums every series",
		LongDescription:  "Produces one series, summation, labelled by the input series names.",
		License:          "GPLv3",
	}
}

func (*Template) Parameters() *ParameterSet {
	p := NewParameterSet("template")
	p.Method = "summation"
	return p
}

func (*Template) Instructions() string {
	return standardInstructions + `Plugin specific:
    analytical_method  summation
`
}

func (*Template) Run(_ context.Context, p *ParameterSet) (*ParameterSet, error) {
	if err := requireDataframe(p); err != nil {
		return nil, err
	}
	if p.Method != "summation" && p.Method != "" {
		return nil, fmt.Errorf("unknown method %q", p.Method)
	}

	names := p.Dataframe.SeriesNames()
	sums := make([]any, len(names))
	for i, col := range columns(p.Dataframe) {
		values, err := numbers("series "+names[i], col)
		if err != nil {
			return nil, err
		}
		total := 0.0
		for _, v := range values {
			total += v
		}
		sums[i] = total
	}

	if err := p.Results.AddData(map[string][]any{"summation": sums}, names, nil); err != nil {
		return nil, err
	}
	return p, nil
}
