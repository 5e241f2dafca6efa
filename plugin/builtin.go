package plugin

import (
	"fmt"

	"github.com/vegasq/tapps/frame"
)

// Builtins returns the plugins compiled into the shell
func Builtins() []Plugin {
	return []Plugin{&Template{}, &Summarize{}}
}

const standardInstructions = `Standard parameters:
    analysis_name      user given name of the analysis
    narrative          free text description of the analysis, if any
    dataframe          input dataframe (set parameter dataframe in <set> as <df>)
    analytical_method  method selector, see below
`

// numbers converts the values of one series or row to float64. nil values
// are skipped; anything else that is not numeric is an error.
func numbers(what string, values []any) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, bad := v.(frame.Invalid); bad {
			return nil, fmt.Errorf("%s holds invalid value %v", what, v)
		}
		f, ok := frame.CastValue(v, frame.CastFloat)
		if !ok {
			return nil, fmt.Errorf("%s holds non-numeric value %v", what, v)
		}
		out = append(out, f.(float64))
	}
	return out, nil
}

// columns returns the values of every series of df, in series order
func columns(df *frame.Dataframe) [][]any {
	cols := make([][]any, df.NumSeries())
	for _, label := range df.Labels() {
		row, _ := df.Row(label)
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	}
	return cols
}

func requireDataframe(p *ParameterSet) error {
	if p.Dataframe == nil {
		return fmt.Errorf("parameter %s is not set", KeyDataframe)
	}
	return nil
}
