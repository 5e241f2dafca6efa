package plugin

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vegasq/tapps/frame"
)

// Standard parameter keys. Any other key set on a ParameterSet is a
// plugin-specific option.
const (
	KeyPluginName   = "plugin_name"
	KeyAnalysisName = "analysis_name"
	KeyMethod       = "analytical_method"
	KeyNarrative    = "narrative"
	KeyDataframe    = "dataframe"
	KeyResults      = "results"
)

// ErrReservedKey is returned when a dataframe slot is set as text
var ErrReservedKey = errors.New("key holds a dataframe")

// ParameterSet is a named bundle of plugin inputs and outputs.
//
// Dataframe is shared with the registry and with every other set that
// references it; plugins must treat it as read-only input. Results stays nil
// until a plugin run succeeds.
type ParameterSet struct {
	PluginName   string            `json:"plugin_name"`
	AnalysisName string            `json:"analysis_name"`
	Method       string            `json:"analytical_method"`
	Narrative    string            `json:"narrative"`
	Dataframe    *frame.Dataframe  `json:"dataframe"`
	Results      *frame.Dataframe  `json:"results"`
	Options      map[string]string `json:"options,omitempty"`
}

// NewParameterSet creates an empty set for plugin
func NewParameterSet(plugin string) *ParameterSet {
	return &ParameterSet{PluginName: plugin, Options: make(map[string]string)}
}

// Copy returns a shallow copy. The Dataframe and Results pointers are shared;
// Options is copied.
func (p *ParameterSet) Copy() *ParameterSet {
	cp := *p
	cp.Options = maps.Clone(p.Options)
	if cp.Options == nil {
		cp.Options = make(map[string]string)
	}
	return &cp
}

// Set assigns a text parameter
func (p *ParameterSet) Set(key, value string) error {
	switch key {
	case KeyPluginName:
		p.PluginName = value
	case KeyAnalysisName:
		p.AnalysisName = value
	case KeyMethod, "method":
		p.Method = value
	case KeyNarrative:
		p.Narrative = value
	case KeyDataframe, KeyResults:
		return fmt.Errorf("%w: %s", ErrReservedKey, key)
	default:
		if p.Options == nil {
			p.Options = make(map[string]string)
		}
		p.Options[key] = value
	}
	return nil
}

// Get returns a parameter as text. Dataframe slots yield the frame name.
func (p *ParameterSet) Get(key string) (string, bool) {
	switch key {
	case KeyPluginName:
		return p.PluginName, true
	case KeyAnalysisName:
		return p.AnalysisName, true
	case KeyMethod, "method":
		return p.Method, true
	case KeyNarrative:
		return p.Narrative, true
	case KeyDataframe:
		return frameName(p.Dataframe), p.Dataframe != nil
	case KeyResults:
		return frameName(p.Results), p.Results != nil
	}
	v, ok := p.Options[key]
	return v, ok
}

// Keys returns the standard keys followed by the sorted option keys
func (p *ParameterSet) Keys() []string {
	keys := []string{KeyPluginName, KeyAnalysisName, KeyMethod, KeyNarrative, KeyDataframe, KeyResults}
	return append(keys, slices.Sorted(maps.Keys(p.Options))...)
}

// Summary returns every parameter as text, with dataframes described by name
// and shape. It is used to display a set and to report what a run changed.
func (p *ParameterSet) Summary() map[string]any {
	out := make(map[string]any, len(p.Options)+6)
	for _, key := range p.Keys() {
		out[key], _ = p.Get(key)
	}
	out[KeyDataframe] = frameSummary(p.Dataframe)
	out[KeyResults] = frameSummary(p.Results)
	return out
}

func frameName(df *frame.Dataframe) string {
	if df == nil {
		return ""
	}
	return df.Name
}

func frameSummary(df *frame.Dataframe) any {
	if df == nil {
		return nil
	}
	return map[string]any{
		"name":   df.Name,
		"series": df.SeriesNames(),
		"labels": df.NumLabels(),
	}
}
