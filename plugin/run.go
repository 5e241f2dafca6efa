package plugin

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/log"

	"github.com/vegasq/tapps/frame"
)

// ErrNotFound is returned when a parameter set names an unknown plugin
var ErrNotFound = errors.New("plugin not found")

// RunError wraps a failure raised by a plugin while it ran
type RunError struct {
	Plugin string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Run resolves the plugin named by params.PluginName and runs it on a copy of
// params whose Results slot is a fresh empty dataframe. params itself is not
// modified; the caller stores the returned set only when err is nil. Panics
// inside the plugin are returned as a *RunError.
func Run(ctx context.Context, reg *Registry, params *ParameterSet) (out *ParameterSet, err error) {
	p, ok := reg.Get(params.PluginName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, params.PluginName)
	}

	in := params.Copy()
	resultsName := params.AnalysisName
	if resultsName == "" {
		resultsName = KeyResults
	}
	in.Results = frame.New(resultsName)

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &RunError{Plugin: params.PluginName, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	log.LogVf("running plugin %s for %q", params.PluginName, params.AnalysisName)
	out, err = p.Run(ctx, in)
	if err != nil {
		return nil, &RunError{Plugin: params.PluginName, Err: err}
	}
	if out == nil {
		return nil, &RunError{Plugin: params.PluginName, Err: errors.New("no parameter set returned")}
	}
	return out, nil
}
