package shell

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"fortio.org/log"
	"github.com/wI2L/jsondiff"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/output"
	"github.com/vegasq/tapps/plugin"
)

// lookupParams returns the parameter set called name or an E002 report
func (in *Interpreter) lookupParams(name string) (*plugin.ParameterSet, error) {
	p, ok := in.session.Parameters[name]
	if !ok {
		return nil, notFound(CodeParameterNotFound, "parameter set", name, in.session.ParameterNames())
	}
	return p, nil
}

func (in *Interpreter) handleNewParameter(s *dsl.NewParameter) error {
	p, ok := in.session.Plugins.Get(s.Plugin)
	if !ok {
		return notFound(CodePluginNotFound, "plugin", s.Plugin, in.session.Plugins.Names())
	}
	params := p.Parameters()
	if params == nil {
		params = plugin.NewParameterSet(s.Plugin)
	}
	params.PluginName = s.Plugin
	if _, exists := in.session.Parameters[s.Name]; exists {
		log.Infof("replacing parameter set %s", s.Name)
	}
	in.session.Parameters[s.Name] = params
	return nil
}

func (in *Interpreter) handleSetParameter(s *dsl.SetParameter) error {
	params, err := in.lookupParams(s.Set)
	if err != nil {
		return err
	}
	switch s.Name {
	case plugin.KeyDataframe:
		df, err := in.lookupFrame(s.Value)
		if err != nil {
			return err
		}
		// shared with the registry; later mutations are visible to the plugin
		params.Dataframe = df
		return nil
	case plugin.KeyResults:
		return errorf(CodeInvalidSetting, "results of %s are set by runplugin", s.Set)
	}
	if err := params.Set(s.Name, s.Value); err != nil {
		return errorf(CodeInvalidSetting, "%v", err)
	}
	return nil
}

func (in *Interpreter) handleNewDataframe(s *dsl.NewDataframe) error {
	params, err := in.lookupParams(s.Set)
	if err != nil {
		return err
	}
	src := params.Results
	if s.Location == plugin.KeyDataframe {
		src = params.Dataframe
	}
	if src == nil {
		return errorf(CodeNoResults, "%s of %s not available", s.Location, s.Set)
	}
	in.register(src.Clone(s.Name))
	return nil
}

func (in *Interpreter) handleDeleteParameter(s *dsl.DeleteParameter) error {
	if _, err := in.lookupParams(s.Name); err != nil {
		return err
	}
	delete(in.session.Parameters, s.Name)
	return nil
}

// handleRunPlugin runs the plugin of a parameter set and stores the returned
// set in its place. On failure the stored set is left untouched.
func (in *Interpreter) handleRunPlugin(s *dsl.RunPlugin) error {
	params, err := in.lookupParams(s.Set)
	if err != nil {
		return err
	}

	ctx, stop := in.runContext(context.Background())
	out, err := plugin.Run(ctx, in.session.Plugins, params)
	stop()
	var runErr *plugin.RunError
	switch {
	case errors.Is(err, plugin.ErrNotFound):
		return notFound(CodePluginNotFound, "plugin", params.PluginName, in.session.Plugins.Names())
	case errors.As(err, &runErr):
		return errorf(CodePluginFailed, "%v", runErr)
	case err != nil:
		return err
	}

	patch, err := jsondiff.Compare(params.Summary(), out.Summary())
	if err != nil {
		log.Warnf("cannot diff parameter set %s: %v", s.Set, err)
	}
	in.session.Parameters[s.Set] = out

	fmt.Fprintf(in.out, "%s: %s finished\n", s.Set, params.PluginName)
	for _, op := range patch {
		if op.Type == jsondiff.OperationRemove {
			fmt.Fprintf(in.out, "  %s %s\n", op.Type, op.Path)
			continue
		}
		fmt.Fprintf(in.out, "  %s %s: %v\n", op.Type, op.Path, op.Value)
	}
	return nil
}

func (in *Interpreter) showPluginList() {
	reg := in.session.Plugins
	byCategory := reg.ByCategory()
	rows := make([][]string, 0)
	for _, c := range plugin.Categories {
		for _, name := range byCategory[c] {
			p, _ := reg.Get(name)
			m := p.Manifest()
			rows = append(rows, []string{string(c), m.Name, m.Release, m.ShortDescription})
		}
	}
	output.RenderTable(in.out, []string{"category", "plugin", "release", "description"}, rows)

	failures := reg.Failures()
	for _, name := range slices.Sorted(maps.Keys(failures)) {
		res := plugin.LoadResult{Name: name, Checks: failures[name]}
		fmt.Fprintln(in.out, res.String())
	}
}

func (in *Interpreter) showPluginData(name string) error {
	reg := in.session.Plugins
	p, ok := reg.Get(name)
	if !ok {
		if checks, failed := reg.Failures()[name]; failed {
			rows := make([][]string, 0, len(checks))
			for _, c := range checks {
				status := "passed"
				if !c.Passed {
					status = "failed"
				}
				rows = append(rows, []string{c.Name, status, c.Detail})
			}
			output.RenderTable(in.out, []string{"check", "status", "detail"}, rows)
			return nil
		}
		return notFound(CodePluginNotFound, "plugin", name, reg.Names())
	}

	m := p.Manifest()
	output.RenderTable(in.out, []string{"field", "value"}, [][]string{
		{"name", m.Name},
		{"release", m.Release},
		{"category", string(m.Category)},
		{"short description", m.ShortDescription},
		{"long description", m.LongDescription},
		{"project url", m.ProjectURL},
		{"contact", m.ContactDetails},
		{"license", m.License},
	})
	if text := strings.TrimSpace(p.Instructions()); text != "" {
		fmt.Fprintln(in.out, text)
	}
	return nil
}

func (in *Interpreter) showParameterSets() {
	rows := make([][]string, 0, len(in.session.Parameters))
	for _, name := range in.session.ParameterNames() {
		p := in.session.Parameters[name]
		df, _ := p.Get(plugin.KeyDataframe)
		results, _ := p.Get(plugin.KeyResults)
		rows = append(rows, []string{name, p.PluginName, df, results})
	}
	output.RenderTable(in.out, []string{"parameter set", "plugin", "dataframe", "results"}, rows)
}

func (in *Interpreter) showParameterSet(name string) error {
	p, err := in.lookupParams(name)
	if err != nil {
		return err
	}
	keys := p.Keys()
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		v, _ := p.Get(key)
		rows = append(rows, []string{key, v})
	}
	output.RenderTable(in.out, []string{"parameter", "value"}, rows)
	return nil
}
