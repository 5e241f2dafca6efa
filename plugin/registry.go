package plugin

import (
	"os"
	"path/filepath"
	"slices"

	"fortio.org/log"
)

// Registry holds loaded plugins by manifest name and the checklists of
// plugins that failed to load
type Registry struct {
	plugins  map[string]Plugin
	failures map[string][]Check
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		plugins:  make(map[string]Plugin),
		failures: make(map[string][]Check),
	}
}

// NewDefaultRegistry creates a registry holding the built-in plugins
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range Builtins() {
		r.Load(p)
	}
	return r
}

// Load validates p and registers it when every check passes. Failures are
// recorded under the plugin name and are not fatal.
func (r *Registry) Load(p Plugin) LoadResult {
	checks := newChecklist()
	if p == nil {
		for i := range checks {
			checks[i].Passed = false
		}
		checks[0].Detail = "no plugin"
		res := LoadResult{Name: "<nil>", Checks: checks}
		r.failures[res.Name] = checks
		return res
	}

	m := p.Manifest()
	checkManifest(checks, m)
	checkSymbols(checks, p.Instructions(), p.Parameters())
	return r.record(m.Name, p, checks)
}

func (r *Registry) record(name string, p Plugin, checks []Check) LoadResult {
	res := LoadResult{Name: name, Checks: checks}
	if !res.OK() {
		r.failures[name] = checks
		log.Warnf("plugin %s failed to load: %v", name, res.Failed())
		return res
	}
	delete(r.failures, name)
	r.plugins[name] = p
	log.Infof("plugin %s loaded", name)
	return res
}

// Discover loads every external plugin found in the subdirectories of dir.
// A missing directory yields no results and no error.
func (r *Registry) Discover(dir string) ([]LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var results []LoadResult
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// loadExternal returns a nil plugin only together with a failed check
		p, checks, name := loadExternal(filepath.Join(dir, entry.Name()))
		results = append(results, r.record(name, p, checks))
	}
	return results, nil
}

// Get returns the plugin registered under name
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the loaded plugin names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByCategory groups the loaded plugin names by category
func (r *Registry) ByCategory() map[Category][]string {
	out := make(map[Category][]string)
	for _, name := range r.Names() {
		c := r.plugins[name].Manifest().Category
		out[c] = append(out[c], name)
	}
	return out
}

// Failures returns the checklists of plugins that failed to load
func (r *Registry) Failures() map[string][]Check {
	return r.failures
}
