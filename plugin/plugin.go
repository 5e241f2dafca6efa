package plugin

import (
	"context"
	"fmt"
	"strings"
)

// Category groups plugins for display. Only the listed values are accepted.
type Category string

const (
	CategoryExporter     Category = "exporter"
	CategoryImporter     Category = "importer"
	CategoryStatistics   Category = "statistics"
	CategoryHypothesis   Category = "statistics.hypothesis"
	CategoryModel        Category = "statistics.model"
	CategoryTimeseries   Category = "statistics.timeseries"
	CategoryUnclassified Category = "unclassified"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryExporter,
	CategoryImporter,
	CategoryStatistics,
	CategoryHypothesis,
	CategoryModel,
	CategoryTimeseries,
	CategoryUnclassified,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Manifest is the descriptive metadata every plugin carries
type Manifest struct {
	Name             string   `json:"name"`
	Release          string   `json:"release"`
	Category         Category `json:"category"`
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription"`
	ProjectURL       string   `json:"projectURL"`
	ContactDetails   string   `json:"contactDetails"`
	License          string   `json:"license"`
}

// Plugin is an analysis routine callable through runplugin.
//
// Run receives a copy of the stored parameter set whose Results slot is a
// fresh empty dataframe. It returns the parameter set to store in place of the
// old one. Run executes synchronously on the interpreter goroutine.
type Plugin interface {
	Manifest() Manifest
	// Parameters returns a new default parameter set
	Parameters() *ParameterSet
	Instructions() string
	Run(ctx context.Context, params *ParameterSet) (*ParameterSet, error)
}

// Check names, in the order they are evaluated
const (
	CheckEntryPoint       = "EntryPoint"
	CheckManifest         = "Manifest"
	CheckName             = "Name"
	CheckRelease          = "Release"
	CheckCategory         = "Category"
	CheckShortDescription = "ShortDescription"
	CheckLongDescription  = "LongDescription"
	CheckProjectURL       = "ProjectURL"
	CheckContactDetails   = "ContactDetails"
	CheckLicense          = "License"
	CheckInstructions     = "Instructions"
	CheckParameters       = "Parameters"
)

var checkOrder = []string{
	CheckEntryPoint,
	CheckManifest,
	CheckName,
	CheckRelease,
	CheckCategory,
	CheckShortDescription,
	CheckLongDescription,
	CheckProjectURL,
	CheckContactDetails,
	CheckLicense,
	CheckInstructions,
	CheckParameters,
}

// Check is one item of the load checklist
type Check struct {
	Name   string
	Passed bool
	Detail string
}

func (c Check) String() string {
	status := "Passed"
	if !c.Passed {
		status = "Failed"
	}
	if c.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", c.Name, status, c.Detail)
	}
	return fmt.Sprintf("%s: %s", c.Name, status)
}

// LoadResult is the outcome of loading one plugin
type LoadResult struct {
	// Name is the manifest name, or the directory name when the manifest
	// could not be read
	Name   string
	Checks []Check
}

// OK reports whether every check passed
func (r LoadResult) OK() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return len(r.Checks) > 0
}

// Failed returns the names of the failed checks
func (r LoadResult) Failed() []string {
	var failed []string
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

func (r LoadResult) String() string {
	if r.OK() {
		return r.Name + ": loaded"
	}
	return fmt.Sprintf("%s: failed %s", r.Name, strings.Join(r.Failed(), ", "))
}

// newChecklist returns every check in order, all passing
func newChecklist() []Check {
	checks := make([]Check, len(checkOrder))
	for i, name := range checkOrder {
		checks[i] = Check{Name: name, Passed: true}
	}
	return checks
}

func fail(checks []Check, name, detail string) {
	for i := range checks {
		if checks[i].Name == name {
			checks[i].Passed = false
			checks[i].Detail = detail
			return
		}
	}
}

// checkManifest applies the field rules shared by built-in and external
// plugins: a name and release must be set and the category must be valid.
func checkManifest(checks []Check, m Manifest) {
	if strings.TrimSpace(m.Name) == "" {
		fail(checks, CheckName, "empty name")
	}
	if strings.TrimSpace(m.Release) == "" {
		fail(checks, CheckRelease, "empty release")
	}
	if !m.Category.Valid() {
		fail(checks, CheckCategory, fmt.Sprintf("unknown category %q", m.Category))
	}
}

// checkSymbols verifies the instructions text and the default parameter set
// that runplugin and show plugindata depend on
func checkSymbols(checks []Check, instructions string, defaults *ParameterSet) {
	if strings.TrimSpace(instructions) == "" {
		fail(checks, CheckInstructions, "no instructions")
	}
	if defaults == nil {
		fail(checks, CheckParameters, "no default parameters")
	}
}
