package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/vegasq/tapps/frame"
)

// ManifestFile is the file that marks a directory as an external plugin
const ManifestFile = "manifest.json"

const manifestSchema = `{
  "type": "object",
  "required": ["name", "release", "category", "shortDescription",
               "longDescription", "projectURL", "contactDetails", "license",
               "entrypoint", "instructions", "parameters"],
  "properties": {
    "name": {"type": "string"},
    "release": {"type": ["string", "number"]},
    "category": {"type": "string"},
    "shortDescription": {"type": "string"},
    "longDescription": {"type": "string"},
    "projectURL": {"type": "string"},
    "contactDetails": {"type": "string"},
    "license": {"type": "string"},
    "entrypoint": {"type": "string", "minLength": 1},
    "instructions": {"type": "string"},
    "parameters": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

var manifestSchemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// manifest properties mapped to the check they fail
var propertyChecks = map[string]string{
	"name":             CheckName,
	"release":          CheckRelease,
	"category":         CheckCategory,
	"shortDescription": CheckShortDescription,
	"longDescription":  CheckLongDescription,
	"projectURL":       CheckProjectURL,
	"contactDetails":   CheckContactDetails,
	"license":          CheckLicense,
	"entrypoint":       CheckEntryPoint,
	"instructions":     CheckInstructions,
	"parameters":       CheckParameters,
}

// External is a plugin run as a separate process. The parameter set is
// written to the process as JSON on stdin; the process answers on stdout
// with a JSON object whose optional "results", "narrative",
// "analytical_method" and "options" fields update the set.
type External struct {
	dir          string
	entry        string
	manifest     Manifest
	instructions string
	defaults     map[string]string
}

// loadExternal reads and validates the plugin in dir. The returned plugin is
// nil whenever a check failed.
func loadExternal(dir string) (Plugin, []Check, string) {
	checks := newChecklist()
	name := filepath.Base(dir)

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		failAll(checks, CheckManifest, err.Error())
		return nil, checks, name
	}
	if !gjson.ValidBytes(data) {
		failAll(checks, CheckManifest, "invalid JSON")
		return nil, checks, name
	}

	result, err := gojsonschema.Validate(manifestSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		failAll(checks, CheckManifest, err.Error())
		return nil, checks, name
	}
	for _, e := range result.Errors() {
		property := e.Field()
		if e.Type() == "required" {
			property, _ = e.Details()["property"].(string)
		}
		property, _, _ = strings.Cut(property, ".")
		check, ok := propertyChecks[property]
		if !ok {
			check = CheckManifest
		}
		fail(checks, check, e.Description())
	}

	fields := gjson.GetManyBytes(data, "name", "release", "category", "shortDescription",
		"longDescription", "projectURL", "contactDetails", "license", "entrypoint", "instructions")
	m := Manifest{
		Name:             fields[0].String(),
		Release:          fields[1].String(),
		Category:         Category(fields[2].String()),
		ShortDescription: fields[3].String(),
		LongDescription:  fields[4].String(),
		ProjectURL:       fields[5].String(),
		ContactDetails:   fields[6].String(),
		License:          fields[7].String(),
	}
	if m.Name != "" {
		name = m.Name
	}
	checkManifest(checks, m)

	entry := fields[8].String()
	if entry != "" && !filepath.IsAbs(entry) {
		entry = filepath.Join(dir, entry)
	}
	if entry != "" {
		if info, err := os.Stat(entry); err != nil {
			fail(checks, CheckEntryPoint, err.Error())
		} else if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			fail(checks, CheckEntryPoint, "not an executable file")
		}
	}

	defaults := make(map[string]string)
	gjson.GetBytes(data, "parameters").ForEach(func(key, value gjson.Result) bool {
		defaults[key.String()] = value.String()
		return true
	})
	if instructions := fields[9]; instructions.Exists() && strings.TrimSpace(instructions.String()) == "" {
		fail(checks, CheckInstructions, "no instructions")
	}

	res := LoadResult{Name: name, Checks: checks}
	if !res.OK() {
		return nil, checks, name
	}
	return &External{
		dir:          dir,
		entry:        entry,
		manifest:     m,
		instructions: fields[9].String(),
		defaults:     defaults,
	}, checks, name
}

// failAll marks the named check and every later one as failed, since nothing
// past an unreadable manifest can be verified
func failAll(checks []Check, from, detail string) {
	failing := false
	for i := range checks {
		if checks[i].Name == from {
			failing = true
			checks[i].Detail = detail
		}
		if failing {
			checks[i].Passed = false
		}
	}
	fail(checks, CheckEntryPoint, "manifest unavailable")
}

func (e *External) Manifest() Manifest {
	return e.manifest
}

func (e *External) Instructions() string {
	return e.instructions
}

func (e *External) Parameters() *ParameterSet {
	p := NewParameterSet(e.manifest.Name)
	for k, v := range e.defaults {
		_ = p.Set(k, v)
	}
	return p
}

// Run executes the plugin process and merges its response into a copy of
// params
func (e *External) Run(ctx context.Context, params *ParameterSet) (*ParameterSet, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "encode parameters")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.entry)
	cmd.Dir = e.dir
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrapf(err, "%s: %s", e.manifest.Name, msg)
		}
		return nil, errors.Wrap(err, e.manifest.Name)
	}

	response := stdout.Bytes()
	if !gjson.ValidBytes(response) {
		return nil, errors.Errorf("%s: response is not valid JSON", e.manifest.Name)
	}

	out := params.Copy()
	if v := gjson.GetBytes(response, "narrative"); v.Exists() {
		out.Narrative = v.String()
	}
	if v := gjson.GetBytes(response, KeyMethod); v.Exists() {
		out.Method = v.String()
	}
	gjson.GetBytes(response, "options").ForEach(func(key, value gjson.Result) bool {
		out.Options[key.String()] = value.String()
		return true
	})
	if v := gjson.GetBytes(response, KeyResults); v.Exists() && v.Type != gjson.Null {
		var results frame.Dataframe
		if err := json.Unmarshal([]byte(v.Raw), &results); err != nil {
			return nil, errors.Wrapf(err, "%s: decode results", e.manifest.Name)
		}
		if results.Name == "" && params.Results != nil {
			results.Name = params.Results.Name
		}
		out.Results = &results
	}
	return out, nil
}
