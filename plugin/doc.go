// Package plugin defines the contract between the shell and analysis
// plugins.
//
// A plugin provides a manifest, a default ParameterSet, instructions text and
// a Run method. Plugins are registered with a Registry, which checks the
// manifest, the instructions and the default parameters, and records a
// checklist for every plugin that fails to load:
//
//	reg := plugin.NewDefaultRegistry()
//	results, err := reg.Discover("plugins")
//	for _, r := range results {
//	    fmt.Println(r)
//	}
//
// # Running
//
// Run resolves the plugin named in a parameter set and calls it on a copy of
// the set with an empty results frame. The stored set should be replaced only
// when Run succeeds:
//
//	out, err := plugin.Run(ctx, reg, params)
//	if err != nil {
//	    return err
//	}
//	sets[name] = out
//
// # External Plugins
//
// Any subdirectory of the plugin directory holding a manifest.json is loaded
// as an external plugin:
//
//	{
//	  "name": "zscore",
//	  "release": 1,
//	  "category": "statistics",
//	  "shortDescription": "",
//	  "longDescription": "",
//	  "projectURL": "",
//	  "contactDetails": "",
//	  "license": "",
//	  "entrypoint": "run.sh",
//	  "parameters": {"analytical_method": "by_series"}
//	}
//
// The entry point receives the parameter set as JSON on stdin and writes a
// JSON object to stdout. Its "results" field holds a dataframe in the
// encoding of frame.Dataframe.MarshalJSON.
package plugin
