// Package session holds the state of one shell run and persists it.
//
// A Session owns the environment settings, the statement and parse
// histories, the statement counter, the dataframe registry, the parameter
// sets and the plugin registry. It is passed explicitly to every statement
// handler and is used from a single goroutine.
//
// Save and Load write and read a session as an sqlite database:
//
//	if err := session.Save("analysis.tapps", s); err != nil {
//	    return err
//	}
//	loaded, err := session.Load("analysis.tapps")
package session
