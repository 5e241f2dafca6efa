// Package shell runs TAPPS statements against a session.
//
// An Interpreter reads one line at a time, records it, parses it and
// dispatches the statement to its handler. A failing statement never stops
// the loop: lexing, parsing and handler failures are printed to the error
// writer and the next line is read. Only quit and exit end a run.
//
//	in := shell.New(session.New(session.DefaultEnvironment()),
//	    shell.WithOutput(os.Stdout, os.Stderr))
//	in.Execute("load csv STI.csv as STI")
//	in.Execute("cast Open in STI as nonalpha")
//
// # Reports
//
// Semantic failures are Reports with a code, printed as "Error/E001: ..."
// for errors that abort a statement and "Warning/W001: ..." for problems
// the statement recovers from. Select statements whose source is missing
// warn and still create an empty frame so that scripts can continue;
// structural statements such as cast or rename fail instead.
package shell
