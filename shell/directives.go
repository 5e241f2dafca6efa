package shell

import (
	"fmt"
	"strings"
)

type directive string

const (
	directiveCopyright directive = "copyright"
	directiveCredits   directive = "credits"
	directiveLicense   directive = "license"
	directiveHelp      directive = "help"
	directiveQuit      directive = "quit"
	directiveExit      directive = "exit"
)

// lookupDirective matches a line against the immediate directives, ignoring
// case and trailing punctuation
func lookupDirective(line string) (directive, bool) {
	word := strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ".!?;:"))
	switch d := directive(word); d {
	case directiveCopyright, directiveCredits, directiveLicense, directiveHelp, directiveQuit, directiveExit:
		return d, true
	}
	return "", false
}

// directive performs d and reports whether the loop should stop
func (in *Interpreter) directive(d directive) bool {
	switch d {
	case directiveCopyright:
		fmt.Fprintln(in.out, copyrightText)
	case directiveCredits:
		fmt.Fprintln(in.out, creditsText)
	case directiveLicense:
		fmt.Fprintln(in.out, licenseText)
	case directiveHelp:
		fmt.Fprintln(in.out, helpText)
	case directiveQuit, directiveExit:
		return true
	}
	return false
}

// Banner is printed when an interactive session starts
const Banner = `Technical (Analysis) and Applied Statistics
Type "copyright", "credits", "license" or "help" for more information.
To exit this application, type "quit".`

const copyrightText = `Copyright (C) the TAPPS authors.`

const creditsText = `TAPPS Project Team
Statement language, dataframe engine and plugin protocol by the TAPPS authors.`

const licenseText = `This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.`

const helpText = `Statements:
  set displayast|header <value>          set cwd|rcwd <path>      set ocwd
  set separator <sep>                    set fillin <value>
  set casterror replace|keep|fillin
  set parameter <name> in <set> as <value>
  load [noheader] csv <file> as <name>   load parquet <file> as <name>
  load session <file>                    save session as <file>
  save dataframe <df> as csv|parquet <file>
  cast <series,...|all> in <df> as alpha|nonalpha|float|real|integer
  select from <df> as <new> [where [<series>] <op> <value>]
  rename series|labels in <df> from <old> to <new>
  merge series <s> from <src> to <dst>
  merge [replace] labels from <src> to <dst>
  new <plugin> parameter as <name>
  new <name> dataframe from <set> results|dataframe
  delete dataframe|parameter <name>
  runplugin <set>
  show asthistory|environment|history|session
  show plugin list|<name>    show dataframe [<name>]    show parameter [<name>]
  describe <df>
  pythonshell`
