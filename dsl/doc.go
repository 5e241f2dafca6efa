// Package dsl implements the front end of the TAPPS statement language.
//
// A statement is a single line. The lexer turns it into tokens, the parser
// recognizes one statement form and produces a Statement value. Every
// Statement has a canonical Record: an operator name followed by operands in
// a fixed order. Records are what scripts and saved histories depend on, so
// their shape never changes.
//
// # Basic Usage
//
//	stmt, err := dsl.Parse("load csv STI.csv as STI")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(stmt.Record()) // (loadcsv1, STI.csv, STI)
//
// # Case Handling
//
// Keywords are matched without regard to case. Operands taken from a keyword
// position (cast types, show targets, "results", "all") are always lower
// case. Names supplied by the user are kept exactly as typed.
//
// # Filters
//
// The where clause of a select statement takes one comparison:
//
//	select from STI as A where Open > 50     (idsearch, STI, A, Open, >, 50)
//	select from STI as A where > 50          (greedysearch, STI, A, >, 50)
//	select from STI as A                     (duplicateframe, STI, A)
//
// An operator that is not one of = != < > <= >= becomes the wildcard "*",
// which matches every row.
//
// # Errors
//
// Lexing failures are reported as *LexError and grammar failures as
// *ParseError. Both abort only the statement being parsed.
package dsl
