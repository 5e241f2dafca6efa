package dsl

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParse_Records(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Record
	}{
		{"set displayast", "set displayast true", Record{"set", "displayast", "true"}},
		{"set cwd", "set cwd /data/in", Record{"set", "cwd", "/data/in"}},
		{"set rcwd", "set rcwd data", Record{"set", "rcwd", "data"}},
		{"set ocwd", "set ocwd", Record{"set", "ocwd"}},
		{"set separator", "set separator ;", Record{"set", "separator", ";"}},
		{"set fillin number", "set fillin 0", Record{"set", "fill-in", "0"}},
		{"set fillin id", "set fillin NA", Record{"set", "fill-in", "NA"}},
		{"set casterror", "set casterror KEEP", Record{"set", "casterror", "keep"}},
		{"set header", "set header false", Record{"set", "header", "false"}},
		{
			"set parameter",
			"set parameter analytical_method in P as by_series",
			Record{"set", "parameter", "analytical_method", "P", "by_series"},
		},
		{
			"set parameter dataframe",
			"set parameter dataframe in P as STI",
			Record{"set", "parameter", "dataframe", "P", "STI"},
		},
		{"load csv", "load csv STI.csv as STI", Record{"loadcsv1", "STI.csv", "STI"}},
		{"load noheader csv", "load noheader csv STI.csv as STI", Record{"loadcsv2", "STI.csv", "STI"}},
		{"load parquet", "load parquet prices.parquet as P", Record{"loadparquet", "prices.parquet", "P"}},
		{"load session", "load session work.tapps", Record{"loadsession", "work.tapps"}},
		{"cast one", "cast Open in STI as nonalpha", Record{"cast", "nonalpha", "STI", []string{"Open"}}},
		{
			"cast list",
			"cast Open, Close in STI as FLOAT",
			Record{"cast", "float", "STI", []string{"Open", "Close"}},
		},
		{"cast all", "cast all in STI as integer", Record{"cast", "integer", "STI", []string{"all"}}},
		{"show environment", "show environment", Record{"show", "environment"}},
		{"show history", "show History", Record{"show", "history"}},
		{"show plugin list", "show plugin list", Record{"show", "pluginlist"}},
		{"show plugin data", "show plugin summarize", Record{"show", "plugindata", "summarize"}},
		{"show dataframe", "show dataframe", Record{"show", "dataframe"}},
		{"show dataframe name", "show dataframe STI", Record{"show", "dataframe", "STI"}},
		{"show parameters", "show parameters P", Record{"show", "parameter", "P"}},
		{"describe", "describe STI", Record{"describe", "STI"}},
		{"pythonshell", "pythonshell", Record{"pythonshell"}},
		{"new parameter", "new summarize parameter as P", Record{"newparam", "summarize", "P"}},
		{"new dataframe results", "new R dataframe from P results", Record{"newdataframe", "R", "P", "results"}},
		{"new dataframe input", "new R dataframe from P dataframe", Record{"newdataframe", "R", "P", "dataframe"}},
		{"delete dataframe", "delete dataframe STI", Record{"deldataframe", "STI"}},
		{"delete parameter", "delete parameter P", Record{"delparam", "P"}},
		{"select duplicate", "select from STI as A", Record{"duplicateframe", "STI", "A"}},
		{"select greedy", "select from STI as A where > 50", Record{"greedysearch", "STI", "A", ">", 50.0}},
		{
			"select by series",
			"select from STI as A where Open >= 50.5",
			Record{"idsearch", "STI", "A", "Open", ">=", 50.5},
		},
		{
			"select string value",
			"select from STI as A where Sector = 'Banks'",
			Record{"idsearch", "STI", "A", "Sector", "=", "Banks"},
		},
		{
			"select negative value",
			"select from STI as A where Open <-1",
			Record{"idsearch", "STI", "A", "Open", "<", -1.0},
		},
		{
			"unknown comparator becomes wildcard",
			"select from A as B where Open ~ 50",
			Record{"idsearch", "A", "B", "Open", "*", 50.0},
		},
		{
			"arithmetic symbol becomes wildcard",
			"select from A as B where + 50",
			Record{"greedysearch", "A", "B", "*", 50.0},
		},
		{"runplugin", "runplugin P", Record{"runplugin", "P"}},
		{
			"rename series",
			"rename series in STI from Open to OpenPrice",
			Record{"renameseries", "STI", "Open", "OpenPrice"},
		},
		{
			"rename label",
			"rename label in STI from '1/1/2020' to first",
			Record{"renamelabel", "STI", "1/1/2020", "first"},
		},
		{"merge series", "merge series Close from B to A", Record{"mergeseries", "Close", "B", "A"}},
		{"merge labels", "merge labels from B to A", Record{"mergelabels", "B", "A"}},
		{"merge replace labels", "merge replace labels from B to A", Record{"mergereplacelabels", "B", "A"}},
		{"save csv", "save dataframe STI as csv out.csv", Record{"savecsv", "STI", "out.csv"}},
		{"save parquet", "save dataframe STI as parquet out.parquet", Record{"saveparquet", "STI", "out.parquet"}},
		{"save session", "save session as work.tapps", Record{"savesession", "work.tapps"}},
		{"keywords in upper case", "LOAD CSV STI.csv AS STI", Record{"loadcsv1", "STI.csv", "STI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(rec, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, rec)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown statement", "frobnicate STI"},
		{"missing as", "load csv STI.csv STI"},
		{"missing file", "load csv as STI"},
		{"trailing tokens", "describe STI extra"},
		{"bad cast type", "cast Open in STI as banana"},
		{"select without from", "select STI as A"},
		{"where without operator", "select from STI as A where Open 50"},
		{"where without value", "select from STI as A where Open >"},
		{"new without kind", "new P as X"},
		{"new dataframe bad location", "new R dataframe from P everything"},
		{"show unknown target", "show everything"},
		{"merge missing labels", "merge replace series from B to A"},
		{"save without format", "save dataframe STI as out.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestParse_LexErrorPassesThrough(t *testing.T) {
	_, err := Parse("load csv STI.csv as STI #")
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *LexError, got %v", err)
	}
	if lexErr.Char != '#' {
		t.Errorf("expected '#', got %q", lexErr.Char)
	}
}

func TestParse_TooLong(t *testing.T) {
	long := make([]byte, MaxStatementLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := Parse(string(long)); err == nil {
		t.Fatal("expected error for oversized statement")
	}
}

func TestParse_Deterministic(t *testing.T) {
	inputs := []string{
		"select from STI as A where Open > 50",
		"cast Open, Close in STI as nonalpha",
		"set parameter dataframe in P as STI",
	}
	for _, input := range inputs {
		first, err := ParseRecord(input)
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		second, err := ParseRecord(input)
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%q: records differ: %v vs %v", input, first, second)
		}
	}
}

func TestFromRecord_RoundTrip(t *testing.T) {
	inputs := []string{
		"set ocwd",
		"set fillin 0",
		"set parameter narrative in P as 'first run'",
		"load noheader csv STI.csv as STI",
		"cast Open, Close in STI as real",
		"show plugin list",
		"show dataframe STI",
		"pythonshell",
		"new R dataframe from P results",
		"select from STI as A where > 50",
		"select from STI as A where Open != 'x'",
		"merge replace labels from B to A",
		"save dataframe STI as parquet out.parquet",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			stmt, err := Parse(input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			rebuilt, err := FromRecord(stmt.Record())
			if err != nil {
				t.Fatalf("FromRecord: %v", err)
			}
			if !reflect.DeepEqual(stmt, rebuilt) {
				t.Errorf("expected %#v, got %#v", stmt, rebuilt)
			}
		})
	}
}

func TestFromRecord_JSON(t *testing.T) {
	stmt, err := Parse("cast Open, Close in STI as nonalpha")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := json.Marshal(stmt.Record())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	rebuilt, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	if !reflect.DeepEqual(stmt, rebuilt) {
		t.Errorf("expected %#v, got %#v", stmt, rebuilt)
	}
}

func TestFromRecord_Malformed(t *testing.T) {
	tests := []Record{
		nil,
		{"bogus"},
		{"describe"},
		{"describe", 1.0},
		{"set", "colour", "red"},
		{"cast", "alpha", "STI", "Open"},
	}
	for _, rec := range tests {
		if _, err := FromRecord(rec); !errors.Is(err, ErrBadRecord) {
			t.Errorf("%v: expected ErrBadRecord, got %v", rec, err)
		}
	}
}

func TestRecord_String(t *testing.T) {
	tests := []struct {
		rec      Record
		expected string
	}{
		{Record{"pythonshell"}, "(pythonshell,)"},
		{Record{"loadcsv1", "STI.csv", "STI"}, "(loadcsv1, STI.csv, STI)"},
		{Record{"cast", "alpha", "STI", []string{"Open", "Close"}}, "(cast, alpha, STI, [Open, Close])"},
		{Record{"greedysearch", "A", "B", ">", 50.0}, "(greedysearch, A, B, >, 50)"},
	}
	for _, tt := range tests {
		if got := tt.rec.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}
