package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical operators. These are the first element of every Record and are
// part of the saved-history format; they never change.
const (
	OpSet                = "set"
	OpLoadCSV            = "loadcsv1"
	OpLoadCSVNoHeader    = "loadcsv2"
	OpLoadParquet        = "loadparquet"
	OpCast               = "cast"
	OpShow               = "show"
	OpDescribe           = "describe"
	OpPythonShell        = "pythonshell"
	OpNewParam           = "newparam"
	OpNewDataframe       = "newdataframe"
	OpDelDataframe       = "deldataframe"
	OpDelParam           = "delparam"
	OpDuplicateFrame     = "duplicateframe"
	OpGreedySearch       = "greedysearch"
	OpIDSearch           = "idsearch"
	OpRunPlugin          = "runplugin"
	OpRenameSeries       = "renameseries"
	OpRenameLabel        = "renamelabel"
	OpMergeSeries        = "mergeseries"
	OpMergeLabels        = "mergelabels"
	OpMergeReplaceLabels = "mergereplacelabels"
	OpSaveCSV            = "savecsv"
	OpSaveParquet        = "saveparquet"
	OpSaveSession        = "savesession"
	OpLoadSession        = "loadsession"
)

// Settings addressed by the set statement.
const (
	SettingDisplayAST = "displayast"
	SettingCWD        = "cwd"
	SettingRCWD       = "rcwd"
	SettingOCWD       = "ocwd"
	SettingSeparator  = "separator"
	SettingFillin     = "fill-in"
	SettingCastError  = "casterror"
	SettingHeader     = "header"
	SettingParameter  = "parameter"
)

// Record is the canonical statement record: an operator followed by operands
// in a fixed, statement-specific order. Operands are string, float64 or
// []string values.
type Record []any

// Op returns the record's operator, or "" for an empty record.
func (r Record) Op() string {
	if len(r) == 0 {
		return ""
	}
	op, _ := r[0].(string)
	return op
}

// String renders the record as a parenthesized tuple.
func (r Record) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = formatOperand(v)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatOperand(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Statement is a parsed DSL statement. The set of implementations is closed;
// the interpreter dispatches on the concrete type.
type Statement interface {
	Record() Record
	statement()
}

// SetStatement changes one environment setting. Value is unused for ocwd.
type SetStatement struct {
	Setting string
	Value   string
}

// SetParameter assigns a field of a parameter set. Name "dataframe" binds a
// registered dataframe by reference.
type SetParameter struct {
	Name  string
	Set   string
	Value string
}

// LoadCSV loads a delimited file as a new dataframe.
type LoadCSV struct {
	File     string
	Name     string
	NoHeader bool
}

// LoadParquet loads a parquet file as a new dataframe.
type LoadParquet struct {
	File string
	Name string
}

// Cast converts series of a dataframe to Type. Series is ["all"] for every
// series.
type Cast struct {
	Type      string
	Dataframe string
	Series    []string
}

// Show displays session state. Extra is the optional plugin, dataframe or
// parameter set name.
type Show struct {
	Target string
	Extra  string
}

// Describe summarizes a dataframe.
type Describe struct {
	Dataframe string
}

// PythonShell opens the embedded scripting shell.
type PythonShell struct{}

// NewParameter creates a parameter set from a plugin's default template.
type NewParameter struct {
	Plugin string
	Name   string
}

// NewDataframe registers a parameter set's results or input dataframe under
// a new name. Location is "results" or "dataframe".
type NewDataframe struct {
	Name     string
	Set      string
	Location string
}

// DeleteDataframe removes a dataframe from the registry.
type DeleteDataframe struct {
	Name string
}

// DeleteParameter removes a parameter set.
type DeleteParameter struct {
	Name string
}

// DuplicateFrame copies a dataframe under a new name.
type DuplicateFrame struct {
	Source string
	Target string
}

// GreedySearch keeps labels where any series value satisfies Op Value.
type GreedySearch struct {
	Source string
	Target string
	Op     Comparator
	Value  any
}

// IDSearch keeps labels where the named series value satisfies Op Value.
type IDSearch struct {
	Source string
	Target string
	Series string
	Op     Comparator
	Value  any
}

// RunPlugin invokes the plugin named in a parameter set.
type RunPlugin struct {
	Set string
}

// RenameSeries renames a series in place.
type RenameSeries struct {
	Dataframe string
	Old       string
	New       string
}

// RenameLabel renames a label in place.
type RenameLabel struct {
	Dataframe string
	Old       string
	New       string
}

// MergeSeries copies one series from Source into Target.
type MergeSeries struct {
	Series string
	Source string
	Target string
}

// MergeLabels copies labels from Source into Target, overwriting existing
// rows only when Replace is set.
type MergeLabels struct {
	Source  string
	Target  string
	Replace bool
}

// SaveCSV writes a dataframe as a delimited file.
type SaveCSV struct {
	Dataframe string
	File      string
}

// SaveParquet writes a dataframe as a parquet file.
type SaveParquet struct {
	Dataframe string
	File      string
}

// SaveSession persists the session to a file.
type SaveSession struct {
	File string
}

// LoadSession restores a session saved with SaveSession.
type LoadSession struct {
	File string
}

func (s *SetStatement) Record() Record {
	if s.Setting == SettingOCWD {
		return Record{OpSet, s.Setting}
	}
	return Record{OpSet, s.Setting, s.Value}
}

func (s *SetParameter) Record() Record {
	return Record{OpSet, SettingParameter, s.Name, s.Set, s.Value}
}

func (s *LoadCSV) Record() Record {
	if s.NoHeader {
		return Record{OpLoadCSVNoHeader, s.File, s.Name}
	}
	return Record{OpLoadCSV, s.File, s.Name}
}

func (s *LoadParquet) Record() Record { return Record{OpLoadParquet, s.File, s.Name} }

func (s *Cast) Record() Record {
	series := append([]string(nil), s.Series...)
	return Record{OpCast, s.Type, s.Dataframe, series}
}

func (s *Show) Record() Record {
	if s.Extra != "" {
		return Record{OpShow, s.Target, s.Extra}
	}
	return Record{OpShow, s.Target}
}

func (s *Describe) Record() Record        { return Record{OpDescribe, s.Dataframe} }
func (s *PythonShell) Record() Record     { return Record{OpPythonShell} }
func (s *NewParameter) Record() Record    { return Record{OpNewParam, s.Plugin, s.Name} }
func (s *DeleteDataframe) Record() Record { return Record{OpDelDataframe, s.Name} }
func (s *DeleteParameter) Record() Record { return Record{OpDelParam, s.Name} }
func (s *DuplicateFrame) Record() Record  { return Record{OpDuplicateFrame, s.Source, s.Target} }
func (s *RunPlugin) Record() Record       { return Record{OpRunPlugin, s.Set} }
func (s *SaveCSV) Record() Record         { return Record{OpSaveCSV, s.Dataframe, s.File} }
func (s *SaveParquet) Record() Record     { return Record{OpSaveParquet, s.Dataframe, s.File} }
func (s *SaveSession) Record() Record     { return Record{OpSaveSession, s.File} }
func (s *LoadSession) Record() Record     { return Record{OpLoadSession, s.File} }

func (s *NewDataframe) Record() Record {
	return Record{OpNewDataframe, s.Name, s.Set, s.Location}
}

func (s *GreedySearch) Record() Record {
	return Record{OpGreedySearch, s.Source, s.Target, string(s.Op), s.Value}
}

func (s *IDSearch) Record() Record {
	return Record{OpIDSearch, s.Source, s.Target, s.Series, string(s.Op), s.Value}
}

func (s *RenameSeries) Record() Record {
	return Record{OpRenameSeries, s.Dataframe, s.Old, s.New}
}

func (s *RenameLabel) Record() Record {
	return Record{OpRenameLabel, s.Dataframe, s.Old, s.New}
}

func (s *MergeSeries) Record() Record {
	return Record{OpMergeSeries, s.Series, s.Source, s.Target}
}

func (s *MergeLabels) Record() Record {
	if s.Replace {
		return Record{OpMergeReplaceLabels, s.Source, s.Target}
	}
	return Record{OpMergeLabels, s.Source, s.Target}
}

func (*SetStatement) statement()    {}
func (*SetParameter) statement()    {}
func (*LoadCSV) statement()         {}
func (*LoadParquet) statement()     {}
func (*Cast) statement()            {}
func (*Show) statement()            {}
func (*Describe) statement()        {}
func (*PythonShell) statement()     {}
func (*NewParameter) statement()    {}
func (*NewDataframe) statement()    {}
func (*DeleteDataframe) statement() {}
func (*DeleteParameter) statement() {}
func (*DuplicateFrame) statement()  {}
func (*GreedySearch) statement()    {}
func (*IDSearch) statement()        {}
func (*RunPlugin) statement()       {}
func (*RenameSeries) statement()    {}
func (*RenameLabel) statement()     {}
func (*MergeSeries) statement()     {}
func (*MergeLabels) statement()     {}
func (*SaveCSV) statement()         {}
func (*SaveParquet) statement()     {}
func (*SaveSession) statement()     {}
func (*LoadSession) statement()     {}
