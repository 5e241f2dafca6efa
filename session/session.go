package session

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/plugin"
)

// Environment holds the settings statements read and change
type Environment struct {
	Cwd           string
	OriginalCwd   string
	Separator     string
	FillIn        any
	Newline       string
	Header        bool
	DisplayAST    bool
	CastPolicy    frame.CastPolicy
	PluginDir     string
	StartTime     time.Time
	LastStatement time.Time
}

// DefaultEnvironment returns the settings of a fresh session rooted at the
// process working directory
func DefaultEnvironment() Environment {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Environment{
		Cwd:         cwd,
		OriginalCwd: cwd,
		Separator:   ",",
		Newline:     "\n",
		Header:      true,
		CastPolicy:  frame.PolicyReplace,
		PluginDir:   "plugins",
		StartTime:   time.Now().UTC(),
	}
}

// Environment keys, as shown by show environment
const (
	EnvCwd           = "cwd"
	EnvOriginalCwd   = "original_cwd"
	EnvSeparator     = "separator"
	EnvFillIn        = "fill-in"
	EnvNewline       = "newline"
	EnvHeader        = "header"
	EnvDisplayAST    = "displayast"
	EnvCastError     = "casterror"
	EnvPluginDir     = "plugin_dir"
	EnvStartTime     = "starting_time"
	EnvLastStatement = "last_statement_time"
)

// Keys returns the environment keys in sorted order
func (e Environment) Keys() []string {
	keys := []string{EnvCwd, EnvOriginalCwd, EnvSeparator, EnvFillIn, EnvNewline, EnvHeader,
		EnvDisplayAST, EnvCastError, EnvPluginDir, EnvStartTime, EnvLastStatement}
	slices.Sort(keys)
	return keys
}

// Get returns one setting as display text
func (e Environment) Get(key string) (string, bool) {
	switch key {
	case EnvCwd:
		return e.Cwd, true
	case EnvOriginalCwd:
		return e.OriginalCwd, true
	case EnvSeparator:
		return e.Separator, true
	case EnvFillIn:
		if e.FillIn == nil {
			return "", true
		}
		return strconv.Quote(fmt.Sprint(e.FillIn)), true
	case EnvNewline:
		return strconv.Quote(e.Newline), true
	case EnvHeader:
		return strconv.FormatBool(e.Header), true
	case EnvDisplayAST:
		return strconv.FormatBool(e.DisplayAST), true
	case EnvCastError:
		return string(e.CastPolicy), true
	case EnvPluginDir:
		return e.PluginDir, true
	case EnvStartTime:
		return formatTime(e.StartTime), true
	case EnvLastStatement:
		return formatTime(e.LastStatement), true
	}
	return "", false
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Session is the state owned by one interpreter: settings, histories,
// dataframes, parameter sets and plugins. It is not safe for concurrent use.
type Session struct {
	ID  string
	Env Environment
	// History maps the statement counter to the raw line
	History map[int]string
	// ParseHistory maps the statement counter to the parsed record
	ParseHistory map[int]dsl.Record
	// Counter is the index of the next statement, starting at 1
	Counter    int
	Frames     *frame.Registry
	Parameters map[string]*plugin.ParameterSet
	Plugins    *plugin.Registry
}

// New creates a session with env, an empty registry and the built-in plugins
func New(env Environment) *Session {
	return &Session{
		ID:           uuid.NewString(),
		Env:          env,
		History:      make(map[int]string),
		ParseHistory: make(map[int]dsl.Record),
		Counter:      1,
		Frames:       frame.NewRegistry(),
		Parameters:   make(map[string]*plugin.ParameterSet),
		Plugins:      plugin.NewDefaultRegistry(),
	}
}

// Record stores line under the current counter
func (s *Session) Record(line string) {
	s.History[s.Counter] = line
	s.Env.LastStatement = time.Now().UTC()
}

// RecordParse stores the parsed form of the current statement
func (s *Session) RecordParse(rec dsl.Record) {
	s.ParseHistory[s.Counter] = rec
}

// Advance moves to the next statement index
func (s *Session) Advance() {
	s.Counter++
}

// Resolve returns path relative to the session working directory
func (s *Session) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Env.Cwd, path)
}

// ParameterNames returns the parameter set names in sorted order
func (s *Session) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for name := range s.Parameters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HistoryIndexes returns the recorded statement indexes in order
func (s *Session) HistoryIndexes() []int {
	idx := make([]int, 0, len(s.History))
	for i := range s.History {
		idx = append(idx, i)
	}
	slices.Sort(idx)
	return idx
}

// ParseIndexes returns the indexes that have a parse record, in order
func (s *Session) ParseIndexes() []int {
	idx := make([]int, 0, len(s.ParseHistory))
	for i := range s.ParseHistory {
		idx = append(idx, i)
	}
	slices.Sort(idx)
	return idx
}

// Replace swaps in the loaded state of other, keeping this session's plugin
// registry and working directories
func (s *Session) Replace(other *Session) {
	plugins := s.Plugins
	cwd, ocwd := s.Env.Cwd, s.Env.OriginalCwd
	*s = *other
	s.Plugins = plugins
	s.Env.Cwd, s.Env.OriginalCwd = cwd, ocwd
}
