package session

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/plugin"
)

// populated returns a session with two frames, a set sharing one of them and
// a history of three statements
func populated(t *testing.T) *Session {
	t.Helper()
	s := New(DefaultEnvironment())
	s.Env.Separator = ";"
	s.Env.FillIn = "NA"
	s.Env.DisplayAST = true
	s.Env.CastPolicy = frame.PolicyFillin

	sti := frame.New("STI")
	if err := sti.AddData(map[string][]any{"Open": {100.0, "40"}, "Up": {true, nil}}, []string{"L1", "L2"}, nil); err != nil {
		t.Fatal(err)
	}
	s.Frames.Add(sti, false)
	s.Frames.Add(frame.New("Empty"), false)

	results := frame.New("trial")
	if err := results.AddData(map[string][]any{"count": {int64(2)}}, []string{"Open"}, nil); err != nil {
		t.Fatal(err)
	}

	a := plugin.NewParameterSet("summarize")
	a.AnalysisName = "trial"
	a.Method = "by_series"
	a.Dataframe = sti
	a.Results = results
	a.Options["alpha"] = "0.05"
	s.Parameters["A"] = a

	b := plugin.NewParameterSet("template")
	b.Dataframe = sti
	s.Parameters["B"] = b

	for _, line := range []string{"load csv STI.csv as STI", "cast Open in STI as nonalpha", "bogus ~"} {
		s.Record(line)
		if stmt, err := dsl.Parse(line); err == nil {
			s.RecordParse(stmt.Record())
		}
		s.Advance()
	}
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	src := populated(t)
	path := filepath.Join(t.TempDir(), "session.db")
	if err := Save(path, src); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.ID != src.ID || got.Counter != src.Counter {
		t.Errorf("id/counter = %s/%d, want %s/%d", got.ID, got.Counter, src.ID, src.Counter)
	}
	if !reflect.DeepEqual(got.History, src.History) {
		t.Errorf("history = %v, want %v", got.History, src.History)
	}
	if !reflect.DeepEqual(got.ParseHistory, src.ParseHistory) {
		t.Errorf("parse history = %v, want %v", got.ParseHistory, src.ParseHistory)
	}
	if got.Env.Separator != ";" || got.Env.FillIn != "NA" || !got.Env.DisplayAST || got.Env.CastPolicy != frame.PolicyFillin {
		t.Errorf("env = %+v", got.Env)
	}
	if !got.Env.StartTime.Equal(src.Env.StartTime) {
		t.Errorf("start time = %v, want %v", got.Env.StartTime, src.Env.StartTime)
	}

	if !reflect.DeepEqual(got.Frames.Names(), src.Frames.Names()) {
		t.Fatalf("frames = %v", got.Frames.Names())
	}
	sti, _ := got.Frames.Get("STI")
	row, _ := sti.Row("L1")
	if !reflect.DeepEqual(row, []any{100.0, true}) {
		t.Errorf("STI L1 = %#v", row)
	}

	a, b := got.Parameters["A"], got.Parameters["B"]
	if a == nil || b == nil {
		t.Fatalf("parameters = %v", got.ParameterNames())
	}
	if a.Dataframe != sti || b.Dataframe != sti {
		t.Error("shared dataframe reference not restored")
	}
	if a.Results == nil || a.Results.Name != "trial" {
		t.Fatalf("results = %+v", a.Results)
	}
	if v, _ := a.Results.Value("Open", "count"); v != int64(2) {
		t.Errorf("results count = %v", v)
	}
	if a.Method != "by_series" || a.Options["alpha"] != "0.05" || b.Results != nil {
		t.Errorf("A = %+v, B = %+v", a, b)
	}
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	if err := Save(path, populated(t)); err != nil {
		t.Fatal(err)
	}
	fresh := New(DefaultEnvironment())
	if err := Save(path, fresh); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Frames.Len() != 0 || len(got.Parameters) != 0 {
		t.Errorf("old content survived: %v", got.Frames.Names())
	}
}

func TestSave_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.db")
	if err := Save(path, populated(t)); err != nil {
		t.Fatal(err)
	}

	err := replaceFile(path, func(tmp string) error {
		if err := os.WriteFile(tmp, []byte("half a database"), 0o644); err != nil {
			return err
		}
		return errors.New("disk full")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("previous session unreadable: %v", err)
	}
	if !got.Frames.Has("STI") {
		t.Error("previous session lost")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.db")); err == nil {
		t.Error("expected error for missing file")
	}

	junk := filepath.Join(dir, "junk.db")
	if err := os.WriteFile(junk, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(junk); err == nil {
		t.Error("expected error for non-database file")
	}
}

func TestLoad_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNotSession) {
		t.Errorf("error = %v, want ErrNotSession", err)
	}
}
