package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/plugin"
)

// FormatVersion is written to the meta table of every saved session
const FormatVersion = "1"

const storeSchema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE environment (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE history (
	idx       INTEGER PRIMARY KEY,
	statement TEXT,
	record    TEXT
);
CREATE TABLE dataframes (
	position INTEGER NOT NULL,
	name     TEXT PRIMARY KEY,
	data     TEXT NOT NULL
);
CREATE TABLE parameters (
	name          TEXT PRIMARY KEY,
	plugin_name   TEXT NOT NULL,
	analysis_name TEXT NOT NULL,
	method        TEXT NOT NULL,
	narrative     TEXT NOT NULL,
	dataframe_ref TEXT,
	dataframe     TEXT,
	results_ref   TEXT,
	results       TEXT,
	options       TEXT NOT NULL
);
`

// ErrNotSession is returned when a file is not a saved session
var ErrNotSession = errors.New("not a saved session")

// Save writes s to an sqlite database at path, replacing any existing file.
// The database is built in a temporary file beside path and renamed over it,
// so a failed save leaves the previous file untouched. Parameter sets that
// point at a registered dataframe store its name, so the shared reference is
// restored by Load.
func Save(path string, s *Session) error {
	return replaceFile(path, func(tmp string) error {
		return writeStore(tmp, s)
	})
}

// replaceFile runs write against an empty temporary file beside path and
// renames the result over path only when write succeeds
func replaceFile(path string, write func(tmp string) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := write(tmpPath); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// writeStore fills the empty database file at path
func writeStore(path string, s *Session) (err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if _, err := db.Exec(storeSchema); err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := saveTx(tx, s); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveTx(tx *sql.Tx, s *Session) error {
	meta := map[string]string{
		"version": FormatVersion,
		"id":      s.ID,
		"counter": strconv.Itoa(s.Counter),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("meta %s: %w", k, err)
		}
	}

	env, err := encodeEnvironment(s.Env)
	if err != nil {
		return err
	}
	for k, v := range env {
		if _, err := tx.Exec(`INSERT INTO environment (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("environment %s: %w", k, err)
		}
	}

	indexes := make(map[int]bool)
	for i := range s.History {
		indexes[i] = true
	}
	for i := range s.ParseHistory {
		indexes[i] = true
	}
	for i := range indexes {
		var statement, record sql.NullString
		if line, ok := s.History[i]; ok {
			statement = sql.NullString{String: line, Valid: true}
		}
		if rec, ok := s.ParseHistory[i]; ok {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("history %d: %w", i, err)
			}
			record = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO history (idx, statement, record) VALUES (?, ?, ?)`, i, statement, record); err != nil {
			return fmt.Errorf("history %d: %w", i, err)
		}
	}

	for pos, name := range s.Frames.Names() {
		df, _ := s.Frames.Get(name)
		data, err := json.Marshal(df)
		if err != nil {
			return fmt.Errorf("dataframe %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO dataframes (position, name, data) VALUES (?, ?, ?)`, pos, name, string(data)); err != nil {
			return fmt.Errorf("dataframe %s: %w", name, err)
		}
	}

	for name, p := range s.Parameters {
		dfRef, dfData, err := encodeFrameRef(s.Frames, p.Dataframe)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		resRef, resData, err := encodeFrameRef(s.Frames, p.Results)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		options, err := json.Marshal(p.Options)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		_, err = tx.Exec(`INSERT INTO parameters
			(name, plugin_name, analysis_name, method, narrative, dataframe_ref, dataframe, results_ref, results, options)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			name, p.PluginName, p.AnalysisName, p.Method, p.Narrative, dfRef, dfData, resRef, resData, string(options))
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
	}
	return nil
}

// encodeFrameRef stores a registered frame by name and any other frame inline
func encodeFrameRef(reg *frame.Registry, df *frame.Dataframe) (ref, data sql.NullString, err error) {
	if df == nil {
		return ref, data, nil
	}
	if name, ok := reg.NameOf(df); ok {
		return sql.NullString{String: name, Valid: true}, data, nil
	}
	raw, err := json.Marshal(df)
	if err != nil {
		return ref, data, err
	}
	return ref, sql.NullString{String: string(raw), Valid: true}, nil
}

func encodeEnvironment(e Environment) (map[string]string, error) {
	fillIn, err := frame.EncodeCell(e.FillIn)
	if err != nil {
		return nil, fmt.Errorf("fill-in: %w", err)
	}
	return map[string]string{
		EnvCwd:           e.Cwd,
		EnvOriginalCwd:   e.OriginalCwd,
		EnvSeparator:     e.Separator,
		EnvFillIn:        string(fillIn),
		EnvNewline:       e.Newline,
		EnvHeader:        strconv.FormatBool(e.Header),
		EnvDisplayAST:    strconv.FormatBool(e.DisplayAST),
		EnvCastError:     string(e.CastPolicy),
		EnvPluginDir:     e.PluginDir,
		EnvStartTime:     e.StartTime.Format(time.RFC3339Nano),
		EnvLastStatement: e.LastStatement.Format(time.RFC3339Nano),
	}, nil
}

// Load reads a session written by Save. The returned session has the
// built-in plugin registry; callers normally merge it with Session.Replace.
func Load(path string) (_ *Session, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if cerr := db.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	s := New(DefaultEnvironment())
	if err := loadMeta(db, s); err != nil {
		return nil, err
	}
	if err := loadEnvironment(db, &s.Env); err != nil {
		return nil, err
	}
	if err := loadHistory(db, s); err != nil {
		return nil, err
	}
	if err := loadFrames(db, s); err != nil {
		return nil, err
	}
	if err := loadParameters(db, s); err != nil {
		return nil, err
	}
	// a session saved mid-statement has already recorded that statement
	if idx := s.HistoryIndexes(); len(idx) > 0 && idx[len(idx)-1] >= s.Counter {
		s.Counter = idx[len(idx)-1] + 1
	}
	return s, nil
}

func loadMeta(db *sql.DB, s *Session) error {
	rows, err := db.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotSession, err)
	}
	defer func() { _ = rows.Close() }()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if meta["version"] != FormatVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrNotSession, meta["version"])
	}
	counter, err := strconv.Atoi(meta["counter"])
	if err != nil {
		return fmt.Errorf("%w: bad counter: %v", ErrNotSession, err)
	}
	s.ID = meta["id"]
	s.Counter = counter
	return nil
}

func loadEnvironment(db *sql.DB, e *Environment) error {
	rows, err := db.Query(`SELECT key, value FROM environment`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		if err := setEnvironment(e, k, v); err != nil {
			return fmt.Errorf("environment %s: %w", k, err)
		}
	}
	return rows.Err()
}

func setEnvironment(e *Environment, key, value string) error {
	var err error
	switch key {
	case EnvCwd:
		e.Cwd = value
	case EnvOriginalCwd:
		e.OriginalCwd = value
	case EnvSeparator:
		e.Separator = value
	case EnvFillIn:
		e.FillIn, err = frame.DecodeCell(json.RawMessage(value))
	case EnvNewline:
		e.Newline = value
	case EnvHeader:
		e.Header, err = strconv.ParseBool(value)
	case EnvDisplayAST:
		e.DisplayAST, err = strconv.ParseBool(value)
	case EnvCastError:
		e.CastPolicy, err = frame.ParseCastPolicy(value)
	case EnvPluginDir:
		e.PluginDir = value
	case EnvStartTime:
		e.StartTime, err = time.Parse(time.RFC3339Nano, value)
	case EnvLastStatement:
		e.LastStatement, err = time.Parse(time.RFC3339Nano, value)
	}
	return err
}

func loadHistory(db *sql.DB, s *Session) error {
	rows, err := db.Query(`SELECT idx, statement, record FROM history ORDER BY idx`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			idx               int
			statement, record sql.NullString
		)
		if err := rows.Scan(&idx, &statement, &record); err != nil {
			return err
		}
		if statement.Valid {
			s.History[idx] = statement.String
		}
		if record.Valid {
			var rec dsl.Record
			if err := json.Unmarshal([]byte(record.String), &rec); err != nil {
				return fmt.Errorf("history %d: %w", idx, err)
			}
			// restore operand types lost to JSON where the record is valid
			if stmt, err := dsl.FromRecord(rec); err == nil {
				rec = stmt.Record()
			}
			s.ParseHistory[idx] = rec
		}
	}
	return rows.Err()
}

func loadFrames(db *sql.DB, s *Session) error {
	rows, err := db.Query(`SELECT name, data FROM dataframes ORDER BY position`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return err
		}
		df := frame.New(name)
		if err := json.Unmarshal([]byte(data), df); err != nil {
			return fmt.Errorf("dataframe %s: %w", name, err)
		}
		df.Name = name
		s.Frames.Add(df, true)
	}
	return rows.Err()
}

func loadParameters(db *sql.DB, s *Session) error {
	rows, err := db.Query(`SELECT name, plugin_name, analysis_name, method, narrative,
		dataframe_ref, dataframe, results_ref, results, options FROM parameters`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			name, options                  string
			dfRef, dfData, resRef, resData sql.NullString
		)
		p := plugin.NewParameterSet("")
		if err := rows.Scan(&name, &p.PluginName, &p.AnalysisName, &p.Method, &p.Narrative,
			&dfRef, &dfData, &resRef, &resData, &options); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(options), &p.Options); err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		if p.Options == nil {
			p.Options = make(map[string]string)
		}
		if p.Dataframe, err = decodeFrameRef(s.Frames, dfRef, dfData); err != nil {
			return fmt.Errorf("parameter %s dataframe: %w", name, err)
		}
		if p.Results, err = decodeFrameRef(s.Frames, resRef, resData); err != nil {
			return fmt.Errorf("parameter %s results: %w", name, err)
		}
		s.Parameters[name] = p
	}
	return rows.Err()
}

func decodeFrameRef(reg *frame.Registry, ref, data sql.NullString) (*frame.Dataframe, error) {
	if ref.Valid {
		df, ok := reg.Get(ref.String)
		if !ok {
			return nil, fmt.Errorf("references unknown dataframe %s", ref.String)
		}
		return df, nil
	}
	if !data.Valid {
		return nil, nil
	}
	df := frame.New("")
	if err := json.Unmarshal([]byte(data.String), df); err != nil {
		return nil, err
	}
	return df, nil
}
