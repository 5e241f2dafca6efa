package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/output"
	"github.com/vegasq/tapps/session"
)

func (in *Interpreter) handleSet(s *dsl.SetStatement) error {
	env := &in.session.Env
	switch s.Setting {
	case dsl.SettingDisplayAST:
		v, err := parseBool(s.Value)
		if err != nil {
			return errorf(CodeInvalidSetting, "displayast: %v", err)
		}
		env.DisplayAST = v
	case dsl.SettingHeader:
		v, err := parseBool(s.Value)
		if err != nil {
			return errorf(CodeInvalidSetting, "header: %v", err)
		}
		env.Header = v
	case dsl.SettingCWD, dsl.SettingRCWD:
		dir := in.session.Resolve(s.Value)
		if s.Setting == dsl.SettingCWD && !filepath.IsAbs(s.Value) {
			abs, err := filepath.Abs(s.Value)
			if err != nil {
				return errorf(CodeIO, "cwd %s: %v", s.Value, err)
			}
			dir = abs
		}
		info, err := os.Stat(dir)
		if err != nil {
			return errorf(CodeIO, "cwd %s: %v", s.Value, err)
		}
		if !info.IsDir() {
			return errorf(CodeIO, "cwd %s: not a directory", s.Value)
		}
		env.Cwd = filepath.Clean(dir)
	case dsl.SettingOCWD:
		env.Cwd = env.OriginalCwd
	case dsl.SettingSeparator:
		if s.Value == "" {
			return errorf(CodeInvalidSetting, "separator cannot be empty")
		}
		env.Separator = s.Value
	case dsl.SettingFillin:
		env.FillIn = s.Value
	case dsl.SettingCastError:
		p, err := frame.ParseCastPolicy(s.Value)
		if err != nil {
			return errorf(CodeInvalidSetting, "%v", err)
		}
		env.CastPolicy = p
	default:
		return errorf(CodeInvalidSetting, "unknown setting %s", s.Setting)
	}
	log.LogVf("set %s = %q", s.Setting, s.Value)
	return nil
}

// parseBool accepts the forms of strconv.ParseBool plus yes/no and on/off
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %s", s)
	}
	return v, nil
}

func (in *Interpreter) handleShow(s *dsl.Show) error {
	switch s.Target {
	case "asthistory":
		rows := make([][]string, 0, len(in.session.ParseHistory))
		for _, i := range in.session.ParseIndexes() {
			rows = append(rows, []string{strconv.Itoa(i), in.session.ParseHistory[i].String()})
		}
		output.RenderTable(in.out, []string{"#", "record"}, rows)
	case "history":
		rows := make([][]string, 0, len(in.session.History))
		for _, i := range in.session.HistoryIndexes() {
			rows = append(rows, []string{strconv.Itoa(i), in.session.History[i]})
		}
		output.RenderTable(in.out, []string{"#", "statement"}, rows)
	case "environment":
		env := in.session.Env
		rows := make([][]string, 0)
		for _, key := range env.Keys() {
			v, _ := env.Get(key)
			rows = append(rows, []string{key, v})
		}
		output.RenderTable(in.out, []string{"setting", "value"}, rows)
	case "session":
		in.showSession()
	case "pluginlist":
		in.showPluginList()
	case "plugindata":
		return in.showPluginData(s.Extra)
	case "dataframe":
		if s.Extra == "" {
			in.showFrames()
			return nil
		}
		df, err := in.lookupFrame(s.Extra)
		if err != nil {
			return err
		}
		return output.NewTableFormatter(in.out).Format(df)
	case "parameter":
		if s.Extra == "" {
			in.showParameterSets()
			return nil
		}
		return in.showParameterSet(s.Extra)
	default:
		return errorf(CodeInvalidSetting, "cannot show %s", s.Target)
	}
	return nil
}

func (in *Interpreter) showSession() {
	s := in.session
	rows := [][]string{
		{"id", s.ID},
		{"statements", strconv.Itoa(s.Counter - 1)},
		{"dataframes", strconv.Itoa(s.Frames.Len())},
		{"parameter sets", strconv.Itoa(len(s.Parameters))},
		{"plugins", strconv.Itoa(len(s.Plugins.Names()))},
	}
	if started, ok := s.Env.Get(session.EnvStartTime); ok {
		rows = append(rows, []string{"started", started})
	}
	output.RenderTable(in.out, []string{"session", "value"}, rows)
}

func (in *Interpreter) showFrames() {
	rows := make([][]string, 0, in.session.Frames.Len())
	for _, name := range in.session.Frames.Names() {
		df, _ := in.session.Frames.Get(name)
		rows = append(rows, []string{
			name,
			strconv.Itoa(df.NumLabels()),
			strings.Join(df.SeriesNames(), ", "),
		})
	}
	output.RenderTable(in.out, []string{"dataframe", "labels", "series"}, rows)
}

func (in *Interpreter) handleSaveSession(s *dsl.SaveSession) error {
	path := in.session.Resolve(s.File)
	if err := session.Save(path, in.session); err != nil {
		return errorf(CodeIO, "cannot save session to %s: %v", s.File, err)
	}
	fmt.Fprintf(in.out, "session saved to %s\n", path)
	return nil
}

// handleLoadSession replaces the session state with a saved one. The
// loadsession statement itself is recorded in the restored history.
func (in *Interpreter) handleLoadSession(s *dsl.LoadSession) error {
	path := in.session.Resolve(s.File)
	loaded, err := session.Load(path)
	if err != nil {
		return errorf(CodeIO, "cannot load session from %s: %v", s.File, err)
	}

	line := in.session.History[in.session.Counter]
	rec := s.Record()
	in.session.Replace(loaded)
	in.session.Record(line)
	in.session.RecordParse(rec)
	fmt.Fprintf(in.out, "session %s loaded: %d dataframes, %d parameter sets\n",
		in.session.ID, in.session.Frames.Len(), len(in.session.Parameters))
	return nil
}
