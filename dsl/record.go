package dsl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrBadRecord is returned when a record does not have the shape of any
// statement.
var ErrBadRecord = errors.New("malformed statement record")

// FromRecord rebuilds the statement a record was produced from. It accepts
// records decoded from JSON, where lists arrive as []any and numbers may be
// json.Number.
func FromRecord(r Record) (Statement, error) {
	stmt, err := fromRecord(r)
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func fromRecord(r Record) (Statement, error) {
	d := recordDecoder{rec: r}
	switch op := r.Op(); op {
	case OpSet:
		return d.set()
	case OpLoadCSV, OpLoadCSVNoHeader:
		d.arity(3)
		stmt := &LoadCSV{File: d.str(1), Name: d.str(2), NoHeader: op == OpLoadCSVNoHeader}
		return stmt, d.err
	case OpLoadParquet:
		d.arity(3)
		return &LoadParquet{File: d.str(1), Name: d.str(2)}, d.err
	case OpCast:
		d.arity(4)
		return &Cast{Type: d.str(1), Dataframe: d.str(2), Series: d.list(3)}, d.err
	case OpShow:
		if len(r) == 3 {
			return &Show{Target: d.str(1), Extra: d.str(2)}, d.err
		}
		d.arity(2)
		return &Show{Target: d.str(1)}, d.err
	case OpDescribe:
		d.arity(2)
		return &Describe{Dataframe: d.str(1)}, d.err
	case OpPythonShell:
		d.arity(1)
		return &PythonShell{}, d.err
	case OpNewParam:
		d.arity(3)
		return &NewParameter{Plugin: d.str(1), Name: d.str(2)}, d.err
	case OpNewDataframe:
		d.arity(4)
		return &NewDataframe{Name: d.str(1), Set: d.str(2), Location: d.str(3)}, d.err
	case OpDelDataframe:
		d.arity(2)
		return &DeleteDataframe{Name: d.str(1)}, d.err
	case OpDelParam:
		d.arity(2)
		return &DeleteParameter{Name: d.str(1)}, d.err
	case OpDuplicateFrame:
		d.arity(3)
		return &DuplicateFrame{Source: d.str(1), Target: d.str(2)}, d.err
	case OpGreedySearch:
		d.arity(5)
		return &GreedySearch{Source: d.str(1), Target: d.str(2), Op: NormalizeComparator(d.str(3)), Value: d.value(4)}, d.err
	case OpIDSearch:
		d.arity(6)
		return &IDSearch{Source: d.str(1), Target: d.str(2), Series: d.str(3), Op: NormalizeComparator(d.str(4)), Value: d.value(5)}, d.err
	case OpRunPlugin:
		d.arity(2)
		return &RunPlugin{Set: d.str(1)}, d.err
	case OpRenameSeries:
		d.arity(4)
		return &RenameSeries{Dataframe: d.str(1), Old: d.str(2), New: d.str(3)}, d.err
	case OpRenameLabel:
		d.arity(4)
		return &RenameLabel{Dataframe: d.str(1), Old: d.str(2), New: d.str(3)}, d.err
	case OpMergeSeries:
		d.arity(4)
		return &MergeSeries{Series: d.str(1), Source: d.str(2), Target: d.str(3)}, d.err
	case OpMergeLabels, OpMergeReplaceLabels:
		d.arity(3)
		return &MergeLabels{Source: d.str(1), Target: d.str(2), Replace: op == OpMergeReplaceLabels}, d.err
	case OpSaveCSV:
		d.arity(3)
		return &SaveCSV{Dataframe: d.str(1), File: d.str(2)}, d.err
	case OpSaveParquet:
		d.arity(3)
		return &SaveParquet{Dataframe: d.str(1), File: d.str(2)}, d.err
	case OpSaveSession:
		d.arity(2)
		return &SaveSession{File: d.str(1)}, d.err
	case OpLoadSession:
		d.arity(2)
		return &LoadSession{File: d.str(1)}, d.err
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", ErrBadRecord, op)
	}
}

// recordDecoder reads typed operands, keeping the first error
type recordDecoder struct {
	rec Record
	err error
}

func (d *recordDecoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s %s", ErrBadRecord, d.rec.Op(), fmt.Sprintf(format, args...))
	}
}

func (d *recordDecoder) arity(n int) {
	if len(d.rec) != n {
		d.fail("has %d elements, want %d", len(d.rec), n)
	}
}

func (d *recordDecoder) str(i int) string {
	if i >= len(d.rec) {
		d.fail("missing operand %d", i)
		return ""
	}
	s, ok := d.rec[i].(string)
	if !ok {
		d.fail("operand %d is %T, want string", i, d.rec[i])
	}
	return s
}

func (d *recordDecoder) list(i int) []string {
	if i >= len(d.rec) {
		d.fail("missing operand %d", i)
		return nil
	}
	switch v := d.rec[i].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				d.fail("operand %d holds %T, want string", i, item)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		d.fail("operand %d is %T, want list", i, d.rec[i])
		return nil
	}
}

func (d *recordDecoder) value(i int) any {
	if i >= len(d.rec) {
		d.fail("missing operand %d", i)
		return nil
	}
	switch v := d.rec[i].(type) {
	case float64, string:
		return v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			d.fail("operand %d: %v", i, err)
		}
		return f
	case int:
		return float64(v)
	default:
		d.fail("operand %d is %T, want number or string", i, d.rec[i])
		return nil
	}
}

func (d *recordDecoder) set() (Statement, error) {
	switch setting := d.str(1); setting {
	case SettingOCWD:
		d.arity(2)
		return &SetStatement{Setting: setting}, d.err
	case SettingParameter:
		d.arity(5)
		return &SetParameter{Name: d.str(2), Set: d.str(3), Value: d.str(4)}, d.err
	case SettingDisplayAST, SettingCWD, SettingRCWD, SettingSeparator, SettingFillin, SettingCastError, SettingHeader:
		d.arity(3)
		return &SetStatement{Setting: setting, Value: d.str(2)}, d.err
	default:
		if d.err != nil {
			return nil, d.err
		}
		return nil, fmt.Errorf("%w: unknown setting %s", ErrBadRecord, strconv.Quote(setting))
	}
}
