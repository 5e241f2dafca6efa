package shell

import (
	"fmt"

	"github.com/vegasq/tapps/dsl"
)

// dispatch runs the handler for stmt. The switch covers every statement type
// the parser produces.
func (in *Interpreter) dispatch(stmt dsl.Statement) error {
	switch s := stmt.(type) {
	case *dsl.SetStatement:
		return in.handleSet(s)
	case *dsl.SetParameter:
		return in.handleSetParameter(s)
	case *dsl.LoadCSV:
		return in.handleLoadCSV(s)
	case *dsl.LoadParquet:
		return in.handleLoadParquet(s)
	case *dsl.Cast:
		return in.handleCast(s)
	case *dsl.Show:
		return in.handleShow(s)
	case *dsl.Describe:
		return in.handleDescribe(s)
	case *dsl.PythonShell:
		return in.handleScriptShell()
	case *dsl.NewParameter:
		return in.handleNewParameter(s)
	case *dsl.NewDataframe:
		return in.handleNewDataframe(s)
	case *dsl.DeleteDataframe:
		return in.handleDeleteDataframe(s)
	case *dsl.DeleteParameter:
		return in.handleDeleteParameter(s)
	case *dsl.DuplicateFrame:
		return in.handleDuplicate(s)
	case *dsl.GreedySearch:
		return in.handleGreedySearch(s)
	case *dsl.IDSearch:
		return in.handleIDSearch(s)
	case *dsl.RunPlugin:
		return in.handleRunPlugin(s)
	case *dsl.RenameSeries:
		return in.handleRenameSeries(s)
	case *dsl.RenameLabel:
		return in.handleRenameLabel(s)
	case *dsl.MergeSeries:
		return in.handleMergeSeries(s)
	case *dsl.MergeLabels:
		return in.handleMergeLabels(s)
	case *dsl.SaveCSV:
		return in.handleSaveCSV(s)
	case *dsl.SaveParquet:
		return in.handleSaveParquet(s)
	case *dsl.SaveSession:
		return in.handleSaveSession(s)
	case *dsl.LoadSession:
		return in.handleLoadSession(s)
	default:
		return fmt.Errorf("no handler for %T", stmt)
	}
}
