package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vegasq/tapps/frame"
)

// Formatter defines the interface for dataframe writers.
//
// Implementers must provide Format to write a dataframe in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes df in the formatter's specific format
	Format(df *frame.Dataframe) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// LabelHeader names the label column in written files and tables
const LabelHeader = "label"

// writeFile formats df into a temporary file next to path and renames it over
// path, so a failed write leaves any existing file intact
func writeFile(path string, f Formatter, df *frame.Dataframe) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	f.SetOutput(tmp)
	if err := f.Format(df); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
