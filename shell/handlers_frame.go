package shell

import (
	"errors"
	"fmt"
	"strconv"

	"fortio.org/log"

	"github.com/vegasq/tapps/dsl"
	"github.com/vegasq/tapps/frame"
	"github.com/vegasq/tapps/output"
	"github.com/vegasq/tapps/reader"
)

// lookupFrame returns the registered frame called name or an E001 report
func (in *Interpreter) lookupFrame(name string) (*frame.Dataframe, error) {
	df, ok := in.session.Frames.Get(name)
	if !ok {
		return nil, notFound(CodeDataframeNotFound, "dataframe", name, in.session.Frames.Names())
	}
	return df, nil
}

// register adds df under its current name, warning when the registry had to
// suffix it
func (in *Interpreter) register(df *frame.Dataframe) string {
	wanted := df.Name
	name := in.session.Frames.Add(df, false)
	if wanted != "" && name != wanted {
		in.warn(warnf(CodeNameSuffixed, "dataframe %s exists, stored as %s", wanted, name))
	}
	return name
}

func (in *Interpreter) handleLoadCSV(s *dsl.LoadCSV) error {
	env := in.session.Env
	opts := reader.CSVOptions{
		Separator: env.Separator,
		Header:    !s.NoHeader,
		FillIn:    env.FillIn,
		Newline:   env.Newline,
	}
	df, err := reader.LoadCSV(in.session.Resolve(s.File), s.Name, opts)
	if err != nil {
		return errorf(CodeIO, "cannot load %s: %v", s.File, err)
	}
	name := in.register(df)
	fmt.Fprintf(in.out, "loaded %s: %d labels, %d series\n", name, df.NumLabels(), df.NumSeries())
	return nil
}

func (in *Interpreter) handleLoadParquet(s *dsl.LoadParquet) error {
	df, err := reader.LoadParquet(in.session.Resolve(s.File), s.Name, in.session.Env.FillIn)
	if err != nil {
		return errorf(CodeIO, "cannot load %s: %v", s.File, err)
	}
	name := in.register(df)
	fmt.Fprintf(in.out, "loaded %s: %d labels, %d series\n", name, df.NumLabels(), df.NumSeries())
	return nil
}

func (in *Interpreter) handleCast(s *dsl.Cast) error {
	df, err := in.lookupFrame(s.Dataframe)
	if err != nil {
		return err
	}
	t, err := frame.ParseCastType(s.Type)
	if err != nil {
		return errorf(CodeInvalidSetting, "%v", err)
	}

	env := in.session.Env
	res, err := df.Cast(t, env.CastPolicy, env.FillIn, s.Series)
	if err != nil {
		return errorf(CodeInvalidSetting, "%v", err)
	}
	for _, name := range res.Missing {
		in.warn(warnf(CodeCastMissing, "series %s not in %s, not cast", name, df.Name))
	}
	if res.Failed > 0 {
		in.warn(warnf(CodeCastInvalid, "%d values in %s could not be cast to %s (%s)", res.Failed, df.Name, t, env.CastPolicy))
	}
	return nil
}

func (in *Interpreter) handleDescribe(s *dsl.Describe) error {
	df, err := in.lookupFrame(s.Dataframe)
	if err != nil {
		return err
	}
	fmt.Fprintf(in.out, "%s: %d labels, %d series\n", df.Name, df.NumLabels(), df.NumSeries())

	header := []string{"series", "string", "number", "integer", "boolean", "empty", "invalid"}
	rows := make([][]string, 0, df.NumSeries())
	for _, name := range df.SeriesNames() {
		col, _ := df.Series(name)
		var counts [6]int
		for _, v := range col.Values {
			switch v.(type) {
			case string:
				counts[0]++
			case float64:
				counts[1]++
			case int64:
				counts[2]++
			case bool:
				counts[3]++
			case nil:
				counts[4]++
			case frame.Invalid:
				counts[5]++
			}
		}
		row := []string{name}
		for _, c := range counts {
			row = append(row, strconv.Itoa(c))
		}
		rows = append(rows, row)
	}
	output.RenderTable(in.out, header, rows)
	return nil
}

func (in *Interpreter) handleDeleteDataframe(s *dsl.DeleteDataframe) error {
	if !in.session.Frames.Delete(s.Name) {
		return notFound(CodeDataframeNotFound, "dataframe", s.Name, in.session.Frames.Names())
	}
	return nil
}

// source returns the frame a select reads from. A missing source is a
// warning; the nil frame extracts to an empty result.
func (in *Interpreter) source(name string) *frame.Dataframe {
	df, ok := in.session.Frames.Get(name)
	if !ok {
		in.warn(warnf(CodeMissingSource, "dataframe %s not found, created an empty frame", name))
	}
	return df
}

func (in *Interpreter) handleDuplicate(s *dsl.DuplicateFrame) error {
	out := in.source(s.Source).ExtractValue(frame.Wildcard, nil, s.Target)
	in.register(out)
	return nil
}

func (in *Interpreter) handleGreedySearch(s *dsl.GreedySearch) error {
	out := in.source(s.Source).ExtractValue(frame.Op(s.Op), s.Value, s.Target)
	in.register(out)
	log.LogVf("greedysearch %s kept %d labels", out.Name, out.NumLabels())
	return nil
}

func (in *Interpreter) handleIDSearch(s *dsl.IDSearch) error {
	out, err := in.source(s.Source).ExtractSeriesValue(s.Series, frame.Op(s.Op), s.Value, s.Target)
	if errors.Is(err, frame.ErrSeriesNotFound) {
		in.warn(warnf(CodeFilterSeriesGone, "series %s not in %s, created an empty frame", s.Series, s.Source))
	}
	in.register(out)
	log.LogVf("idsearch %s kept %d labels", out.Name, out.NumLabels())
	return nil
}

func (in *Interpreter) handleRenameSeries(s *dsl.RenameSeries) error {
	df, err := in.lookupFrame(s.Dataframe)
	if err != nil {
		return err
	}
	switch err := df.RenameSeries(s.Old, s.New); {
	case errors.Is(err, frame.ErrSeriesNotFound):
		return notFound(CodeSeriesNotFound, "series", s.Old, df.SeriesNames())
	case errors.Is(err, frame.ErrSeriesExists):
		return errorf(CodeNameInUse, "series %s already exists in %s", s.New, df.Name)
	case err != nil:
		return err
	}
	return nil
}

func (in *Interpreter) handleRenameLabel(s *dsl.RenameLabel) error {
	df, err := in.lookupFrame(s.Dataframe)
	if err != nil {
		return err
	}
	switch err := df.RenameLabel(s.Old, s.New); {
	case errors.Is(err, frame.ErrLabelNotFound):
		return notFound(CodeSeriesNotFound, "label", s.Old, df.Labels())
	case errors.Is(err, frame.ErrLabelExists):
		return errorf(CodeNameInUse, "label %s already exists in %s", s.New, df.Name)
	case err != nil:
		return err
	}
	return nil
}

func (in *Interpreter) handleMergeSeries(s *dsl.MergeSeries) error {
	src, err := in.lookupFrame(s.Source)
	if err != nil {
		return err
	}
	dst, err := in.lookupFrame(s.Target)
	if err != nil {
		return err
	}
	switch err := dst.MergeSeries(src, s.Series, in.session.Env.FillIn); {
	case errors.Is(err, frame.ErrSeriesExists):
		in.warn(warnf(CodeSeriesCollision, "series %s already in %s, skipped", s.Series, dst.Name))
	case errors.Is(err, frame.ErrSeriesNotFound):
		return notFound(CodeSeriesNotFound, "series", s.Series, src.SeriesNames())
	case err != nil:
		return err
	}
	return nil
}

func (in *Interpreter) handleMergeLabels(s *dsl.MergeLabels) error {
	src, err := in.lookupFrame(s.Source)
	if err != nil {
		return err
	}
	dst, err := in.lookupFrame(s.Target)
	if err != nil {
		return err
	}
	n, err := dst.MergeLabels(src, s.Replace)
	if errors.Is(err, frame.ErrSeriesMismatch) {
		return errorf(CodeSeriesMismatch, "cannot merge %s into %s: series names differ", src.Name, dst.Name)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(in.out, "merged %d labels into %s\n", n, dst.Name)
	return nil
}

func (in *Interpreter) handleSaveCSV(s *dsl.SaveCSV) error {
	df, err := in.lookupFrame(s.Dataframe)
	if err != nil {
		return err
	}
	env := in.session.Env
	if err := output.SaveCSV(in.session.Resolve(s.File), df, env.Separator, env.Newline, env.Header); err != nil {
		return errorf(CodeIO, "cannot save %s: %v", s.File, err)
	}
	return nil
}

func (in *Interpreter) handleSaveParquet(s *dsl.SaveParquet) error {
	df, err := in.lookupFrame(s.Dataframe)
	if err != nil {
		return err
	}
	if err := output.SaveParquet(in.session.Resolve(s.File), df); err != nil {
		return errorf(CodeIO, "cannot save %s: %v", s.File, err)
	}
	return nil
}
