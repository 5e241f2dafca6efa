// Package output writes dataframes as delimited text, parquet files and
// console tables.
//
// The file writers satisfy the Formatter interface:
//
//	type Formatter interface {
//	    Format(df *frame.Dataframe) error
//	    SetOutput(w io.Writer)
//	}
//
// # Delimited Text
//
// The first column holds labels and is headed "label". Nil cells are written
// as empty fields, so a file written here loads back with reader.LoadCSV
// into a frame with the same series, labels and values.
//
//	f := output.NewCSVFormatter(os.Stdout)
//	f.SetSeparator(";")
//	if err := f.Format(df); err != nil {
//	    log.Fatal(err)
//	}
//
// # Parquet
//
// Series holding only float64, int64 or bool values keep that physical type;
// other series are written as strings. The label column name and series order
// travel as key/value metadata read by reader.LoadParquet.
//
//	err := output.SaveParquet("prices.parquet", df)
//
// # Console Tables
//
// TableFormatter renders frames and arbitrary rows with tablewriter. Cells
// wider than DefaultCellWidth are truncated with "...".
package output
