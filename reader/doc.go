// Package reader loads delimited text files and Apache Parquet files into
// dataframes.
//
// # Delimited Files
//
// The first column of every row is the label; the remaining columns are
// series. With a header row the series are named from it, otherwise they are
// called S1, S2, ... Values are kept as trimmed strings until cast.
//
//	df, err := reader.LoadCSV("STI.csv", "STI", reader.DefaultCSVOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Separators longer than one character and custom line terminators are
// supported; quoting is only honored for single-character separators.
//
// # Parquet Files
//
// Parquet columns keep their types. Files written by the output package carry
// metadata naming the label column and series order:
//
//	df, err := reader.LoadParquet("prices.parquet", "P", nil)
//
// The lower level Reader returns rows as maps, as the parquet-go library
// decodes them:
//
//	r, err := reader.NewReader("prices.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	rows, err := r.ReadAll()
package reader
