// Package output renders command reports as text, JSON or CSV.
//
// A Report carries an optional table (Columns and Rows) and a list of
// summary values. Every formatter writes the whole report in one call:
//
//	rep := &output.Report{Title: "Row counts", Columns: []string{"file", "rows"}}
//	rep.AddRow("yellow_tripdata_2024-01.parquet", int64(2964624))
//	rep.AddSummary("total_rows", int64(2964624))
//
//	f, err := output.New("text", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := f.Format(rep); err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Formats
//
//   - text: aligned table with thousands separators, then "name: value" lines
//   - json: a single JSON object with title, rows and summary
//   - csv: header row, table rows, then summary rows as name,value
package output
