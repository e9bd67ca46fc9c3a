// Package reader is the columnar side of tripscan: it opens Parquet files,
// discovers datasets, and iterates over them in column-pruned batches.
//
// # Datasets
//
// A dataset is a directory of same-schema Parquet files, or a single file:
//
//	ds, err := reader.OpenDataset("data/yellow_2024_parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Files are visited in lexicographic order.
//
// # Metadata
//
// Row counts come from the file footer without decoding any page:
//
//	r, err := reader.NewReader(ds.Files[0])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	fmt.Println(r.NumRows())
//
// # Batches
//
// Batches hold only the requested columns, decoded to Go values:
//
//	it := ds.Batches([]string{"VendorID", "tpep_dropoff_datetime"}, 65536)
//	defer it.Close()
//	for {
//	    b, err := it.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    vendors, _ := b.Column("VendorID")
//	    ...
//	}
//
// Requesting no columns yields batches that only carry row counts.
//
// # Resource Management
//
// Always Close readers and iterators to release file handles.
package reader
