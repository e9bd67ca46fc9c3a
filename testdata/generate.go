package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/vegasq/tripscan/fetch"
	"github.com/vegasq/tripscan/internal/taxitest"
)

var (
	dirFlag    = flag.String("dir", "yellow_2024_parquet", "directory to write the monthly files to")
	monthsFlag = flag.Int("months", 6, "number of months to generate, starting in January 2024")
	rowsFlag   = flag.Int("rows", 1000, "trips per month")
)

var vendors = []int32{1, 2, 6, 7}

func main() {
	flag.Parse()

	if err := os.MkdirAll(*dirFlag, 0o755); err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewPCG(2024, 1))
	for m := 1; m <= *monthsFlag; m++ {
		start := time.Date(2024, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		span := start.AddDate(0, 1, 0).Sub(start)

		trips := make([]taxitest.Trip, *rowsFlag)
		for i := range trips {
			trip := taxitest.Trip{
				Dropoff:      taxitest.Time(start.Add(time.Duration(rng.Int64N(int64(span/time.Second))) * time.Second)),
				PULocationID: 1 + rng.Int32N(265),
				FareAmount:   float64(rng.IntN(8000)) / 100,
			}
			// a few voided trips and missing vendors, as in the real files
			if rng.IntN(50) == 0 {
				trip.FareAmount = 0
			}
			if rng.IntN(100) != 0 {
				trip.VendorID = taxitest.Int32(vendors[rng.IntN(len(vendors))])
			}
			trips[i] = trip
		}

		path := filepath.Join(*dirFlag, fetch.FileName("yellow_tripdata", 2024, m, "parquet"))
		if err := taxitest.Write(path, trips); err != nil {
			log.Fatal(err)
		}
		log.Printf("Generated %s with %d trips", path, len(trips))
	}
}
