// Command tripscan downloads, merges and queries monthly NYC taxi trip
// Parquet files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func init() {
	time.Local = time.UTC // naive trip timestamps are read as UTC
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
