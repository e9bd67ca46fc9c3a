// Package config holds the settings shared by every tripscan command.
//
// Values come from built-in defaults, an optional YAML/TOML/JSON config file,
// and TRIPSCAN_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "TRIPSCAN"

// Config aggregates configuration for all commands.
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Query    QueryConfig    `mapstructure:"query"`
	Log      LogConfig      `mapstructure:"log"`
}

// DownloadConfig describes which monthly objects to fetch and from where.
type DownloadConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Prefix     string `mapstructure:"prefix"`
	Extension  string `mapstructure:"extension"`
	Year       int    `mapstructure:"year"`
	StartMonth int    `mapstructure:"start_month"`
	EndMonth   int    `mapstructure:"end_month"`
}

// DatasetConfig locates the raw monthly files and the merged output.
type DatasetConfig struct {
	RawDir     string `mapstructure:"raw_dir"`
	MergedFile string `mapstructure:"merged_file"`
	BatchSize  int    `mapstructure:"batch_size"`
}

// QueryConfig holds the dataset, column names and constants used by the
// queries. An empty Dataset means the raw monthly directory.
type QueryConfig struct {
	Dataset         string  `mapstructure:"dataset"`
	DistinctColumn  string  `mapstructure:"distinct_column"`
	FareColumn      string  `mapstructure:"fare_column"`
	FareValue       float64 `mapstructure:"fare_value"`
	VendorColumn    string  `mapstructure:"vendor_column"`
	TimestampColumn string  `mapstructure:"timestamp_column"`
	RangeStart      string  `mapstructure:"range_start"`
	RangeEnd        string  `mapstructure:"range_end"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Download: DownloadConfig{
			BaseURL:    "https://d37ci6vzurychx.cloudfront.net/trip-data",
			Prefix:     "yellow_tripdata",
			Extension:  "parquet",
			Year:       2024,
			StartMonth: 1,
			EndMonth:   6,
		},
		Dataset: DatasetConfig{
			RawDir:     "data/yellow_2024_parquet",
			MergedFile: "data/yellow_2024_jan_jun.parquet",
			BatchSize:  65536,
		},
		Query: QueryConfig{
			DistinctColumn:  "PULocationID",
			FareColumn:      "fare_amount",
			FareValue:       0,
			VendorColumn:    "VendorID",
			TimestampColumn: "tpep_dropoff_datetime",
			RangeStart:      "2024-03-01 00:00:00",
			RangeEnd:        "2024-03-15 23:59:59",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional file and environment variables.
//
// When path is empty, "tripscan.{yaml,toml,json}" in the working directory is
// used if present. Environment variables use the prefix "TRIPSCAN" and the dot
// character in keys is replaced by an underscore, so "dataset.raw_dir" becomes
// "TRIPSCAN_DATASET_RAW_DIR".
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tripscan")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string{}, parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}

// QueryDataset returns the dataset the query commands read when none is
// given on the command line.
func (c *Config) QueryDataset() string {
	if c.Query.Dataset != "" {
		return c.Query.Dataset
	}
	return c.Dataset.RawDir
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	d := c.Download
	if d.Year < 2009 {
		return fmt.Errorf("download.year must be 2009 or later, got %d", d.Year)
	}
	if d.StartMonth < 1 || d.StartMonth > 12 {
		return fmt.Errorf("download.start_month must be in 1..12, got %d", d.StartMonth)
	}
	if d.EndMonth < 1 || d.EndMonth > 12 {
		return fmt.Errorf("download.end_month must be in 1..12, got %d", d.EndMonth)
	}
	if d.StartMonth > d.EndMonth {
		return fmt.Errorf("download.start_month (%d) is after download.end_month (%d)", d.StartMonth, d.EndMonth)
	}
	if d.Prefix == "" || d.Extension == "" {
		return errors.New("download.prefix and download.extension must be set")
	}
	if c.Dataset.BatchSize <= 0 {
		return fmt.Errorf("dataset.batch_size must be positive, got %d", c.Dataset.BatchSize)
	}

	start, end, err := c.Query.Range()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("query.range_end %s is before query.range_start %s", c.Query.RangeEnd, c.Query.RangeStart)
	}
	return nil
}

// Range parses the inclusive timestamp range of the range-filtered query.
// Naive timestamps are interpreted as UTC.
func (q QueryConfig) Range() (time.Time, time.Time, error) {
	start, err := ParseTime(q.RangeStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid query.range_start: %w", err)
	}
	end, err := ParseTime(q.RangeEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid query.range_end: %w", err)
	}
	return start, end, nil
}

// ParseTime parses a timestamp in any common layout, defaulting to UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
