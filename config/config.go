// Package config holds the settings of an ordindex process and binds them
// to command line flags.
package config

import (
	"flag"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"

	"ordindex/btree"
)

const (
	DefaultCompressThreshold = 64
	DefaultRecords           = 1000
	DefaultLogLevel          = "info"
)

type Config struct {
	// Degree is M, the minimum branching factor of the index. Nodes hold at
	// most 2M-1 keys.
	Degree int
	// CompressThreshold is the value size, in bytes, from which values are
	// stored snappy compressed. Zero disables compression.
	CompressThreshold int
	LogLevel          string
	// Seed fills the index with Records random word pairs on startup.
	Seed    bool
	Records int
}

func Default() Config {
	return Config{
		Degree:            btree.DefaultDegree,
		CompressThreshold: DefaultCompressThreshold,
		LogLevel:          DefaultLogLevel,
		Records:           DefaultRecords,
	}
}

// RegisterFlags binds c to fs, current field values becoming the defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Degree, "degree", c.Degree, "Minimum branching factor M of the index; nodes hold at most 2M-1 keys.")
	fs.IntVar(&c.CompressThreshold, "compress-threshold", c.CompressThreshold, "Values of at least this many bytes are stored snappy compressed, 0 disables compression.")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn or error.")
	fs.BoolVar(&c.Seed, "seed", c.Seed, "Seed the index using records created with go-faker.")
	fs.IntVar(&c.Records, "records", c.Records, "Amount of records to seed the index with upon startup.")
}

func (c Config) Validate() error {
	if c.Degree < btree.MinDegree {
		return errors.Newf("degree %d is below the minimum of %d", c.Degree, btree.MinDegree)
	}
	if c.CompressThreshold < 0 {
		return errors.Newf("compress threshold %d is negative", c.CompressThreshold)
	}
	if c.Records < 0 {
		return errors.Newf("records %d is negative", c.Records)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return lvl, nil
}
