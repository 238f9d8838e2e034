package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ordindex/cli"
	"ordindex/config"
	"ordindex/store"
)

func main() {
	cfg := config.Default()
	setupFlags(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	s, err := store.Open(cfg, logger)
	if err != nil {
		logger.Fatal("open index", zap.Error(err))
	}

	if cfg.Seed {
		if err := seedStoreWithTestRecords(s, cfg.Records); err != nil {
			logger.Fatal("seed index", zap.Error(err))
		}
		logger.Info("seeded index", zap.Stringer("stats", s.Stats()))
	}

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.NewCli(scanner, s, os.Stdout)
	demo.Start()
}

func setupFlags(cfg *config.Config) {
	cfg.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Println("\nB-Tree CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}

// newLogger writes human readable logs to stderr so they stay apart from
// the REPL output.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}
