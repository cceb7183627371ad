// Command factorize splits a semiprime given in decimal into its two prime
// factors.
//
//	factorize 124705700219
//	factorize --progress --workers 4 124705700219
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/on-the-ground/factor_ive_go/config"
	"github.com/on-the-ground/factor_ive_go/factor"
	"github.com/on-the-ground/factor_ive_go/progress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	cfg          config.Config
	showProgress bool
	dev          bool
}

func newRootCmd() *cobra.Command {
	opts := options{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "factorize N",
		Short: "Split a semiprime into its two prime factors",
		Long: "Split a semiprime into its two prime factors by parallel trial division.\n" +
			"Exits 0 when no split exists; only malformed input and failures exit non-zero.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, config.FlagConfig, "", "YAML config file")
	f.IntVar(&opts.cfg.Workers, config.FlagWorkers, opts.cfg.Workers, "workers per chunk (0 = GOMAXPROCS)")
	f.IntVar(&opts.cfg.ChunkSize, config.FlagChunkSize, opts.cfg.ChunkSize, "divisor search chunk size")
	f.IntVar(&opts.cfg.ProgressChunkSize, config.FlagProgressChunkSize, opts.cfg.ProgressChunkSize, "divisor search chunk size with --progress")
	f.IntVar(&opts.cfg.TrialChunkSize, config.FlagTrialChunkSize, opts.cfg.TrialChunkSize, "primality trial division chunk size")
	f.StringVar(&opts.cfg.LogLevel, config.FlagLogLevel, opts.cfg.LogLevel, "log level (debug, info, warn, error)")
	f.BoolVar(&opts.showProgress, config.FlagProgress, false, "log progress once per percent of the search range")
	f.BoolVar(&opts.dev, config.FlagDev, false, "human readable console logs")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	if opts.configPath == "" {
		return opts.cfg.Normalize(), nil
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	if f.Changed(config.FlagWorkers) {
		cfg.Workers = opts.cfg.Workers
	}
	if f.Changed(config.FlagChunkSize) {
		cfg.ChunkSize = opts.cfg.ChunkSize
	}
	if f.Changed(config.FlagProgressChunkSize) {
		cfg.ProgressChunkSize = opts.cfg.ProgressChunkSize
	}
	if f.Changed(config.FlagTrialChunkSize) {
		cfg.TrialChunkSize = opts.cfg.TrialChunkSize
	}
	if f.Changed(config.FlagLogLevel) {
		cfg.LogLevel = opts.cfg.LogLevel
	}
	return cfg.Normalize(), nil
}

func newLogger(cfg config.Config, dev bool) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if dev {
		consoleCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			lvl,
		)
		return zap.New(consoleCore), nil
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func run(cmd *cobra.Command, arg string, opts options) error {
	n, err := factor.ParseDecimal(arg)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, opts.dev)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := cmd.Context()
	factorOpts := []factor.Option{factor.WithConfig(cfg), factor.WithLogger(logger)}

	var res *factor.Result
	if opts.showProgress {
		report, teardown := progress.WithZapReporter(ctx, 16, logger)
		res, err = factor.FactorizeWithProgress(ctx, n, report, factorOpts...)
		teardown()
	} else {
		res, err = factor.Factorize(ctx, n, factorOpts...)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res == nil {
		fmt.Fprintf(out, "%s: no two-prime factorization found\n", n)
		return nil
	}
	fmt.Fprintf(out, "%s = %s\n", n, res)
	return nil
}
