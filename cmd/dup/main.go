// Package main is the entry point for dup, the disk usage poller.
// It resolves configuration, sets up logging, and runs the poll loop
// until the process receives SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Guliveer/dup/internal/collector"
	"github.com/Guliveer/dup/internal/config"
	"github.com/Guliveer/dup/internal/poller"
	"github.com/Guliveer/dup/internal/sender"
)

// version is set at build time via -ldflags.
var version = "dev"

// options holds the parsed command line.
type options struct {
	configPath  string
	showVersion bool
	cli         config.CLIOverrides
}

// parseFlags registers the long and short form of every option on fs.
func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "Path to YAML configuration file")
	fs.BoolVar(&o.showVersion, "version", false, "Show version and exit")

	fs.StringVar(&o.cli.Address, "addr", "", "Fluentd host:port (default "+config.DefaultAddress+")")
	fs.StringVar(&o.cli.Address, "a", "", "Shorthand for -addr")
	fs.StringVar(&o.cli.Tag, "tag", "", "Tag to use for Fluentd logging")
	fs.StringVar(&o.cli.Tag, "t", "", "Shorthand for -tag")
	fs.StringVar(&o.cli.Path, "path", "", "Path to check for disk usage")
	fs.StringVar(&o.cli.Path, "p", "", "Shorthand for -path")
	fs.Var(&o.cli.Interval, "interval", "Interval to get disk usage (e.g. 30s, 5m, or seconds)")
	fs.Var(&o.cli.Interval, "i", "Shorthand for -interval")
	fs.BoolVar(&o.cli.Off, "off", false, "Turn off Fluentd logging")
	fs.Var(&o.cli.Timeout, "timeout", "Collector connect/write timeout (default 5s)")
	fs.BoolVar(&o.cli.Debug, "debug", false, "Print every record as indented JSON to stdout")
	fs.StringVar(&o.cli.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&o.cli.LogFile, "log-file", "", "Also write JSON logs to this file")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

// resolveConfig loads and validates configuration for the parsed options.
func resolveConfig(o options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadLayered(o.cli, o.configPath)
	} else {
		cfg, err = config.LoadLayered(o.cli)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	// A missing .env is normal; the environment is used as-is.
	_ = godotenv.Load()

	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dup: %v\n", err)
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("dup %s\n", version)
		os.Exit(0)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dup main ERROR: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Startup failed", zap.Error(err))
	}
	logger.Info("dup stopped")
}

// run wires the collector, sender and poller, then blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting dup",
		zap.String("version", version),
		zap.String("collector", cfg.Collector.Address),
		zap.String("tag", cfg.Collector.Tag),
		zap.String("path", cfg.Target.Path),
		zap.Duration("interval", cfg.Target.Interval.Duration),
		zap.Bool("forwarding", cfg.ForwardingEnabled()))

	col := collector.NewStatvfsCollector(cfg.Target.Path, nil, logger)
	if !col.IsAvailable() {
		return collector.ErrUnsupportedPlatform
	}

	if mount, err := collector.ResolveMount(ctx, cfg.Target.Path); err != nil {
		logger.Warn("Could not resolve mount point", zap.String("path", cfg.Target.Path), zap.Error(err))
	} else {
		logger.Info("Watching filesystem",
			zap.String("mount", mount.Mountpoint),
			zap.String("device", mount.Device),
			zap.String("fstype", mount.Fstype))
	}

	// Keep snd a nil interface when forwarding is off.
	var snd poller.Sender
	if cfg.ForwardingEnabled() {
		snd = sender.New(cfg, logger)
	}

	var pollerOpts []poller.Option
	if cfg.Debug {
		pollerOpts = append(pollerOpts, poller.WithDebugWriter(os.Stdout))
	}

	poller.New(col, snd, cfg.Target.Interval.Duration, logger, pollerOpts...).Run(ctx)
	return nil
}

// initLogger creates a zap logger based on the configuration.
// Console output goes to stderr so stdout carries only debug records;
// an optional JSON log file is rotated by lumberjack.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.Logging.File != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.Logging.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				Compress:   true,
			}),
			level,
		)
		cores = append(cores, fileCore)
	}

	return zap.New(zapcore.NewTee(cores...))
}
