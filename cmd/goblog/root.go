package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MrEthical07/goBlog/internal/envcfg"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFiles  []string
	logFormat string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "goblog",
		Short:         "A small multi-user blog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json", "log output format: json or text")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "minimum log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd(opts), newMigrateCmd(opts))
	return cmd
}

func (o *rootOptions) settings() (envcfg.Settings, error) {
	return envcfg.Load(o.envFiles...)
}

func (o *rootOptions) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", o.logLevel)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(o.logFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", o.logFormat)
	}
}
