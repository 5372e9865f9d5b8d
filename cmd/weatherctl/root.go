package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/dashboard"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// servicesFunc builds the services for one command invocation. Logs go to
// stderr so stdout carries only results.
type servicesFunc func(ctx context.Context, verbose bool, stderr io.Writer) (*dashboard.Services, error)

func loadServices(ctx context.Context, verbose bool, stderr io.Writer) (*dashboard.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	return dashboard.New(ctx, cfg, cfg.NewLoggerTo(stderr))
}

type rootOptions struct {
	verbose bool
	format  string
}

func newRootCmd(newServices servicesFunc) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "weatherctl",
		Short:         "Weather dashboard command line client",
		Long:          "weatherctl queries current weather, forecasts and place suggestions using the same configuration as the API server.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging on stderr")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "o", formatJSON, "Output format: json or text")

	cmd.AddCommand(newCurrentCmd(opts, newServices))
	cmd.AddCommand(newSearchCmd(opts, newServices))

	return cmd
}

func (o *rootOptions) validate() error {
	switch o.format {
	case formatJSON, formatText:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", o.format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
