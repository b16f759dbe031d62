// Command etpsizing sizes an effluent treatment plant from a scenario file and
// prints, exports or stores the settled result.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pumped-fn/etp-sizing/extensions"
	"github.com/pumped-fn/etp-sizing/internal/scenario"
	"github.com/pumped-fn/etp-sizing/pkg/engine"
)

var (
	verbose      bool
	scenarioPath string
	metricsPath  string

	logger   *zap.Logger
	registry *prometheus.Registry
	// metered is set once a session reports into registry.
	metered bool
)

var rootCmd = &cobra.Command{
	Use:           "etpsizing",
	Short:         "Size the equipment of an industrial effluent treatment plant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		registry = prometheus.NewRegistry()
		metered = false
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		if metricsPath == "" || !metered {
			return nil
		}
		if err := prometheus.WriteToTextfile(metricsPath, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every group evaluation")
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "file", "f", "", "scenario file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVar(&metricsPath, "metrics", "", "write prometheus metrics to this file on exit")

	rootCmd.AddCommand(computeCmd, valuesCmd, graphCmd, exportCmd, historyCmd)
}

// openSession builds a session and replays the scenario, if any, onto it.
func openSession() (*engine.Engine, error) {
	var file *scenario.File
	if scenarioPath != "" {
		f, err := scenario.Load(scenarioPath)
		if err != nil {
			return nil, err
		}
		file = f
	}

	opts := []engine.Option{
		engine.WithExtensions(
			extensions.NewLoggingExtension(logger),
			extensions.NewGraphDebugExtension(logger),
		),
	}
	if metricsPath != "" {
		opts = append(opts, engine.WithExtensions(extensions.NewMetricsExtension(registry)))
		metered = true
	}
	if file != nil && file.Session != "" {
		opts = append(opts, engine.WithSessionID(file.Session))
	}

	e, err := engine.New(opts...)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return e, nil
	}

	changed, err := file.Apply(e)
	if err != nil {
		_ = e.Dispose()
		return nil, fmt.Errorf("apply %s: %w", scenarioPath, err)
	}
	logger.Info("scenario applied",
		zap.String("scenario", file.Name),
		zap.String("session", e.SessionID()),
		zap.Int("edits", changed),
		zap.Uint64("version", e.Version()),
	)
	return e, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
