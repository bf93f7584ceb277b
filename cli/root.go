package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/sqldom/sqldom/config"
	"github.com/sqldom/sqldom/display"
	"github.com/sqldom/sqldom/pkg/errors"
)

var rootCmd = &cobra.Command{
	Use:   "sqldom",
	Short: "Parse, format and evaluate SQL statements",
	Long: `sqldom parses a constrained SQL dialect into a document object model,
prints statements back in canonical form, and evaluates expressions
against flat records of named values.`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithContext runs the root command with context containing display and logger
func ExecuteWithContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getLoggerFromContext retrieves the logger from context
func getLoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value("logger").(zerolog.Logger); ok {
		return &logger
	}
	return nil
}

// getDisplayFromContext retrieves the display instance from context
func getDisplayFromContext(ctx context.Context) display.Display {
	return display.GetDisplayOrDefault(ctx)
}

// loadToolConfig finds the tool configuration, falling back to defaults when
// no config file is present
func loadToolConfig() *config.Config {
	cfg, err := config.LoadConfig("sqldom.yml")
	if err != nil {
		return config.LoadDefaultConfig()
	}
	return cfg
}

// checkInputSize enforces the configured input bound before any parsing
func checkInputSize(cfg *config.Config, input string) error {
	if max := cfg.Parser.MaxStatementSize; max > 0 && len(input) > max {
		return errors.Newf(errors.CommonInvalidInput,
			"input is %d bytes, exceeding the configured limit of %d", len(input), max)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
