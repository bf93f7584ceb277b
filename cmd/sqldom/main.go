package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sqldom/sqldom/cli"
	"github.com/sqldom/sqldom/config"
	"github.com/sqldom/sqldom/display"
)

func main() {
	cfg, err := config.LoadConfig("sqldom.yml")
	if err != nil {
		// fall back to defaults when no config file is present
		cfg = config.LoadDefaultConfig()
	}

	logger, err := config.SetupLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to setup logger: %v", err))
	}

	ctx := context.Background()
	ctx = context.WithValue(ctx, "logger", logger)
	ctx = display.WithDisplay(ctx, display.New())

	if err := cli.ExecuteWithContext(ctx); err != nil {
		os.Exit(1)
	}
}
