package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/orbiter/internal/buildinfo"
	"github.com/dmitrijs2005/orbiter/internal/logging"
	"github.com/dmitrijs2005/orbiter/internal/server"
	"github.com/dmitrijs2005/orbiter/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewZerologLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
