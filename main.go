package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"loandash/internal"
	"loandash/internal/config"
	"loandash/internal/dashboard"
	"loandash/internal/source"
	"loandash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The table is loaded once; every request reads the same immutable copy.
	ds, err := source.Load(ctx, appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to load loan dataset: %v", err)
	}

	builder, err := dashboard.NewBuilder(ds, dashboard.Options{
		HistogramBins:    appConfig.Dashboard.HistogramBins,
		DefaultCondition: appConfig.Dashboard.DefaultCondition,
	})
	if err != nil {
		log.Fatalf("Failed to prepare dashboard: %v", err)
	}

	server, err := ui.NewServer(builder, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("🚀 Starting loan dashboard on port %s", appConfig.Server.Port)
	if err := server.Start(ctx, ":"+appConfig.Server.Port, appConfig.Server.ShutdownTimeout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server exited")
}
