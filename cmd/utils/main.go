package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/concierge/cmd/utils/internal/commands"
	"github.com/aquamarinepk/aqm"
)

const (
	appName    = "concierge-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := aqm.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed successfully")

	case "clear-snapshots":
		if err := commands.ClearSnapshots(ctx, config, logger); err != nil {
			log.Fatalf("Clear snapshots failed: %v", err)
		}
		logger.Info("Snapshots cleared successfully")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Concierge catalog utility commands

Usage:
  %s <command> [options]

Commands:
  seed-demo        Write demo catalog snapshots (warm start without a backend)
  clear-snapshots  Remove all stored catalog snapshots
  version          Print version information
  help             Show this help message

Environment Variables:
  UTILS_MONGO_URL    MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_MONGO_NAME   Snapshot database name (default: concierge_catalog)
  UTILS_LOG_LEVEL    Log level: debug, info, warn, error (default: info)

Examples:
  %s seed-demo
  UTILS_MONGO_URL=mongodb://localhost:27017 %s clear-snapshots

`, appName, appName, appName, appName)
}
