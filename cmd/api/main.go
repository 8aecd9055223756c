package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
	"github.com/Dinesh259/Free-Solutions/internal/server"
)

func main() {
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(context.Background(), *configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
