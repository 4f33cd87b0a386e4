package main

import (
	"os"

	"github.com/yigit/admission/internal/pkg/logger"
	"github.com/yigit/admission/internal/server"
)

// @title Admission API
// @version 1.0
// @description University aspiration registration, fee payment and staff approval.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token, optionally prefixed with "Bearer "

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup errors are already logged inside NewServer
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
