package main

import (
	"flag"
	"os"

	"github.com/yigit/collegeerp/internal/bootstrap"
	"github.com/yigit/collegeerp/internal/pkg/logger"
	"github.com/yigit/collegeerp/internal/server"
)

// @title College ERP API
// @version 1.0
// @description Attendance, marks and timetables for departments, classes and courses.

// @contact.name ERP Support
// @contact.email erp-support@college.edu

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description API key issued by /api/login, sent as "Token <key>"

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
