package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Aashish23092/aadhaar-autofill/cmd"
	"github.com/Aashish23092/aadhaar-autofill/config"
	"github.com/Aashish23092/aadhaar-autofill/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := config.LoadConfig()

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Printf("Warning: invalid log settings, using defaults: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	cmd.Execute(cfg)
}
