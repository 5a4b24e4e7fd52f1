package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/aadhaar-autofill/config"
	"github.com/Aashish23092/aadhaar-autofill/logger"
)

var version = "1.0.0"

// cfg is loaded by main before Execute runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "aadhaar-autofill",
	Short: "Aadhaar OCR autofill service",
	Long: `Reads Aadhaar cards and e-Aadhaar letters (images or PDFs) and extracts
the fields needed to prefill a registration form: Aadhaar number, name,
gender, date of birth, mobile number and pincode.

Run "serve" for the HTTP API or "extract" to process a single file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(c *config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
