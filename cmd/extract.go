package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/aadhaar-autofill/client"
	"github.com/Aashish23092/aadhaar-autofill/dto"
	"github.com/Aashish23092/aadhaar-autofill/logger"
	"github.com/Aashish23092/aadhaar-autofill/repository"
	"github.com/Aashish23092/aadhaar-autofill/service"
	"github.com/Aashish23092/aadhaar-autofill/utils"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract Aadhaar fields from an image, PDF or OCR text dump",
	Long: `Extract Aadhaar fields from a single file and print them as JSON.

Images and PDFs go through the same pipeline as the HTTP API (QR code,
PDF text layer, then the configured OCR engines). With --text the file is
treated as already recognized text, one OCR line per line.`,
	Example: `  # Card photo, member rules
  aadhaar-autofill extract card.jpg

  # Password protected e-Aadhaar, nominee rules with person store lookup
  aadhaar-autofill extract eaadhaar.pdf --password RAME1990 --owner nominee --lookup

  # Re-parse a saved OCR dump with the labelled-date strategy
  aadhaar-autofill extract lines.txt --text --strategy context`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("text", false, "Treat the file as OCR text lines")
	extractCmd.Flags().String("strategy", "last", "DOB strategy for --text: last or context")
	extractCmd.Flags().String("owner", dto.OwnerMember, "member or nominee")
	extractCmd.Flags().String("password", "", "PDF password")
	extractCmd.Flags().Bool("lookup", false, "Look nominees up in the person store")
	extractCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	textMode, _ := cmd.Flags().GetBool("text")
	strategy, _ := cmd.Flags().GetString("strategy")
	owner, _ := cmd.Flags().GetString("owner")
	password, _ := cmd.Flags().GetString("password")
	lookup, _ := cmd.Flags().GetBool("lookup")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	if textMode {
		rec, err := parseTextDump(string(data), strategy)
		if err != nil {
			return err
		}
		return printJSON(cmd, &dto.AadhaarOCRResponse{AadhaarRecord: rec, Source: dto.SourceOCR})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	var persons repository.PersonRepository
	if lookup {
		persons, err = repository.Open(ctx, cfg, logger.WithComponent("repository"))
		if err != nil {
			return fmt.Errorf("failed to open person store: %w", err)
		}
		defer persons.Close()
	}

	svc := service.NewAadhaarService(
		client.NewImageFetcher(cfg.FetchTimeout, cfg.MaxImageBytes),
		newRecognizers(cfg),
		service.NewPDFProcessor(),
		persons,
		logger.WithComponent("aadhaar"),
	)

	mimeType := client.DetectMIME(data)
	log.Info().
		Str("file", args[0]).
		Str("mime", mimeType).
		Str("owner", owner).
		Msg("Extracting Aadhaar fields")

	result, err := svc.ExtractFromDocument(ctx, data, mimeType, password, owner)
	if err != nil {
		return err
	}
	if result.IsEmpty() {
		log.Warn().Msg("No Aadhaar fields found")
	}

	return printJSON(cmd, result)
}

func parseTextDump(text, strategy string) (dto.AadhaarRecord, error) {
	dob, err := dobStrategy(strategy)
	if err != nil {
		return dto.AadhaarRecord{}, err
	}
	fields, err := utils.ExtractFields(utils.SplitLines(text), dob)
	if err != nil {
		return dto.AadhaarRecord{}, err
	}
	return fields.Record(), nil
}

func dobStrategy(name string) (utils.DOBStrategy, error) {
	switch name {
	case "", "last":
		return utils.DOBLastMatch, nil
	case "context":
		return utils.DOBByContext, nil
	}
	return nil, fmt.Errorf("unknown DOB strategy %q (want last or context)", name)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
