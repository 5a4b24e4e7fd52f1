package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Aashish23092/aadhaar-autofill/client"
	"github.com/Aashish23092/aadhaar-autofill/config"
	"github.com/Aashish23092/aadhaar-autofill/handler"
	"github.com/Aashish23092/aadhaar-autofill/logger"
	"github.com/Aashish23092/aadhaar-autofill/repository"
	"github.com/Aashish23092/aadhaar-autofill/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the Aadhaar autofill HTTP API.

Configuration is read from the environment (and .env):
  SERVER_PORT          - listen port (default 8080)
  OCR_ENGINES          - comma separated engine order (default paddle,tesseract)
  PADDLEOCR_API_URL    - PaddleOCR hub serving endpoint
  TESSDATA_PREFIX      - Tesseract traineddata directory
  DB_DRIVER / DB_URL   - person store: sqlite (default) or postgres`,
	Example: `  aadhaar-autofill serve
  SERVER_PORT=9000 OCR_ENGINES=tesseract aadhaar-autofill serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")
	shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	persons, err := repository.Open(ctx, cfg, logger.WithComponent("repository"))
	if err != nil {
		return fmt.Errorf("failed to open person store: %w", err)
	}
	defer persons.Close()

	aadhaarService := service.NewAadhaarService(
		client.NewImageFetcher(cfg.FetchTimeout, cfg.MaxImageBytes),
		newRecognizers(cfg),
		service.NewPDFProcessor(),
		persons,
		logger.WithComponent("aadhaar"),
	)
	personService := service.NewPersonService(persons, logger.WithComponent("person"))

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(
		handler.NewAadhaarHandler(aadhaarService, cfg.MaxImageBytes, logger.WithComponent("handler")),
		handler.NewPersonHandler(personService, logger.WithComponent("handler")),
		cfg.CORSAllowedOrigin,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.ServerPort).
			Strs("ocr_engines", cfg.OCREngines).
			Str("db_driver", cfg.DBDriver).
			Msg("Starting Aadhaar autofill service")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRecognizers builds the OCR chain in OCR_ENGINES order.
func newRecognizers(c *config.Config) []service.TextRecognizer {
	var recognizers []service.TextRecognizer
	for _, engine := range c.OCREngines {
		switch engine {
		case config.EnginePaddle:
			recognizers = append(recognizers, client.NewPaddleClient(c.PaddleAPIURL, c.FetchTimeout))
		case config.EngineTesseract:
			recognizers = append(recognizers, client.NewTesseractClient(c.TesseractDataPath, c.TesseractLang, c.OCRUpscale))
		}
	}
	return recognizers
}
