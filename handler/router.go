package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/dto"
	"github.com/Aashish23092/aadhaar-autofill/logger"
)

const requestIDHeader = "X-Request-ID"

// NewRouter builds the gin engine with every API route.
func NewRouter(aadhaar *AadhaarHandler, persons *PersonHandler, corsOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS(corsOrigin))

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Aadhaar Autofill",
		})
	})

	api := router.Group("/api/v1")
	{
		ocr := api.Group("/ocr")
		{
			ocr.POST("/aadhaar", aadhaar.ExtractFromURL)
			ocr.POST("/aadhaar/upload", aadhaar.ExtractFromUpload)
		}

		person := api.Group("/person")
		{
			person.POST("/submit", persons.Submit)
			person.GET("/by-aadhaar/:aadhaar_number", persons.GetByAadhaar)
		}
	}

	return router
}

// RequestLogger tags each request with an id and logs one line when done.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		log := logger.WithRequestID(requestID)
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// CORS allows the single configured frontend origin.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" && c.GetHeader("Origin") == origin {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func sendError(c *gin.Context, log zerolog.Logger, code string, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = message + ": " + err.Error()
		log.Error().Err(err).Int("status", statusCode).Msg(message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}
