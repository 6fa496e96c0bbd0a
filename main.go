package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/medbill/amount-detection/client"
	"github.com/medbill/amount-detection/config"
	"github.com/medbill/amount-detection/handler"
	"github.com/medbill/amount-detection/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// External classifier is optional: without an API key the pipeline runs
	// on the rule fallback alone
	var classifier service.Classifier
	gemini, err := service.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ClassifyTimeout)
	if err != nil {
		log.Printf("Warning: Gemini classifier unavailable: %v. Using rule-based classification only.", err)
	} else {
		defer gemini.Close()
		classifier = gemini
	}

	// Initialize service layer
	extractionService := service.NewExtractionService(cfg, tesseractClient, pdfProcessor, classifier)

	// Initialize handler layer
	amountHandler := handler.NewAmountHandler(extractionService, cfg.MaxFileSize, classifier != nil)

	// Setup Gin router
	router := gin.Default()

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", amountHandler.Health)

	// API routes
	api := router.Group("/api/v1")
	{
		amounts := api.Group("/amounts")
		{
			amounts.POST("/extract", amountHandler.ExtractAmounts)
			amounts.POST("/extract-text", amountHandler.ExtractAmountsJSON)
		}

		debug := api.Group("/debug")
		{
			debug.POST("/tokens", amountHandler.DebugTokens)
			debug.POST("/normalize", amountHandler.DebugNormalize)
			debug.POST("/label", amountHandler.DebugLabel)
		}
	}

	// Start server
	log.Printf("Starting Medical Amount Detection Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
