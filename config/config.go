package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	MaxFileSize       int64

	GeminiAPIKey    string
	GeminiModel     string
	ClassifyTimeout time.Duration

	DefaultCurrency string
	// ContextRadius is how many characters before an amount the label search covers
	ContextRadius int
	// LabelConfidenceThreshold marks an amount as weakly labeled below this score
	LabelConfidenceThreshold float64
	// LowConfidenceFraction: above this share of weak labels the result is low_confidence
	LowConfidenceFraction float64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	defaultCurrency := os.Getenv("DEFAULT_CURRENCY")
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}

	return &Config{
		ServerPort:               serverPort,
		TesseractDataPath:        tesseractDataPath,
		MaxFileSize:              envInt64("MAX_FILE_SIZE", 10*1024*1024), // 10 MB
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiModel:              geminiModel,
		ClassifyTimeout:          time.Duration(envInt64("CLASSIFY_TIMEOUT_SECONDS", 15)) * time.Second,
		DefaultCurrency:          defaultCurrency,
		ContextRadius:            int(envInt64("CONTEXT_RADIUS", 40)),
		LabelConfidenceThreshold: envFloat("LABEL_CONFIDENCE_THRESHOLD", 0.3),
		LowConfidenceFraction:    envFloat("LOW_CONFIDENCE_FRACTION", 0.5),
	}
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
