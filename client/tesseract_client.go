package client

import (
	"fmt"
	"log"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient wraps gosseract for bill images. A fresh gosseract client
// is created per call; the library is not safe for concurrent reuse.
type TesseractClient struct {
	dataPath string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
	}
}

// ExtractTextFromBytes runs OCR over an image held in memory and returns the
// text with an average word confidence. An unreadable image yields empty text
// and zero confidence, not an error; the pipeline treats that as "no text".
func (tc *TesseractClient) ExtractTextFromBytes(data []byte, ext string) (string, float64, error) {
	tempFile, err := os.CreateTemp("", "bill-*"+ext)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return "", 0, fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	return tc.extractTextAndQuality(tempFile.Name())
}

func (tc *TesseractClient) extractTextAndQuality(filePath string) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.dataPath)
	if err := client.SetLanguage("eng"); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(filePath); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		// unreadable image: report "no text" rather than failing the request
		log.Printf("tesseract could not read image: %v", err)
		return "", 0, nil
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}
	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}

	return text, avgConf, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
