package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"strings"

	"github.com/medbill/amount-detection/config"
	"github.com/medbill/amount-detection/dto"
	"github.com/medbill/amount-detection/utils"
)

// maxInputLength caps direct text input to keep request processing bounded
const maxInputLength = 10000

// OCRClient is the text-extraction collaborator. It returns empty text for
// unreadable images rather than failing the request.
type OCRClient interface {
	ExtractTextFromBytes(data []byte, ext string) (text string, confidence float64, err error)
}

// ExtractionService runs the five-stage amount pipeline. All stages share one
// immutable options value, so instances are safe for concurrent requests.
type ExtractionService struct {
	opts       utils.Options
	tokenizer  *utils.Tokenizer
	normalizer *utils.Normalizer
	matcher    *utils.Matcher
	assembler  *utils.Assembler
	remote     Classifier // external classifier; nil when disabled
	fallback   Classifier
	ocr        OCRClient
	pdf        PDFProcessor
}

func NewExtractionService(cfg *config.Config, ocr OCRClient, pdf PDFProcessor, remote Classifier) *ExtractionService {
	opts := utils.DefaultOptions()
	opts.ContextRadius = cfg.ContextRadius
	opts.DefaultCurrency = cfg.DefaultCurrency
	opts.LabelConfidenceThreshold = cfg.LabelConfidenceThreshold
	opts.LowConfidenceFraction = cfg.LowConfidenceFraction

	return &ExtractionService{
		opts:       opts,
		tokenizer:  utils.NewTokenizer(opts),
		normalizer: utils.NewNormalizer(opts),
		matcher:    utils.NewMatcher(opts),
		assembler:  utils.NewAssembler(opts),
		remote:     remote,
		fallback:   NewRuleClassifier(),
		ocr:        ocr,
		pdf:        pdf,
	}
}

// ExtractFromText runs the pipeline over direct text input
func (s *ExtractionService) ExtractFromText(ctx context.Context, text string) (dto.PipelineResult, error) {
	return s.run(ctx, capLength(text))
}

// ExtractFromFile extracts document text (PDF text layer, or OCR for images
// and scanned PDFs), adds a payment-QR amount hint when one is present, and
// runs the pipeline. An OCR transport failure is returned as an error; the
// caller surfaces it as an "error" status with no partial amounts.
func (s *ExtractionService) ExtractFromFile(ctx context.Context, data []byte, filename string) (dto.PipelineResult, error) {
	text, err := s.documentText(data, filename)
	if err != nil {
		return dto.PipelineResult{}, err
	}
	return s.run(ctx, capLength(text))
}

func (s *ExtractionService) documentText(data []byte, filename string) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return s.pdfText(data)
	}

	text, confidence, err := s.ocr.ExtractTextFromBytes(data, fileExt(filename))
	if err != nil {
		return "", fmt.Errorf("image OCR failed: %w", err)
	}
	log.Printf("OCR extracted %d characters (confidence %.1f)", len(text), confidence)

	// a payment QR on the bill carries the transaction amount; append it as
	// its own record so the pipeline can pick it up
	if img, _, decErr := image.Decode(bytes.NewReader(data)); decErr == nil {
		if hint, ok := DecodeUPIAmount(img); ok {
			log.Printf("Payment QR detected, amount hint: %s", hint)
			text = text + "\nUPI QR paid: Rs " + hint
		}
	}

	return text, nil
}

func (s *ExtractionService) pdfText(data []byte) (string, error) {
	text, err := s.pdf.ExtractText(data)
	if err != nil {
		log.Printf("PDF text extraction failed: %v", err)
	}
	if len(strings.TrimSpace(text)) >= 20 {
		return text, nil
	}

	// scanned PDF: OCR the page images
	log.Println("PDF has no usable text layer, running OCR on page images")
	images, err := s.pdf.ExtractImages(data)
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("scanned PDF image extraction failed: %w", err)
	}

	var combined strings.Builder
	for i, img := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			log.Printf("failed to encode page %d: %v", i+1, err)
			continue
		}
		pageText, _, err := s.ocr.ExtractTextFromBytes(buf.Bytes(), ".png")
		if err != nil {
			log.Printf("OCR failed for page %d: %v", i+1, err)
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")

		if hint, ok := DecodeUPIAmount(img); ok {
			combined.WriteString("UPI QR paid: Rs " + hint + "\n")
		}
	}
	if combined.Len() == 0 {
		return "", fmt.Errorf("no text could be extracted from the PDF")
	}
	return combined.String(), nil
}

// run executes stages 1-5 in order. It returns an error only when the request
// context was cancelled; every other outcome is encoded in the result status.
func (s *ExtractionService) run(ctx context.Context, text string) (dto.PipelineResult, error) {
	tokens := s.tokenizer.Tokenize(text)
	log.Printf("Step 1: %d numeric candidates", len(tokens))

	normalized, rejectedCount := s.normalizer.NormalizeAll(tokens)
	log.Printf("Step 2: %d amounts normalized, %d rejected", len(normalized), rejectedCount)

	labeled := s.matcher.Label(text, normalized)

	classified := s.classify(ctx, text, labeled)
	if err := ctx.Err(); err != nil {
		return dto.PipelineResult{}, err // cancelled: discard partial results
	}

	result := s.assembler.Assemble(classified, len(tokens))
	log.Printf("Pipeline done: %d amounts, status=%s", len(result.Amounts), result.Status)
	return result, nil
}

// classify prefers the external classifier and falls back to the rule table
// on any failure, so classification never discards an amount.
func (s *ExtractionService) classify(ctx context.Context, text string, labeled []dto.LabeledAmount) []dto.ClassifiedAmount {
	if len(labeled) == 0 {
		return nil
	}

	if s.remote != nil {
		classified, err := s.remote.Classify(ctx, text, labeled)
		if err == nil {
			return classified
		}
		log.Printf("%s classification failed: %v, using rule fallback", s.remote.Name(), err)
	}

	classified, _ := s.fallback.Classify(ctx, text, labeled)
	return classified
}

// Tokens is the stage-1 debug view
func (s *ExtractionService) Tokens(text string) []dto.RawToken {
	return s.tokenizer.Tokenize(capLength(text))
}

// Normalized is the stage-2 debug view
func (s *ExtractionService) Normalized(text string) ([]dto.NormalizedAmount, int) {
	return s.normalizer.NormalizeAll(s.tokenizer.Tokenize(capLength(text)))
}

// Labeled is the stage-3 debug view
func (s *ExtractionService) Labeled(text string) []dto.LabeledAmount {
	text = capLength(text)
	normalized, _ := s.normalizer.NormalizeAll(s.tokenizer.Tokenize(text))
	return s.matcher.Label(text, normalized)
}

func capLength(text string) string {
	if len(text) > maxInputLength {
		return text[:maxInputLength]
	}
	return text
}

func fileExt(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ".png"
}
