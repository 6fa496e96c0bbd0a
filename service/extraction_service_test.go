package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medbill/amount-detection/config"
	"github.com/medbill/amount-detection/dto"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultCurrency:          "INR",
		ContextRadius:            40,
		LabelConfidenceThreshold: 0.3,
		LowConfidenceFraction:    0.5,
	}
}

// failingClassifier simulates an external classifier outage
type failingClassifier struct{}

func (failingClassifier) Name() string { return "ai" }

func (failingClassifier) Classify(context.Context, string, []dto.LabeledAmount) ([]dto.ClassifiedAmount, error) {
	return nil, errors.New("upstream unavailable")
}

// echoClassifier stands in for a healthy external classifier
type echoClassifier struct{}

func (echoClassifier) Name() string { return "ai" }

func (echoClassifier) Classify(_ context.Context, _ string, amounts []dto.LabeledAmount) ([]dto.ClassifiedAmount, error) {
	out := make([]dto.ClassifiedAmount, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, dto.ClassifiedAmount{
			LabeledAmount:        a,
			Type:                 dto.TypeTotalBill,
			Name:                 a.Label,
			ClassificationSource: dto.SourceAI,
		})
	}
	return out, nil
}

func TestExtractFromTextFullBill(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(),
		"Total Amount: Rs 4,000 | Advance: Rs 2,000 | Balance Due: Rs 2,000")

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusOK, result.Status)
	assert.Equal(t, "INR", result.Currency)
	assert.Len(t, result.Amounts, 3)

	assert.Equal(t, 4000.0, result.Amounts[0].Value)
	assert.Equal(t, dto.TypeTotalBill, result.Amounts[0].Type)
	assert.Equal(t, 2000.0, result.Amounts[1].Value)
	assert.Equal(t, dto.TypePaid, result.Amounts[1].Type)
	assert.Equal(t, 2000.0, result.Amounts[2].Value)
	assert.Equal(t, dto.TypeDue, result.Amounts[2].Type)

	for _, a := range result.Amounts {
		assert.Equal(t, dto.SourceRule, a.ClassificationSource)
	}
}

func TestExtractFromTextLineItems(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(),
		"Consultation: Rs 500\nMedicine: Rs 300\nTotal: Rs 800")

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusOK, result.Status)
	assert.Len(t, result.Amounts, 3)
	assert.Equal(t, dto.TypeConsultation, result.Amounts[0].Type)
	assert.Equal(t, dto.TypeMedicine, result.Amounts[1].Type)
	assert.Equal(t, dto.TypeTotalBill, result.Amounts[2].Type)
}

func TestExtractFromTextNoAmounts(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(), "Thank you for your visit")

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusNoAmountsFound, result.Status)
	assert.Empty(t, result.Amounts)
}

func TestExtractFromTextNormalizationFailed(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	// a digit-bearing candidate that cannot be repaired into a number
	result, err := svc.ExtractFromText(context.Background(), "ref l2O3qX")

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusNormalizationFailed, result.Status)
	assert.Empty(t, result.Amounts)
}

func TestExtractFromTextBareAmountLowConfidence(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(), "4000")

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusLowConfidence, result.Status)
	assert.Len(t, result.Amounts, 1)
	assert.Equal(t, 4000.0, result.Amounts[0].Value)
	assert.Equal(t, dto.TypeOther, result.Amounts[0].Type)
	assert.Equal(t, dto.SourceDefault, result.Amounts[0].ClassificationSource)
}

func TestExtractRepairsOCRCorruption(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(), "Paid: Rs. l,OOO")

	assert.NoError(t, err)
	assert.Len(t, result.Amounts, 1)
	assert.Equal(t, 1000.0, result.Amounts[0].Value)
	assert.Equal(t, dto.TypePaid, result.Amounts[0].Type)
	assert.Equal(t, "Rs. l,OOO", result.Amounts[0].RawText, "provenance keeps the uncorrected text")
}

func TestExtractDeduplicatesRepeatedEntries(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(), "Total: Rs 500 | Total: Rs 500")

	assert.NoError(t, err)
	assert.Len(t, result.Amounts, 1)
}

func TestClassifierFallbackOnFailure(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, failingClassifier{})

	result, err := svc.ExtractFromText(context.Background(), "Total Amount: Rs 4,000")

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusOK, result.Status)
	assert.Len(t, result.Amounts, 1)
	assert.Equal(t, dto.TypeTotalBill, result.Amounts[0].Type)
	assert.Equal(t, dto.SourceRule, result.Amounts[0].ClassificationSource)
}

func TestClassifierRemotePreferred(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, echoClassifier{})

	result, err := svc.ExtractFromText(context.Background(), "Total Amount: Rs 4,000")

	assert.NoError(t, err)
	assert.Len(t, result.Amounts, 1)
	assert.Equal(t, dto.SourceAI, result.Amounts[0].ClassificationSource)
}

func TestExtractCancelledContext(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ExtractFromText(ctx, "Total Amount: Rs 4,000")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResponseEnvelope(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)

	result, err := svc.ExtractFromText(context.Background(), "Total Amount: Rs 4,000")
	assert.NoError(t, err)

	resp := result.ToResponse()
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, dto.StatusOK, resp.Status)
	assert.Len(t, resp.Amounts, 1)
	assert.Equal(t, "text: 'Rs 4,000'", resp.Amounts[0].Source)
	assert.Equal(t, dto.TypeTotalBill, resp.Amounts[0].Type)
	assert.Equal(t, 4000.0, resp.Amounts[0].Value)
}

func TestDebugViews(t *testing.T) {
	svc := NewExtractionService(testConfig(), nil, nil, nil)
	text := "Total Amount: Rs 4,000"

	tokens := svc.Tokens(text)
	assert.Len(t, tokens, 1)
	assert.Equal(t, "Rs 4,000", tokens[0].Text)

	normalized, rejected := svc.Normalized(text)
	assert.Len(t, normalized, 1)
	assert.Zero(t, rejected)
	assert.Equal(t, 4000.0, normalized[0].Value)

	labeled := svc.Labeled(text)
	assert.Len(t, labeled, 1)
	assert.Equal(t, "Total Amount", labeled[0].Label)
}
