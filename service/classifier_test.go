package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medbill/amount-detection/dto"
)

func TestRuleClassifierSources(t *testing.T) {
	rc := NewRuleClassifier()

	amounts := []dto.LabeledAmount{
		{NormalizedAmount: dto.NormalizedAmount{Value: 4000}, Label: "Total Amount", LabelConfidence: 0.9},
		{NormalizedAmount: dto.NormalizedAmount{Value: 100}}, // no label
		{NormalizedAmount: dto.NormalizedAmount{Value: 50}, Label: "misc", LabelConfidence: 0.4},
	}

	out, err := rc.Classify(context.Background(), "", amounts)
	assert.NoError(t, err)
	assert.Len(t, out, 3)

	assert.Equal(t, dto.TypeTotalBill, out[0].Type)
	assert.Equal(t, dto.SourceRule, out[0].ClassificationSource)
	assert.Equal(t, "Total Amount", out[0].Name)

	assert.Equal(t, dto.TypeOther, out[1].Type)
	assert.Equal(t, dto.SourceDefault, out[1].ClassificationSource)

	// labeled but no rule matches: still "other", still default source
	assert.Equal(t, dto.TypeOther, out[2].Type)
	assert.Equal(t, dto.SourceDefault, out[2].ClassificationSource)
}

func TestParseGeminiJSON(t *testing.T) {
	parsed, err := parseGeminiJSON(`{"amounts":[{"index":0,"type":"total_bill","name":"Total"}]}`)
	assert.NoError(t, err)
	assert.Len(t, parsed.Amounts, 1)
	assert.Equal(t, "total_bill", parsed.Amounts[0].Type)
}

func TestParseGeminiJSONStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"amounts\":[{\"index\":0,\"type\":\"paid\",\"name\":\"Advance\"}]}\n```"
	parsed, err := parseGeminiJSON(raw)
	assert.NoError(t, err)
	assert.Len(t, parsed.Amounts, 1)
	assert.Equal(t, "paid", parsed.Amounts[0].Type)
}

func TestParseGeminiJSONRejectsGarbage(t *testing.T) {
	_, err := parseGeminiJSON("not json at all")
	assert.Error(t, err)

	_, err = parseGeminiJSON(`{"amounts":[]}`)
	assert.Error(t, err, "an empty list is a format violation")
}
