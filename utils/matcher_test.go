package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medbill/amount-detection/dto"
)

func pipelineStages() (*Tokenizer, *Normalizer, *Matcher) {
	opts := DefaultOptions()
	return NewTokenizer(opts), NewNormalizer(opts), NewMatcher(opts)
}

func labelText(t *testing.T, text string) []dto.LabeledAmount {
	t.Helper()
	tok, norm, matcher := pipelineStages()
	amounts, _ := norm.NormalizeAll(tok.Tokenize(text))
	return matcher.Label(text, amounts)
}

func TestLabelAttachesNearestKeyword(t *testing.T) {
	text := "Total Amount: Rs 4,000 | Advance: Rs 2,000 | Balance Due: Rs 2,000"
	labeled := labelText(t, text)

	assert.Len(t, labeled, 3)
	assert.Equal(t, "Total Amount", labeled[0].Label)
	assert.Equal(t, "Advance", labeled[1].Label)
	assert.Equal(t, "Balance Due", labeled[2].Label)

	opts := DefaultOptions()
	for _, la := range labeled {
		assert.Greater(t, la.LabelConfidence, opts.LabelConfidenceThreshold)
		assert.LessOrEqual(t, la.LabelConfidence, 1.0)
	}
}

func TestLabelLongerPhraseShadowsShorter(t *testing.T) {
	// "Balance Due" must win over its embedded "balance" and "due" keywords
	labeled := labelText(t, "Balance Due: Rs 150")

	assert.Len(t, labeled, 1)
	assert.Equal(t, "Balance Due", labeled[0].Label)
}

func TestLabelKeywordClaimedOnce(t *testing.T) {
	// one keyword, two amounts: the nearer amount wins, the other stays bare
	labeled := labelText(t, "Total 500 and 600")

	assert.Len(t, labeled, 2)
	assert.Equal(t, "Total", labeled[0].Label)
	assert.Empty(t, labeled[1].Label)
	assert.Zero(t, labeled[1].LabelConfidence)
}

func TestLabelDoesNotCrossRecordBoundary(t *testing.T) {
	// the line break separates the keyword from the amount
	labeled := labelText(t, "Total\n500")

	assert.Len(t, labeled, 1)
	assert.Empty(t, labeled[0].Label)
}

func TestLabelOutsideRadiusIgnored(t *testing.T) {
	filler := " patient copy  issued at front desk counter "
	labeled := labelText(t, "Total"+filler+"500")

	assert.Len(t, labeled, 1)
	assert.Empty(t, labeled[0].Label, "keyword beyond the search window must not attach")
}

func TestLabelConfidenceDecreasesWithDistance(t *testing.T) {
	near := labelText(t, "Paid: 500")
	far := labelText(t, "Paid ......... 500")

	assert.Len(t, near, 1)
	assert.Len(t, far, 1)
	assert.Equal(t, "Paid", near[0].Label)
	assert.Equal(t, "Paid", far[0].Label)
	assert.Greater(t, near[0].LabelConfidence, far[0].LabelConfidence)
}

func TestLabelVerbatimCasePreserved(t *testing.T) {
	labeled := labelText(t, "CONSULTATION: Rs 500")

	assert.Len(t, labeled, 1)
	assert.Equal(t, "CONSULTATION", labeled[0].Label)
}
