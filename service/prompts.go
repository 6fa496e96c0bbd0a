package service

import (
	"fmt"
	"strings"

	"github.com/medbill/amount-detection/dto"
)

// buildClassificationPrompt asks Gemini for a type per candidate, keyed by
// index so the response maps back onto the input batch unambiguously.
func buildClassificationPrompt(text string, amounts []dto.LabeledAmount) string {
	var sb strings.Builder

	sb.WriteString(`You are analyzing a medical bill or receipt. For each numbered candidate amount below, assign exactly one type from this list:
total_bill, paid, due, discount, tax, consultation, medicine, test, pharmacy, room_rent, other

Document text:
`)
	sb.WriteString(text)
	sb.WriteString("\n\nCandidate amounts:\n")

	for i, a := range amounts {
		label := a.Label
		if label == "" {
			label = "(no label)"
		}
		fmt.Fprintf(&sb, "%d. value=%.2f label=%q context=%q\n", i, a.Value, label, contextSnippet(text, a.Offset, 50))
	}

	sb.WriteString(`
Return only a JSON object of this exact shape, with one entry per candidate, using the candidate's number as "index":
{"amounts":[{"index":0,"type":"total_bill","name":"Total Amount"}]}

Rules:
- every candidate index must appear exactly once
- "type" must be one of the listed values
- "name" is the specific item or service description when the context shows one, otherwise the label
- no text outside the JSON object`)

	return sb.String()
}

// contextSnippet returns the text window around offset used as classification
// context for one candidate.
func contextSnippet(text string, offset, radius int) string {
	start := offset - radius
	if start < 0 {
		start = 0
	}
	end := offset + radius
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}
