package utils

import (
	"sort"
	"strings"

	"github.com/medbill/amount-detection/dto"
)

// Assembler builds the final pipeline result: dedup, ordering, currency
// resolution and the overall status decision.
type Assembler struct {
	opts Options
}

func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// Assemble produces the immutable PipelineResult. tokensSeen is the stage-1
// candidate count; it decides between no_amounts_found and
// normalization_failed when nothing survived normalization.
func (a *Assembler) Assemble(classified []dto.ClassifiedAmount, tokensSeen int) dto.PipelineResult {
	sort.SliceStable(classified, func(i, j int) bool {
		return classified[i].Offset < classified[j].Offset
	})

	// drop exact (value, label) duplicates, keeping the first by source order
	type key struct {
		value float64
		label string
	}
	seen := make(map[key]bool)
	amounts := make([]dto.ClassifiedAmount, 0, len(classified))
	for _, c := range classified {
		k := key{value: c.Value, label: strings.ToLower(c.Label)}
		if seen[k] {
			continue
		}
		seen[k] = true
		amounts = append(amounts, c)
	}

	if len(amounts) == 0 {
		if tokensSeen > 0 {
			return dto.PipelineResult{
				Currency: a.opts.DefaultCurrency,
				Amounts:  []dto.ClassifiedAmount{},
				Status:   dto.StatusNormalizationFailed,
				Reason:   "could not normalize any detected numeric token",
			}
		}
		return dto.PipelineResult{
			Currency: a.opts.DefaultCurrency,
			Amounts:  []dto.ClassifiedAmount{},
			Status:   dto.StatusNoAmountsFound,
			Reason:   "no numeric values detected in the document",
		}
	}

	result := dto.PipelineResult{
		Currency: a.resolveCurrency(amounts),
		Amounts:  amounts,
		Status:   dto.StatusOK,
	}

	weak := 0
	for _, c := range amounts {
		if c.LabelConfidence < a.opts.LabelConfidenceThreshold {
			weak++
		}
	}
	if float64(weak)/float64(len(amounts)) > a.opts.LowConfidenceFraction {
		result.Status = dto.StatusLowConfidence
		result.Reason = "most amounts lack a confident nearby label"
	}

	return result
}

// resolveCurrency picks the most frequent detected currency, falling back to
// the configured default when nothing was detected.
func (a *Assembler) resolveCurrency(amounts []dto.ClassifiedAmount) string {
	counts := make(map[string]int)
	for _, c := range amounts {
		if c.Currency != "" {
			counts[c.Currency]++
		}
	}

	best, bestCount := a.opts.DefaultCurrency, 0
	for _, c := range amounts {
		if c.Currency != "" && counts[c.Currency] > bestCount {
			best, bestCount = c.Currency, counts[c.Currency]
		}
	}
	return best
}
