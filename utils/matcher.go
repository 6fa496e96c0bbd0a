package utils

import (
	"regexp"
	"sort"
	"strings"

	"github.com/medbill/amount-detection/dto"
)

// keywordHit is one occurrence of a dictionary keyword in the document
type keywordHit struct {
	start, end int
	weight     float64
}

// Matcher associates each normalized amount with the most plausible nearby
// label. The search window runs backwards from the amount's offset, never
// crossing a line break or '|' record separator.
type Matcher struct {
	opts     Options
	patterns []*regexp.Regexp
}

func NewMatcher(opts Options) *Matcher {
	patterns := make([]*regexp.Regexp, len(opts.Keywords))
	for i, kw := range opts.Keywords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw.Phrase) + `\b`)
	}
	return &Matcher{opts: opts, patterns: patterns}
}

// Label attaches labels to amounts. A single keyword occurrence is never
// claimed by two amounts: the nearer amount wins and the loser falls back to
// its next-nearest distinct occurrence, or to no label at all.
func (m *Matcher) Label(text string, amounts []dto.NormalizedAmount) []dto.LabeledAmount {
	hits := m.scanKeywords(text)

	type pair struct {
		amountIdx, hitIdx int
		dist              int
		weight            float64
	}
	var pairs []pair

	for i, amount := range amounts {
		winStart := amount.Offset - m.opts.ContextRadius
		if winStart < 0 {
			winStart = 0
		}
		// do not cross a record boundary
		if cut := strings.LastIndexAny(text[winStart:amount.Offset], "\n|"); cut >= 0 {
			winStart += cut + 1
		}
		for j, h := range hits {
			if h.end > amount.Offset || h.start < winStart {
				continue
			}
			pairs = append(pairs, pair{
				amountIdx: i,
				hitIdx:    j,
				dist:      amount.Offset - h.end,
				weight:    h.weight,
			})
		}
	}

	// nearest first; ties go to the higher-priority keyword, then source order
	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].dist != pairs[b].dist {
			return pairs[a].dist < pairs[b].dist
		}
		if pairs[a].weight != pairs[b].weight {
			return pairs[a].weight > pairs[b].weight
		}
		return pairs[a].amountIdx < pairs[b].amountIdx
	})

	labeled := make([]dto.LabeledAmount, len(amounts))
	for i, amount := range amounts {
		labeled[i] = dto.LabeledAmount{NormalizedAmount: amount}
	}

	claimedHit := make(map[int]bool)
	claimedAmount := make(map[int]bool)
	for _, p := range pairs {
		if claimedHit[p.hitIdx] || claimedAmount[p.amountIdx] {
			continue
		}
		claimedHit[p.hitIdx] = true
		claimedAmount[p.amountIdx] = true

		h := hits[p.hitIdx]
		labeled[p.amountIdx].Label = text[h.start:h.end]
		labeled[p.amountIdx].LabelConfidence = m.confidence(h.weight, p.dist)
	}

	return labeled
}

// confidence is monotonic in keyword priority and in inverse distance
func (m *Matcher) confidence(weight float64, dist int) float64 {
	c := weight * (1.0 - float64(dist)/float64(m.opts.ContextRadius+1))
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

// scanKeywords finds every dictionary occurrence, discarding occurrences
// fully contained in a longer one ("due" inside "balance due").
func (m *Matcher) scanKeywords(text string) []keywordHit {
	var hits []keywordHit
	for i, re := range m.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			hits = append(hits, keywordHit{start: loc[0], end: loc[1], weight: m.opts.Keywords[i].Weight})
		}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].start != hits[b].start {
			return hits[a].start < hits[b].start
		}
		return hits[a].end > hits[b].end
	})

	var kept []keywordHit
	for _, h := range hits {
		contained := false
		for _, k := range kept {
			if h.start >= k.start && h.end <= k.end {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, h)
		}
	}
	return kept
}
