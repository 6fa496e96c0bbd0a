package dto

// AmountType is the closed vocabulary of semantic tags for extracted amounts
type AmountType string

const (
	TypeTotalBill    AmountType = "total_bill"
	TypePaid         AmountType = "paid"
	TypeDue          AmountType = "due"
	TypeDiscount     AmountType = "discount"
	TypeTax          AmountType = "tax"
	TypeConsultation AmountType = "consultation"
	TypeMedicine     AmountType = "medicine"
	TypeTest         AmountType = "test"
	TypePharmacy     AmountType = "pharmacy"
	TypeRoomRent     AmountType = "room_rent"
	TypeOther        AmountType = "other"
)

// ValidAmountTypes lists every accepted tag; anything else collapses to "other"
var ValidAmountTypes = []AmountType{
	TypeTotalBill, TypePaid, TypeDue, TypeDiscount, TypeTax,
	TypeConsultation, TypeMedicine, TypeTest, TypePharmacy, TypeRoomRent, TypeOther,
}

// IsValidAmountType reports whether t belongs to the closed vocabulary
func IsValidAmountType(t AmountType) bool {
	for _, v := range ValidAmountTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ClassificationSource records which path produced a semantic type
type ClassificationSource string

const (
	SourceAI      ClassificationSource = "ai"
	SourceRule    ClassificationSource = "rule"
	SourceDefault ClassificationSource = "default"
)

// Status is the overall pipeline outcome
type Status string

const (
	StatusOK                  Status = "ok"
	StatusNoAmountsFound      Status = "no_amounts_found"
	StatusLowConfidence       Status = "low_confidence"
	StatusNormalizationFailed Status = "normalization_failed"
	StatusError               Status = "error"
)

// RawToken is a numeric candidate found in the source text.
// Text is the verbatim slice of the input (kept for provenance);
// Corrected carries the digits after confusable repair.
type RawToken struct {
	Text      string `json:"text"`
	Corrected string `json:"corrected"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// NormalizedAmount is a canonical decimal value with its detected currency.
// Immutable once created.
type NormalizedAmount struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"` // empty when no symbol/code was detected
	RawText  string  `json:"raw_text"`
	Offset   int     `json:"offset"`
}

// LabeledAmount pairs a normalized amount with the nearest descriptive label
type LabeledAmount struct {
	NormalizedAmount
	Label           string  `json:"label,omitempty"`
	LabelConfidence float64 `json:"label_confidence"`
}

// ClassifiedAmount is the terminal pipeline entity emitted in the response
type ClassifiedAmount struct {
	LabeledAmount
	Type                 AmountType           `json:"type"`
	Name                 string               `json:"name,omitempty"`
	ClassificationSource ClassificationSource `json:"classification_source"`
}

// PipelineResult is built once per request and never mutated afterwards
type PipelineResult struct {
	Currency string             `json:"currency"`
	Amounts  []ClassifiedAmount `json:"amounts"`
	Status   Status             `json:"status"`
	Reason   string             `json:"reason,omitempty"`
}
