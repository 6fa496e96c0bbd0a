package dto

import "strings"

// AmountInfo is one entry of the response envelope
type AmountInfo struct {
	Type   AmountType `json:"type"`
	Value  float64    `json:"value"`
	Source string     `json:"source"`
	Name   string     `json:"name,omitempty"`
}

// ExtractResponse is the envelope consumed by API clients
type ExtractResponse struct {
	Currency string       `json:"currency"`
	Amounts  []AmountInfo `json:"amounts"`
	Status   Status       `json:"status"`
}

// ErrorResponse is returned for guardrail and error outcomes
type ErrorResponse struct {
	Status Status `json:"status"`
	Reason string `json:"reason"`
}

// ToResponse converts a pipeline result into the transport envelope
func (r *PipelineResult) ToResponse() ExtractResponse {
	amounts := make([]AmountInfo, 0, len(r.Amounts))
	for _, a := range r.Amounts {
		amounts = append(amounts, AmountInfo{
			Type:   a.Type,
			Value:  a.Value,
			Source: "text: '" + strings.TrimSpace(a.RawText) + "'",
			Name:   a.Name,
		})
	}
	return ExtractResponse{
		Currency: r.Currency,
		Amounts:  amounts,
		Status:   r.Status,
	}
}
