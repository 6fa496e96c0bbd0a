package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medbill/amount-detection/dto"
)

func TestClassifyByRules(t *testing.T) {
	cases := map[string]dto.AmountType{
		"Total Amount":     dto.TypeTotalBill,
		"Grand Total":      dto.TypeTotalBill,
		"Balance Due":      dto.TypeDue,
		"Outstanding":      dto.TypeDue,
		"Advance":          dto.TypePaid,
		"Amount Paid":      dto.TypePaid,
		"Discount":         dto.TypeDiscount,
		"GST":              dto.TypeTax,
		"Consultation":     dto.TypeConsultation,
		"Doctor Fee":       dto.TypeConsultation,
		"Pharmacy":         dto.TypePharmacy,
		"Medicine":         dto.TypeMedicine,
		"Blood Test":       dto.TypeTest,
		"X-Ray":            dto.TypeTest,
		"Room Rent":        dto.TypeRoomRent,
		"ICU Charges":      dto.TypeRoomRent,
		"Registration Fee": dto.TypeTotalBill,
	}
	for label, want := range cases {
		got, ok := ClassifyByRules(label)
		assert.True(t, ok, "rule expected for %q", label)
		assert.Equal(t, want, got, "type for %q", label)
	}
}

func TestClassifyByRulesSpecificBeforeGeneric(t *testing.T) {
	// "Amount Paid" contains both the paid and the amount keywords; the more
	// specific role must win over the total bucket
	got, ok := ClassifyByRules("Amount Paid")
	assert.True(t, ok)
	assert.Equal(t, dto.TypePaid, got)
}

func TestClassifyByRulesNoMatch(t *testing.T) {
	got, ok := ClassifyByRules("miscellaneous")
	assert.False(t, ok)
	assert.Equal(t, dto.TypeOther, got)

	got, ok = ClassifyByRules("")
	assert.False(t, ok)
	assert.Equal(t, dto.TypeOther, got)
}
