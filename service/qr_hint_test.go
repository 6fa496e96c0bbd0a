package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUPIAmount(t *testing.T) {
	amount, ok := ParseUPIAmount("upi://pay?pa=clinic@ybl&pn=City%20Clinic&am=1500.00&cu=INR")
	assert.True(t, ok)
	assert.Equal(t, "1500.00", amount)
}

func TestParseUPIAmountRejectsNonUPI(t *testing.T) {
	_, ok := ParseUPIAmount("https://example.com?am=1500")
	assert.False(t, ok)

	_, ok = ParseUPIAmount("")
	assert.False(t, ok)
}

func TestParseUPIAmountMissingOrBadAmount(t *testing.T) {
	_, ok := ParseUPIAmount("upi://pay?pa=clinic@ybl&pn=City%20Clinic")
	assert.False(t, ok, "no am parameter")

	_, ok = ParseUPIAmount("upi://pay?pa=clinic@ybl&am=1,500")
	assert.False(t, ok, "separators are not part of the UPI amount format")

	_, ok = ParseUPIAmount("upi://pay?pa=clinic@ybl&am=abc")
	assert.False(t, ok)
}
