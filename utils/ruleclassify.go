package utils

import (
	"strings"

	"github.com/medbill/amount-detection/dto"
)

// typeRules maps label keywords to semantic types. Order matters: specific
// roles are checked before the catch-all total/bill/amount bucket, so that
// "Amount Paid" classifies as paid rather than total_bill.
var typeRules = []struct {
	keywords []string
	amtType  dto.AmountType
}{
	{[]string{"due", "balance", "pending", "outstanding", "remaining", "payable"}, dto.TypeDue},
	{[]string{"advance", "paid", "payment", "received", "cash", "deposit"}, dto.TypePaid},
	{[]string{"discount", "concession", "rebate", "off"}, dto.TypeDiscount},
	{[]string{"tax", "gst", "vat", "cgst", "sgst", "igst", "cess"}, dto.TypeTax},
	{[]string{"consult", "doctor", "visit", "checkup", "opd"}, dto.TypeConsultation},
	{[]string{"pharmacy", "chemist", "dispensary"}, dto.TypePharmacy},
	{[]string{"medicine", "drug", "tablet", "capsule", "prescription", "syrup"}, dto.TypeMedicine},
	{[]string{"test", "lab", "scan", "x-ray", "xray", "blood", "urine", "pathology", "report"}, dto.TypeTest},
	{[]string{"room", "bed", "ward", "icu"}, dto.TypeRoomRent},
	{[]string{"total", "bill", "amount", "sum", "net", "grand", "fee", "charges"}, dto.TypeTotalBill},
}

// ClassifyByRules maps a label to its semantic type. The second return is
// false when no rule matched and the caller should fall back to "other".
func ClassifyByRules(label string) (dto.AmountType, bool) {
	l := strings.ToLower(label)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(l, kw) {
				return rule.amtType, true
			}
		}
	}
	return dto.TypeOther, false
}
