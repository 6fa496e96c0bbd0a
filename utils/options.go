package utils

// Keyword is a domain label the context matcher can attach to an amount.
// Weight is the tie-break priority in (0,1]; longer phrases shadow shorter ones.
type Keyword struct {
	Phrase string
	Weight float64
}

// Options carries every tunable of the pipeline. It is built once per service
// instance and passed into each stage constructor; stages never mutate it, so
// concurrent requests can share one value.
type Options struct {
	// ContextRadius is the label search window in characters before an amount
	ContextRadius   int
	DefaultCurrency string
	// LabelConfidenceThreshold marks an amount as weakly labeled below this score
	LabelConfidenceThreshold float64
	// LowConfidenceFraction: above this share of weak labels the whole result
	// degrades to low_confidence
	LowConfidenceFraction float64
	Keywords []Keyword
	// PhoneDigitFloor: an unseparated digit run at least this long with no
	// currency marker is treated as a phone number, not an amount
	PhoneDigitFloor int
	// YearRange: bare 4-digit tokens inside this range with no currency marker
	// are treated as dates
	YearRange [2]int
}

func DefaultOptions() Options {
	return Options{
		ContextRadius:            40,
		DefaultCurrency:          "INR",
		LabelConfidenceThreshold: 0.3,
		LowConfidenceFraction:    0.5,
		PhoneDigitFloor:          10,
		YearRange:                [2]int{2020, 2030},
		Keywords: []Keyword{
			{"grand total", 0.95},
			{"total amount", 0.95},
			{"net amount", 0.9},
			{"amount payable", 0.9},
			{"total", 0.9},
			{"balance due", 0.9},
			{"outstanding", 0.75},
			{"pending", 0.7},
			{"balance", 0.75},
			{"due", 0.8},
			{"advance", 0.8},
			{"paid", 0.8},
			{"payment", 0.7},
			{"received", 0.7},
			{"deposit", 0.75},
			{"discount", 0.8},
			{"concession", 0.7},
			{"rebate", 0.7},
			{"gst", 0.8},
			{"tax", 0.8},
			{"doctor fee", 0.85},
			{"consultation", 0.85},
			{"checkup", 0.7},
			{"medicine", 0.8},
			{"pharmacy", 0.8},
			{"prescription", 0.7},
			{"tablet", 0.6},
			{"pathology", 0.7},
			{"x-ray", 0.7},
			{"blood test", 0.75},
			{"test", 0.7},
			{"lab", 0.7},
			{"scan", 0.65},
			{"room rent", 0.85},
			{"room charges", 0.85},
			{"bed charges", 0.8},
			{"registration", 0.6},
			{"bill", 0.6},
			{"fee", 0.6},
			{"amount", 0.5},
		},
	}
}
