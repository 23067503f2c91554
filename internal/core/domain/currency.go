package domain

// Currency holds the precision used when rounding base-currency amounts.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217, e.g. "USD"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // decimal places, typically 2
	AuditFields
}
