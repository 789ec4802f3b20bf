// Package fees holds the fee structure and the append-only transaction log.
// Transactions are never reconciled against a student's paid amount
// automatically; the two are separate sources of truth.
package fees

// Transaction is one recorded payment. The log is append-only.
type Transaction struct {
	StudentID string  `json:"student_id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Method    string  `json:"method"`
}

// Structure maps a class-section label to the fee amount configured for it.
// When a class has an entry here, it takes precedence over the per-student
// boolean fee status in pending-fee determination.
type Structure map[string]float64

// AmountFor returns the configured fee for a class, if any.
func (s Structure) AmountFor(classSection string) (float64, bool) {
	amount, ok := s[classSection]
	return amount, ok
}
