package model

// StatementType classifies a line item by the financial statement it belongs to.
type StatementType string

// Statement types, matching the schedules of the FR Y-9C form.
const (
	BalanceSheet      StatementType = "balance_sheet"      // Schedule HC
	IncomeStatement   StatementType = "income_statement"   // Schedule HI
	InsuranceSchedule StatementType = "insurance_schedule" // Schedule HI memoranda (insurance)
	Memoranda         StatementType = "memoranda"
)

// IsValid reports whether the statement type is one of the known schedules.
func (s StatementType) IsValid() bool {
	switch s {
	case BalanceSheet, IncomeStatement, InsuranceSchedule, Memoranda:
		return true
	}
	return false
}

// LineItem is one MDRM-coded line item definition. Reference data; immutable.
type LineItem struct {
	Code      string
	Name      string
	Statement StatementType
	Category  string
}
