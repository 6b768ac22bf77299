// Package catalog holds the static MDRM line-item catalog used to filter and
// label Y-9C filing data. The codes cover Schedule HC (balance sheet),
// Schedule HI (income statement), the insurance schedules, and selected
// memoranda items.
package catalog

import "github.com/bhcwatch/y9c/internal/model"

type entry struct {
	code string
	name string
}

var balanceSheet = map[string][]entry{
	"assets": {
		{"BHCK0081", "Cash and balances due from depository institutions - Noninterest-bearing"},
		{"BHCK0395", "Interest-bearing balances in U.S. offices"},
		{"BHCK0397", "Interest-bearing balances in foreign offices"},
		{"BHCK1754", "Held-to-maturity securities"},
		{"BHCK1773", "Available-for-sale debt securities"},
		{"BHCKJJ34", "Equity securities with readily determinable fair values"},
		{"BHDMB987", "Federal funds sold in domestic offices"},
		{"BHCKB989", "Securities purchased under agreements to resell"},
		{"BHCK5369", "Loans and leases held for sale"},
		{"BHCK2122", "Loans and leases, net of unearned income"},
		{"BHCK3123", "LESS: Allowance for loan and lease losses"},
		{"BHCKC781", "LESS: Allocated transfer risk reserve"},
		{"BHCKB528", "Loans and leases, net of allowance and reserve"},
		{"BHCK3545", "Trading assets"},
		{"BHCK2145", "Premises and fixed assets"},
		{"BHCK2150", "Other real estate owned"},
		{"BHCK2130", "Investments in unconsolidated subsidiaries"},
		{"BHCK2155", "Direct and indirect investments in real estate"},
		{"BHCK3163", "Intangible assets - Goodwill"},
		{"BHCK0426", "Intangible assets - Other"},
		{"BHCK2160", "Other assets"},
		{"BHCK2170", "Total assets"},
	},
	"liabilities": {
		{"BHDM6631", "Deposits in domestic offices - Noninterest-bearing"},
		{"BHDM6636", "Deposits in domestic offices - Interest-bearing"},
		{"BHFN6631", "Deposits in foreign offices - Noninterest-bearing"},
		{"BHFN6636", "Deposits in foreign offices - Interest-bearing"},
		{"BHDMB993", "Federal funds purchased in domestic offices"},
		{"BHCKB995", "Securities sold under agreements to repurchase"},
		{"BHCK3190", "Trading liabilities"},
		{"BHCK2332", "Other borrowed money (original maturity > 1 year)"},
		{"BHCKB571", "Other borrowed money (original maturity <= 1 year)"},
		{"BHCK3200", "Subordinated notes and debentures"},
		{"BHCK2750", "Other liabilities"},
		{"BHCK2948", "Total liabilities"},
	},
	"equity": {
		{"BHCK3838", "Perpetual preferred stock"},
		{"BHCK3230", "Common stock"},
		{"BHCK3839", "Surplus"},
		{"BHCK3632", "Retained earnings"},
		{"BHCKB530", "Accumulated other comprehensive income"},
		{"BHCKA130", "Other equity capital components"},
		{"BHCK3210", "Total equity capital"},
		{"BHCKG105", "Total equity attributable to parent"},
		{"BHCK3000", "Noncontrolling (minority) interests in consolidated subsidiaries"},
		{"BHCK3300", "Total liabilities and equity capital"},
	},
}

var incomeStatement = map[string][]entry{
	"interest_income": {
		{"BHCK4107", "Interest income - Loans secured by real estate"},
		{"BHCK4069", "Interest income - Commercial and industrial loans"},
		{"BHCKF821", "Interest income - Loans to individuals"},
		{"BHCKB488", "Interest income - All other loans"},
		{"BHCK4065", "Interest income - Lease financing receivables"},
		{"BHCK4115", "Interest income - Balances due from depository institutions"},
		{"BHCK4060", "Interest income - Securities (taxable)"},
		{"BHCK4062", "Interest income - Securities (tax-exempt)"},
		{"BHCKF556", "Interest income - Trading assets"},
		{"BHCK4020", "Interest income - Federal funds sold and repos"},
		{"BHCKB491", "Interest income - Other"},
		{"BHCK4010", "Total interest income"},
	},
	"interest_expense": {
		{"BHCK4170", "Interest expense - Deposits in domestic offices"},
		{"BHCK4172", "Interest expense - Deposits in foreign offices"},
		{"BHCK4180", "Interest expense - Federal funds purchased and repos"},
		{"BHCK4185", "Interest expense - Trading liabilities"},
		{"BHCK4200", "Interest expense - Other borrowed money"},
		{"BHCK4075", "Interest expense - Subordinated notes and debentures"},
		{"BHCK4073", "Total interest expense"},
	},
	"net_interest_income": {
		{"BHCK4074", "Net interest income"},
	},
	"provision": {
		{"BHCK4230", "Provision for loan and lease losses"},
		{"BHCKJJ33", "Provision for credit losses"},
	},
	"noninterest_income": {
		{"BHCK4070", "Income from fiduciary activities"},
		{"BHCKC886", "Service charges on deposit accounts"},
		{"BHCKC888", "Trading revenue"},
		{"BHCKC887", "Investment banking, advisory, brokerage fees"},
		{"BHCK4042", "Venture capital revenue"},
		{"BHCKB493", "Net servicing fees"},
		{"BHCKB494", "Net securitization income"},
		{"BHCKC013", "Insurance commissions and fees"},
		{"BHCKC014", "Net gains from sales of loans"},
		{"BHCKC016", "Net gains from sales of other real estate"},
		{"BHCKC015", "Net gains from sales of other assets"},
		{"BHCKB497", "Other noninterest income"},
		{"BHCK4079", "Total noninterest income"},
	},
	"noninterest_expense": {
		{"BHCK4135", "Salaries and employee benefits"},
		{"BHCK4217", "Expenses of premises and fixed assets"},
		{"BHCKC216", "Goodwill impairment losses"},
		{"BHCKC232", "Amortization expense - intangible assets"},
		{"BHCK4092", "Other noninterest expense"},
		{"BHCK4093", "Total noninterest expense"},
	},
	"income": {
		{"BHCK4301", "Income before income taxes and extraordinary items"},
		{"BHCK4302", "Applicable income taxes"},
		{"BHCK4300", "Income before discontinued operations"},
		{"BHCKFT28", "Discontinued operations (net of tax)"},
		{"BHCKG104", "Net income including noncontrolling interests"},
		{"BHCK4340", "Net income attributable to holding company"},
	},
}

var insuranceSchedule = map[string][]entry{
	"insurance_assets": {
		{"BHCKC249", "Separate account assets"},
		{"BHCKK194", "Insurance assets - General account"},
	},
	"insurance_liabilities": {
		{"BHCKC250", "Separate account liabilities"},
		{"BHCKK195", "Insurance liabilities - General account"},
	},
	"insurance_income": {
		{"BHCKC386", "Underwriting income - life insurance"},
		{"BHCKC387", "Underwriting income - P&C insurance"},
		{"BHCKC388", "Insurance commissions and fees"},
	},
}

var memoranda = []entry{
	{"BHCKJJ24", "Total loans secured by 1-4 family residential properties"},
	{"BHCK1415", "Total commercial and industrial loans"},
	{"BHCK1590", "Total consumer loans"},
	{"BHCK2011", "Total real estate loans"},
	{"BHCK1763", "Average total assets (quarterly)"},
	{"BHCK3368", "Average total equity (quarterly)"},
}

var (
	items  []model.LineItem
	byCode map[string]model.LineItem
)

func init() {
	appendGroup := func(groups map[string][]entry, statement model.StatementType) {
		for category, entries := range groups {
			for _, e := range entries {
				items = append(items, model.LineItem{
					Code:      e.code,
					Name:      e.name,
					Statement: statement,
					Category:  category,
				})
			}
		}
	}

	appendGroup(balanceSheet, model.BalanceSheet)
	appendGroup(incomeStatement, model.IncomeStatement)
	appendGroup(insuranceSchedule, model.InsuranceSchedule)
	for _, e := range memoranda {
		items = append(items, model.LineItem{
			Code:      e.code,
			Name:      e.name,
			Statement: model.Memoranda,
			Category:  "memoranda",
		})
	}

	byCode = make(map[string]model.LineItem, len(items))
	for _, item := range items {
		byCode[item.Code] = item
	}
}

// All returns every line item in the catalog.
func All() []model.LineItem {
	out := make([]model.LineItem, len(items))
	copy(out, items)
	return out
}

// Codes returns the MDRM codes of every line item, for filtering raw data.
func Codes() []string {
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.Code)
	}
	return codes
}

// Lookup returns the line item for a code, if the catalog defines it.
func Lookup(code string) (model.LineItem, bool) {
	item, ok := byCode[code]
	return item, ok
}
