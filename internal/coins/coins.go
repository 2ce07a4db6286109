// Package coins holds small helpers around whole-coin amounts. Coins are
// plain integers; there is no minor unit and no arithmetic on rates here.
package coins

import (
	"github.com/shopspring/decimal"
)

// NormalizeRate parses the configured display-only inflation rate and
// returns it as a percentage string with two decimals ("2.50"). The rate
// is cosmetic: it is shown on dashboards and never applied to the ledger.
func NormalizeRate(raw string) string {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return "0.00"
	}
	return rate.StringFixedBank(2)
}
