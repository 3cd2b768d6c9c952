package model

import "github.com/shopspring/decimal"

// FundProgress is the capacity ledger of a campaign
type FundProgress struct {
	Total     decimal.Decimal
	Reserved  decimal.Decimal
	Remaining decimal.Decimal
}
