package model

import (
	"github.com/shopspring/decimal"
	"time"
)

// Influencer holds the audience estimates maintained by the social platform collectors
type Influencer struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`

	EstimatedReach       int64 `db:"estimated_reach"`
	EstimatedEngagements int64 `db:"estimated_engagements"`
	EstimatedImpressions int64 `db:"estimated_impressions"`

	// CashRate is the reward the influencer asks for in cash campaigns
	CashRate decimal.Decimal `db:"cash_rate"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
