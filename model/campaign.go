package model

import (
	"database/sql"
	"github.com/shopspring/decimal"
	"time"
)

// Campaign ...
type Campaign struct {
	ID           int64  `db:"id"`
	AdvertiserID int64  `db:"advertiser_id"`
	Name         string `db:"name"`

	RewardModel RewardModel     `db:"reward_model"`
	Units       decimal.Decimal `db:"units"`
	Price       decimal.Decimal `db:"price"`

	ApplyFirst bool `db:"apply_first"`
	BrandMatch bool `db:"brand_match"`

	State          CampaignState `db:"state"`
	CandidatesHash string        `db:"candidates_hash"`

	LaunchedAt  sql.NullTime `db:"launched_at"`
	CompletedAt sql.NullTime `db:"completed_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UnitPrice is the reward paid for one unit of campaign capacity
func (c Campaign) UnitPrice() decimal.Decimal {
	if !c.Units.IsPositive() {
		return decimal.Zero
	}
	return c.Price.Div(c.Units)
}

// IsDirect when influencers are invited instead of requesting participation
func (c Campaign) IsDirect() bool {
	return !c.ApplyFirst
}

// RewardModel determines the unit of campaign capacity
type RewardModel int

const (
	// RewardModelAssets counts delivered assets, one per offer
	RewardModelAssets RewardModel = 1

	// RewardModelReach counts estimated followers reached
	RewardModelReach RewardModel = 2

	// RewardModelEngagement counts estimated engagements per post
	RewardModelEngagement RewardModel = 3

	// RewardModelImpressions counts estimated impressions per post
	RewardModelImpressions RewardModel = 4

	// RewardModelCash counts currency
	RewardModelCash RewardModel = 5
)

// IsValid ...
func (m RewardModel) IsValid() bool {
	switch m {
	case RewardModelAssets, RewardModelReach, RewardModelEngagement, RewardModelImpressions, RewardModelCash:
		return true
	default:
		return false
	}
}

func (m RewardModel) String() string {
	switch m {
	case RewardModelAssets:
		return "assets"
	case RewardModelReach:
		return "reach"
	case RewardModelEngagement:
		return "engagement"
	case RewardModelImpressions:
		return "impressions"
	case RewardModelCash:
		return "cash"
	default:
		return "unknown"
	}
}

// CampaignState ...
type CampaignState int

const (
	// CampaignStateDraft ...
	CampaignStateDraft CampaignState = 1

	// CampaignStateLaunched ...
	CampaignStateLaunched CampaignState = 2

	// CampaignStateCompleted ...
	CampaignStateCompleted CampaignState = 3

	// CampaignStateStashed ...
	CampaignStateStashed CampaignState = 4
)

func (s CampaignState) String() string {
	switch s {
	case CampaignStateDraft:
		return "draft"
	case CampaignStateLaunched:
		return "launched"
	case CampaignStateCompleted:
		return "completed"
	case CampaignStateStashed:
		return "stashed"
	default:
		return "unknown"
	}
}

// Advertiser ...
type Advertiser struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`

	// InfluencerCooldownDays is the minimum number of days between two accepted offers
	// of the same influencer across campaigns of this advertiser, zero disables it
	InfluencerCooldownDays int64 `db:"influencer_cooldown_days"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
