package model

import (
	"database/sql"
	"github.com/shopspring/decimal"
	"time"
)

// Offer is the participation of one influencer in one campaign
type Offer struct {
	ID           int64 `db:"id"`
	CampaignID   int64 `db:"campaign_id"`
	InfluencerID int64 `db:"influencer_id"`

	State          OfferState      `db:"state"`
	Reward         decimal.Decimal `db:"reward"`
	CapacityWeight decimal.Decimal `db:"capacity_weight"`

	IsSelected        bool          `db:"is_selected"`
	CandidatePosition sql.NullInt64 `db:"candidate_position"`
	Answers           []byte        `db:"answers"`
	IsClaimable       bool          `db:"is_claimable"`

	AcceptedAt sql.NullTime `db:"accepted_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Answer to a campaign prompt, submitted when requesting participation
type Answer struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// OfferState ...
type OfferState int

const (
	// OfferStateInvited ...
	OfferStateInvited OfferState = 1

	// OfferStatePending ...
	OfferStatePending OfferState = 2

	// OfferStateRequested ...
	OfferStateRequested OfferState = 3

	// OfferStateCandidate ...
	OfferStateCandidate OfferState = 4

	// OfferStateApprovedByBrand ...
	OfferStateApprovedByBrand OfferState = 5

	// OfferStateAccepted ...
	OfferStateAccepted OfferState = 6

	// OfferStateRejected ...
	OfferStateRejected OfferState = 7

	// OfferStateRejectedByBrand ...
	OfferStateRejectedByBrand OfferState = 8

	// OfferStateRevoked ...
	OfferStateRevoked OfferState = 9

	// OfferStateExpired is never stored, see EffectiveState
	OfferStateExpired OfferState = 10
)

var offerStateNames = map[OfferState]string{
	OfferStateInvited:         "invited",
	OfferStatePending:         "pending",
	OfferStateRequested:       "requested",
	OfferStateCandidate:       "candidate",
	OfferStateApprovedByBrand: "approved_by_brand",
	OfferStateAccepted:        "accepted",
	OfferStateRejected:        "rejected",
	OfferStateRejectedByBrand: "rejected_by_brand",
	OfferStateRevoked:         "revoked",
	OfferStateExpired:         "expired",
}

func (s OfferState) String() string {
	name, ok := offerStateNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// ConsumesCapacity reports whether offers in this state count against the campaign fund
func (s OfferState) ConsumesCapacity() bool {
	return s == OfferStateAccepted || s == OfferStateApprovedByBrand
}

// IsTerminal ...
func (s OfferState) IsTerminal() bool {
	switch s {
	case OfferStateRejected, OfferStateRejectedByBrand, OfferStateRevoked:
		return true
	default:
		return false
	}
}

// EffectiveState returns the state as seen by callers, offers still open when
// their campaign completed are reported as expired
func (o Offer) EffectiveState(campaign Campaign) OfferState {
	if campaign.State != CampaignStateCompleted {
		return o.State
	}
	if o.State.IsTerminal() || o.State == OfferStateAccepted {
		return o.State
	}
	return OfferStateExpired
}
