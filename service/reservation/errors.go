package reservation

import (
	"errors"
	"fmt"
	"github.com/shopspring/decimal"
)

var (
	// ErrCampaignFullyReserved when no capacity is left, nothing is admitted
	ErrCampaignFullyReserved = errors.New("campaign fully reserved")

	// ErrOfferRewardChanged when the offer was admitted with a reduced reward, see OfferRewardChangedError
	ErrOfferRewardChanged = errors.New("offer reward changed")

	// ErrInvalidStateTransition ...
	ErrInvalidStateTransition = errors.New("invalid offer state transition")

	// ErrInvalidCampaignState ...
	ErrInvalidCampaignState = errors.New("invalid campaign state")

	// ErrInvalidCampaign when the campaign configuration can not be launched
	ErrInvalidCampaign = errors.New("invalid campaign configuration")

	// ErrCampaignNotCompletable when some accepted offers are not claimable yet
	ErrCampaignNotCompletable = errors.New("campaign has accepted offers not yet claimable")

	// ErrInfluencerNotEligible ...
	ErrInfluencerNotEligible = errors.New("influencer not eligible for campaign")

	// ErrInfluencerOnCooldown ...
	ErrInfluencerOnCooldown = errors.New("influencer on cooldown for advertiser")

	// ErrReservationBusy when the campaign lock can not be acquired in time, retryable
	ErrReservationBusy = errors.New("reservation busy")

	// ErrStaleOrdering when the candidates hash does not match, re-fetch and retry
	ErrStaleOrdering = errors.New("stale candidate ordering")

	// ErrOfferAlreadyExists ...
	ErrOfferAlreadyExists = errors.New("offer already exists")

	// ErrInvalidOfferID when the offer is not part of the addressed list or campaign
	ErrInvalidOfferID = errors.New("invalid offer id")

	// ErrNotFound ...
	ErrNotFound = errors.New("not found")
)

// OfferRewardChangedError is returned together with the admitted offer
type OfferRewardChangedError struct {
	OfferID   int64
	OldReward decimal.Decimal
	NewReward decimal.Decimal
	Weight    decimal.Decimal
}

func (e *OfferRewardChangedError) Error() string {
	return fmt.Sprintf("offer reward changed: offer %d reward %s -> %s, weight %s",
		e.OfferID, e.OldReward, e.NewReward, e.Weight)
}

// Is ...
func (e *OfferRewardChangedError) Is(target error) bool {
	return target == ErrOfferRewardChanged
}
