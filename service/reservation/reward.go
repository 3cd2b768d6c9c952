package reservation

import (
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/shopspring/decimal"
)

var minReward = decimal.New(1, -2)

// RewardCalculator maps campaign configuration and influencer estimates to
// capacity weight and reward. It has no state.
type RewardCalculator struct {
}

// Weight is the capacity an offer of the influencer would consume, at least one unit
func (RewardCalculator) Weight(campaign model.Campaign, influencer model.Influencer) decimal.Decimal {
	var weight decimal.Decimal
	switch campaign.RewardModel {
	case model.RewardModelAssets:
		return decimal.NewFromInt(1)
	case model.RewardModelReach:
		weight = decimal.NewFromInt(influencer.EstimatedReach)
	case model.RewardModelImpressions:
		weight = decimal.NewFromInt(influencer.EstimatedImpressions)
	case model.RewardModelEngagement:
		weight = decimal.NewFromInt(influencer.EstimatedEngagements)
	case model.RewardModelCash:
		weight = influencer.CashRate
	}

	if !weight.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return weight
}

// Reward for consuming weight units of the campaign, truncated to cents and never below one cent
func (RewardCalculator) Reward(campaign model.Campaign, weight decimal.Decimal) decimal.Decimal {
	var reward decimal.Decimal
	if campaign.RewardModel == model.RewardModelCash {
		reward = weight
	} else {
		reward = weight.Mul(campaign.UnitPrice())
	}

	reward = reward.Truncate(2)
	if reward.LessThan(minReward) {
		return minReward
	}
	return reward
}
