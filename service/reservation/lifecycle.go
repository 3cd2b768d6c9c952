package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
)

var campaignTransitions = map[model.CampaignState][]model.CampaignState{
	model.CampaignStateDraft:    {model.CampaignStateLaunched, model.CampaignStateStashed},
	model.CampaignStateLaunched: {model.CampaignStateCompleted},
	model.CampaignStateStashed:  {model.CampaignStateDraft},
}

func canTransitCampaign(from model.CampaignState, to model.CampaignState) bool {
	for _, s := range campaignTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func validateCampaign(campaign model.Campaign) error {
	if !campaign.Units.IsPositive() {
		return fmt.Errorf("%w: units must be positive", ErrInvalidCampaign)
	}
	if campaign.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidCampaign)
	}
	if !campaign.RewardModel.IsValid() {
		return fmt.Errorf("%w: unknown reward model %d", ErrInvalidCampaign, campaign.RewardModel)
	}
	if campaign.RewardModel == model.RewardModelAssets && !campaign.Units.Equal(campaign.Units.Truncate(0)) {
		return fmt.Errorf("%w: assets campaign needs whole units", ErrInvalidCampaign)
	}
	if campaign.BrandMatch && !campaign.ApplyFirst {
		return fmt.Errorf("%w: brand match requires apply first", ErrInvalidCampaign)
	}
	return nil
}

// transitCampaign changes the campaign state under the campaign lock, check runs on the locked row
func (s *Service) transitCampaign(
	ctx context.Context, campaignID int64, to model.CampaignState,
	check func(sc *lockScope) error,
) (model.Campaign, error) {
	var result model.Campaign
	err := s.withCampaignLock(ctx, campaignID, func(sc *lockScope) error {
		campaign := sc.campaign
		if !canTransitCampaign(campaign.State, to) {
			return fmt.Errorf("%w: campaign %d can not move from %s to %s",
				ErrInvalidCampaignState, campaignID, campaign.State, to)
		}
		if check != nil {
			if err := check(sc); err != nil {
				return err
			}
		}

		now := s.opts.now()
		updated := campaign
		updated.State = to
		updated.UpdatedAt = now
		switch to {
		case model.CampaignStateLaunched:
			updated.LaunchedAt = sql.NullTime{Time: now, Valid: true}
		case model.CampaignStateCompleted:
			updated.CompletedAt = sql.NullTime{Time: now, Valid: true}
		}

		ok, err := s.campaignRepo.UpdateCampaignState(sc.ctx, updated, campaign.State)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: campaign %d no longer %s", ErrInvalidCampaignState, campaignID, campaign.State)
		}

		// admission changes with the state
		sc.fundChanged = true
		result = updated
		return nil
	})
	return result, err
}

// LaunchCampaign draft -> launched, the campaign starts admitting offers
func (s *Service) LaunchCampaign(ctx context.Context, _ model.Actor, campaignID int64) (model.Campaign, error) {
	return s.transitCampaign(ctx, campaignID, model.CampaignStateLaunched, func(sc *lockScope) error {
		return validateCampaign(sc.campaign)
	})
}

// CompleteCampaign launched -> completed, requires every accepted offer to be claimable
func (s *Service) CompleteCampaign(ctx context.Context, _ model.Actor, campaignID int64) (model.Campaign, error) {
	return s.transitCampaign(ctx, campaignID, model.CampaignStateCompleted, func(sc *lockScope) error {
		for _, o := range sc.reserved {
			if o.State == model.OfferStateAccepted && !o.IsClaimable {
				return fmt.Errorf("%w: offer %d", ErrCampaignNotCompletable, o.ID)
			}
		}
		return nil
	})
}

// StashCampaign draft -> stashed
func (s *Service) StashCampaign(ctx context.Context, _ model.Actor, campaignID int64) (model.Campaign, error) {
	return s.transitCampaign(ctx, campaignID, model.CampaignStateStashed, nil)
}

// RestoreCampaign stashed -> draft
func (s *Service) RestoreCampaign(ctx context.Context, _ model.Actor, campaignID int64) (model.Campaign, error) {
	return s.transitCampaign(ctx, campaignID, model.CampaignStateDraft, nil)
}
