package reservation

import (
	"context"
	"errors"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/repository"
	"time"
)

//go:generate moq -out eligibility_mocks_test.go . Targeting

// Targeting decides whether an influencer matches the audience of a campaign
type Targeting interface {
	IsEligible(ctx context.Context, campaign model.Campaign, influencer model.Influencer) (bool, error)
}

// AllowAllTargeting ...
type AllowAllTargeting struct {
}

var _ Targeting = AllowAllTargeting{}

// IsEligible ...
func (AllowAllTargeting) IsEligible(context.Context, model.Campaign, model.Influencer) (bool, error) {
	return true, nil
}

const cooldownDay = 24 * time.Hour

func (s *Service) checkEligibility(ctx context.Context, campaign model.Campaign, influencer model.Influencer) error {
	ok, err := s.opts.targeting.IsEligible(ctx, campaign, influencer)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: influencer %d campaign %d", ErrInfluencerNotEligible, influencer.ID, campaign.ID)
	}
	return s.checkCooldown(ctx, campaign, influencer)
}

func (s *Service) checkCooldown(ctx context.Context, campaign model.Campaign, influencer model.Influencer) error {
	advertiser, err := s.campaignRepo.GetAdvertiser(ctx, campaign.AdvertiserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if advertiser.InfluencerCooldownDays <= 0 {
		return nil
	}

	last, err := s.offerRepo.GetLastAcceptedAt(ctx, advertiser.ID, influencer.ID)
	if err != nil {
		return err
	}
	if !last.Valid {
		return nil
	}

	until := last.Time.Add(time.Duration(advertiser.InfluencerCooldownDays) * cooldownDay)
	if s.opts.now().Before(until) {
		return fmt.Errorf("%w: influencer %d until %s",
			ErrInfluencerOnCooldown, influencer.ID, until.Format(time.RFC3339))
	}
	return nil
}
