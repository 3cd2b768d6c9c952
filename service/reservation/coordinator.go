package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/pkg/mutex"
	"github.com/QuangTung97/offer-reserve/pkg/otellib"
	"github.com/QuangTung97/offer-reserve/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"strconv"
)

// AdmitOptions are independent overrides for a capacity admission
type AdmitOptions struct {
	// SuppressRewardChange applies a reduced reward without returning OfferRewardChangedError
	SuppressRewardChange bool

	// IgnoreCapacity admits at full weight even when the campaign is full
	IgnoreCapacity bool
}

type admission struct {
	weight  decimal.Decimal
	reward  decimal.Decimal
	reduced bool
}

// decideAdmission is the core capacity rule, remaining is computed without the offer itself
func decideAdmission(
	calc RewardCalculator, campaign model.Campaign, fund Fund,
	weight decimal.Decimal, opts AdmitOptions,
) (admission, error) {
	if opts.IgnoreCapacity {
		return admission{
			weight: weight,
			reward: calc.Reward(campaign, weight),
		}, nil
	}

	remaining := fund.Remaining()
	if !remaining.IsPositive() {
		return admission{}, fmt.Errorf("%w: campaign %d", ErrCampaignFullyReserved, campaign.ID)
	}

	if weight.LessThanOrEqual(remaining) {
		return admission{
			weight: weight,
			reward: calc.Reward(campaign, weight),
		}, nil
	}

	return admission{
		weight:  remaining,
		reward:  calc.Reward(campaign, remaining),
		reduced: true,
	}, nil
}

// lockScope is the state visible while holding the campaign lock and the campaign row lock
type lockScope struct {
	ctx      context.Context
	campaign model.Campaign

	// reserved is kept up to date with admissions inside the scope
	reserved []model.Offer
	events   []model.OfferEvent

	fundChanged bool
}

func (sc *lockScope) fund(excludeOfferID int64) Fund {
	return NewFund(sc.campaign, sc.reserved, excludeOfferID)
}

func (sc *lockScope) replaceReserved(offer model.Offer) {
	result := sc.reserved[:0]
	for _, o := range sc.reserved {
		if o.ID != offer.ID {
			result = append(result, o)
		}
	}
	if offer.State.ConsumesCapacity() {
		result = append(result, offer)
	}
	sc.reserved = result
	sc.fundChanged = true
}

func campaignLockKey(campaignID int64) string {
	return "campaign:" + strconv.FormatInt(campaignID, 10)
}

// withCampaignLock serializes every change of the reserved capacity of one campaign.
// Events appended to the scope are written in the same transaction.
func (s *Service) withCampaignLock(ctx context.Context, campaignID int64, fn func(sc *lockScope) error) error {
	start := s.opts.now()
	handle, err := s.mutex.Acquire(ctx, campaignLockKey(campaignID), s.opts.lockTimeout)
	s.opts.metrics.observeLockWait(s.opts.now().Sub(start))
	if errors.Is(err, mutex.ErrTimeout) {
		return fmt.Errorf("%w: campaign %d", ErrReservationBusy, campaignID)
	}
	if err != nil {
		return err
	}
	defer func() {
		releaseErr := s.mutex.Release(ctx, handle)
		if releaseErr != nil {
			otellib.Extract(ctx).Warn("release campaign lock",
				zap.Int64("campaign_id", campaignID), zap.Error(releaseErr))
		}
	}()

	var fundChanged bool
	err = s.provider.Transact(ctx, func(ctx context.Context) error {
		campaign, err := s.campaignRepo.LockCampaign(ctx, campaignID)
		if err != nil {
			return notFound(err, "campaign", campaignID)
		}

		reserved, err := s.offerRepo.ListOffersByStates(ctx, campaignID, capacityStates)
		if err != nil {
			return err
		}

		sc := &lockScope{
			ctx:      ctx,
			campaign: campaign,
			reserved: reserved,
		}
		if err := fn(sc); err != nil {
			return err
		}

		fundChanged = sc.fundChanged
		if len(sc.events) == 0 {
			return nil
		}
		return s.offerRepo.InsertOfferEvents(ctx, sc.events)
	})
	if err != nil {
		return err
	}

	if fundChanged {
		s.opts.fundCache.Delete(fundCacheKey(campaignID))
	}
	return nil
}

func (s *Service) offerWeight(ctx context.Context, campaign model.Campaign, offer model.Offer) (decimal.Decimal, error) {
	influencer, err := s.influencerRepo.GetInfluencer(ctx, offer.InfluencerID)
	if err != nil {
		return decimal.Zero, notFound(err, "influencer", offer.InfluencerID)
	}
	return s.calculator.Weight(campaign, influencer), nil
}

// admit moves the offer into rule.to consuming capacity.
// The returned OfferRewardChangedError is not a failure, the offer was admitted.
func (s *Service) admit(
	sc *lockScope, actor model.Actor, op Operation, rule transitionRule,
	offer model.Offer, opts AdmitOptions,
) (model.Offer, *OfferRewardChangedError, error) {
	var adm admission
	if offer.State.ConsumesCapacity() {
		// already holds its capacity
		adm = admission{weight: offer.CapacityWeight, reward: offer.Reward}
	} else {
		weight, err := s.offerWeight(sc.ctx, sc.campaign, offer)
		if err != nil {
			return model.Offer{}, nil, err
		}

		adm, err = decideAdmission(s.calculator, sc.campaign, sc.fund(offer.ID), weight, opts)
		if err != nil {
			s.opts.metrics.observeAdmission(op, resultFullyReserved)
			return model.Offer{}, nil, err
		}
	}

	updated := offer
	updated.State = rule.to
	updated.CapacityWeight = adm.weight
	updated.Reward = adm.reward
	if rule.to == model.OfferStateAccepted {
		updated.AcceptedAt = sql.NullTime{Time: s.opts.now(), Valid: true}
	}
	if offer.State == model.OfferStateCandidate {
		updated.CandidatePosition = sql.NullInt64{}
	}

	if err := s.compareAndUpdate(sc.ctx, updated, offer.State, op); err != nil {
		return model.Offer{}, nil, err
	}
	sc.replaceReserved(updated)

	sc.events = append(sc.events, s.newTransitionEvent(actor, rule.event, offer, updated, opts))

	if !adm.reduced {
		s.opts.metrics.observeAdmission(op, resultAdmitted)
		return updated, nil, nil
	}

	s.opts.metrics.observeAdmission(op, resultReduced)
	sc.events = append(sc.events, s.newEvent(actor, updated.ID, model.OfferEventRewardChanged, rewardChangedData{
		OldReward: offer.Reward.String(),
		NewReward: updated.Reward.String(),
		Weight:    updated.CapacityWeight.String(),
	}))
	if opts.SuppressRewardChange {
		return updated, nil, nil
	}
	return updated, &OfferRewardChangedError{
		OfferID:   updated.ID,
		OldReward: offer.Reward,
		NewReward: updated.Reward,
		Weight:    updated.CapacityWeight,
	}, nil
}

// release moves the offer into rule.to, capacity held by the offer is returned to the fund
func (s *Service) release(
	sc *lockScope, actor model.Actor, op Operation, rule transitionRule, offer model.Offer,
) (model.Offer, error) {
	updated := offer
	updated.State = rule.to
	if offer.State == model.OfferStateCandidate {
		updated.CandidatePosition = sql.NullInt64{}
	}

	if err := s.compareAndUpdate(sc.ctx, updated, offer.State, op); err != nil {
		return model.Offer{}, err
	}
	if offer.State.ConsumesCapacity() {
		sc.replaceReserved(updated)
	}

	sc.events = append(sc.events, s.newTransitionEvent(actor, rule.event, offer, updated, AdmitOptions{}))
	return updated, nil
}

func (s *Service) compareAndUpdate(
	ctx context.Context, offer model.Offer, expected model.OfferState, op Operation,
) error {
	offer.UpdatedAt = s.opts.now()
	ok, err := s.offerRepo.UpdateOffer(ctx, offer, expected)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s offer %d no longer %s",
			ErrInvalidStateTransition, op, offer.ID, expected)
	}
	return nil
}

// coordinate runs a single offer transition under the campaign lock
func (s *Service) coordinate(
	ctx context.Context, actor model.Actor, offerID int64, op Operation, opts AdmitOptions,
) (model.Offer, error) {
	campaignID, err := s.offerCampaignID(ctx, offerID)
	if err != nil {
		return model.Offer{}, err
	}

	var result model.Offer
	var changed *OfferRewardChangedError

	err = s.withCampaignLock(ctx, campaignID, func(sc *lockScope) error {
		offer, err := s.offerRepo.GetOffer(sc.ctx, offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}
		if err := requireLaunched(sc.campaign); err != nil {
			return err
		}

		rule, err := checkTransition(op, sc.campaign, offer)
		if err != nil {
			return err
		}

		if rule.admits {
			result, changed, err = s.admit(sc, actor, op, rule, offer, opts)
		} else {
			result, err = s.release(sc, actor, op, rule, offer)
		}
		if err != nil {
			return err
		}

		if rule.candidates {
			return s.rechainCandidates(sc.ctx, &sc.campaign)
		}
		return nil
	})
	if errors.Is(err, ErrReservationBusy) {
		s.opts.metrics.observeAdmission(op, resultBusy)
	}
	if err != nil {
		return model.Offer{}, err
	}

	if changed != nil {
		return result, changed
	}
	return result, nil
}

func (s *Service) offerCampaignID(ctx context.Context, offerID int64) (int64, error) {
	offer, err := s.offerRepo.GetOffer(s.provider.Readonly(ctx), offerID)
	if err != nil {
		return 0, notFound(err, "offer", offerID)
	}
	return offer.CampaignID, nil
}

func notFound(err error, kind string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return err
}
