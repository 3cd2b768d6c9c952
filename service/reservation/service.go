package reservation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/pkg/mutex"
	"github.com/QuangTung97/offer-reserve/pkg/otellib"
	"github.com/QuangTung97/offer-reserve/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate otelwrap --out service_wrappers.go . IService

// IService ...
type IService interface {
	CreateOffer(ctx context.Context, actor model.Actor, campaignID int64, influencerID int64, skipEligibility bool) (model.Offer, error)
	Participate(ctx context.Context, actor model.Actor, campaignID int64, influencerID int64, answers []model.Answer) (model.Offer, error)

	Reserve(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	RequestParticipation(ctx context.Context, actor model.Actor, offerID int64, answers []model.Answer) (model.Offer, error)
	AcceptRequest(ctx context.Context, actor model.Actor, offerID int64, opts AdmitOptions) (model.Offer, error)
	SetAsCandidate(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	ApproveCandidate(ctx context.Context, actor model.Actor, offerID int64, opts AdmitOptions) (model.Offer, error)
	RejectCandidate(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	PromoteToAccepted(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	Reject(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	Revoke(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	RevertRejection(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)

	ApproveAllCandidates(ctx context.Context, actor model.Actor, campaignID int64, force bool) (BulkResult, error)
	PromoteSelected(ctx context.Context, actor model.Actor, campaignID int64, force bool) (BulkResult, error)
	ForceReserve(ctx context.Context, actor model.Actor, campaignID int64, offerIDs []int64, opts AdmitOptions) (BulkResult, error)

	SetSelected(ctx context.Context, actor model.Actor, offerID int64, selected bool) (model.Offer, error)
	MarkClaimable(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error)
	SetCandidatePosition(ctx context.Context, actor model.Actor, campaignID int64, fromOfferID int64, toOfferID int64, expectedHash string) (string, error)

	ListCandidates(ctx context.Context, campaignID int64) (CandidateList, error)
	GetFundProgress(ctx context.Context, campaignID int64) (model.FundProgress, error)
	GetOffer(ctx context.Context, offerID int64) (model.Offer, error)
	GetOfferState(ctx context.Context, offerID int64) (model.OfferState, error)
	ListOfferEvents(ctx context.Context, offerID int64) ([]model.OfferEvent, error)

	LaunchCampaign(ctx context.Context, actor model.Actor, campaignID int64) (model.Campaign, error)
	CompleteCampaign(ctx context.Context, actor model.Actor, campaignID int64) (model.Campaign, error)
	StashCampaign(ctx context.Context, actor model.Actor, campaignID int64) (model.Campaign, error)
	RestoreCampaign(ctx context.Context, actor model.Actor, campaignID int64) (model.Campaign, error)
}

// BulkResult of a batch admission, Admitted is in rank order
type BulkResult struct {
	Admitted      []model.Offer
	RewardChanged []*OfferRewardChangedError
}

// Service ...
type Service struct {
	provider       repository.Provider
	campaignRepo   repository.Campaign
	offerRepo      repository.Offer
	influencerRepo repository.Influencer
	mutex          mutex.Mutex

	calculator RewardCalculator
	opts       serviceOptions
}

var _ IService = &Service{}

// NewService ...
func NewService(
	provider repository.Provider,
	campaignRepo repository.Campaign,
	offerRepo repository.Offer,
	influencerRepo repository.Influencer,
	mu mutex.Mutex,
	options ...Option,
) *Service {
	return &Service{
		provider:       provider,
		campaignRepo:   campaignRepo,
		offerRepo:      offerRepo,
		influencerRepo: influencerRepo,
		mutex:          mu,

		opts: newServiceOptions(options...),
	}
}

// CreateOffer creates an invited offer for direct campaigns and a pending one for apply-first campaigns
func (s *Service) CreateOffer(
	ctx context.Context, actor model.Actor, campaignID int64, influencerID int64, skipEligibility bool,
) (model.Offer, error) {
	readCtx := s.provider.Readonly(ctx)

	campaign, err := s.campaignRepo.GetCampaign(readCtx, campaignID)
	if err != nil {
		return model.Offer{}, notFound(err, "campaign", campaignID)
	}
	if err := requireLaunched(campaign); err != nil {
		return model.Offer{}, err
	}

	influencer, err := s.influencerRepo.GetInfluencer(readCtx, influencerID)
	if err != nil {
		return model.Offer{}, notFound(err, "influencer", influencerID)
	}

	if !skipEligibility {
		if err := s.checkEligibility(readCtx, campaign, influencer); err != nil {
			return model.Offer{}, err
		}
	}

	state := model.OfferStatePending
	if campaign.IsDirect() {
		state = model.OfferStateInvited
	}

	offer := model.Offer{
		CampaignID:     campaignID,
		InfluencerID:   influencerID,
		State:          state,
		Reward:         s.calculator.Reward(campaign, s.calculator.Weight(campaign, influencer)),
		CapacityWeight: decimal.Zero,
	}

	err = s.provider.Transact(ctx, func(ctx context.Context) error {
		id, err := s.offerRepo.InsertOffer(ctx, offer)
		if errors.Is(err, repository.ErrDuplicated) {
			return fmt.Errorf("%w: campaign %d influencer %d", ErrOfferAlreadyExists, campaignID, influencerID)
		}
		if err != nil {
			return err
		}
		offer.ID = id

		event := s.newEvent(actor, id, model.OfferEventCreate, transitionData{
			To:     state.String(),
			Reward: offer.Reward.String(),
		})
		return s.offerRepo.InsertOfferEvents(ctx, []model.OfferEvent{event})
	})
	if err != nil {
		return model.Offer{}, err
	}
	return offer, nil
}

// Participate gets or creates the offer of the influencer then requests or reserves it.
// Calling it again after success returns the current offer.
func (s *Service) Participate(
	ctx context.Context, actor model.Actor, campaignID int64, influencerID int64, answers []model.Answer,
) (model.Offer, error) {
	offer, err := s.offerRepo.GetOfferByInfluencer(s.provider.Readonly(ctx), campaignID, influencerID)
	if errors.Is(err, repository.ErrNotFound) {
		offer, err = s.CreateOffer(ctx, actor, campaignID, influencerID, false)
		if errors.Is(err, ErrOfferAlreadyExists) {
			offer, err = s.offerRepo.GetOfferByInfluencer(s.provider.Readonly(ctx), campaignID, influencerID)
		}
	}
	if err != nil {
		return model.Offer{}, err
	}

	switch offer.State {
	case model.OfferStatePending:
		return s.RequestParticipation(ctx, actor, offer.ID, answers)
	case model.OfferStateInvited:
		return s.Reserve(ctx, actor, offer.ID)
	default:
		return offer, nil
	}
}

// Reserve invited -> accepted in direct campaigns
func (s *Service) Reserve(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.coordinate(ctx, actor, offerID, OpReserve, AdmitOptions{})
}

// RequestParticipation pending -> requested, stores the answers
func (s *Service) RequestParticipation(
	ctx context.Context, actor model.Actor, offerID int64, answers []model.Answer,
) (model.Offer, error) {
	var data []byte
	if len(answers) > 0 {
		var err error
		data, err = json.Marshal(answers)
		if err != nil {
			return model.Offer{}, err
		}
	}
	return s.transit(ctx, actor, offerID, OpRequestParticipation, func(offer *model.Offer) {
		offer.Answers = data
	})
}

// AcceptRequest requested -> accepted in apply-first campaigns without brand match
func (s *Service) AcceptRequest(
	ctx context.Context, actor model.Actor, offerID int64, opts AdmitOptions,
) (model.Offer, error) {
	return s.coordinate(ctx, actor, offerID, OpAcceptRequest, opts)
}

// SetAsCandidate requested -> candidate, appended at the end of the candidate list
func (s *Service) SetAsCandidate(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.transit(ctx, actor, offerID, OpSetAsCandidate, nil)
}

// ApproveCandidate candidate -> approved_by_brand, consumes capacity
func (s *Service) ApproveCandidate(
	ctx context.Context, actor model.Actor, offerID int64, opts AdmitOptions,
) (model.Offer, error) {
	return s.coordinate(ctx, actor, offerID, OpApproveCandidate, opts)
}

// RejectCandidate candidate -> rejected_by_brand
func (s *Service) RejectCandidate(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.transit(ctx, actor, offerID, OpRejectCandidate, nil)
}

// PromoteToAccepted approved_by_brand -> accepted, keeps the capacity held by the offer
func (s *Service) PromoteToAccepted(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.coordinate(ctx, actor, offerID, OpPromoteToAccepted, AdmitOptions{})
}

// Reject ...
func (s *Service) Reject(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.transit(ctx, actor, offerID, OpReject, nil)
}

// Revoke releases capacity held by the offer
func (s *Service) Revoke(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.coordinate(ctx, actor, offerID, OpRevoke, AdmitOptions{})
}

// RevertRejection rejected/revoked -> accepted, capacity is checked again
func (s *Service) RevertRejection(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.coordinate(ctx, actor, offerID, OpRevertRejection, AdmitOptions{})
}

// transit runs a transition that does not change the reserved capacity
func (s *Service) transit(
	ctx context.Context, actor model.Actor, offerID int64, op Operation, mutate func(offer *model.Offer),
) (model.Offer, error) {
	var result model.Offer
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		offer, err := s.offerRepo.GetOffer(ctx, offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}

		var campaign model.Campaign
		if transitionTable[op].candidates {
			campaign, err = s.campaignRepo.LockCampaign(ctx, offer.CampaignID)
		} else {
			campaign, err = s.campaignRepo.GetCampaign(ctx, offer.CampaignID)
		}
		if err != nil {
			return notFound(err, "campaign", offer.CampaignID)
		}
		if err := requireLaunched(campaign); err != nil {
			return err
		}

		rule, err := checkTransition(op, campaign, offer)
		if err != nil {
			return err
		}

		updated := offer
		updated.State = rule.to
		if offer.State == model.OfferStateCandidate {
			updated.CandidatePosition = sql.NullInt64{}
		}
		if rule.to == model.OfferStateCandidate {
			pos, err := s.nextCandidatePosition(ctx, campaign.ID)
			if err != nil {
				return err
			}
			updated.CandidatePosition = sql.NullInt64{Int64: pos, Valid: true}
		}
		if mutate != nil {
			mutate(&updated)
		}

		if err := s.compareAndUpdate(ctx, updated, offer.State, op); err != nil {
			return err
		}
		if rule.candidates {
			if err := s.rechainCandidates(ctx, &campaign); err != nil {
				return err
			}
		}

		result = updated
		event := s.newTransitionEvent(actor, rule.event, offer, updated, AdmitOptions{})
		return s.offerRepo.InsertOfferEvents(ctx, []model.OfferEvent{event})
	})
	if err != nil {
		return model.Offer{}, err
	}
	return result, nil
}

// updateFlags changes offer attributes that are not part of the state machine
func (s *Service) updateFlags(
	ctx context.Context, actor model.Actor, offerID int64, eventType model.OfferEventType,
	fn func(offer *model.Offer) (bool, error),
) (model.Offer, error) {
	var result model.Offer
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		offer, err := s.offerRepo.GetOffer(ctx, offerID)
		if err != nil {
			return notFound(err, "offer", offerID)
		}

		updated := offer
		value, err := fn(&updated)
		if err != nil {
			return err
		}

		updated.UpdatedAt = s.opts.now()
		ok, err := s.offerRepo.UpdateOffer(ctx, updated, offer.State)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: offer %d changed concurrently", ErrInvalidStateTransition, offerID)
		}

		result = updated
		event := s.newEvent(actor, offerID, eventType, flagData{Value: value})
		return s.offerRepo.InsertOfferEvents(ctx, []model.OfferEvent{event})
	})
	if err != nil {
		return model.Offer{}, err
	}
	return result, nil
}

// SetSelected marks the offer for PromoteSelected
func (s *Service) SetSelected(
	ctx context.Context, actor model.Actor, offerID int64, selected bool,
) (model.Offer, error) {
	return s.updateFlags(ctx, actor, offerID, model.OfferEventSetSelected, func(offer *model.Offer) (bool, error) {
		if offer.State.IsTerminal() {
			return false, fmt.Errorf("%w: select offer %d in %s", ErrInvalidStateTransition, offer.ID, offer.State)
		}
		offer.IsSelected = selected
		return selected, nil
	})
}

// MarkClaimable is called once the content of an accepted offer has been reviewed
func (s *Service) MarkClaimable(ctx context.Context, actor model.Actor, offerID int64) (model.Offer, error) {
	return s.updateFlags(ctx, actor, offerID, model.OfferEventMarkClaimable, func(offer *model.Offer) (bool, error) {
		if offer.State != model.OfferStateAccepted {
			return false, fmt.Errorf("%w: mark claimable offer %d in %s",
				ErrInvalidStateTransition, offer.ID, offer.State)
		}
		offer.IsClaimable = true
		return true, nil
	})
}

// GetOffer ...
func (s *Service) GetOffer(ctx context.Context, offerID int64) (model.Offer, error) {
	offer, err := s.offerRepo.GetOffer(s.provider.Readonly(ctx), offerID)
	if err != nil {
		return model.Offer{}, notFound(err, "offer", offerID)
	}
	return offer, nil
}

// GetOfferState returns the effective state, offers of completed campaigns may be expired
func (s *Service) GetOfferState(ctx context.Context, offerID int64) (model.OfferState, error) {
	ctx = s.provider.Readonly(ctx)

	offer, err := s.offerRepo.GetOffer(ctx, offerID)
	if err != nil {
		return 0, notFound(err, "offer", offerID)
	}
	campaign, err := s.campaignRepo.GetCampaign(ctx, offer.CampaignID)
	if err != nil {
		return 0, notFound(err, "campaign", offer.CampaignID)
	}
	return offer.EffectiveState(campaign), nil
}

// ListOfferEvents ...
func (s *Service) ListOfferEvents(ctx context.Context, offerID int64) ([]model.OfferEvent, error) {
	return s.offerRepo.ListOfferEvents(s.provider.Readonly(ctx), offerID)
}

func (s *Service) loadFund(ctx context.Context, campaignID int64) (Fund, error) {
	campaign, err := s.campaignRepo.GetCampaign(ctx, campaignID)
	if err != nil {
		return Fund{}, notFound(err, "campaign", campaignID)
	}
	reserved, err := s.offerRepo.ListOffersByStates(ctx, campaignID, capacityStates)
	if err != nil {
		return Fund{}, err
	}
	return NewFund(campaign, reserved, 0), nil
}

// GetFundProgress can be stale for a short time, admission never uses it
func (s *Service) GetFundProgress(ctx context.Context, campaignID int64) (model.FundProgress, error) {
	key := fundCacheKey(campaignID)
	if data, ok := s.opts.fundCache.Get(key); ok {
		progress, err := decodeFundProgress(data)
		if err == nil {
			return progress, nil
		}
	}

	fund, err := s.loadFund(s.provider.Readonly(ctx), campaignID)
	if err != nil {
		return model.FundProgress{}, err
	}

	progress := fund.Progress()
	data, err := encodeFundProgress(progress)
	if err != nil {
		otellib.Extract(ctx).Warn("encode fund progress", zap.Int64("campaign_id", campaignID), zap.Error(err))
		return progress, nil
	}
	s.opts.fundCache.Set(key, data, s.opts.fundCacheTTL)
	return progress, nil
}

// RefreshFundGauges exports the fund of every launched campaign
func (s *Service) RefreshFundGauges(ctx context.Context) error {
	ctx = s.provider.Readonly(ctx)

	ids, err := s.campaignRepo.ListCampaignIDsByState(ctx, model.CampaignStateLaunched)
	if err != nil {
		return err
	}

	for _, id := range ids {
		fund, err := s.loadFund(ctx, id)
		if err != nil {
			otellib.Extract(ctx).Warn("load campaign fund", zap.Int64("campaign_id", id), zap.Error(err))
			continue
		}
		s.opts.metrics.setFund(id, fund)
	}
	return nil
}
