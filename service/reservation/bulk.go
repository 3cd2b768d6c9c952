package reservation

import (
	"context"
	"errors"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
)

type batchItem struct {
	op    Operation
	offer model.Offer
}

// admitBatch admits items in order and stops at the first ErrCampaignFullyReserved.
// Offers admitted before the stop are kept, any other error aborts the whole batch.
func (s *Service) admitBatch(
	sc *lockScope, actor model.Actor, items []batchItem, opts AdmitOptions,
) (BulkResult, error) {
	var result BulkResult
	for _, item := range items {
		rule, err := checkTransition(item.op, sc.campaign, item.offer)
		if err != nil {
			return BulkResult{}, err
		}

		updated, changed, err := s.admit(sc, actor, item.op, rule, item.offer, opts)
		if errors.Is(err, ErrCampaignFullyReserved) {
			return result, err
		}
		if err != nil {
			return BulkResult{}, err
		}

		result.Admitted = append(result.Admitted, updated)
		if changed != nil {
			result.RewardChanged = append(result.RewardChanged, changed)
		}
	}
	return result, nil
}

// runBatch commits the admitted prefix and then returns the stop error, if any
func (s *Service) runBatch(
	ctx context.Context, actor model.Actor, campaignID int64, opts AdmitOptions,
	collect func(sc *lockScope) ([]batchItem, error),
	after func(sc *lockScope) error,
) (BulkResult, error) {
	var result BulkResult
	var stopErr error

	err := s.withCampaignLock(ctx, campaignID, func(sc *lockScope) error {
		if err := requireLaunched(sc.campaign); err != nil {
			return err
		}

		items, err := collect(sc)
		if err != nil {
			return err
		}

		result, stopErr = s.admitBatch(sc, actor, items, opts)
		if stopErr != nil && !errors.Is(stopErr, ErrCampaignFullyReserved) {
			return stopErr
		}

		if after != nil {
			return after(sc)
		}
		return nil
	})
	if err != nil {
		return BulkResult{}, err
	}
	return result, stopErr
}

func forceOptions(force bool) AdmitOptions {
	return AdmitOptions{IgnoreCapacity: force}
}

// ApproveAllCandidates approves candidates in rank order until the campaign is full.
// With force, capacity is ignored for the whole batch.
func (s *Service) ApproveAllCandidates(
	ctx context.Context, actor model.Actor, campaignID int64, force bool,
) (BulkResult, error) {
	collect := func(sc *lockScope) ([]batchItem, error) {
		candidates, err := s.offerRepo.ListOffersByStates(sc.ctx, campaignID, candidateStates)
		if err != nil {
			return nil, err
		}

		items := make([]batchItem, 0, len(candidates))
		for _, o := range candidates {
			items = append(items, batchItem{op: OpApproveCandidate, offer: o})
		}
		return items, nil
	}

	after := func(sc *lockScope) error {
		return s.rechainCandidates(sc.ctx, &sc.campaign)
	}

	return s.runBatch(ctx, actor, campaignID, forceOptions(force), collect, after)
}

func promoteOperation(campaign model.Campaign, offer model.Offer) (Operation, bool) {
	switch {
	case campaign.BrandMatch && offer.State == model.OfferStateApprovedByBrand:
		return OpPromoteToAccepted, true
	case campaign.ApplyFirst && !campaign.BrandMatch && offer.State == model.OfferStateRequested:
		return OpAcceptRequest, true
	default:
		return 0, false
	}
}

// PromoteSelected promotes selected offers to accepted in id order, offers in other states are skipped
func (s *Service) PromoteSelected(
	ctx context.Context, actor model.Actor, campaignID int64, force bool,
) (BulkResult, error) {
	collect := func(sc *lockScope) ([]batchItem, error) {
		selected, err := s.offerRepo.ListSelectedOffers(sc.ctx, campaignID)
		if err != nil {
			return nil, err
		}

		var items []batchItem
		for _, o := range selected {
			op, ok := promoteOperation(sc.campaign, o)
			if !ok {
				continue
			}
			o.IsSelected = false
			items = append(items, batchItem{op: op, offer: o})
		}
		return items, nil
	}

	return s.runBatch(ctx, actor, campaignID, forceOptions(force), collect, nil)
}

// ForceReserve moves rejected or revoked offers back to accepted in the given order
func (s *Service) ForceReserve(
	ctx context.Context, actor model.Actor, campaignID int64, offerIDs []int64, opts AdmitOptions,
) (BulkResult, error) {
	collect := func(sc *lockScope) ([]batchItem, error) {
		offers, err := s.offerRepo.ListOffersByIDs(sc.ctx, offerIDs)
		if err != nil {
			return nil, err
		}

		byID := make(map[int64]model.Offer, len(offers))
		for _, o := range offers {
			byID[o.ID] = o
		}

		items := make([]batchItem, 0, len(offerIDs))
		seen := make(map[int64]struct{}, len(offerIDs))
		for _, id := range offerIDs {
			if _, existed := seen[id]; existed {
				continue
			}
			seen[id] = struct{}{}

			o, ok := byID[id]
			if !ok || o.CampaignID != campaignID {
				return nil, fmt.Errorf("%w: offer %d is not part of campaign %d", ErrInvalidOfferID, id, campaignID)
			}
			items = append(items, batchItem{op: OpForceReserve, offer: o})
		}
		return items, nil
	}

	return s.runBatch(ctx, actor, campaignID, opts, collect, nil)
}
