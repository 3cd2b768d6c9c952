package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/pkg/util"
	"github.com/QuangTung97/offer-reserve/repository"
)

var candidateStates = []model.OfferState{model.OfferStateCandidate}

// CandidateList is the ranked candidate list with its version token
type CandidateList struct {
	Hash   string
	Offers []model.Offer
}

func candidateIDs(offers []model.Offer) []int64 {
	ids := make([]int64, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	return ids
}

// denseRewrite returns the positions that differ from 1..n in list order
func denseRewrite(offers []model.Offer) []repository.CandidatePosition {
	var result []repository.CandidatePosition
	for i := range offers {
		pos := int64(i + 1)
		if offers[i].CandidatePosition.Valid && offers[i].CandidatePosition.Int64 == pos {
			continue
		}
		offers[i].CandidatePosition = sql.NullInt64{Int64: pos, Valid: true}
		result = append(result, repository.CandidatePosition{
			OfferID:  offers[i].ID,
			Position: pos,
		})
	}
	return result
}

// moveCandidate removes the element at from and inserts it at to
func moveCandidate(offers []model.Offer, from int, to int) []model.Offer {
	result := make([]model.Offer, 0, len(offers))
	moved := offers[from]
	for i, o := range offers {
		if i == from {
			continue
		}
		result = append(result, o)
	}

	result = append(result, model.Offer{})
	copy(result[to+1:], result[to:])
	result[to] = moved
	return result
}

func indexOfOffer(offers []model.Offer, offerID int64) int {
	for i, o := range offers {
		if o.ID == offerID {
			return i
		}
	}
	return -1
}

func (s *Service) nextCandidatePosition(ctx context.Context, campaignID int64) (int64, error) {
	candidates, err := s.offerRepo.ListOffersByStates(ctx, campaignID, candidateStates)
	if err != nil {
		return 0, err
	}
	return int64(len(candidates) + 1), nil
}

// rechainCandidates compacts positions after a membership change and stores a new hash.
// Must run inside a transaction holding the campaign row lock.
func (s *Service) rechainCandidates(ctx context.Context, campaign *model.Campaign) error {
	candidates, err := s.offerRepo.ListOffersByStates(ctx, campaign.ID, candidateStates)
	if err != nil {
		return err
	}

	positions := denseRewrite(candidates)
	if len(positions) > 0 {
		if err := s.offerRepo.UpdateCandidatePositions(ctx, positions); err != nil {
			return err
		}
	}

	newHash := util.ChainHash(campaign.CandidatesHash, candidateIDs(candidates))
	ok, err := s.campaignRepo.CompareAndSetCandidatesHash(ctx, campaign.ID, campaign.CandidatesHash, newHash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: campaign %d", ErrStaleOrdering, campaign.ID)
	}
	campaign.CandidatesHash = newHash
	return nil
}

// ListCandidates ...
func (s *Service) ListCandidates(ctx context.Context, campaignID int64) (CandidateList, error) {
	ctx = s.provider.Readonly(ctx)

	campaign, err := s.campaignRepo.GetCampaign(ctx, campaignID)
	if err != nil {
		return CandidateList{}, notFound(err, "campaign", campaignID)
	}

	offers, err := s.offerRepo.ListOffersByStates(ctx, campaignID, candidateStates)
	if err != nil {
		return CandidateList{}, err
	}
	return CandidateList{
		Hash:   campaign.CandidatesHash,
		Offers: offers,
	}, nil
}

// SetCandidatePosition moves fromOfferID to the position currently held by toOfferID.
// Optimistic: fails with ErrStaleOrdering when expectedHash is not the current hash.
func (s *Service) SetCandidatePosition(
	ctx context.Context, actor model.Actor, campaignID int64,
	fromOfferID int64, toOfferID int64, expectedHash string,
) (string, error) {
	var newHash string
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		campaign, err := s.campaignRepo.GetCampaign(ctx, campaignID)
		if err != nil {
			return notFound(err, "campaign", campaignID)
		}
		if campaign.CandidatesHash != expectedHash {
			return fmt.Errorf("%w: campaign %d", ErrStaleOrdering, campaignID)
		}

		candidates, err := s.offerRepo.ListOffersByStates(ctx, campaignID, candidateStates)
		if err != nil {
			return err
		}

		from := indexOfOffer(candidates, fromOfferID)
		if from < 0 {
			return fmt.Errorf("%w: offer %d is not a candidate of campaign %d", ErrInvalidOfferID, fromOfferID, campaignID)
		}
		to := indexOfOffer(candidates, toOfferID)
		if to < 0 {
			return fmt.Errorf("%w: offer %d is not a candidate of campaign %d", ErrInvalidOfferID, toOfferID, campaignID)
		}

		moved := moveCandidate(candidates, from, to)
		positions := denseRewrite(moved)
		if len(positions) > 0 {
			if err := s.offerRepo.UpdateCandidatePositions(ctx, positions); err != nil {
				return err
			}
		}

		newHash = util.ChainHash(expectedHash, candidateIDs(moved))
		ok, err := s.campaignRepo.CompareAndSetCandidatesHash(ctx, campaignID, expectedHash, newHash)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: campaign %d", ErrStaleOrdering, campaignID)
		}

		event := s.newEvent(actor, fromOfferID, model.OfferEventMoveCandidate, moveCandidateData{
			FromPosition: int64(from + 1),
			ToPosition:   int64(to + 1),
			Hash:         newHash,
		})
		return s.offerRepo.InsertOfferEvents(ctx, []model.OfferEvent{event})
	})
	if err != nil {
		return "", err
	}
	return newHash, nil
}
