package repository

import (
	"context"
	"database/sql"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/jmoiron/sqlx"
)

// CandidatePosition ...
type CandidatePosition struct {
	OfferID  int64
	Position int64
}

// Offer ...
type Offer interface {
	GetOffer(ctx context.Context, offerID int64) (model.Offer, error)
	GetOfferByInfluencer(ctx context.Context, campaignID int64, influencerID int64) (model.Offer, error)
	ListOffersByIDs(ctx context.Context, offerIDs []int64) ([]model.Offer, error)

	// ListOffersByStates returns offers ordered by candidate position then id
	ListOffersByStates(ctx context.Context, campaignID int64, states []model.OfferState) ([]model.Offer, error)
	ListSelectedOffers(ctx context.Context, campaignID int64) ([]model.Offer, error)

	// GetLastAcceptedAt of the influencer across campaigns of the advertiser
	GetLastAcceptedAt(ctx context.Context, advertiserID int64, influencerID int64) (sql.NullTime, error)

	// InsertOffer returns ErrDuplicated when the (campaign, influencer) pair already has an offer
	InsertOffer(ctx context.Context, offer model.Offer) (int64, error)

	// UpdateOffer only applies when the stored state still equals expected
	UpdateOffer(ctx context.Context, offer model.Offer, expected model.OfferState) (bool, error)
	UpdateCandidatePositions(ctx context.Context, positions []CandidatePosition) error

	InsertOfferEvents(ctx context.Context, events []model.OfferEvent) error
	ListOfferEvents(ctx context.Context, offerID int64) ([]model.OfferEvent, error)
}

type offerImpl struct {
}

// NewOffer ...
func NewOffer() Offer {
	return &offerImpl{}
}

const offerColumns = `
id, campaign_id, influencer_id, state, reward, capacity_weight,
is_selected, candidate_position, answers, is_claimable,
accepted_at, created_at, updated_at
`

// GetOffer ...
func (o *offerImpl) GetOffer(ctx context.Context, offerID int64) (model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offer WHERE id = ?`
	var result model.Offer
	err := GetReadonly(ctx).GetContext(ctx, &result, query, offerID)
	return result, translateNoRows(err)
}

// GetOfferByInfluencer ...
func (o *offerImpl) GetOfferByInfluencer(
	ctx context.Context, campaignID int64, influencerID int64,
) (model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offer WHERE campaign_id = ? AND influencer_id = ?`
	var result model.Offer
	err := GetReadonly(ctx).GetContext(ctx, &result, query, campaignID, influencerID)
	return result, translateNoRows(err)
}

// ListOffersByIDs ...
func (o *offerImpl) ListOffersByIDs(ctx context.Context, offerIDs []int64) ([]model.Offer, error) {
	if len(offerIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT `+offerColumns+` FROM offer WHERE id IN (?) ORDER BY id`, offerIDs)
	if err != nil {
		return nil, err
	}

	var result []model.Offer
	err = GetReadonly(ctx).SelectContext(ctx, &result, query, args...)
	return result, err
}

// ListOffersByStates ...
func (o *offerImpl) ListOffersByStates(
	ctx context.Context, campaignID int64, states []model.OfferState,
) ([]model.Offer, error) {
	if len(states) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
SELECT `+offerColumns+` FROM offer
WHERE campaign_id = ? AND state IN (?)
ORDER BY candidate_position IS NULL, candidate_position, id
`, campaignID, states)
	if err != nil {
		return nil, err
	}

	var result []model.Offer
	err = GetReadonly(ctx).SelectContext(ctx, &result, query, args...)
	return result, err
}

// ListSelectedOffers ...
func (o *offerImpl) ListSelectedOffers(ctx context.Context, campaignID int64) ([]model.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offer WHERE campaign_id = ? AND is_selected ORDER BY id`
	var result []model.Offer
	err := GetReadonly(ctx).SelectContext(ctx, &result, query, campaignID)
	return result, err
}

// GetLastAcceptedAt ...
func (o *offerImpl) GetLastAcceptedAt(
	ctx context.Context, advertiserID int64, influencerID int64,
) (sql.NullTime, error) {
	query := `
SELECT MAX(o.accepted_at) FROM offer o
INNER JOIN campaign c ON c.id = o.campaign_id
WHERE c.advertiser_id = ? AND o.influencer_id = ? AND o.state = ?
`
	var result sql.NullTime
	err := GetReadonly(ctx).GetContext(ctx, &result, query, advertiserID, influencerID, model.OfferStateAccepted)
	return result, err
}

// InsertOffer ...
func (o *offerImpl) InsertOffer(ctx context.Context, offer model.Offer) (int64, error) {
	query := `
INSERT INTO offer (
	campaign_id, influencer_id, state, reward, capacity_weight,
	is_selected, candidate_position, answers, is_claimable, accepted_at
) VALUES (
	:campaign_id, :influencer_id, :state, :reward, :capacity_weight,
	:is_selected, :candidate_position, :answers, :is_claimable, :accepted_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, offer)
	if IsDuplicateEntry(err) {
		return 0, ErrDuplicated
	}
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateOffer ...
func (o *offerImpl) UpdateOffer(ctx context.Context, offer model.Offer, expected model.OfferState) (bool, error) {
	query := `
UPDATE offer SET
	state = ?, reward = ?, capacity_weight = ?,
	is_selected = ?, candidate_position = ?, answers = ?,
	is_claimable = ?, accepted_at = ?
WHERE id = ? AND state = ?
`
	result, err := GetTx(ctx).ExecContext(ctx, query,
		offer.State, offer.Reward, offer.CapacityWeight,
		offer.IsSelected, offer.CandidatePosition, offer.Answers,
		offer.IsClaimable, offer.AcceptedAt,
		offer.ID, expected,
	)
	if err != nil {
		return false, err
	}
	return isAffected(result)
}

// UpdateCandidatePositions ...
func (o *offerImpl) UpdateCandidatePositions(ctx context.Context, positions []CandidatePosition) error {
	query := `UPDATE offer SET candidate_position = ? WHERE id = ?`
	tx := GetTx(ctx)
	for _, p := range positions {
		_, err := tx.ExecContext(ctx, query, p.Position, p.OfferID)
		if err != nil {
			return err
		}
	}
	return nil
}

// InsertOfferEvents ...
func (o *offerImpl) InsertOfferEvents(ctx context.Context, events []model.OfferEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := `
INSERT INTO offer_event (offer_id, type, actor_id, actor_kind, data)
VALUES (:offer_id, :type, :actor_id, :actor_kind, :data)
`
	_, err := GetTx(ctx).NamedExecContext(ctx, query, events)
	return err
}

// ListOfferEvents ...
func (o *offerImpl) ListOfferEvents(ctx context.Context, offerID int64) ([]model.OfferEvent, error) {
	query := `
SELECT id, offer_id, type, actor_id, actor_kind, data, created_at
FROM offer_event WHERE offer_id = ? ORDER BY id
`
	var result []model.OfferEvent
	err := GetReadonly(ctx).SelectContext(ctx, &result, query, offerID)
	return result, err
}
