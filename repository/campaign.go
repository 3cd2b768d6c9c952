package repository

import (
	"context"
	"github.com/QuangTung97/offer-reserve/model"
)

// Campaign ...
type Campaign interface {
	GetCampaign(ctx context.Context, campaignID int64) (model.Campaign, error)
	ListCampaignIDsByState(ctx context.Context, state model.CampaignState) ([]int64, error)

	// LockCampaign must be called inside a transaction, the row lock is held until commit
	LockCampaign(ctx context.Context, campaignID int64) (model.Campaign, error)
	InsertCampaign(ctx context.Context, campaign model.Campaign) (int64, error)
	UpdateCampaignState(ctx context.Context, campaign model.Campaign, from model.CampaignState) (bool, error)
	CompareAndSetCandidatesHash(ctx context.Context, campaignID int64, expected string, newHash string) (bool, error)

	GetAdvertiser(ctx context.Context, advertiserID int64) (model.Advertiser, error)
	InsertAdvertiser(ctx context.Context, advertiser model.Advertiser) (int64, error)
}

type campaignImpl struct {
}

// NewCampaign ...
func NewCampaign() Campaign {
	return &campaignImpl{}
}

const campaignColumns = `
id, advertiser_id, name, reward_model, units, price,
apply_first, brand_match, state, candidates_hash,
launched_at, completed_at, created_at, updated_at
`

// GetCampaign ...
func (c *campaignImpl) GetCampaign(ctx context.Context, campaignID int64) (model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaign WHERE id = ?`
	var result model.Campaign
	err := GetReadonly(ctx).GetContext(ctx, &result, query, campaignID)
	return result, translateNoRows(err)
}

// ListCampaignIDsByState ...
func (c *campaignImpl) ListCampaignIDsByState(ctx context.Context, state model.CampaignState) ([]int64, error) {
	query := `SELECT id FROM campaign WHERE state = ? ORDER BY id`
	var result []int64
	err := GetReadonly(ctx).SelectContext(ctx, &result, query, state)
	return result, err
}

// LockCampaign ...
func (c *campaignImpl) LockCampaign(ctx context.Context, campaignID int64) (model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaign WHERE id = ? FOR UPDATE`
	var result model.Campaign
	err := GetTx(ctx).GetContext(ctx, &result, query, campaignID)
	return result, translateNoRows(err)
}

// InsertCampaign ...
func (c *campaignImpl) InsertCampaign(ctx context.Context, campaign model.Campaign) (int64, error) {
	query := `
INSERT INTO campaign (
	advertiser_id, name, reward_model, units, price,
	apply_first, brand_match, state, candidates_hash,
	launched_at, completed_at
) VALUES (
	:advertiser_id, :name, :reward_model, :units, :price,
	:apply_first, :brand_match, :state, :candidates_hash,
	:launched_at, :completed_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, campaign)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateCampaignState ...
func (c *campaignImpl) UpdateCampaignState(
	ctx context.Context, campaign model.Campaign, from model.CampaignState,
) (bool, error) {
	query := `
UPDATE campaign SET state = ?, launched_at = ?, completed_at = ?
WHERE id = ? AND state = ?
`
	result, err := GetTx(ctx).ExecContext(ctx, query,
		campaign.State, campaign.LaunchedAt, campaign.CompletedAt,
		campaign.ID, from,
	)
	if err != nil {
		return false, err
	}
	return isAffected(result)
}

// CompareAndSetCandidatesHash ...
func (c *campaignImpl) CompareAndSetCandidatesHash(
	ctx context.Context, campaignID int64, expected string, newHash string,
) (bool, error) {
	query := `UPDATE campaign SET candidates_hash = ? WHERE id = ? AND candidates_hash = ?`
	result, err := GetTx(ctx).ExecContext(ctx, query, newHash, campaignID, expected)
	if err != nil {
		return false, err
	}
	return isAffected(result)
}

// GetAdvertiser ...
func (c *campaignImpl) GetAdvertiser(ctx context.Context, advertiserID int64) (model.Advertiser, error) {
	query := `
SELECT id, name, influencer_cooldown_days, created_at, updated_at
FROM advertiser WHERE id = ?
`
	var result model.Advertiser
	err := GetReadonly(ctx).GetContext(ctx, &result, query, advertiserID)
	return result, translateNoRows(err)
}

// InsertAdvertiser ...
func (c *campaignImpl) InsertAdvertiser(ctx context.Context, advertiser model.Advertiser) (int64, error) {
	query := `
INSERT INTO advertiser (name, influencer_cooldown_days)
VALUES (:name, :influencer_cooldown_days)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, advertiser)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
