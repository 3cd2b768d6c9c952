package repository

import (
	"context"
	"github.com/QuangTung97/offer-reserve/model"
)

// Influencer ...
type Influencer interface {
	GetInfluencer(ctx context.Context, influencerID int64) (model.Influencer, error)
	InsertInfluencer(ctx context.Context, influencer model.Influencer) (int64, error)
}

type influencerImpl struct {
}

// NewInfluencer ...
func NewInfluencer() Influencer {
	return &influencerImpl{}
}

// GetInfluencer ...
func (i *influencerImpl) GetInfluencer(ctx context.Context, influencerID int64) (model.Influencer, error) {
	query := `
SELECT id, username, estimated_reach, estimated_engagements, estimated_impressions,
	cash_rate, created_at, updated_at
FROM influencer WHERE id = ?
`
	var result model.Influencer
	err := GetReadonly(ctx).GetContext(ctx, &result, query, influencerID)
	return result, translateNoRows(err)
}

// InsertInfluencer ...
func (i *influencerImpl) InsertInfluencer(ctx context.Context, influencer model.Influencer) (int64, error) {
	query := `
INSERT INTO influencer (
	username, estimated_reach, estimated_engagements, estimated_impressions, cash_rate
) VALUES (
	:username, :estimated_reach, :estimated_engagements, :estimated_impressions, :cash_rate
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, influencer)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
