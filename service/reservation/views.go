package reservation

import (
	"encoding/json"
	"github.com/QuangTung97/offer-reserve/model"
	"time"
)

type offerView struct {
	ID                int64      `json:"id"`
	CampaignID        int64      `json:"campaign_id"`
	InfluencerID      int64      `json:"influencer_id"`
	State             string     `json:"state"`
	Reward            string     `json:"reward"`
	CapacityWeight    string     `json:"capacity_weight"`
	IsSelected        bool       `json:"is_selected"`
	CandidatePosition *int64     `json:"candidate_position,omitempty"`
	IsClaimable       bool       `json:"is_claimable"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
}

func newOfferView(o model.Offer) offerView {
	v := offerView{
		ID:             o.ID,
		CampaignID:     o.CampaignID,
		InfluencerID:   o.InfluencerID,
		State:          o.State.String(),
		Reward:         o.Reward.StringFixed(2),
		CapacityWeight: o.CapacityWeight.String(),
		IsSelected:     o.IsSelected,
		IsClaimable:    o.IsClaimable,
	}
	if o.CandidatePosition.Valid {
		pos := o.CandidatePosition.Int64
		v.CandidatePosition = &pos
	}
	if o.AcceptedAt.Valid {
		t := o.AcceptedAt.Time
		v.AcceptedAt = &t
	}
	return v
}

func newOfferViews(offers []model.Offer) []offerView {
	result := make([]offerView, 0, len(offers))
	for _, o := range offers {
		result = append(result, newOfferView(o))
	}
	return result
}

type rewardChangedView struct {
	OfferID   int64  `json:"offer_id"`
	OldReward string `json:"old_reward"`
	NewReward string `json:"new_reward"`
	Weight    string `json:"capacity_weight"`
}

func newRewardChangedView(e *OfferRewardChangedError) *rewardChangedView {
	return &rewardChangedView{
		OfferID:   e.OfferID,
		OldReward: e.OldReward.StringFixed(2),
		NewReward: e.NewReward.StringFixed(2),
		Weight:    e.Weight.String(),
	}
}

type offerResponse struct {
	Offer         offerView          `json:"offer"`
	RewardChanged *rewardChangedView `json:"reward_changed,omitempty"`
}

type bulkResponse struct {
	Admitted      []offerView         `json:"admitted"`
	RewardChanged []rewardChangedView `json:"reward_changed"`
	FullyReserved bool                `json:"fully_reserved"`
}

func newBulkResponse(result BulkResult, fullyReserved bool) bulkResponse {
	changed := make([]rewardChangedView, 0, len(result.RewardChanged))
	for _, e := range result.RewardChanged {
		changed = append(changed, *newRewardChangedView(e))
	}
	return bulkResponse{
		Admitted:      newOfferViews(result.Admitted),
		RewardChanged: changed,
		FullyReserved: fullyReserved,
	}
}

type campaignView struct {
	ID             int64  `json:"id"`
	State          string `json:"state"`
	RewardModel    string `json:"reward_model"`
	Units          string `json:"units"`
	Price          string `json:"price"`
	CandidatesHash string `json:"candidates_hash"`
}

func newCampaignView(c model.Campaign) campaignView {
	return campaignView{
		ID:             c.ID,
		State:          c.State.String(),
		RewardModel:    c.RewardModel.String(),
		Units:          c.Units.String(),
		Price:          c.Price.StringFixed(2),
		CandidatesHash: c.CandidatesHash,
	}
}

type fundView struct {
	Total     string `json:"total"`
	Reserved  string `json:"reserved"`
	Remaining string `json:"remaining"`
}

type candidatesView struct {
	Hash   string      `json:"hash"`
	Offers []offerView `json:"offers"`
}

type eventView struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	ActorID   string          `json:"actor_id"`
	ActorKind string          `json:"actor_kind"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func newEventViews(events []model.OfferEvent) []eventView {
	result := make([]eventView, 0, len(events))
	for _, e := range events {
		result = append(result, eventView{
			ID:        e.ID,
			Type:      string(e.Type),
			ActorID:   e.ActorID,
			ActorKind: actorKindNames[e.ActorKind],
			Data:      json.RawMessage(e.Data),
			CreatedAt: e.CreatedAt,
		})
	}
	return result
}

var actorKindNames = map[model.ActorKind]string{
	model.ActorKindSystem:     "system",
	model.ActorKindInfluencer: "influencer",
	model.ActorKindAdvertiser: "advertiser",
	model.ActorKindAdmin:      "admin",
}

type errorResponse struct {
	Code         string `json:"code"`
	Reason       string `json:"reason,omitempty"`
	Message      string `json:"message"`
	RetryAfterMs int64  `json:"retry_after_ms,omitempty"`
}
