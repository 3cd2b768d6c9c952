package reservation

import (
	"encoding/json"
	"github.com/QuangTung97/offer-reserve/model"
)

type transitionData struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Reward         string `json:"reward"`
	CapacityWeight string `json:"capacity_weight"`

	IgnoreCapacity       bool `json:"ignore_capacity,omitempty"`
	SuppressRewardChange bool `json:"suppress_reward_change,omitempty"`
}

type rewardChangedData struct {
	OldReward string `json:"old_reward"`
	NewReward string `json:"new_reward"`
	Weight    string `json:"capacity_weight"`
}

type moveCandidateData struct {
	FromPosition int64  `json:"from_position"`
	ToPosition   int64  `json:"to_position"`
	Hash         string `json:"hash"`
}

type flagData struct {
	Value bool `json:"value"`
}

func (s *Service) newEvent(actor model.Actor, offerID int64, eventType model.OfferEventType, data interface{}) model.OfferEvent {
	var raw []byte
	if data != nil {
		// only plain structs of strings and numbers are passed in
		raw, _ = json.Marshal(data)
	}
	return model.OfferEvent{
		OfferID:   offerID,
		Type:      eventType,
		ActorID:   actor.ID,
		ActorKind: actor.Kind,
		Data:      raw,
		CreatedAt: s.opts.now(),
	}
}

func (s *Service) newTransitionEvent(
	actor model.Actor, eventType model.OfferEventType,
	before model.Offer, after model.Offer, opts AdmitOptions,
) model.OfferEvent {
	return s.newEvent(actor, after.ID, eventType, transitionData{
		From:           before.State.String(),
		To:             after.State.String(),
		Reward:         after.Reward.String(),
		CapacityWeight: after.CapacityWeight.String(),

		IgnoreCapacity:       opts.IgnoreCapacity,
		SuppressRewardChange: opts.SuppressRewardChange,
	})
}
