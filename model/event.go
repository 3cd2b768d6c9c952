package model

import "time"

// OfferEvent is one immutable record per offer transition
type OfferEvent struct {
	ID      int64          `db:"id"`
	OfferID int64          `db:"offer_id"`
	Type    OfferEventType `db:"type"`

	ActorID   string    `db:"actor_id"`
	ActorKind ActorKind `db:"actor_kind"`

	Data []byte `db:"data"`

	CreatedAt time.Time `db:"created_at"`
}

// OfferEventType ...
type OfferEventType string

const (
	// OfferEventCreate ...
	OfferEventCreate OfferEventType = "create"

	// OfferEventReserve ...
	OfferEventReserve OfferEventType = "reserve"

	// OfferEventRequestParticipation ...
	OfferEventRequestParticipation OfferEventType = "request_participation"

	// OfferEventSetAsCandidate ...
	OfferEventSetAsCandidate OfferEventType = "set_as_candidate"

	// OfferEventApproveCandidate ...
	OfferEventApproveCandidate OfferEventType = "approve_candidate"

	// OfferEventRejectCandidate ...
	OfferEventRejectCandidate OfferEventType = "reject_candidate"

	// OfferEventPromote ...
	OfferEventPromote OfferEventType = "promote"

	// OfferEventReject ...
	OfferEventReject OfferEventType = "reject"

	// OfferEventRevoke ...
	OfferEventRevoke OfferEventType = "revoke"

	// OfferEventRevertRejection ...
	OfferEventRevertRejection OfferEventType = "revert_rejection"

	// OfferEventForceReserve ...
	OfferEventForceReserve OfferEventType = "force_reserve"

	// OfferEventRewardChanged ...
	OfferEventRewardChanged OfferEventType = "reward_changed"

	// OfferEventSetSelected ...
	OfferEventSetSelected OfferEventType = "set_selected"

	// OfferEventMarkClaimable ...
	OfferEventMarkClaimable OfferEventType = "mark_claimable"

	// OfferEventMoveCandidate ...
	OfferEventMoveCandidate OfferEventType = "move_candidate"
)
