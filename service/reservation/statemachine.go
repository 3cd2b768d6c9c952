package reservation

import (
	"fmt"
	"github.com/QuangTung97/offer-reserve/model"
)

// Operation is an offer state transition requested by an actor
type Operation int

const (
	// OpReserve ...
	OpReserve Operation = iota + 1
	// OpRequestParticipation ...
	OpRequestParticipation
	// OpAcceptRequest ...
	OpAcceptRequest
	// OpSetAsCandidate ...
	OpSetAsCandidate
	// OpApproveCandidate ...
	OpApproveCandidate
	// OpPromoteToAccepted ...
	OpPromoteToAccepted
	// OpRejectCandidate ...
	OpRejectCandidate
	// OpReject ...
	OpReject
	// OpRevoke ...
	OpRevoke
	// OpRevertRejection ...
	OpRevertRejection
	// OpForceReserve ...
	OpForceReserve
)

var operationNames = map[Operation]string{
	OpReserve:              "reserve",
	OpRequestParticipation: "request_participation",
	OpAcceptRequest:        "accept_request",
	OpSetAsCandidate:       "set_as_candidate",
	OpApproveCandidate:     "approve_candidate",
	OpPromoteToAccepted:    "promote_to_accepted",
	OpRejectCandidate:      "reject_candidate",
	OpReject:               "reject",
	OpRevoke:               "revoke",
	OpRevertRejection:      "revert_rejection",
	OpForceReserve:         "force_reserve",
}

func (op Operation) String() string {
	name, ok := operationNames[op]
	if !ok {
		return "unknown"
	}
	return name
}

type campaignMode int

const (
	modeAny campaignMode = iota
	modeDirect
	modeApplyFirst
	modeApplyFirstOnly
	modeBrandMatch
)

func (m campaignMode) matches(campaign model.Campaign) bool {
	switch m {
	case modeDirect:
		return campaign.IsDirect()
	case modeApplyFirst:
		return campaign.ApplyFirst
	case modeApplyFirstOnly:
		return campaign.ApplyFirst && !campaign.BrandMatch
	case modeBrandMatch:
		return campaign.BrandMatch
	default:
		return true
	}
}

type transitionRule struct {
	from []model.OfferState
	to   model.OfferState
	mode campaignMode

	// admits: goes through the coordinator and consumes capacity
	admits bool

	// locked: needs the campaign lock without admitting, capacity is released
	locked bool

	// candidates: changes the membership of the candidate list
	candidates bool

	event model.OfferEventType
}

func (r transitionRule) allows(state model.OfferState) bool {
	for _, s := range r.from {
		if s == state {
			return true
		}
	}
	return false
}

func (r transitionRule) needsLock() bool {
	return r.admits || r.locked
}

var transitionTable = map[Operation]transitionRule{
	OpReserve: {
		from:   []model.OfferState{model.OfferStateInvited},
		to:     model.OfferStateAccepted,
		mode:   modeDirect,
		admits: true,
		event:  model.OfferEventReserve,
	},
	OpRequestParticipation: {
		from:  []model.OfferState{model.OfferStatePending},
		to:    model.OfferStateRequested,
		mode:  modeApplyFirst,
		event: model.OfferEventRequestParticipation,
	},
	OpAcceptRequest: {
		from:   []model.OfferState{model.OfferStateRequested},
		to:     model.OfferStateAccepted,
		mode:   modeApplyFirstOnly,
		admits: true,
		event:  model.OfferEventPromote,
	},
	OpSetAsCandidate: {
		from:       []model.OfferState{model.OfferStateRequested},
		to:         model.OfferStateCandidate,
		mode:       modeBrandMatch,
		candidates: true,
		event:      model.OfferEventSetAsCandidate,
	},
	OpApproveCandidate: {
		from:       []model.OfferState{model.OfferStateCandidate},
		to:         model.OfferStateApprovedByBrand,
		mode:       modeBrandMatch,
		admits:     true,
		candidates: true,
		event:      model.OfferEventApproveCandidate,
	},
	OpPromoteToAccepted: {
		from:   []model.OfferState{model.OfferStateApprovedByBrand},
		to:     model.OfferStateAccepted,
		mode:   modeBrandMatch,
		admits: true,
		event:  model.OfferEventPromote,
	},
	OpRejectCandidate: {
		from:       []model.OfferState{model.OfferStateCandidate},
		to:         model.OfferStateRejectedByBrand,
		mode:       modeBrandMatch,
		candidates: true,
		event:      model.OfferEventRejectCandidate,
	},
	OpReject: {
		from: []model.OfferState{
			model.OfferStateInvited,
			model.OfferStatePending,
			model.OfferStateRequested,
		},
		to:    model.OfferStateRejected,
		event: model.OfferEventReject,
	},
	OpRevoke: {
		from: []model.OfferState{
			model.OfferStateInvited,
			model.OfferStateAccepted,
			model.OfferStateApprovedByBrand,
		},
		to:     model.OfferStateRevoked,
		locked: true,
		event:  model.OfferEventRevoke,
	},
	OpRevertRejection: {
		from:   []model.OfferState{model.OfferStateRejected, model.OfferStateRevoked},
		to:     model.OfferStateAccepted,
		admits: true,
		event:  model.OfferEventRevertRejection,
	},
	OpForceReserve: {
		from:   []model.OfferState{model.OfferStateRejected, model.OfferStateRevoked},
		to:     model.OfferStateAccepted,
		admits: true,
		event:  model.OfferEventForceReserve,
	},
}

func checkTransition(op Operation, campaign model.Campaign, offer model.Offer) (transitionRule, error) {
	rule, ok := transitionTable[op]
	if !ok {
		return transitionRule{}, fmt.Errorf("%w: unknown operation %d", ErrInvalidStateTransition, op)
	}
	if !rule.mode.matches(campaign) {
		return transitionRule{}, fmt.Errorf("%w: %s not allowed for campaign %d mode",
			ErrInvalidStateTransition, op, campaign.ID)
	}
	if !rule.allows(offer.State) {
		return transitionRule{}, fmt.Errorf("%w: %s from %s",
			ErrInvalidStateTransition, op, offer.State)
	}
	return rule, nil
}

func requireLaunched(campaign model.Campaign) error {
	if campaign.State != model.CampaignStateLaunched {
		return fmt.Errorf("%w: campaign %d is %s", ErrInvalidCampaignState, campaign.ID, campaign.State)
	}
	return nil
}
