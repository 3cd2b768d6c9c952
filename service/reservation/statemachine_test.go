package reservation

import (
	"errors"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/stretchr/testify/assert"
	"testing"
)

var (
	directCampaign     = model.Campaign{ID: 1}
	applyFirstCampaign = model.Campaign{ID: 2, ApplyFirst: true}
	brandMatchCampaign = model.Campaign{ID: 3, ApplyFirst: true, BrandMatch: true}
)

func TestCheckTransition__Legal(t *testing.T) {
	table := []struct {
		op       Operation
		campaign model.Campaign
		from     model.OfferState
		to       model.OfferState
	}{
		{OpReserve, directCampaign, model.OfferStateInvited, model.OfferStateAccepted},
		{OpRequestParticipation, applyFirstCampaign, model.OfferStatePending, model.OfferStateRequested},
		{OpRequestParticipation, brandMatchCampaign, model.OfferStatePending, model.OfferStateRequested},
		{OpAcceptRequest, applyFirstCampaign, model.OfferStateRequested, model.OfferStateAccepted},
		{OpSetAsCandidate, brandMatchCampaign, model.OfferStateRequested, model.OfferStateCandidate},
		{OpApproveCandidate, brandMatchCampaign, model.OfferStateCandidate, model.OfferStateApprovedByBrand},
		{OpPromoteToAccepted, brandMatchCampaign, model.OfferStateApprovedByBrand, model.OfferStateAccepted},
		{OpRejectCandidate, brandMatchCampaign, model.OfferStateCandidate, model.OfferStateRejectedByBrand},
		{OpReject, directCampaign, model.OfferStateInvited, model.OfferStateRejected},
		{OpReject, applyFirstCampaign, model.OfferStateRequested, model.OfferStateRejected},
		{OpRevoke, directCampaign, model.OfferStateAccepted, model.OfferStateRevoked},
		{OpRevoke, brandMatchCampaign, model.OfferStateApprovedByBrand, model.OfferStateRevoked},
		{OpRevertRejection, directCampaign, model.OfferStateRevoked, model.OfferStateAccepted},
		{OpRevertRejection, brandMatchCampaign, model.OfferStateRejected, model.OfferStateAccepted},
		{OpForceReserve, applyFirstCampaign, model.OfferStateRejected, model.OfferStateAccepted},
	}

	for _, e := range table {
		t.Run(e.op.String()+"_"+e.from.String(), func(t *testing.T) {
			rule, err := checkTransition(e.op, e.campaign, model.Offer{State: e.from})
			assert.Equal(t, nil, err)
			assert.Equal(t, e.to, rule.to)
		})
	}
}

func TestCheckTransition__Illegal(t *testing.T) {
	table := []struct {
		name     string
		op       Operation
		campaign model.Campaign
		from     model.OfferState
	}{
		{"reserve in apply first", OpReserve, applyFirstCampaign, model.OfferStateInvited},
		{"reserve accepted", OpReserve, directCampaign, model.OfferStateAccepted},
		{"accept request in brand match", OpAcceptRequest, brandMatchCampaign, model.OfferStateRequested},
		{"candidate outside brand match", OpSetAsCandidate, applyFirstCampaign, model.OfferStateRequested},
		{"promote candidate", OpPromoteToAccepted, brandMatchCampaign, model.OfferStateCandidate},
		{"reject accepted", OpReject, directCampaign, model.OfferStateAccepted},
		{"revoke revoked", OpRevoke, directCampaign, model.OfferStateRevoked},
		{"revoke pending", OpRevoke, applyFirstCampaign, model.OfferStatePending},
		{"revert accepted", OpRevertRejection, directCampaign, model.OfferStateAccepted},
		{"revert rejected by brand", OpRevertRejection, brandMatchCampaign, model.OfferStateRejectedByBrand},
		{"unknown operation", Operation(100), directCampaign, model.OfferStateInvited},
	}

	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			_, err := checkTransition(e.op, e.campaign, model.Offer{State: e.from})
			assert.Equal(t, true, errors.Is(err, ErrInvalidStateTransition))
		})
	}
}

func TestTransitionTable__Capacity_Rules(t *testing.T) {
	for op, rule := range transitionTable {
		if rule.to.ConsumesCapacity() {
			assert.Equal(t, true, rule.admits, op.String())
		}
		for _, from := range rule.from {
			if from.ConsumesCapacity() && !rule.to.ConsumesCapacity() {
				assert.Equal(t, true, rule.needsLock(), op.String())
			}
		}
	}
}

func TestRequireLaunched(t *testing.T) {
	assert.Equal(t, nil, requireLaunched(model.Campaign{State: model.CampaignStateLaunched}))

	err := requireLaunched(model.Campaign{State: model.CampaignStateDraft})
	assert.Equal(t, true, errors.Is(err, ErrInvalidCampaignState))
}
