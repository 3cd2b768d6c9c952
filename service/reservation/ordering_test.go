package reservation

import (
	"database/sql"
	"errors"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/pkg/util"
	"github.com/stretchr/testify/assert"
	"testing"
)

func offersWithIDs(ids ...int64) []model.Offer {
	result := make([]model.Offer, 0, len(ids))
	for i, id := range ids {
		result = append(result, model.Offer{
			ID:                id,
			CandidatePosition: sql.NullInt64{Int64: int64(i + 1), Valid: true},
		})
	}
	return result
}

func TestMoveCandidate(t *testing.T) {
	table := []struct {
		name     string
		from     int
		to       int
		expected []int64
	}{
		{name: "down", from: 0, to: 2, expected: []int64{11, 12, 10, 13}},
		{name: "up", from: 3, to: 1, expected: []int64{10, 13, 11, 12}},
		{name: "same", from: 1, to: 1, expected: []int64{10, 11, 12, 13}},
		{name: "to last", from: 0, to: 3, expected: []int64{11, 12, 13, 10}},
		{name: "to first", from: 2, to: 0, expected: []int64{12, 10, 11, 13}},
	}

	for _, e := range table {
		t.Run(e.name, func(t *testing.T) {
			result := moveCandidate(offersWithIDs(10, 11, 12, 13), e.from, e.to)
			assert.Equal(t, e.expected, candidateIDs(result))
		})
	}
}

func TestDenseRewrite(t *testing.T) {
	offers := offersWithIDs(10, 11, 12)
	offers = moveCandidate(offers, 2, 0)

	positions := denseRewrite(offers)
	assert.Equal(t, 3, len(positions))
	assert.Equal(t, int64(12), positions[0].OfferID)
	assert.Equal(t, int64(1), positions[0].Position)
	assert.Equal(t, int64(3), offers[2].CandidatePosition.Int64)

	assert.Equal(t, 0, len(denseRewrite(offersWithIDs(1, 2, 3))))
}

type candidateTest struct {
	*serviceTest
	campaign model.Campaign
	offers   []model.Offer
}

func newCandidateTest(t *testing.T, units string, numCandidates int) *candidateTest {
	st := newServiceTest()
	campaign := st.newCampaign(model.Campaign{
		ApplyFirst: true,
		BrandMatch: true,
		Units:      newDecimal(units),
		Price:      newDecimal("100"),
	})

	ct := &candidateTest{serviceTest: st, campaign: campaign}
	for i := 0; i < numCandidates; i++ {
		offer, err := st.service.Participate(newContext(), influencerActor, campaign.ID, st.newInfluencer(100), nil)
		assert.Equal(t, nil, err)

		offer, err = st.service.SetAsCandidate(newContext(), advertiserActor, offer.ID)
		assert.Equal(t, nil, err)
		assert.Equal(t, int64(i+1), offer.CandidatePosition.Int64)

		ct.offers = append(ct.offers, offer)
	}
	return ct
}

func (ct *candidateTest) candidates(t *testing.T) CandidateList {
	list, err := ct.service.ListCandidates(newContext(), ct.campaign.ID)
	assert.Equal(t, nil, err)
	return list
}

func (ct *candidateTest) candidateIDs(t *testing.T) []int64 {
	return candidateIDs(ct.candidates(t).Offers)
}

func TestService__Set_As_Candidate_Changes_Hash(t *testing.T) {
	ct := newCandidateTest(t, "10", 2)

	list := ct.candidates(t)
	assert.Equal(t, []int64{ct.offers[0].ID, ct.offers[1].ID}, candidateIDs(list.Offers))
	assert.Equal(t, 32, len(list.Hash))

	first := util.ChainHash("", []int64{ct.offers[0].ID})
	assert.Equal(t, util.ChainHash(first, []int64{ct.offers[0].ID, ct.offers[1].ID}), list.Hash)
}

func TestService__Set_Candidate_Position(t *testing.T) {
	ct := newCandidateTest(t, "10", 3)
	a, b, c := ct.offers[0].ID, ct.offers[1].ID, ct.offers[2].ID

	oldHash := ct.candidates(t).Hash
	newHash, err := ct.service.SetCandidatePosition(newContext(), advertiserActor, ct.campaign.ID, c, a, oldHash)
	assert.Equal(t, nil, err)
	assert.NotEqual(t, oldHash, newHash)

	list := ct.candidates(t)
	assert.Equal(t, newHash, list.Hash)
	assert.Equal(t, []int64{c, a, b}, candidateIDs(list.Offers))
	for i, o := range list.Offers {
		assert.Equal(t, int64(i+1), o.CandidatePosition.Int64)
	}

	_, err = ct.service.SetCandidatePosition(newContext(), advertiserActor, ct.campaign.ID, a, c, oldHash)
	assert.Equal(t, true, errors.Is(err, ErrStaleOrdering))
	assert.Equal(t, []int64{c, a, b}, ct.candidateIDs(t))

	_, err = ct.service.SetCandidatePosition(newContext(), advertiserActor, ct.campaign.ID, a, 9999, newHash)
	assert.Equal(t, true, errors.Is(err, ErrInvalidOfferID))
	assert.Equal(t, newHash, ct.candidates(t).Hash)

	assert.Equal(t, []model.OfferEventType{
		model.OfferEventCreate,
		model.OfferEventRequestParticipation,
		model.OfferEventSetAsCandidate,
		model.OfferEventMoveCandidate,
	}, ct.eventTypes(c))
}

func TestService__Set_Candidate_Position_Same_Order_New_Hash(t *testing.T) {
	ct := newCandidateTest(t, "10", 2)
	a := ct.offers[0].ID

	oldHash := ct.candidates(t).Hash
	newHash, err := ct.service.SetCandidatePosition(newContext(), advertiserActor, ct.campaign.ID, a, a, oldHash)
	assert.Equal(t, nil, err)
	assert.NotEqual(t, oldHash, newHash)
}

func TestService__Approve_And_Reject_Candidate_Compact_Positions(t *testing.T) {
	ct := newCandidateTest(t, "10", 4)
	a, b, c, d := ct.offers[0].ID, ct.offers[1].ID, ct.offers[2].ID, ct.offers[3].ID

	hash1 := ct.candidates(t).Hash
	offer, err := ct.service.ApproveCandidate(newContext(), advertiserActor, b, AdmitOptions{})
	assert.Equal(t, nil, err)
	assert.Equal(t, model.OfferStateApprovedByBrand, offer.State)
	assert.Equal(t, false, offer.CandidatePosition.Valid)

	list := ct.candidates(t)
	assert.NotEqual(t, hash1, list.Hash)
	assert.Equal(t, []int64{a, c, d}, candidateIDs(list.Offers))
	assert.Equal(t, int64(2), list.Offers[1].CandidatePosition.Int64)

	_, err = ct.service.RejectCandidate(newContext(), advertiserActor, a)
	assert.Equal(t, nil, err)
	assert.Equal(t, model.OfferStateRejectedByBrand, ct.offerState(a))

	list = ct.candidates(t)
	assert.Equal(t, []int64{c, d}, candidateIDs(list.Offers))
	assert.Equal(t, int64(1), list.Offers[0].CandidatePosition.Int64)
	assert.Equal(t, int64(2), list.Offers[1].CandidatePosition.Int64)

	assert.Equal(t, "1", ct.fund(ct.campaign.ID).Reserved.String())

	offer, err = ct.service.PromoteToAccepted(newContext(), advertiserActor, b)
	assert.Equal(t, nil, err)
	assert.Equal(t, model.OfferStateAccepted, offer.State)
	assert.Equal(t, "1", ct.fund(ct.campaign.ID).Reserved.String())
}

func TestService__Promote_Approved_When_Overfilled(t *testing.T) {
	ct := newCandidateTest(t, "1", 2)
	a, b := ct.offers[0].ID, ct.offers[1].ID

	result, err := ct.service.ApproveAllCandidates(newContext(), advertiserActor, ct.campaign.ID, true)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(result.Admitted))
	assert.Equal(t, "-1", ct.fund(ct.campaign.ID).Remaining.String())

	// approved offers already hold their capacity
	_, err = ct.service.PromoteToAccepted(newContext(), advertiserActor, a)
	assert.Equal(t, nil, err)
	_, err = ct.service.PromoteToAccepted(newContext(), advertiserActor, b)
	assert.Equal(t, nil, err)
}

func TestService__Approve_All_Candidates_Stops_When_Full(t *testing.T) {
	ct := newCandidateTest(t, "2", 3)
	a, b, c := ct.offers[0].ID, ct.offers[1].ID, ct.offers[2].ID

	oldHash := ct.candidates(t).Hash
	newHash, err := ct.service.SetCandidatePosition(newContext(), advertiserActor, ct.campaign.ID, c, a, oldHash)
	assert.Equal(t, nil, err)

	result, err := ct.service.ApproveAllCandidates(newContext(), advertiserActor, ct.campaign.ID, false)
	assert.Equal(t, true, errors.Is(err, ErrCampaignFullyReserved))
	assert.Equal(t, []int64{c, a}, candidateIDs(result.Admitted))

	assert.Equal(t, model.OfferStateApprovedByBrand, ct.offerState(c))
	assert.Equal(t, model.OfferStateApprovedByBrand, ct.offerState(a))
	assert.Equal(t, model.OfferStateCandidate, ct.offerState(b))

	list := ct.candidates(t)
	assert.NotEqual(t, newHash, list.Hash)
	assert.Equal(t, []int64{b}, candidateIDs(list.Offers))
	assert.Equal(t, int64(1), list.Offers[0].CandidatePosition.Int64)
}

func TestService__Approve_All_Candidates_Force(t *testing.T) {
	ct := newCandidateTest(t, "2", 3)

	result, err := ct.service.ApproveAllCandidates(newContext(), advertiserActor, ct.campaign.ID, true)
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(result.Admitted))
	assert.Equal(t, 0, len(ct.candidates(t).Offers))
	assert.Equal(t, "3", ct.fund(ct.campaign.ID).Reserved.String())
}

func TestService__Candidate_Ops_Outside_Brand_Match(t *testing.T) {
	st := newServiceTest()
	campaign := st.newCampaign(model.Campaign{
		ApplyFirst: true,
		Units:      newDecimal("2"),
		Price:      newDecimal("10"),
	})

	offer, err := st.service.Participate(newContext(), influencerActor, campaign.ID, st.newInfluencer(100), nil)
	assert.Equal(t, nil, err)

	_, err = st.service.SetAsCandidate(newContext(), advertiserActor, offer.ID)
	assert.Equal(t, true, errors.Is(err, ErrInvalidStateTransition))
	assert.Equal(t, model.OfferStateRequested, st.offerState(offer.ID))
}
