package reservation

import (
	"context"
	"database/sql"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/repository"
	"sort"
	"sync"
)

// fakeStore is an in memory implementation of the repositories,
// a failed transaction restores the state captured at its beginning
type fakeStore struct {
	mut sync.Mutex

	campaigns   map[int64]model.Campaign
	advertisers map[int64]model.Advertiser
	influencers map[int64]model.Influencer
	offers      map[int64]model.Offer
	events      []model.OfferEvent

	nextID int64

	lockCampaignCalls int
	transactCalls     int
}

var _ repository.Provider = &fakeStore{}
var _ repository.Campaign = &fakeStore{}
var _ repository.Offer = &fakeStore{}
var _ repository.Influencer = &fakeStore{}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campaigns:   map[int64]model.Campaign{},
		advertisers: map[int64]model.Advertiser{},
		influencers: map[int64]model.Influencer{},
		offers:      map[int64]model.Offer{},
	}
}

type fakeSnapshot struct {
	campaigns map[int64]model.Campaign
	offers    map[int64]model.Offer
	events    []model.OfferEvent
}

func (f *fakeStore) snapshot() fakeSnapshot {
	f.mut.Lock()
	defer f.mut.Unlock()

	s := fakeSnapshot{
		campaigns: map[int64]model.Campaign{},
		offers:    map[int64]model.Offer{},
		events:    append([]model.OfferEvent(nil), f.events...),
	}
	for k, v := range f.campaigns {
		s.campaigns[k] = v
	}
	for k, v := range f.offers {
		s.offers[k] = v
	}
	return s
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.mut.Lock()
	defer f.mut.Unlock()

	f.campaigns = s.campaigns
	f.offers = s.offers
	f.events = s.events
}

func (f *fakeStore) genID() int64 {
	f.nextID++
	return f.nextID
}

// Transact ...
func (f *fakeStore) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mut.Lock()
	f.transactCalls++
	f.mut.Unlock()

	snapshot := f.snapshot()
	err := fn(ctx)
	if err != nil {
		f.restore(snapshot)
	}
	return err
}

// Readonly ...
func (f *fakeStore) Readonly(ctx context.Context) context.Context {
	return ctx
}

// GetCampaign ...
func (f *fakeStore) GetCampaign(_ context.Context, campaignID int64) (model.Campaign, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	c, ok := f.campaigns[campaignID]
	if !ok {
		return model.Campaign{}, repository.ErrNotFound
	}
	return c, nil
}

// ListCampaignIDsByState ...
func (f *fakeStore) ListCampaignIDsByState(_ context.Context, state model.CampaignState) ([]int64, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	var result []int64
	for id, c := range f.campaigns {
		if c.State == state {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

// LockCampaign ...
func (f *fakeStore) LockCampaign(ctx context.Context, campaignID int64) (model.Campaign, error) {
	f.mut.Lock()
	f.lockCampaignCalls++
	f.mut.Unlock()

	return f.GetCampaign(ctx, campaignID)
}

// InsertCampaign ...
func (f *fakeStore) InsertCampaign(_ context.Context, campaign model.Campaign) (int64, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	campaign.ID = f.genID()
	f.campaigns[campaign.ID] = campaign
	return campaign.ID, nil
}

// UpdateCampaignState ...
func (f *fakeStore) UpdateCampaignState(
	_ context.Context, campaign model.Campaign, from model.CampaignState,
) (bool, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	current, ok := f.campaigns[campaign.ID]
	if !ok || current.State != from {
		return false, nil
	}
	current.State = campaign.State
	current.LaunchedAt = campaign.LaunchedAt
	current.CompletedAt = campaign.CompletedAt
	f.campaigns[campaign.ID] = current
	return true, nil
}

// CompareAndSetCandidatesHash ...
func (f *fakeStore) CompareAndSetCandidatesHash(
	_ context.Context, campaignID int64, expected string, newHash string,
) (bool, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	current, ok := f.campaigns[campaignID]
	if !ok || current.CandidatesHash != expected {
		return false, nil
	}
	current.CandidatesHash = newHash
	f.campaigns[campaignID] = current
	return true, nil
}

// GetAdvertiser ...
func (f *fakeStore) GetAdvertiser(_ context.Context, advertiserID int64) (model.Advertiser, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	a, ok := f.advertisers[advertiserID]
	if !ok {
		return model.Advertiser{}, repository.ErrNotFound
	}
	return a, nil
}

// InsertAdvertiser ...
func (f *fakeStore) InsertAdvertiser(_ context.Context, advertiser model.Advertiser) (int64, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	advertiser.ID = f.genID()
	f.advertisers[advertiser.ID] = advertiser
	return advertiser.ID, nil
}

// GetInfluencer ...
func (f *fakeStore) GetInfluencer(_ context.Context, influencerID int64) (model.Influencer, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	i, ok := f.influencers[influencerID]
	if !ok {
		return model.Influencer{}, repository.ErrNotFound
	}
	return i, nil
}

// InsertInfluencer ...
func (f *fakeStore) InsertInfluencer(_ context.Context, influencer model.Influencer) (int64, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	influencer.ID = f.genID()
	f.influencers[influencer.ID] = influencer
	return influencer.ID, nil
}

// GetOffer ...
func (f *fakeStore) GetOffer(_ context.Context, offerID int64) (model.Offer, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	o, ok := f.offers[offerID]
	if !ok {
		return model.Offer{}, repository.ErrNotFound
	}
	return o, nil
}

// GetOfferByInfluencer ...
func (f *fakeStore) GetOfferByInfluencer(_ context.Context, campaignID int64, influencerID int64) (model.Offer, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	for _, o := range f.offers {
		if o.CampaignID == campaignID && o.InfluencerID == influencerID {
			return o, nil
		}
	}
	return model.Offer{}, repository.ErrNotFound
}

func (f *fakeStore) filterOffers(pred func(o model.Offer) bool) []model.Offer {
	var result []model.Offer
	for _, o := range f.offers {
		if pred(o) {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].CandidatePosition, result[j].CandidatePosition
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Int64 != b.Int64 {
			return a.Int64 < b.Int64
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// ListOffersByIDs ...
func (f *fakeStore) ListOffersByIDs(_ context.Context, offerIDs []int64) ([]model.Offer, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	ids := map[int64]struct{}{}
	for _, id := range offerIDs {
		ids[id] = struct{}{}
	}
	result := f.filterOffers(func(o model.Offer) bool {
		_, ok := ids[o.ID]
		return ok
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListOffersByStates ...
func (f *fakeStore) ListOffersByStates(
	_ context.Context, campaignID int64, states []model.OfferState,
) ([]model.Offer, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	return f.filterOffers(func(o model.Offer) bool {
		if o.CampaignID != campaignID {
			return false
		}
		for _, s := range states {
			if o.State == s {
				return true
			}
		}
		return false
	}), nil
}

// ListSelectedOffers ...
func (f *fakeStore) ListSelectedOffers(_ context.Context, campaignID int64) ([]model.Offer, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	result := f.filterOffers(func(o model.Offer) bool {
		return o.CampaignID == campaignID && o.IsSelected
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetLastAcceptedAt ...
func (f *fakeStore) GetLastAcceptedAt(_ context.Context, advertiserID int64, influencerID int64) (sql.NullTime, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	var result sql.NullTime
	for _, o := range f.offers {
		if o.InfluencerID != influencerID || o.State != model.OfferStateAccepted || !o.AcceptedAt.Valid {
			continue
		}
		if f.campaigns[o.CampaignID].AdvertiserID != advertiserID {
			continue
		}
		if !result.Valid || o.AcceptedAt.Time.After(result.Time) {
			result = o.AcceptedAt
		}
	}
	return result, nil
}

// InsertOffer ...
func (f *fakeStore) InsertOffer(_ context.Context, offer model.Offer) (int64, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	for _, o := range f.offers {
		if o.CampaignID == offer.CampaignID && o.InfluencerID == offer.InfluencerID {
			return 0, repository.ErrDuplicated
		}
	}
	offer.ID = f.genID()
	f.offers[offer.ID] = offer
	return offer.ID, nil
}

// UpdateOffer ...
func (f *fakeStore) UpdateOffer(_ context.Context, offer model.Offer, expected model.OfferState) (bool, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	current, ok := f.offers[offer.ID]
	if !ok || current.State != expected {
		return false, nil
	}
	offer.CampaignID = current.CampaignID
	offer.InfluencerID = current.InfluencerID
	f.offers[offer.ID] = offer
	return true, nil
}

// UpdateCandidatePositions ...
func (f *fakeStore) UpdateCandidatePositions(_ context.Context, positions []repository.CandidatePosition) error {
	f.mut.Lock()
	defer f.mut.Unlock()

	for _, p := range positions {
		o := f.offers[p.OfferID]
		o.CandidatePosition = sql.NullInt64{Int64: p.Position, Valid: true}
		f.offers[p.OfferID] = o
	}
	return nil
}

// InsertOfferEvents ...
func (f *fakeStore) InsertOfferEvents(_ context.Context, events []model.OfferEvent) error {
	f.mut.Lock()
	defer f.mut.Unlock()

	for _, e := range events {
		e.ID = f.genID()
		f.events = append(f.events, e)
	}
	return nil
}

// ListOfferEvents ...
func (f *fakeStore) ListOfferEvents(_ context.Context, offerID int64) ([]model.OfferEvent, error) {
	f.mut.Lock()
	defer f.mut.Unlock()

	var result []model.OfferEvent
	for _, e := range f.events {
		if e.OfferID == offerID {
			result = append(result, e)
		}
	}
	return result, nil
}
