package reservation

import (
	"encoding/json"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/shopspring/decimal"
	"strconv"
)

// Fund is the capacity ledger of a campaign derived from its offers, never stored
type Fund struct {
	total    decimal.Decimal
	reserved decimal.Decimal
}

var capacityStates = []model.OfferState{
	model.OfferStateAccepted,
	model.OfferStateApprovedByBrand,
}

// NewFund computes the fund, the offer with id excludeOfferID is not counted
func NewFund(campaign model.Campaign, offers []model.Offer, excludeOfferID int64) Fund {
	reserved := decimal.Zero
	for _, o := range offers {
		if o.ID == excludeOfferID && excludeOfferID != 0 {
			continue
		}
		if o.CampaignID != campaign.ID {
			continue
		}
		if !o.State.ConsumesCapacity() {
			continue
		}
		reserved = reserved.Add(o.CapacityWeight)
	}
	return Fund{
		total:    campaign.Units,
		reserved: reserved,
	}
}

// Total ...
func (f Fund) Total() decimal.Decimal {
	return f.total
}

// Reserved ...
func (f Fund) Reserved() decimal.Decimal {
	return f.reserved
}

// Remaining can be negative when a forced batch overfilled the campaign
func (f Fund) Remaining() decimal.Decimal {
	return f.total.Sub(f.reserved)
}

// IsFull ...
func (f Fund) IsFull() bool {
	return !f.Remaining().IsPositive()
}

// Progress ...
func (f Fund) Progress() model.FundProgress {
	return model.FundProgress{
		Total:     f.total,
		Reserved:  f.reserved,
		Remaining: f.Remaining(),
	}
}

// FundCache is a local cache for fund progress, entries may be evicted at any time
type FundCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte, expireSeconds int)
	Delete(key string)
}

type noopFundCache struct {
}

func (noopFundCache) Get(string) ([]byte, bool) {
	return nil, false
}

func (noopFundCache) Set(string, []byte, int) {
}

func (noopFundCache) Delete(string) {
}

func fundCacheKey(campaignID int64) string {
	return "fund:" + strconv.FormatInt(campaignID, 10)
}

type fundProgressEntry struct {
	Total    decimal.Decimal `json:"total"`
	Reserved decimal.Decimal `json:"reserved"`
}

func encodeFundProgress(p model.FundProgress) ([]byte, error) {
	return json.Marshal(fundProgressEntry{
		Total:    p.Total,
		Reserved: p.Reserved,
	})
}

func decodeFundProgress(data []byte) (model.FundProgress, error) {
	var entry fundProgressEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return model.FundProgress{}, err
	}
	return model.FundProgress{
		Total:     entry.Total,
		Reserved:  entry.Reserved,
		Remaining: entry.Total.Sub(entry.Reserved),
	}, nil
}
