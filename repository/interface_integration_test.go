package repository

import (
	"context"
	"errors"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/pkg/integration"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestProvider_Readonly__GetReadonly(t *testing.T) {
	tc := integration.NewTestCase()

	p := NewProvider(tc.DB)
	ctx := p.Readonly(newContext())

	db := GetReadonly(ctx)

	var version string
	err := db.GetContext(ctx, &version, "SELECT VERSION()")
	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", version)
}

func TestProvider_Transact__GetTransaction(t *testing.T) {
	tc := integration.NewTestCase()

	var version string

	p := NewProvider(tc.DB)
	err := p.Transact(newContext(), func(ctx context.Context) error {
		tx := GetTx(ctx)

		err := tx.GetContext(ctx, &version, "SELECT VERSION()")
		assert.Equal(t, nil, err)

		return nil
	})
	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", version)
}

func TestProvider_Transact__GetReadonly(t *testing.T) {
	tc := integration.NewTestCase()

	var version string

	p := NewProvider(tc.DB)
	err := p.Transact(newContext(), func(ctx context.Context) error {
		db := GetReadonly(ctx)

		err := db.GetContext(ctx, &version, "SELECT VERSION()")
		assert.Equal(t, nil, err)

		return nil
	})
	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", version)
}

func TestProvider_Transact__Multi_Calls_Multi_Levels(t *testing.T) {
	tc := integration.NewTestCase()

	var version string

	p := NewProvider(tc.DB)
	err := p.Transact(newContext(), func(ctx context.Context) error {
		return p.Transact(ctx, func(ctx context.Context) error {
			tx := GetTx(ctx)

			err := tx.GetContext(ctx, &version, "SELECT VERSION()")
			assert.Equal(t, nil, err)

			return nil
		})
	})
	assert.Equal(t, nil, err)
	assert.NotEqual(t, "", version)
}

func TestProvider_Transact__Rollback_On_Error(t *testing.T) {
	tc := integration.NewTestCase()
	tc.Truncate("advertiser")

	p := NewProvider(tc.DB)
	repo := NewCampaign()

	returnedErr := errors.New("some error")
	err := p.Transact(newContext(), func(ctx context.Context) error {
		_, err := repo.InsertAdvertiser(ctx, model.Advertiser{Name: "advertiser 01"})
		assert.Equal(t, nil, err)
		return returnedErr
	})
	assert.Equal(t, returnedErr, err)

	_, err = repo.GetAdvertiser(p.Readonly(newContext()), 1)
	assert.Equal(t, ErrNotFound, err)
}
