package reservation

import (
	"github.com/QuangTung97/offer-reserve/config"
	"github.com/QuangTung97/offer-reserve/pkg/cacheclient"
	"github.com/QuangTung97/offer-reserve/pkg/memtable"
	"github.com/QuangTung97/offer-reserve/pkg/mutex"
	"github.com/QuangTung97/offer-reserve/repository"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

// NewFromConfig builds the service with the memcache lock when enabled, otherwise with an in process lock
func NewFromConfig(db *sqlx.DB, conf config.Config, reg prometheus.Registerer) (*Service, func()) {
	closeFn := func() {}

	var mu mutex.Mutex
	if conf.Memcache.Enabled {
		numConns := 1
		if conf.Memcache.NumConns > 0 {
			numConns = conf.Memcache.NumConns
		}
		client := cacheclient.New(conf.Memcache.Addr(), numConns)
		mu = mutex.NewBackendMutex(client,
			mutex.WithTTL(conf.Reservation.LockTTL),
			mutex.WithRetryDurations(conf.Reservation.LockRetryMin, conf.Reservation.LockRetryMax),
		)
		closeFn = func() {
			_ = client.Close()
		}
	} else {
		mu = mutex.NewLocal()
	}

	fundCache := memtable.New(conf.Reservation.FundCacheSize)

	s := NewService(
		repository.NewProvider(db),
		repository.NewCampaign(),
		repository.NewOffer(),
		repository.NewInfluencer(),
		mu,
		WithLockTimeout(conf.Reservation.LockTimeout),
		WithFundCache(fundCache, conf.Reservation.FundCacheTTLSeconds),
		WithMetrics(NewMetrics(reg)),
	)
	return s, closeFn
}
