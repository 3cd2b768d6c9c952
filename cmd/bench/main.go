package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/QuangTung97/offer-reserve/config"
	"github.com/QuangTung97/offer-reserve/model"
	"github.com/QuangTung97/offer-reserve/repository"
	"github.com/QuangTung97/offer-reserve/service/reservation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	rootCmd := cobra.Command{
		Use: "bench",
	}
	rootCmd.AddCommand(
		benchReserveCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}

var systemActor = model.Actor{ID: "bench", Kind: model.ActorKindSystem}

func seedCampaign(ctx context.Context, provider repository.Provider, units int64, numOffers int) (int64, []int64) {
	campaignRepo := repository.NewCampaign()
	influencerRepo := repository.NewInfluencer()

	var campaignID int64
	var influencerIDs []int64

	err := provider.Transact(ctx, func(ctx context.Context) error {
		advertiserID, err := campaignRepo.InsertAdvertiser(ctx, model.Advertiser{
			Name: "BENCH ADVERTISER",
		})
		if err != nil {
			return err
		}

		campaignID, err = campaignRepo.InsertCampaign(ctx, model.Campaign{
			AdvertiserID: advertiserID,
			Name:         "BENCH CAMPAIGN",
			RewardModel:  model.RewardModelAssets,
			Units:        decimal.NewFromInt(units),
			Price:        decimal.NewFromInt(units * 100),
			State:        model.CampaignStateDraft,
		})
		if err != nil {
			return err
		}

		for i := 0; i < numOffers; i++ {
			id, err := influencerRepo.InsertInfluencer(ctx, model.Influencer{
				Username:       fmt.Sprintf("bench-%d-%d", campaignID, i),
				EstimatedReach: 1000,
			})
			if err != nil {
				return err
			}
			influencerIDs = append(influencerIDs, id)
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
	return campaignID, influencerIDs
}

func benchReserve(units int64, numThreads int) {
	conf := config.Load()
	fmt.Println("MEMCACHE ENABLED:", conf.Memcache.Enabled)

	db := conf.MySQL.MustConnect()
	provider := repository.NewProvider(db)

	service, closeFn := reservation.NewFromConfig(db, conf, prometheus.NewRegistry())
	defer closeFn()

	ctx := context.Background()
	campaignID, influencerIDs := seedCampaign(ctx, provider, units, numThreads)

	_, err := service.LaunchCampaign(ctx, systemActor, campaignID)
	if err != nil {
		panic(err)
	}

	offerIDs := make([]int64, 0, len(influencerIDs))
	for _, influencerID := range influencerIDs {
		offer, err := service.CreateOffer(ctx, systemActor, campaignID, influencerID, true)
		if err != nil {
			panic(err)
		}
		offerIDs = append(offerIDs, offer.ID)
	}

	durations := make([]time.Duration, numThreads)
	var admitted int64
	var fullyReserved int64
	var busy int64

	totalStart := time.Now()

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for th := 0; th < numThreads; th++ {
		threadIndex := th
		go func() {
			defer wg.Done()

			start := time.Now()
			_, err := service.Reserve(ctx, systemActor, offerIDs[threadIndex])
			durations[threadIndex] = time.Since(start)

			switch {
			case err == nil:
				atomic.AddInt64(&admitted, 1)
			case errors.Is(err, reservation.ErrCampaignFullyReserved):
				atomic.AddInt64(&fullyReserved, 1)
			case errors.Is(err, reservation.ErrReservationBusy):
				atomic.AddInt64(&busy, 1)
			default:
				fmt.Println("RESERVE ERROR:", err)
			}
		}()
	}
	wg.Wait()
	fmt.Println("TOTAL TIME", time.Since(totalStart))

	sort.Slice(durations, func(i, j int) bool {
		return durations[i] < durations[j]
	})

	fmt.Println("P50:", durations[numThreads*50/100])
	fmt.Println("P90:", durations[numThreads*90/100])
	fmt.Println("P99:", durations[numThreads*99/100])
	fmt.Println("MAX:", durations[numThreads-1])

	fmt.Println("ADMITTED:", admitted)
	fmt.Println("FULLY RESERVED:", fullyReserved)
	fmt.Println("BUSY:", busy)

	progress, err := service.GetFundProgress(ctx, campaignID)
	if err != nil {
		panic(err)
	}
	fmt.Println("FUND RESERVED:", progress.Reserved, "/", progress.Total)

	if progress.Reserved.GreaterThan(progress.Total) {
		panic("campaign is oversold")
	}
	if admitted > units {
		panic("admitted more offers than units")
	}
}

func benchReserveCommand() *cobra.Command {
	var units int64
	var numThreads int

	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "concurrent reserve against a single campaign",
		Run: func(cmd *cobra.Command, args []string) {
			benchReserve(units, numThreads)
		},
	}
	cmd.Flags().Int64Var(&units, "units", 20, "campaign units")
	cmd.Flags().IntVar(&numThreads, "threads", 200, "number of concurrent reservations")
	return cmd
}
