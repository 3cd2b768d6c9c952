package main

import (
	"context"
	"fmt"
	"github.com/QuangTung97/offer-reserve/config"
	"github.com/QuangTung97/offer-reserve/pkg/otellib"
	"github.com/QuangTung97/offer-reserve/service/reservation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func startWorker() {
	conf := config.Load()
	logger := config.NewLogger(conf.Log)

	db := conf.MySQL.MustConnect()
	defer func() { _ = db.Close() }()

	service, closeService := reservation.NewFromConfig(db, conf, prometheus.DefaultRegisterer)
	defer closeService()

	scheduler := cron.New()
	_, err := scheduler.AddFunc(conf.Worker.FundGaugeCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		ctx = otellib.ToContext(ctx, logger)
		if err := service.RefreshFundGauges(ctx); err != nil {
			logger.Error("refresh fund gauges", zap.Error(err))
		}
	})
	if err != nil {
		panic(err)
	}
	scheduler.Start()

	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", promhttp.Handler())
	httpServer := &http.Server{
		Addr:    conf.Server.HTTP.ListenString(),
		Handler: httpMux,
	}

	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	logger.Info("worker started",
		zap.String("fund_gauge_cron", conf.Worker.FundGaugeCron),
		zap.String("http", conf.Server.HTTP.ListenString()),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = httpServer.Shutdown(ctx)
	if err != nil {
		panic(err)
	}
	logger.Info("Shutdown worker successfully")
}

func main() {
	rootCmd := cobra.Command{
		Use: "worker",
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "start the background jobs",
		Run: func(cmd *cobra.Command, args []string) {
			startWorker()
		},
	})

	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
}
