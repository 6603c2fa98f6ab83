package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/betbros/bet-settlement-platform/internal/feed"
	sharedcache "github.com/betbros/bet-settlement-platform/internal/shared/cache"
	"github.com/betbros/bet-settlement-platform/internal/shared/config"
	"github.com/betbros/bet-settlement-platform/internal/shared/db"
	skafka "github.com/betbros/bet-settlement-platform/internal/shared/kafka"
	"github.com/betbros/bet-settlement-platform/internal/shared/logger"
	"github.com/betbros/bet-settlement-platform/internal/shared/metrics"
	whttp "github.com/betbros/bet-settlement-platform/internal/wager-service/http"
	kpub "github.com/betbros/bet-settlement-platform/internal/wager-service/producer"
	"github.com/betbros/bet-settlement-platform/internal/wager-service/repo"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis (cache do feed do dia)
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Kafka writer (topic wager_placed)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	feedClient := feed.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout)
	cachedFeed := feed.NewCachedFeed(feedClient, redisClient, cfg.FeedCacheTTL)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicWagerPlaced)

	// HTTP público
	api := whttp.NewServer(log, repository, cachedFeed, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	log.Info("wager-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
