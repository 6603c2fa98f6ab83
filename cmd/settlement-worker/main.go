package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/betbros/bet-settlement-platform/internal/feed"
	"github.com/betbros/bet-settlement-platform/internal/settlement/engine"
	shttp "github.com/betbros/bet-settlement-platform/internal/settlement/http"
	"github.com/betbros/bet-settlement-platform/internal/settlement/notify"
	"github.com/betbros/bet-settlement-platform/internal/settlement/producer"
	"github.com/betbros/bet-settlement-platform/internal/settlement/repo"
	"github.com/betbros/bet-settlement-platform/internal/settlement/scheduler"
	sharedcache "github.com/betbros/bet-settlement-platform/internal/shared/cache"
	"github.com/betbros/bet-settlement-platform/internal/shared/config"
	"github.com/betbros/bet-settlement-platform/internal/shared/db"
	skafka "github.com/betbros/bet-settlement-platform/internal/shared/kafka"
	"github.com/betbros/bet-settlement-platform/internal/shared/logger"
	"github.com/betbros/bet-settlement-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Feed de resultados com cache do dia no Redis (rodadas sobrepostas e o
	// wager-service compartilham a mesma resposta por alguns minutos)
	feedClient := feed.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout)
	cachedFeed := feed.NewCachedFeed(feedClient, redisClient, cfg.FeedCacheTTL)

	// Kafka producers: eventos de liquidação por aposta e por fixture
	wagerWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
	defer wagerWriter.Close()
	fixtureWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicFixtureSettled)
	defer fixtureWriter.Close()
	publ := producer.NewKafkaPublisher(wagerWriter, fixtureWriter)

	// Notificação de canal (webhook), opcional
	var notifier engine.Notifier
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL)
	}

	// Métricas Prometheus para monitoramento da liquidação
	wagersSettled := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_wagers_settled_total", Help: "apostas liquidadas"})
	fixturesSettled := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_fixtures_settled_total", Help: "fixtures liquidadas"})
	skips := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_group_skips_total", Help: "grupos pulados por motivo"}, []string{"reason"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(wagersSettled, fixturesSettled, skips, errorsBy)

	store := repo.NewPostgres(pg)
	eng := &engine.Engine{
		Log:      log,
		Store:    store,
		Feed:     cachedFeed,
		Notifier: notifier,
		Producer: publ,

		OnWagerSettled:   func() { wagersSettled.Inc() },
		OnFixtureSettled: func() { fixturesSettled.Inc() },
		OnSkip:           func(reason string) { skips.WithLabelValues(reason).Inc() },
		OnError:          func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor de métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	// API administrativa: rodada manual e estorno de fixture, mesmo ponto de
	// entrada do agendador
	admin := shttp.NewServer(log, eng, cfg.AdminToken)
	go func() {
		addr := fmt.Sprintf(":%s", cfg.HTTPPort)
		log.Info("admin api listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, admin.Router())
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := &scheduler.Scheduler{
		Log:          log,
		Interval:     cfg.SettleInterval,
		StartupDelay: cfg.SettleStartupDelay,
		Trigger: func(ctx context.Context) error {
			_, err := eng.Run(ctx)
			return err
		},
	}

	log.Info("settlement-worker started")
	sched.Start(ctx)
	log.Info("settlement-worker stopped")
}
