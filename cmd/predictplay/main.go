package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/predictplay-poc/internal/catalog"
	"github.com/radieske/predictplay-poc/internal/httpapi"
	"github.com/radieske/predictplay-poc/internal/producer"
	"github.com/radieske/predictplay-poc/internal/session"
	"github.com/radieske/predictplay-poc/internal/shared/cache"
	"github.com/radieske/predictplay-poc/internal/shared/config"
	"github.com/radieske/predictplay-poc/internal/shared/db"
	"github.com/radieske/predictplay-poc/internal/shared/logger"
	"github.com/radieske/predictplay-poc/internal/shared/metrics"
	"github.com/radieske/predictplay-poc/internal/store"
	"github.com/radieske/predictplay-poc/internal/ws"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// escolhe o backend do store de sessão
	var st store.Store
	healthFn := func(ctx context.Context) error { return nil }

	switch cfg.StoreBackend {
	case "redis":
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		st = store.NewRedis(rdb)
		healthFn = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("redis store ready", zap.String("addr", cfg.RedisAddr))
	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		pgStore := store.NewPostgres(pg)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			log.Fatal("failed to ensure schema", zap.Error(err))
		}
		st = pgStore
		healthFn = func(ctx context.Context) error { return pg.PingContext(ctx) }
		log.Info("postgres store ready")
	default:
		st = store.NewMemory()
		log.Info("memory store ready (session-local)")
	}

	// publisher de auditoria: noop quando não há brokers configurados
	var pub session.Publisher = producer.Noop{}
	if cfg.KafkaBrokers != "" {
		kp := producer.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicBetPlaced, cfg.TopicWalletTxn)
		defer kp.Close()
		pub = kp
		log.Info("kafka publisher ready",
			zap.String("bet_topic", cfg.TopicBetPlaced),
			zap.String("txn_topic", cfg.TopicWalletTxn))
	}

	sessions := session.NewManager(log, st, pub)
	cat := catalog.New()

	// hub WebSocket: no demo qualquer origem é aceita
	hub := ws.NewHub(log, func(r *http.Request) bool { return true })

	api := httpapi.NewServer(log, sessions, cat, hub)

	// sobe servidor de métricas e health em goroutine separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, healthFn)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// servidor principal da API
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
