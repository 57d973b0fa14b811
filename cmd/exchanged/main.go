package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/joripage/limitbook/config"
	"github.com/joripage/limitbook/pkg/exchange"
	"github.com/joripage/limitbook/pkg/infra"
	postgres_wrapper "github.com/joripage/limitbook/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/limitbook/pkg/infra/redis"
	"github.com/joripage/limitbook/pkg/journal"
	"github.com/joripage/limitbook/pkg/marketdata"
)

func main() {
	go func() {
		http.ListenAndServe("localhost:6060", nil)
	}()

	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// journal db
	var jnl journal.Journal
	if cfg.JournalDB != nil {
		if cfg.JournalDB.MigrationConnURL != "" {
			infra.GetMigrateTool().Migrate("file://migration/sql", cfg.JournalDB.MigrationConnURL)
		}
		db := postgres_wrapper.InitPostgresWithBackoff(cfg.JournalDB)
		jnl = journal.NewSQLJournal(db)
	} else {
		jnl = journal.NewMemoryJournal()
	}

	ex := exchange.New(&exchange.Config{DepthLevels: cfg.Exchange.DepthLevels}, jnl)

	// trade feed
	if cfg.Feed != nil {
		feed := marketdata.NewFeed(*cfg.Feed)
		defer feed.Close()
		ex.SetFeed(feed)
	}

	// depth snapshot cache
	if cfg.Redis != nil {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Errorf("init redis fail with err: %v", err)
			panic(err)
		}
		ttl := time.Duration(cfg.Exchange.DepthTTLSeconds) * time.Second
		ex.SetDepthStore(marketdata.NewDepthCache(redisClient, ttl))
	}

	// order intake over NATS
	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		zap.S().Errorf("connect nats fail with err: %v", err)
		panic(err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		panic(err)
	}

	_, _ = js.AddStream(&nats.StreamConfig{
		Name:     cfg.Nats.Stream,
		Subjects: []string{cfg.Nats.Stream + ".*"},
	})

	intake := exchange.NewIntake(ex, cfg.Intake.NumShards, cfg.Intake.QueueSize)
	go func() {
		if err := intake.StartConsumer(ctx, js, cfg.Nats.Subject, cfg.Nats.Durable); err != nil {
			zap.S().Errorf("intake consumer stopped with err: %v", err)
		}
	}()

	fmt.Println("Exchange started. Press Ctrl+C to exit.")

	<-sigs
	fmt.Println("Shutting down...")

	cancel()

	fmt.Println("Exited cleanly.")
}
