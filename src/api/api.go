package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goalzilla/goalzilla/src/api/config"
	"github.com/goalzilla/goalzilla/src/api/data"
	"github.com/goalzilla/goalzilla/src/api/discord"
	"github.com/goalzilla/goalzilla/src/api/models"
	"github.com/goalzilla/goalzilla/src/api/webserver"
	"github.com/goalzilla/goalzilla/src/core"
	"github.com/goalzilla/goalzilla/src/core/campaign"
	"github.com/goalzilla/goalzilla/src/evm"
	"gorm.io/gorm"
)

// indexerRepo adapts the core facade to the indexer's fetch interface.
type indexerRepo struct {
	svc *core.Service
}

func (r indexerRepo) List(ctx context.Context) ([]campaign.Campaign, error) {
	return r.svc.FetchCampaigns(ctx)
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(&models.CampaignRecord{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)

	rdb := data.MustRedis(cfg.RedisURL)

	provider, err := evm.Dial(cfg.ProviderURL)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}
	defer provider.Close()

	svc := core.New(provider, provider, cfg.ContractAddress, cfg.Network)

	ctx, cancel := context.WithCancel(context.Background())

	// Mirror ledger campaigns into MySQL for the browse endpoint.
	repo := indexerRepo{svc: svc}
	go data.IndexerService(ctx, db, repo, time.Duration(cfg.PollInterval)*time.Second)

	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		announcer, err := discord.NewAnnouncer(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			log.Printf("discord: disabled: %v", err)
		} else {
			defer announcer.Close()
			go announcer.Run(ctx, rdb)
		}
	}

	router := webserver.New(cfg, db, rdb, svc)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("GoalZilla API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
