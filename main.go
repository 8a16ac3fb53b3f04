package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/location-api/geocode"
	"github.com/yourorg/location-api/internal/cache"
	"github.com/yourorg/location-api/internal/env"
	"github.com/yourorg/location-api/internal/events"
	"github.com/yourorg/location-api/internal/gateway"
	"github.com/yourorg/location-api/internal/ledger"
	"github.com/yourorg/location-api/internal/locctx"
	"github.com/yourorg/location-api/internal/logger"
	"github.com/yourorg/location-api/internal/resolve"
	"github.com/yourorg/location-api/internal/store"
	"github.com/yourorg/location-api/providers"
)

func main() {
	_ = godotenv.Load()
	log := logger.Setup()

	port := env.GetInt("PORT", 4003)
	ctx := context.Background()

	var cacheStore cache.Store
	if env.Get("CACHE_BACKEND", "memory") == "redis" {
		rds := cache.NewRedis(env.Get("REDIS_ADDR", "localhost:6379"), os.Getenv("REDIS_PASSWORD"), env.GetInt("REDIS_DB", 0))
		if err := rds.Ping(ctx); err != nil {
			log.Error("redis unreachable", "error", err)
			os.Exit(1)
		}
		cacheStore = rds
	} else {
		cacheStore = cache.NewMemory(7 * 24 * time.Hour)
	}

	pub := events.NewInMemory(256)
	go events.Drain(ctx, pub, log)
	led := ledger.New(pub)

	var snaps gateway.SnapshotWriter
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		st, err := store.Open(dsn)
		if err != nil {
			log.Error("store open failed", "error", err)
			os.Exit(1)
		}
		if err := st.Migrate(ctx); err != nil {
			log.Error("store migrate failed", "error", err)
			os.Exit(1)
		}
		snaps = st
	}

	gw := gateway.New(gateway.Config{
		Cache:     cacheStore,
		Ledger:    led,
		Snapshots: snaps,
		Logger:    log,
		TTL:       env.GetDuration("CACHE_TTL", 7*24*time.Hour),
		Costs:     gateway.DefaultCosts(),
		RPS:       env.GetFloat("PROVIDER_RPS", 10),
		Timeout:   env.GetDuration("PROVIDER_TIMEOUT", 15*time.Second),
	})

	ws := providers.NewWalkScoreClient(gw, os.Getenv("WS_API_KEY"))
	ga := providers.NewGeoapifyClient(gw, os.Getenv("GEOAPIFY_API_KEY"))
	heur := providers.MetroHeuristic{}
	walkability := resolve.NewChain("walkability", log,
		resolve.Backend[providers.Walkability]{Name: "walkscore", Available: ws.Available, Fetch: ws.FetchWalkability},
		resolve.Backend[providers.Walkability]{Name: "geoapify", Available: ga.Available, Fetch: ga.FetchWalkability},
		resolve.Backend[providers.Walkability]{Name: "google-derived", Available: heur.Available, Fetch: heur.FetchWalkability},
	)

	places := providers.NewPlacesClient(gw, os.Getenv("GOOGLE_MAPS_API_KEY"))
	svc := locctx.NewService(locctx.Deps{
		Geocoder:     geocode.NewCensusGeocoder(gw),
		Walkability:  walkability,
		Demographics: providers.NewCensusClient(gw, os.Getenv("CENSUS_API_KEY")),
		Amenities:    places,
		Schools:      places,
		Climate:      providers.NewOpenMeteoClient(gw),
		Crime:        providers.NewFBIClient(gw, os.Getenv("FBI_API_KEY")),
		Logger:       log,
	})

	router := BuildRouter(svc, log)
	log.Info("location-api listening", "port", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), router); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
