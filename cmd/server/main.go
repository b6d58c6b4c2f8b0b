package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/andikura/sipola_backend_v1/internal/config"
	"github.com/andikura/sipola_backend_v1/internal/controllers"
	"github.com/andikura/sipola_backend_v1/internal/gateway"
	"github.com/andikura/sipola_backend_v1/internal/models"
	"github.com/andikura/sipola_backend_v1/internal/routes"
	"github.com/andikura/sipola_backend_v1/internal/scan"
	"github.com/andikura/sipola_backend_v1/internal/session"
	"github.com/andikura/sipola_backend_v1/internal/store"
	"github.com/andikura/sipola_backend_v1/internal/syncer"
	"github.com/andikura/sipola_backend_v1/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("local store open failed: %v", err)
	}
	defer st.Close()

	var (
		gw      gateway.Gateway
		fetcher controllers.BlobFetcher
	)
	if cfg.RemoteConfigured() {
		pg, err := gateway.Connect(cfg.RemoteDatabaseURL)
		if err != nil {
			log.Fatalf("remote gateway connection failed: %v", err)
		}
		if err := pg.Migrate(); err != nil {
			log.Fatalf("remote gateway migration failed: %v", err)
		}
		if err := pg.Seed(); err != nil {
			log.Fatalf("remote gateway seed failed: %v", err)
		}
		gw = pg
		fetcher = pg
	} else {
		log.Println("remote backend not configured, running local-only")
		gw = gateway.NewLocal()
	}

	coord, err := syncer.New(st, gw)
	if err != nil {
		log.Fatalf("sync coordinator init failed: %v", err)
	}

	sessions := session.New(st, gw)
	if err := sessions.Restore(ctx); err != nil {
		log.Printf("session restore failed: %v", err)
	}
	if sessions.State() == session.StateAuthenticated {
		coord.InitialLoad(ctx)
	}

	saveScan := func(ctx context.Context, rec models.ScanRecord, cp models.Checkpoint) error {
		sess := sessions.Current()
		if sess == nil {
			sess = &models.Session{Name: "Unknown"}
		}
		return coord.AddScan(ctx, sess, rec, cp)
	}
	workflow := scan.New(coord.LookupCheckpoint, saveScan, scan.NoopSource{})

	hub := ws.NewMonitorHub()
	go hub.Run()
	coord.SetOnChange(hub.Broadcast)

	r := gin.Default()
	routes.Register(r, routes.Deps{
		Cfg:      cfg,
		Sessions: sessions,
		Coord:    coord,
		Workflow: workflow,
		Blobs:    gw,
		Fetcher:  fetcher,
		Hub:      hub,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Println("server exited with error:", err)
		os.Exit(1)
	}
}
