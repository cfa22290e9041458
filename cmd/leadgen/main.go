package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"leadgen-engine/internal/checkpoint"
	"leadgen-engine/internal/collect"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/httpapi"
)

func main() {
	var (
		cfgPath       = flag.String("config", filepath.Join("config", "config.yml"), "path to config file")
		sourceName    = flag.String("source", "", "place source: osm or google (default from config)")
		maxLeads      = flag.Int("max-leads", 0, "stop after collecting this many leads (default from config)")
		extractEmails = flag.Bool("extract-emails", true, "visit business websites to harvest emails")
		output        = flag.String("output", "", "CSV output path (default <data-dir>/leads.csv)")
		clearCkpt     = flag.Bool("clear-checkpoint", false, "discard saved progress and start fresh")
		dataDirFlag   = flag.String("data-dir", "", "directory for checkpoint and CSV output")
		serve         = flag.Bool("serve", false, "run the HTTP API instead of a one-shot collection")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", *cfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	dataDir := config.ResolveDataDir(cfg, *dataDirFlag)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	store := checkpoint.NewStore(filepath.Join(dataDir, "checkpoint.json"))
	hub := events.NewHub()

	if *serve {
		runServer(cfg, dataDir, store, hub)
		return
	}

	src, err := collect.BuildSource(cfg, *sourceName)
	if err != nil {
		log.Fatalf("source setup failed: %v", err)
	}

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(dataDir, "leads.csv")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := collect.New(cfg, src, collect.BuildHarvester(cfg), store, hub)
	path, err := engine.Run(ctx, collect.Options{
		Niches:          cfg.Catalog.Niches,
		Cities:          cfg.Catalog.Cities,
		MaxLeads:        *maxLeads,
		HarvestEmails:   *extractEmails,
		OutputPath:      outPath,
		ClearCheckpoint: *clearCkpt,
	})
	if err != nil {
		log.Fatalf("collection failed: %v", err)
	}
	log.Printf("[main] done, results in %s", path)
}

func runServer(cfg config.Config, dataDir string, store *checkpoint.Store, hub *events.Hub) {
	// The web surface always uses the open-data source so a missing API
	// key never blocks the UI.
	src, err := collect.BuildSource(cfg, "osm")
	if err != nil {
		log.Fatalf("source setup failed: %v", err)
	}

	engine := collect.New(cfg, src, collect.BuildHarvester(cfg), store, hub)

	mux := httpapi.NewMux(httpapi.Deps{
		Cfg:           cfg,
		Hub:           hub,
		DataDir:       dataDir,
		RunCollection: engine.Run,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[main] listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler:           cors(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}
