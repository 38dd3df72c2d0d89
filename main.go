package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rightscrape/config"
	"rightscrape/extract"
	"rightscrape/fetch"
	"rightscrape/httputil"
	"rightscrape/logging"
	"rightscrape/scheduler"
	"rightscrape/services"
	"rightscrape/storage"
	"rightscrape/workers"
)

var (
	pageURL  = flag.String("url", "", "Listing URL to extract once and print as JSON")
	pageFile = flag.String("file", "", "Extract from a saved HTML file instead of fetching")
	trackURL = flag.String("track", "", "Add a listing URL to the daemon's tracked set")
	daemon   = flag.Bool("daemon", false, "Run the extraction daemon")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	ecfg, err := cfg.ExtractorConfig()
	if err != nil {
		log.Fatalf("Failed to build extractor config: %v", err)
	}
	engine := extract.New(ecfg)

	switch {
	case *pageURL != "" || *pageFile != "":
		if err := runOnce(cfg, engine); err != nil {
			log.Fatalf("Extraction failed: %v", err)
		}
	case *trackURL != "":
		if err := runTrack(cfg, *trackURL); err != nil {
			log.Fatalf("Track failed: %v", err)
		}
	case *daemon:
		runDaemon(cfg, engine)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runOnce extracts a single listing and prints the record to stdout. The
// record is printed even when no images could be recovered, but the exit
// code is non-zero so pipelines notice.
func runOnce(cfg *config.Config, engine *extract.Engine) error {
	var page, listingURL string

	if *pageFile != "" {
		data, err := os.ReadFile(*pageFile)
		if err != nil {
			return fmt.Errorf("read page file: %w", err)
		}
		page = string(data)
		listingURL = *pageURL
	} else {
		if !extract.ValidListingURL(*pageURL, cfg.Site.Host) {
			return fmt.Errorf("not a listing URL: %s", *pageURL)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		clients := httputil.NewClients(cfg.ProxyURL)
		fetcher := fetch.New(cfg.FetchMode, clients)
		if closer, ok := fetcher.(interface{ Close() }); ok {
			defer closer.Close()
		}

		fetched, err := fetcher.Fetch(ctx, *pageURL)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		page = fetched
		listingURL = *pageURL
	}

	rec, err := engine.Extract(page, listingURL)
	if err != nil && !errors.Is(err, extract.ErrNoImagesRecovered) {
		return err
	}

	out, merr := json.MarshalIndent(rec, "", "  ")
	if merr != nil {
		return fmt.Errorf("marshal record: %w", merr)
	}
	fmt.Println(string(out))

	if err != nil {
		return err
	}
	log.Printf("Extracted %s: %d images", rec.URL, len(rec.Images))
	return nil
}

func runTrack(cfg *config.Config, url string) error {
	if !extract.ValidListingURL(url, cfg.Site.Host) {
		return fmt.Errorf("not a listing URL: %s", url)
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer store.Close()

	if err := store.Track(url); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	log.Printf("Tracking %s", url)
	return nil
}

func runDaemon(cfg *config.Config, engine *extract.Engine) {
	log.Println("Starting rightscrape daemon...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer store.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var pg *storage.PostgresStore
	if cfg.DatabaseURL != "" {
		pg, err = storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		log.Println("Postgres mirror connected")
	}

	clients := httputil.NewClients(cfg.ProxyURL)
	fetcher := fetch.New(cfg.FetchMode, clients)
	if closer, ok := fetcher.(interface{ Close() }); ok {
		defer closer.Close()
	}
	log.Printf("Fetch mode: %s", cfg.FetchMode)

	listingService := services.NewListingService(store, pg)
	tracker := services.NewTrackerService(store, fetcher, engine, listingService)

	var uploader workers.Uploader
	if cfg.S3.Bucket != "" {
		s3up, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("Failed to init S3 uploader: %v", err)
		}
		uploader = s3up
		log.Printf("S3 uploads enabled: %s", cfg.S3.Bucket)
	} else {
		log.Println("No S3 bucket configured, media uploads disabled")
	}

	mediaWorker := workers.NewMediaWorker(store, clients.Media, uploader)
	go mediaWorker.Run(ctx, 10, 30*time.Second)

	sched := scheduler.New(cfg, tracker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Initial sweep so newly tracked listings don't wait for the first tick.
	go func() {
		if err := tracker.RunAll(ctx); err != nil {
			log.Printf("Initial sweep error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %s, shutting down", sig)
	cancel()
}
