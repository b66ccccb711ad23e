package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/airglyph/airglyph/internal/classifier"
	"github.com/airglyph/airglyph/internal/config"
	"github.com/airglyph/airglyph/internal/dataset"
	"github.com/airglyph/airglyph/internal/db"
	"github.com/airglyph/airglyph/internal/fsutil"
	"github.com/airglyph/airglyph/internal/httputil"
	"github.com/airglyph/airglyph/internal/pipeline"
	"github.com/airglyph/airglyph/internal/serialmux"
	"github.com/airglyph/airglyph/internal/session"
	"github.com/airglyph/airglyph/internal/version"
)

var (
	mode       = flag.String("mode", "collect", "Operating mode: collect, predict, or stats")
	devMode    = flag.Bool("dev", false, "Run in dev mode with a mock serial port replaying fixtures.txt")
	portFlag   = flag.String("port", "", "Serial port path (overrides config)")
	configPath = flag.String("config", "", "Path to JSON config file")
	category   = flag.String("category", "", "Gesture category to record (collect mode)")
	samples    = flag.Int("samples", 0, "Stop after this many recordings (0 = until interrupted)")
	showVer    = flag.Bool("version", false, "Print version information and exit")
)

func loadConfig() *config.Config {
	if *configPath == "" {
		return &config.Config{}
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func openMux(cfg *config.Config) serialmux.SerialMuxInterface {
	if *devMode {
		data, err := os.ReadFile("fixtures.txt")
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		return serialmux.NewMockSerialMux(data)
	}

	port := cfg.GetSerialPort()
	if *portFlag != "" {
		port = *portFlag
	}
	opts := serialmux.PortOptions{BaudRate: cfg.GetBaudRate()}
	m, err := serialmux.NewRealSerialMux(port, opts)
	if err != nil {
		log.Fatalf("failed to open serial port %s: %v", port, err)
	}
	return m
}

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("airglyph %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := loadConfig()

	switch *mode {
	case "collect":
		if *category == "" {
			log.Fatal("collect mode requires -category")
		}
		runCollect(cfg)
	case "predict":
		runPredict(cfg)
	case "stats":
		runStats(cfg)
	default:
		log.Fatalf("unknown mode %q (want collect, predict, or stats)", *mode)
	}
}

func runCollect(cfg *config.Config) {
	m := openMux(cfg)
	defer m.Close()

	pipe, err := pipeline.New(cfg.GetFilterCutoffHz(), cfg.GetFilterOrder(), cfg.GetSampleRateHz())
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	store := dataset.NewStore(&fsutil.OSFileSystem{}, cfg.GetDataDir())
	existing, err := store.Load(*category)
	if err != nil {
		log.Fatalf("failed to load category %s: %v", *category, err)
	}
	log.Printf("category %s: %d sequences on disk", *category, existing)

	gestureDB, err := db.NewDB(cfg.GetDatabasePath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer gestureDB.Close()

	collector := session.NewCollector(m, pipe, store)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := collector.Run(ctx, *category); err != nil && err != context.Canceled {
			log.Printf("collector terminated: %v", err)
		}
	}()

	recorded := 0
	source := "serial"
	if *devMode {
		source = "fixture"
	}
loop:
	for *samples == 0 || recorded < *samples {
		select {
		case rec := <-collector.Recordings():
			recorded++
			log.Printf("recorded %s gesture %s (%d timesteps, %d this session)",
				rec.Category, rec.ID, rec.Timesteps, recorded)
			if err := gestureDB.RecordGesture(rec.ID, rec.Category, rec.Timesteps, source); err != nil {
				log.Printf("failed to log gesture: %v", err)
			}
			if n, err := store.Flush(rec.Category); err != nil {
				log.Printf("failed to save category %s: %v", rec.Category, err)
			} else {
				log.Printf("category %s: %d sequences on disk", rec.Category, n)
			}
		case <-ctx.Done():
			break loop
		}
	}

	stop()
	wg.Wait()

	// One last flush in case the final save failed or a recording landed
	// after the loop exited.
	if err := store.FlushAll(); err != nil {
		log.Printf("final flush failed: %v", err)
	}
	log.Printf("collected %d gestures this session", recorded)
}

func runPredict(cfg *config.Config) {
	m := openMux(cfg)
	defer m.Close()

	pipe, err := pipeline.New(cfg.GetFilterCutoffHz(), cfg.GetFilterOrder(), cfg.GetSampleRateHz())
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	client := httputil.NewStandardClient(&http.Client{Timeout: 10 * time.Second})
	model := classifier.NewHTTPClassifier(client, cfg.GetClassifierURL())

	gestureDB, err := db.NewDB(cfg.GetDatabasePath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer gestureDB.Close()

	predictor := session.NewPredictor(m, pipe, model)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := predictor.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("predictor terminated: %v", err)
		}
	}()

	for {
		select {
		case pred := <-predictor.Predictions():
			log.Printf("predicted %s (%.1f%% confidence, %d timesteps)",
				pred.Label, pred.Confidence*100, pred.Timesteps)
			if err := gestureDB.RecordPrediction(pred.RecordingID, pred.Label, pred.Confidence, pred.Timesteps); err != nil {
				log.Printf("failed to log prediction: %v", err)
			}
		case <-ctx.Done():
			stop()
			wg.Wait()
			return
		}
	}
}

func runStats(cfg *config.Config) {
	store := dataset.NewStore(&fsutil.OSFileSystem{}, cfg.GetDataDir())
	if err := store.LoadAll(); err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	stats := store.Stats()
	categories := make([]string, 0, len(stats))
	total := 0
	for c, n := range stats {
		categories = append(categories, c)
		total += n
	}
	sort.Strings(categories)

	fmt.Printf("dataset %s: %d sequences in %d categories\n", cfg.GetDataDir(), total, len(categories))
	for _, c := range categories {
		fmt.Printf("  %-12s %d\n", c, stats[c])
	}

	gestureDB, err := db.NewDB(cfg.GetDatabasePath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer gestureDB.Close()

	counts, err := gestureDB.CategoryCounts()
	if err != nil {
		log.Fatalf("failed to query session log: %v", err)
	}
	if len(counts) > 0 {
		fmt.Println("recorded this device:")
		logged := make([]string, 0, len(counts))
		for c := range counts {
			logged = append(logged, c)
		}
		sort.Strings(logged)
		for _, c := range logged {
			fmt.Printf("  %-12s %d\n", c, counts[c])
		}
	}
}
