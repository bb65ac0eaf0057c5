package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/monitor"
	"github.com/banshee-data/surface.report/internal/store"
	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/timeutil"
	"github.com/banshee-data/surface.report/internal/version"
	"github.com/banshee-data/surface.report/internal/view"
	"github.com/banshee-data/surface.report/internal/watch"
)

var (
	csvFile    = flag.String("csv", "", "Path to the road measurement CSV (overrides config)")
	configFile = flag.String("config", "", "Path to JSON settings file")
	listen     = flag.String("listen", "", "Listen address (overrides config)")
)

func main() {
	flag.Parse()
	log.Printf("surface.report %s (%s)", version.Version, version.GitSHA)

	cfg := config.EmptySettings()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadSettings(*configFile)
		if err != nil {
			log.Fatalf("failed to load settings: %v", err)
		}
	}

	sourceFile := cfg.GetSourceFile()
	if *csvFile != "" {
		sourceFile = *csvFile
	}
	if sourceFile == "" {
		log.Fatal("a measurement CSV is required (-csv or source_file in config)")
	}

	address := cfg.GetListen()
	if *listen != "" {
		address = *listen
	}

	clock := timeutil.RealClock{}
	gridStore := store.New(cfg.GetUnitScale(), clock)

	if name := cfg.GetColormap(); name != view.DefaultColormap {
		if err := gridStore.Apply(store.SetColormap{Name: name}); err != nil {
			log.Fatalf("invalid configured colormap: %v", err)
		}
	}

	sched := timeutil.NewScheduler(clock)
	rotator := view.NewAutoRotator(sched, cfg.GetAutoRotateInterval(), cfg.GetAutoRotateStepDeg(),
		func(dElev, dAzim float64) {
			if err := gridStore.Apply(store.Rotate{DElev: dElev, DAzim: dAzim}); err != nil {
				log.Printf("auto-rotate step failed: %v", err)
			}
		})
	gridStore.AttachAutoRotator(rotator)
	defer rotator.Stop()

	gridStore.Subscribe(func(snap store.Snapshot) {
		log.Printf("[Main] grid replaced: mean=%.2f max=%.2f min=%.2f",
			snap.Summary.Mean, snap.Summary.Max, snap.Summary.Min)
	})

	detector := watch.NewDetector(sourceFile, nil, cfg.GetPollInterval())

	// fsnotify is best-effort: polling alone is sufficient, the
	// notifier just shortens the latency between write and reload.
	var trigger <-chan struct{}
	if notifier, err := watch.NewNotifier(sourceFile); err != nil {
		log.Printf("file notifications unavailable, polling only: %v", err)
	} else {
		trigger = notifier.Trigger()
		defer notifier.Close()
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		detector.Run(ctx, clock, trigger, func(g surface.Grid, diag string) {
			gridStore.ReplaceGrid(g, diag)
		})
	}()

	webServer := monitor.NewWebServer(monitor.WebServerConfig{
		Address:    address,
		Store:      gridStore,
		SourceFile: sourceFile,
		Units:      cfg.GetUnits(),
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := webServer.Start(ctx); err != nil {
			log.Printf("web server error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
