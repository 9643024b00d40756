package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"defisim/internal/bookmarks"
	"defisim/internal/config"
	"defisim/internal/infrastructure/server"
	"defisim/internal/marketdata"
	"defisim/internal/portfolio"
	"defisim/pkg/concurrency"
	"defisim/pkg/logging"
	"defisim/pkg/telemetry"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	portFlag   = flag.Int("port", 0, "API server port (overrides config)")
	liveFlag   = flag.Bool("live", false, "Start in live market data mode")
)

func main() {
	flag.Parse()

	// Override flags with env vars if present
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		*configFile = envConfig
	}
	if envPort := os.Getenv("PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			*portFlag = p
		}
	}
	if os.Getenv("LIVE_DATA") == "true" {
		*liveFlag = true
	}

	// Load configuration (use defaults if the file is missing)
	cfg := config.DefaultConfig()
	if _, err := os.Stat(*configFile); err == nil {
		loadedCfg, err := config.LoadConfig(*configFile)
		if err != nil {
			logFatalStartup("Failed to load config file", err)
		}
		cfg = loadedCfg
	}
	if *portFlag > 0 {
		cfg.Server.Port = *portFlag
	}
	if *liveFlag {
		cfg.MarketData.Live = true
	}

	logger, err := logging.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		logFatalStartup("Failed to create logger", err)
	}
	logging.SetGlobalLogger(logger)
	defer logger.Sync()

	logger.Info("Starting strategy simulator",
		"port", cfg.Server.Port,
		"protocol", cfg.MarketData.DefaultProtocol,
		"live_data", cfg.MarketData.Live,
	)

	var tel *telemetry.Telemetry
	if cfg.Telemetry.EnableMetrics || cfg.Telemetry.EnableTracing {
		tel, err = telemetry.Setup(cfg.App.Name)
		if err != nil {
			logger.Warn("Failed to initialize telemetry", "error", err)
		}
	}

	// Bookmark store
	var store bookmarks.Store
	switch cfg.Bookmarks.Driver {
	case "sqlite":
		store, err = bookmarks.NewSQLiteStore(cfg.Bookmarks.Path)
		if err != nil {
			logger.Fatal("Failed to open bookmark store", "error", err, "path", cfg.Bookmarks.Path)
		}
	default:
		store = bookmarks.NewMemoryStore()
	}
	defer store.Close()

	// Warm the sample cache and seed the bookmark store concurrently
	g, gctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return bookmarks.Seed(gctx, store)
	})
	g.Go(func() error {
		for _, p := range marketdata.Protocols() {
			if _, err := marketdata.LoadSample(p); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("Startup preparation failed", "error", err)
	}

	// Market data
	endpoints := make(map[marketdata.Protocol]string, len(cfg.MarketData.Endpoints))
	for name, url := range cfg.MarketData.Endpoints {
		if url == "" {
			continue
		}
		p, err := marketdata.ParseProtocol(name)
		if err != nil {
			logger.Warn("Skipping unknown protocol endpoint", "protocol", name)
			continue
		}
		endpoints[p] = url
	}
	liveClient := marketdata.NewLiveClient(endpoints,
		time.Duration(cfg.MarketData.TimeoutSeconds)*time.Second, logger)
	provider := marketdata.NewProvider(liveClient, logger)

	// Portfolio manager
	manager := portfolio.NewManager(logger)
	manager.SetTimeframe(cfg.Simulator.DefaultTimeframeDays)
	manager.SetLiveData(cfg.MarketData.Live)
	if p, err := marketdata.ParseProtocol(cfg.MarketData.DefaultProtocol); err == nil {
		manager.SetProtocol(p)
	}

	// Worker pool for shock sweeps
	sweepPool := concurrency.NewWorkerPool(concurrency.PoolConfig{
		Name:        "SweepPool",
		MaxWorkers:  cfg.Concurrency.SweepPoolSize,
		MaxCapacity: cfg.Concurrency.SweepPoolBuffer,
		NonBlocking: true,
	}, logger)
	defer sweepPool.Stop()

	apiServer := server.NewServer(server.Options{
		Port:                cfg.Server.Port,
		ReadTimeoutSeconds:  cfg.Server.ReadTimeoutSeconds,
		WriteTimeoutSeconds: cfg.Server.WriteTimeoutSeconds,
		MaxTimeframeDays:    cfg.Simulator.MaxTimeframeDays,
		MaxPriceShockPct:    cfg.Simulator.MaxPriceShockPct,
	}, logger, manager, provider, store, sweepPool)
	apiServer.Start()

	logger.Info("Simulator is running",
		"health_url", "http://localhost:"+strconv.Itoa(cfg.Server.Port)+"/health",
		"api_url", "http://localhost:"+strconv.Itoa(cfg.Server.Port)+"/api",
	)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	logger.Info("Received shutdown signal, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", "error", err)
	}
	if tel != nil {
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during telemetry shutdown", "error", err)
		}
	}

	logger.Info("Simulator stopped")
}

func logFatalStartup(msg string, err error) {
	os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}
