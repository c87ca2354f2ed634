// Command reservesim runs the bank reserves simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/bank-reserves/internal/api"
	"github.com/talgya/bank-reserves/internal/config"
	"github.com/talgya/bank-reserves/internal/metrics"
	"github.com/talgya/bank-reserves/internal/persistence"
	"github.com/talgya/bank-reserves/internal/sim"
)

// saveEvery is the snapshot-persistence cadence in ticks.
const saveEvery = 500

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	slog.Info("bank reserves simulation",
		"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"people", cfg.InitPeople,
		"rich_threshold", cfg.RichThreshold,
		"reserve_percent", cfg.ReservePercent,
		"strict_reserve", cfg.StrictReserve,
		"wealth_field", cfg.WealthField,
		"seed", cfg.Seed,
	)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Model ─────────────────────────────────────────────────────────
	model, err := sim.NewModel(cfg)
	if err != nil {
		slog.Error("failed to build model", "error", err)
		os.Exit(1)
	}
	collector := metrics.NewCollector()
	model.Collector = collector
	slog.Info("model ready", "run_id", model.RunID())

	// ── Engine ────────────────────────────────────────────────────────
	eng := sim.NewEngine()
	eng.OnTick = func(tick uint64) {
		model.Step()
		if tick%saveEvery == 0 {
			if err := db.SaveRun(model, collector.History(0)); err != nil {
				slog.Error("periodic save failed", "error", err)
			}
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("RESERVESIM_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Model:     model,
		Eng:       eng,
		Collector: collector,
		Port:      cfg.APIPort,
		AdminKey:  cfg.AdminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\n%d people on a %dx%d grid, reserve ratio %d%%.\n",
		cfg.InitPeople, cfg.Width, cfg.Height, cfg.ReservePercent)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveRun(model, collector.History(0)); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Metrics saved.")
}
