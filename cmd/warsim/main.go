// Command warsim runs batches of procedurally generated worlds through the
// conflict engine and records their history.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/warfront/internal/config"
	"github.com/talgya/warfront/internal/conflict"
	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/entropy"
	"github.com/talgya/warfront/internal/persistence"
	"github.com/talgya/warfront/internal/scenario"
	"github.com/talgya/warfront/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("warsim failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.NewSeed()
		slog.Info("picked random seed", "seed", seed)
	}
	seeds := make([]uint64, cfg.Runs)
	seeds[0] = seed
	for i := 1; i < cfg.Runs; i++ {
		seeds[i] = entropy.Derive(seed, i)
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Batch ─────────────────────────────────────────────────────────
	var mu sync.Mutex
	runs := make(map[uint64]persistence.Run, len(seeds))

	build := func(seed uint64) (*engine.Runner, error) {
		w, err := scenario.Generate(scenario.GenConfig{
			Seed:      seed,
			Radius:    cfg.Radius,
			Factions:  cfg.Factions,
			StartYear: cfg.StartYear,
		})
		if err != nil {
			return nil, err
		}
		r, err := db.StartRun(seed, w.Now)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		runs[seed] = r
		mu.Unlock()

		if err := db.RecordTick(r, engine.TickReport{Time: w.Now, Events: w.Events()}); err != nil {
			return nil, err
		}

		log := slog.Default().With("seed", seed)
		runner := engine.NewRunner(w, entropy.New(seed), log, conflict.New(tuning))
		runner.OnTick = func(report engine.TickReport) {
			if err := db.RecordTick(r, report); err != nil {
				log.Error("failed to record tick", "time", report.Time, "error", err)
			}
		}
		log.Info("world ready", "entities", w.Len(), "factions", len(w.Living(world.KindFaction)))
		return runner, nil
	}

	slog.Info("starting batch", "runs", len(seeds), "years", cfg.Years, "parallel", cfg.Parallel)
	results, err := engine.RunBatch(ctx, seeds, cfg.Years*12, cfg.Parallel, build)
	if err != nil {
		return err
	}

	// ── Results ───────────────────────────────────────────────────────
	for _, res := range results {
		w := res.Runner.World
		r := runs[res.Seed]
		if err := db.FinishRun(r, w); err != nil {
			return err
		}
		if cfg.ExportDir != "" {
			path := persistence.ExportPath(cfg.ExportDir, r)
			if err := persistence.ExportJSONL(path, w); err != nil {
				return fmt.Errorf("export seed %d: %w", res.Seed, err)
			}
			if fi, err := os.Stat(path); err == nil {
				slog.Info("world exported", "path", path, "size", humanize.Bytes(uint64(fi.Size())))
			}
		}
		summarize(res, r)
	}
	return db.SaveMeta("last_seed", fmt.Sprintf("%d", seed))
}

// summarize logs a one-line history of a finished run.
func summarize(res engine.Result, r persistence.Run) {
	w := res.Runner.World
	counts := make(map[world.EventKind]int)
	for _, ev := range w.Events() {
		counts[ev.Kind]++
	}
	slog.Info("run complete",
		"seed", res.Seed,
		"run", r.ID,
		"ended", engine.SimTime(w.Now),
		"events", humanize.Comma(int64(res.Events)),
		"changes", humanize.Comma(int64(len(w.Changes()))),
		"wars", counts[world.EventWarDeclared],
		"battles", counts[world.EventBattle],
		"conquests", counts[world.EventConquest],
		"treaties", counts[world.EventTreaty],
	)
}
