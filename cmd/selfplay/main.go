// Command selfplay runs computer-versus-computer matches headless across
// a pool of workers and writes each match's telemetry as Parquet.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/maplib"
)

var totalTicks atomic.Int64

func main() {
	matches := flag.Int("matches", 8, "Number of matches to play")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of self-play workers")
	maxTicks := flag.Uint64("ticks", 60*60*20, "Tick limit per match (20 minutes of game time at 60 ticks/s)")
	sampleEvery := flag.Uint64("sample-every", 60, "Record team stats every N ticks")
	outDir := flag.String("out-dir", "data/selfplay", "Output directory for telemetry parquet files")
	seed := flag.Int64("seed", 1, "Seed of the first match; match i uses seed+i (0 picks from the clock)")
	rulesPath := flag.String("rules", "", "Path to a rules JSON file (defaults built in)")
	mapPath := flag.String("map", "", "Path to a battlefield JSON file")
	useTUI := flag.Bool("tui", true, "Show the live dashboard instead of log lines")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("bad -log-level: %v", err)
	}
	var logOut io.Writer = os.Stderr
	if *useTUI {
		// the dashboard owns the terminal
		logOut = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))

	rules, err := config.LoadRules(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}
	bf := maplib.Default(rules)
	if *mapPath != "" {
		if bf, err = maplib.Load(*mapPath); err != nil {
			log.Fatal(err)
		}
	}
	base := *seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	jobs := make(chan int64)
	updates := make(chan MatchUpdate, *workers)

	go func() {
		defer close(jobs)
		for i := 0; i < *matches; i++ {
			select {
			case jobs <- base + int64(i):
			case <-ctx.Done():
				return
			}
		}
	}()

	var workerWG sync.WaitGroup
	for i := 0; i < max(1, *workers); i++ {
		workerWG.Add(1)
		go func(workerID int) {
			defer workerWG.Done()
			onTick := func() { totalTicks.Add(1) }
			for s := range jobs {
				res, err := PlayMatch(ctx, MatchConfig{
					Rules:       rules,
					Battlefield: bf,
					Seed:        s,
					MaxTicks:    *maxTicks,
					SampleEvery: *sampleEvery,
					OutDir:      *outDir,
				}, onTick)
				if errors.Is(err, context.Canceled) {
					return
				}
				updates <- MatchUpdate{WorkerID: workerID, Result: res, Err: err}
			}
		}(i)
	}
	go func() {
		workerWG.Wait()
		close(updates)
	}()

	if *useTUI {
		p := tea.NewProgram(initialModel(*matches, updates), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
		// quitting early abandons the matches still running
		cancel()
		for range updates {
		}
		return
	}

	m := initialModel(*matches, updates)
	for u := range updates {
		m = m.record(u)
		if u.Err != nil {
			slog.Error("match failed", "worker", u.WorkerID, "match", u.Result.MatchID, "err", u.Err)
			continue
		}
		slog.Info("match finished", "worker", u.WorkerID, "match", u.Result.MatchID,
			"winner", u.Result.Winner, "ticks", u.Result.Ticks, "waves", u.Result.Waves)
	}
	slog.Info("selfplay complete", "played", m.played, "failed", m.failed,
		"gdi", m.wins["GDI"], "nod", m.wins["NOD"], "draws", m.wins["none"], "ticks", totalTicks.Load())
}
