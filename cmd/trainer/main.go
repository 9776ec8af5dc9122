// Package main provides the thirtyone-trainer CLI for evolving thirty-one
// playing agents through self-play.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/signalnine/thirtyone/config"
	"github.com/signalnine/thirtyone/evolution"
	"github.com/signalnine/thirtyone/store"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// CLI flags
var (
	configPath  string
	session     string
	resume      string
	resumeRound int
	rounds      int
	workers     int
	showVersion bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&session, "session", "", "Session name (default: start time in milliseconds)")
	flag.StringVar(&resume, "resume", "", "Resume the session: strict or scan")
	flag.IntVar(&resumeRound, "round", -1, "Round to resume from (-1 = latest snapshot)")
	flag.IntVar(&rounds, "rounds", -1, "Rounds to play (0 = until interrupted, -1 = from config)")
	flag.IntVar(&workers, "workers", -1, "Worker goroutines per phase (0 = one per CPU, -1 = from config)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("thirtyone-trainer %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	cfg.SetupLogging()

	if err := run(cfg); err != nil {
		logrus.WithError(err).Error("Training failed")
		os.Exit(1)
	}
}

// loadConfig reads the config and applies the command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if session != "" {
		cfg.Session = session
	}
	if resume != "" {
		cfg.Resume = resume
	}
	if resumeRound >= 0 {
		cfg.ResumeRound = resumeRound
	}
	if rounds >= 0 {
		cfg.Rounds = rounds
	}
	if workers >= 0 {
		cfg.Workers = workers
	}
	if cfg.Session == "" && cfg.Resume == config.ResumeNone {
		cfg.Session = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := store.OpenSession(cfg.OutputDir, cfg.Session)
	if err != nil {
		return err
	}

	var ledger *store.Ledger
	if cfg.Ledger != "" {
		path := cfg.Ledger
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.OutputDir, path)
		}
		ledger, err = store.OpenLedger(ctx, path, cfg.Session, cfg.Seed)
		if err != nil {
			return err
		}
		defer ledger.Close()
	}

	printBanner(cfg, sess, ledger)

	trainer := evolution.NewTrainer(cfg.Trainer(), sess, ledger)
	if cfg.Resume != config.ResumeNone {
		if err := trainer.Resume(cfg.ResumeRound, cfg.ResumeMode()); err != nil {
			return err
		}
	}
	trainer.Initialize()

	startTime := time.Now()
	trainer.OnRoundComplete = func(stats evolution.RoundStats) {
		fields := logrus.Fields{
			"round":    stats.Round,
			"replaced": stats.Replaced,
			"elapsed":  formatDuration(stats.Duration),
			"total":    formatDuration(time.Since(startTime)),
		}
		if stats.Snapshot {
			fields["snapshot"] = true
		}
		logrus.WithFields(fields).Info("Round complete")
	}

	if err := trainer.Run(ctx); err != nil {
		return err
	}
	printSummary(trainer, time.Since(startTime), sess)
	if ledger != nil {
		printLedger(os.Stdout, ledger, trainer)
	}
	return nil
}

func printBanner(cfg *config.Config, sess *store.Session, ledger *store.Ledger) {
	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Println("║               Thirty-One Self-Play Trainer                 ║")
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Session:        %s\n", sess.Dir)
	fmt.Printf("  Personalities:  %d\n", len(cfg.Personalities()))
	fmt.Printf("  Pool size:      %d\n", cfg.PoolSize)
	fmt.Printf("  Games/genome:   %d\n", cfg.GamesPerGenome)
	fmt.Printf("  Hidden size:    %d\n", cfg.HiddenSize)
	fmt.Printf("  Workers:        %d (0=auto)\n", cfg.Workers)
	if cfg.Rounds > 0 {
		fmt.Printf("  Rounds:         %d\n", cfg.Rounds)
	} else {
		fmt.Printf("  Rounds:         until interrupted\n")
	}
	if cfg.SnapshotInterval > 0 {
		fmt.Printf("  Snapshot:       every %d rounds\n", cfg.SnapshotInterval)
	}
	if cfg.Resume != config.ResumeNone {
		fmt.Printf("  Resume:         %s\n", cfg.Resume)
	}
	if ledger != nil {
		fmt.Printf("  Ledger run:     %s\n", ledger.RunID)
	}
	fmt.Println()
}

func printSummary(trainer *evolution.Trainer, totalTime time.Duration, sess *store.Session) {
	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("                      TRAINING SUMMARY")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Printf("  Total Time:      %s\n", formatDuration(totalTime))
	fmt.Printf("  Rounds played:   %d\n", len(trainer.History))
	fmt.Printf("  Next round:      %d\n", trainer.Round)
	if n := len(trainer.History); n > 0 {
		for _, sum := range trainer.History[n-1].Summaries {
			if sum.Games == 0 {
				continue
			}
			fmt.Printf("  %-12s     best %-28s %8.1f  diversity %.4f\n",
				sum.Personality, sum.Best.Stem, sum.Best.Objective, sum.Diversity)
		}
	}
	fmt.Printf("  Output:          %s\n", sess.Dir)
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()
}

// printLedger lists what this run recorded and the leaders of its last round.
func printLedger(w io.Writer, ledger *store.Ledger, trainer *evolution.Trainer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := ledger.Rounds(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read ledger")
		return
	}
	fmt.Fprintf(w, "Ledger run %s: %d rounds recorded\n", ledger.RunID, n)
	if len(trainer.History) == 0 {
		return
	}
	last := trainer.History[len(trainer.History)-1]
	for _, sum := range last.Summaries {
		if sum.Personality.IsAbsent() || sum.Games == 0 {
			continue
		}
		top, err := ledger.Top(ctx, last.Round, sum.Personality.String(), 3)
		if err != nil {
			logrus.WithError(err).WithField("personality", sum.Personality).Warn("Failed to read ledger")
			continue
		}
		for _, g := range top {
			fmt.Fprintf(w, "  round %-6d %-12s #%d %-28s %8.1f\n", g.Round, g.Personality, g.Rank+1, g.Stem, g.Objective)
		}
	}
	fmt.Fprintln(w)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
