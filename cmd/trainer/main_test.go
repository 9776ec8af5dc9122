package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/evolution"
	"github.com/signalnine/thirtyone/store"
)

func TestPrintLedgerListsLeaders(t *testing.T) {
	ledger, err := store.OpenLedger(t.Context(), filepath.Join(t.TempDir(), "train.db"), "s1", 3)
	require.NoError(t, err)
	defer ledger.Close()

	cfg := evolution.DefaultConfig()
	cfg.Personalities = []engine.Personality{engine.Normal1, engine.Normal2, engine.Normal3, engine.Player}
	cfg.PoolSize = 3
	cfg.HiddenSize = 8
	cfg.RandomSeed = 3
	cfg.SnapshotInterval = 0
	cfg.Scans = false
	cfg.Round.GamesPerGenome = 2
	tr := evolution.NewTrainer(cfg, nil, ledger)
	tr.Initialize()
	stats, err := tr.Step(t.Context())
	require.NoError(t, err)

	var out bytes.Buffer
	printLedger(&out, ledger, tr)
	assert.Contains(t, out.String(), "1 rounds recorded")
	for _, sum := range stats.Summaries {
		if sum.Games > 0 {
			assert.Contains(t, out.String(), sum.Best.Stem)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h1m", formatDuration(61*time.Minute))
}
