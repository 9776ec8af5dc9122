package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/evolution"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trainer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, -1, cfg.ResumeRound)
	assert.Equal(t, map[string]float64{"X": 1, "greedy": 1, "dummy": 1}, cfg.StandIns)
	assert.Equal(t, engine.AllPersonalities(), cfg.Personalities())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
session: nightly
pool_size: 10
games_per_genome: 50
roster: [A, B, C, X, greedy]
stand_ins:
  greedy: 2
log_format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nightly", cfg.Session)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 50, cfg.GamesPerGenome)
	// Unset fields keep their defaults.
	assert.Equal(t, 100, cfg.SnapshotInterval)
	assert.Equal(t, map[string]float64{"greedy": 2}, cfg.StandIns)
	assert.Equal(t, []engine.Personality{engine.Normal1, engine.Normal2, engine.Normal3, engine.Player, engine.Greedy},
		cfg.Personalities())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "pool_size: 10\nseed: 3\n")
	t.Setenv("TRAINER_POOL_SIZE", "25")
	t.Setenv("TRAINER_ROSTER", "A,spy")
	t.Setenv("TRAINER_SCANS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.PoolSize)
	assert.Equal(t, int64(3), cfg.Seed)
	assert.Equal(t, []string{"A", "spy"}, cfg.Roster)
	assert.False(t, cfg.Scans)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "pool_size: 0\nroster: [A, nobody]\nresume: scan\n")
	_, err := Load(path)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["pool_size"])
	assert.True(t, fields["roster"])
	assert.True(t, fields["session"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateStandIns(t *testing.T) {
	cfg := Default()
	cfg.StandIns = map[string]float64{"boss": 1}
	assert.NotEmpty(t, cfg.Validate())

	cfg.StandIns = map[string]float64{"greedy": 0, "dummy": 0}
	assert.NotEmpty(t, cfg.Validate())

	cfg.StandIns = map[string]float64{"greedy": 0, "dummy": 1}
	assert.Empty(t, cfg.Validate())
}

func TestValidateLogging(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.LogFormat = "xml"
	errs := cfg.Validate()
	require.Len(t, errs, 2)
	assert.Equal(t, "log_level", errs[0].Field)
	assert.Equal(t, "log_format", errs[1].Field)
}

func TestTrainerConfig(t *testing.T) {
	cfg := Default()
	cfg.Roster = []string{"A", "A", "boss"}
	cfg.StandIns = map[string]float64{"dummy": 3, "X": 1}
	cfg.PoolSize = 7
	cfg.Workers = 2
	cfg.Seed = 11

	tc := cfg.Trainer()
	assert.Equal(t, []engine.Personality{engine.Normal1, engine.Boss}, tc.Personalities)
	assert.Equal(t, 7, tc.PoolSize)
	assert.Equal(t, int64(11), tc.RandomSeed)
	assert.Equal(t, 2, tc.Round.Workers)
	require.Len(t, tc.Round.StandIns, 2)
	assert.Equal(t, engine.Player, tc.Round.StandIns[0].Personality)
	assert.Equal(t, engine.Dummy, tc.Round.StandIns[1].Personality)
	assert.Equal(t, 3.0, tc.Round.StandIns[1].Weight)
}

func TestResumeMode(t *testing.T) {
	cfg := Default()
	assert.Equal(t, evolution.Strict, cfg.ResumeMode())
	cfg.Resume = ResumeScan
	assert.Equal(t, evolution.Scan, cfg.ResumeMode())
}
