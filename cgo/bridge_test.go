package main

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/thirtyone/engine"
	"github.com/signalnine/thirtyone/network"
	"github.com/signalnine/thirtyone/simulation"
	"github.com/signalnine/thirtyone/store"
)

func writeTestModel(t *testing.T, in, out int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "A_1_0_0"+store.ModelExt)
	net := network.New(in, 8, out, rand.New(rand.NewSource(1)))
	require.NoError(t, store.WriteModel(path, "A_1_0_0", net))
	return path
}

func TestOpenDecideRelease(t *testing.T) {
	path := writeTestModel(t, engine.ViewSize, engine.ActionSize)
	h, err := open(path)
	require.NoError(t, err)
	assert.NotZero(t, h)

	seats := [engine.NumSeats]engine.Personality{engine.Normal1, engine.Player, engine.Normal2, engine.Normal3}
	var s engine.State
	s.Deal(rand.New(rand.NewSource(5)), seats)
	view := make([]float32, engine.ViewSize)
	simulation.BuildView(view, &s, seats, [engine.NumSeats]bool{}, 0)

	d, err := decide(h, view)
	require.NoError(t, err)
	if !d.WantsToPass {
		assert.True(t, s.OnTable(d.TableCard))
		assert.True(t, s.Holds(0, d.OwnCard))
	}

	release(h)
	_, err = decide(h, view)
	assert.Error(t, err)
}

func TestOpenHandlesAreDistinct(t *testing.T) {
	path := writeTestModel(t, engine.ViewSize, engine.ActionSize)
	a, err := open(path)
	require.NoError(t, err)
	b, err := open(path)
	require.NoError(t, err)
	defer release(a)
	defer release(b)
	assert.NotEqual(t, a, b)
}

func TestOpenRejectsWrongShape(t *testing.T) {
	_, err := open(writeTestModel(t, 10, engine.ActionSize))
	assert.Error(t, err)

	_, err = open(filepath.Join(t.TempDir(), "missing"+store.ModelExt))
	assert.Error(t, err)
}
