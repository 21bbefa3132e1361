package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/objmove"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("SECTOR_CONFIG", "")
	t.Setenv("SECTOR_TICK_RATE", "")
	t.Setenv("SECTOR_METRICS_ADDR", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 35, cfg.Sim.TickRate)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)
	assert.Equal(t, objmove.DefaultParams(), cfg.Physics.Params())
	assert.Equal(t, time.Second/35, cfg.Sim.TickInterval())
}

func TestLoadOverridesPhysics(t *testing.T) {
	path := writeConfig(t, `
physics:
  terminal_velocity: 4
  safe_fall_speed: 1.5
  default_friction: 12
screen:
  width: 640
sim:
  objects: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	p := cfg.Physics.Params()
	assert.Equal(t, fixed.FromInt(4), p.TerminalVelocity)
	assert.Equal(t, fixed.FromFloat(1.5), p.SafeFallSpeed)
	assert.Equal(t, int32(12), p.DefaultFriction)
	assert.Equal(t, uint(12), p.GravityShift, "не заданное поле остаётся по умолчанию")
	assert.Equal(t, 640, cfg.Screen.Width)
	assert.Equal(t, 10, cfg.Sim.Objects)
	assert.Equal(t, int32(2048), cfg.Sim.ArenaSize)
}

func TestEnvFallbackOrder(t *testing.T) {
	t.Setenv("SECTOR_TICK_RATE", "70")
	t.Setenv("SECTOR_METRICS_ADDR", ":9999")

	cfg, err := Load(writeConfig(t, "metrics:\n  addr: \":3000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.Sim.TickRate, "окружение важнее значения по умолчанию")
	assert.Equal(t, ":3000", cfg.Metrics.Addr, "файл важнее окружения")

	t.Setenv("SECTOR_CONFIG", writeConfig(t, "sim:\n  tick_rate: 20\n"))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Sim.TickRate)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "sim: [oops"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "logging:\n  level: loud\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "screen:\n  width: -1\n"))
	assert.Error(t, err)
}
