package mapgen

import (
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/trig"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(DefaultOptions(1024, 7))
	require.NoError(t, err)
	b, err := Generate(DefaultOptions(1024, 7))
	require.NoError(t, err)
	c, err := Generate(DefaultOptions(1024, 8))
	require.NoError(t, err)

	assert.Equal(t, a.Map.Checksum(), b.Map.Checksum())
	assert.Equal(t, a.Tiles, b.Tiles)
	assert.NotEqual(t, a.Map.Checksum(), c.Map.Checksum(), "другой сид даёт другую арену")
}

func TestGenerateTilesMatchSectors(t *testing.T) {
	opts := DefaultOptions(2048, 3)
	opts.PillarChance = 0.2
	arena, err := Generate(opts)
	require.NoError(t, err)
	require.Equal(t, 16, arena.Columns)

	walls, err := grid.BuildWallGrid(arena.Map)
	require.NoError(t, err)
	minX, minY, maxX, maxY := arena.Map.Bounds()
	ctx := physics.NewContext(arena.Map, walls, grid.NewObjectGrid(minX, minY, maxX, maxY), trig.Build(trig.DefaultScreenWidth))

	pillars := 0
	for cy := 0; cy < arena.Rows; cy++ {
		for cx := 0; cx < arena.Columns; cx++ {
			tile, ok := arena.TileAt(cx, cy)
			require.True(t, ok)
			x, y := arena.TileCenter(cx, cy)
			got := ctx.SectorAt(fixed.FromInt(x), fixed.FromInt(y))

			if tile.Sector == mapdata.NoSector {
				pillars++
				assert.Equal(t, mapdata.NoSector, got, "колонна (%d,%d) вне карты", cx, cy)
				continue
			}
			assert.Equal(t, tile.Sector, got, "плитка (%d,%d)", cx, cy)
			assert.Equal(t, tile.Floor, arena.Map.Sectors[tile.Sector].FloorHt)
			assert.Zero(t, tile.Floor%opts.Step, "высота квантована")
			assert.LessOrEqual(t, tile.Floor, opts.MaxFloor)
			assert.Equal(t, tile.Water, arena.Map.Info[tile.Sector].Type == mapdata.SectorWater)
		}
	}

	assert.Positive(t, pillars)
	assert.Equal(t, arena.Columns*arena.Rows-pillars, len(arena.Map.Sectors))
	for _, s := range arena.Spawns {
		sector := ctx.SectorAt(fixed.FromInt(s[0]), fixed.FromInt(s[1]))
		require.True(t, arena.Map.ValidSector(sector))
		assert.NotEqual(t, mapdata.SectorWater, arena.Map.Info[sector].Type, "точки появления на суше")
	}
}

func TestGenerateRejectsBadOptions(t *testing.T) {
	_, err := Generate(DefaultOptions(64, 1))
	assert.Error(t, err)

	_, err = Generate(DefaultOptions(40000, 1))
	assert.Error(t, err)
}

func TestNoiseRange(t *testing.T) {
	n := NewNoise(5, 0.37)
	for i := 0; i < 100; i++ {
		v := n.At(float64(i)*0.7, float64(i)*1.3)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
