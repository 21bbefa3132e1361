package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/sector-physics/internal/mapdata"
)

// Options параметры генерации арены
type Options struct {
	Size         int32   // Сторона арены в единицах карты
	Tile         int32   // Сторона плитки-сектора
	Seed         int64   // Сид шума и расстановки колонн
	Ceiling      int16   // Высота потолка
	Step         int16   // Шаг квантования высоты пола
	MaxFloor     int16   // Наибольшая высота пола
	WaterLevel   float64 // Ниже этого значения шума плитка затоплена
	PillarChance float64 // Доля плиток, занятых колоннами
}

// DefaultOptions параметры по умолчанию для арены со стороной size
func DefaultOptions(size int32, seed int64) Options {
	return Options{
		Size:         size,
		Tile:         128,
		Seed:         seed,
		Ceiling:      256,
		Step:         8,
		MaxFloor:     48,
		WaterLevel:   0.3,
		PillarChance: 0.06,
	}
}

// Tile плитка арены
type Tile struct {
	Sector uint16 // mapdata.NoSector для колонны
	Floor  int16
	Water  bool
}

// Arena сгенерированная карта
type Arena struct {
	Map     *mapdata.Map
	Columns int
	Rows    int
	Tiles   []Tile     // Построчно, от минимального y
	Spawns  [][2]int32 // Центры сухих плиток
	origin  int32
	tile    int32
}

// TileCenter центр плитки (cx, cy) в единицах карты
func (a *Arena) TileCenter(cx, cy int) (x, y int32) {
	return a.origin + int32(cx)*a.tile + a.tile/2, a.origin + int32(cy)*a.tile + a.tile/2
}

// TileAt плитка по координатам
func (a *Arena) TileAt(cx, cy int) (Tile, bool) {
	if cx < 0 || cy < 0 || cx >= a.Columns || cy >= a.Rows {
		return Tile{Sector: mapdata.NoSector}, false
	}
	return a.Tiles[cy*a.Columns+cx], true
}

// Generate строит арену из квадратных секторов с рельефом по шуму Перлина,
// затопленными низинами и колоннами
func Generate(opts Options) (*Arena, error) {
	if opts.Tile <= 0 || opts.Size < opts.Tile {
		return nil, fmt.Errorf("размер арены %d меньше плитки %d", opts.Size, opts.Tile)
	}
	if opts.Size > math.MaxInt16 {
		return nil, fmt.Errorf("арена %d не помещается в координаты карты", opts.Size)
	}
	if opts.Step <= 0 {
		opts.Step = 1
	}

	n := int(opts.Size / opts.Tile)
	a := &Arena{
		Columns: n,
		Rows:    n,
		Tiles:   make([]Tile, n*n),
		origin:  -int32(n) * opts.Tile / 2,
		tile:    opts.Tile,
	}

	noise := NewNoise(opts.Seed, 0.37)
	rng := rand.New(rand.NewSource(opts.Seed))
	b := mapdata.NewBuilder()

	for cy := 0; cy < n; cy++ {
		for cx := 0; cx < n; cx++ {
			t := &a.Tiles[cy*n+cx]
			if rng.Float64() < opts.PillarChance {
				t.Sector = mapdata.NoSector
				continue
			}

			height := noise.At(float64(cx)+0.5, float64(cy)+0.5)
			floor := int16(height * float64(opts.MaxFloor))
			floor -= floor % opts.Step
			t.Floor = floor

			info := mapdata.DefaultInfo
			if height < opts.WaterLevel {
				t.Water = true
				info.Type = mapdata.SectorWater
				info.Depth = 8
				info.Friction = 4
			}
			t.Sector = b.Sector(floor, opts.Ceiling, info)

			if !t.Water {
				x, y := a.TileCenter(cx, cy)
				a.Spawns = append(a.Spawns, [2]int32{x, y})
			}
		}
	}

	for cy := 0; cy < n; cy++ {
		for cx := 0; cx <= n; cx++ {
			a.verticalEdge(b, cx, cy)
		}
	}
	for cy := 0; cy <= n; cy++ {
		for cx := 0; cx < n; cx++ {
			a.horizontalEdge(b, cx, cy)
		}
	}

	m, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("генерация арены: %w", err)
	}
	a.Map = m
	return a, nil
}

// verticalEdge линия на левой границе плитки (cx, cy).
// При обходе снизу вверх передней стороной оказывается правая плитка.
func (a *Arena) verticalEdge(b *mapdata.Builder, cx, cy int) {
	left, _ := a.TileAt(cx-1, cy)
	right, _ := a.TileAt(cx, cy)
	x := int16(a.origin + int32(cx)*a.tile)
	y1 := int16(a.origin + int32(cy)*a.tile)
	y2 := y1 + int16(a.tile)

	switch {
	case right.Sector != mapdata.NoSector:
		b.Wall(x, y1, x, y2, right.Sector, left.Sector, 0)
	case left.Sector != mapdata.NoSector:
		b.Wall(x, y2, x, y1, left.Sector, mapdata.NoSector, 0)
	}
}

// horizontalEdge линия на нижней границе плитки (cx, cy).
// При обходе слева направо передней стороной оказывается нижняя плитка.
func (a *Arena) horizontalEdge(b *mapdata.Builder, cx, cy int) {
	below, _ := a.TileAt(cx, cy-1)
	above, _ := a.TileAt(cx, cy)
	y := int16(a.origin + int32(cy)*a.tile)
	x1 := int16(a.origin + int32(cx)*a.tile)
	x2 := x1 + int16(a.tile)

	switch {
	case below.Sector != mapdata.NoSector:
		b.Wall(x1, y, x2, y, below.Sector, above.Sector, 0)
	case above.Sector != mapdata.NoSector:
		b.Wall(x2, y, x1, y, above.Sector, mapdata.NoSector, 0)
	}
}
