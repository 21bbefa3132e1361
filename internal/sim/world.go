package sim

import (
	"fmt"
	"math/rand"

	"github.com/annel0/sector-physics/internal/config"
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/mapgen"
	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/storage"
	"github.com/annel0/sector-physics/internal/trig"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/annel0/sector-physics/internal/world/object"
)

// World карта, индексы и реестр объектов одной симуляции
type World struct {
	Map      *mapdata.Map
	Context  *physics.Context
	Registry *object.Registry
	Spawns   [][2]int32
}

// BuildWorld загружает карту (YAML или генерируемая арена), берёт сетку стен
// из кэша и создаёт реестр объектов. cache может быть nil.
func BuildWorld(cfg *config.Config, cache *storage.GridCache, tables *trig.Tables) (*World, error) {
	w := &World{}

	if cfg.Sim.MapPath != "" {
		m, err := mapdata.LoadYAML(cfg.Sim.MapPath)
		if err != nil {
			return nil, err
		}
		w.Map = m
		w.Spawns = sectorSpawns(m)
	} else {
		arena, err := mapgen.Generate(mapgen.DefaultOptions(cfg.Sim.ArenaSize, cfg.Sim.ArenaSeed))
		if err != nil {
			return nil, err
		}
		w.Map = arena.Map
		w.Spawns = arena.Spawns
	}

	walls, err := cache.WallGrid(w.Map)
	if err != nil {
		return nil, fmt.Errorf("сетка стен: %w", err)
	}
	minX, minY, maxX, maxY := w.Map.Bounds()
	w.Context = physics.NewContext(w.Map, walls, grid.NewObjectGrid(minX, minY, maxX, maxY), tables)
	w.Registry = object.NewRegistry(w.Context, cfg.Physics.Params())

	logging.Info("🗺️ Карта: %d секторов, %d линий, сетка %dx%d, контрольная сумма %016x",
		len(w.Map.Sectors), len(w.Map.Lines), walls.Width, walls.Height, w.Map.Checksum())
	return w, nil
}

// sectorSpawns точки появления для загруженной карты: середины линий,
// сдвинутые внутрь передней стороны
func sectorSpawns(m *mapdata.Map) [][2]int32 {
	var out [][2]int32
	seen := make(map[uint16]bool)
	for i := range m.Lines {
		front, _ := m.LineSectors(i)
		if seen[front] || !m.ValidSector(front) {
			continue
		}
		seen[front] = true

		x1, y1, x2, y2 := m.LineEnds(i)
		mx, my := (x1+x2)/2, (y1+y2)/2
		// Справа от направления линии: (dy, -dx)
		dx, dy := x2-x1, y2-y1
		length := fixed.ApproxDistance(fixed.FromInt(dx), fixed.FromInt(dy)).Int()
		if length == 0 {
			continue
		}
		off := int32(48)
		out = append(out, [2]int32{mx + dy*off/length, my - dx*off/length})
	}
	return out
}

// Populate расставляет count объектов по точкам появления: каждый четвёртый
// неподвижный ящик, остальные блуждают со скоростью wanderSpeed
func (w *World) Populate(count int, seed int64, wanderSpeed int32) int {
	if len(w.Spawns) == 0 || count <= 0 {
		return 0
	}
	w.Registry.RegisterBehavior(object.TypeCreature, object.NewWanderer(fixed.FromInt(wanderSpeed)))

	rng := rand.New(rand.NewSource(seed))
	created := 0
	for i := 0; i < count; i++ {
		p := w.Spawns[rng.Intn(len(w.Spawns))]
		// Небольшой разброс внутри плитки
		x := fixed.FromInt(p[0] + int32(rng.Intn(33)) - 16)
		y := fixed.FromInt(p[1] + int32(rng.Intn(33)) - 16)
		if !w.Map.ValidSector(w.Context.SectorAt(x, y)) {
			continue
		}

		if i%4 == 0 {
			w.Registry.Create(object.TypeThing, 0, x, y)
		} else {
			obj := w.Registry.New(object.TypeCreature, object.AttrCreature)
			obj.Move.SetXY(x, y)
			obj.Move.SetAngle(trig.Wrap(int32(rng.Intn(trig.Angles))))
			if err := w.Registry.Add(obj); err != nil {
				logging.Warn("Не удалось добавить объект: %v", err)
				continue
			}
		}
		created++
	}
	return created
}
