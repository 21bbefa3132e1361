package physics

import (
	"math"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/trig"
	"github.com/annel0/sector-physics/internal/world/grid"
)

const (
	// MaxHits вместимость списка попаданий одного теста
	MaxHits = 20
	// MaxObjectSectors вместимость набора окружающих секторов объекта
	MaxObjectSectors = 20
	// MaxBoxSectors вместимость набора секторов одного box-теста
	MaxBoxSectors = 10
	// MaxSweepDepth предел глубины деления отрезка пополам
	MaxSweepDepth = 8
	// MaxSlideIterations предел итераций скольжения вдоль стен
	MaxSlideIterations = 10

	// NoLine попадание не в стену, а в объект
	NoLine = -1
)

// Hit одно попадание box-теста: стена или объект
type Hit struct {
	Line   int       // Индекс стены или NoLine
	Body   grid.Body // Объект, если попадание не в стену
	SlopeX int32     // Направление поверхности
	SlopeY int32
}

// Mover параметры объекта, участвующего в одном вызове движка
type Mover struct {
	ID           uint32
	X, Y, Z      fixed.Fixed // Z: высота ступней
	XV, YV       fixed.Fixed
	Radius       int32
	Height       int32
	ClimbHeight  int32
	HighestPoint int32 // Потолок, под которым объект сейчас стоит

	Creature  bool // Блокируется creature-impassable линиями
	Bounces   bool // Отражается от стен, а не скользит
	DoNotSink bool // Стоит на поверхности жидкости
}

// Foot высота ступней в единицах карты
func (m *Mover) Foot() int32 {
	return m.Z.Int()
}

// Stats счётчики работы движка
type Stats struct {
	BoxTests        uint64
	Blocked         uint64
	SlideIterations uint64
	SightScans      uint64
	RejectShortcuts uint64
	Truncated       uint64
}

// Envelope пол и потолок, доступные объекту над набором секторов
type Envelope struct {
	Floor         int32
	Ceiling       int32
	FloorSector   uint16 // Сектор, задающий пол
	CeilingSector uint16 // Сектор, задающий потолок
}

// NewEnvelope пустая оболочка: пол бесконечно низко, потолок бесконечно высоко
func NewEnvelope() Envelope {
	return Envelope{
		Floor:         math.MinInt32,
		Ceiling:       math.MaxInt32,
		FloorSector:   mapdata.NoSector,
		CeilingSector: mapdata.NoSector,
	}
}

// Empty в оболочку не попал ни один сектор
func (e *Envelope) Empty() bool {
	return e.FloorSector == mapdata.NoSector && e.CeilingSector == mapdata.NoSector
}

// SectorSet набор секторов без повторов с ограниченной вместимостью
type SectorSet struct {
	list  [MaxObjectSectors]uint16
	n     int
	limit int
}

// Reset очищает набор и задаёт вместимость
func (s *SectorSet) Reset(limit int) {
	if limit <= 0 || limit > MaxObjectSectors {
		limit = MaxObjectSectors
	}
	s.n = 0
	s.limit = limit
}

// Add добавляет сектор; false, если набор переполнен
func (s *SectorSet) Add(sector uint16) bool {
	for i := 0; i < s.n; i++ {
		if s.list[i] == sector {
			return true
		}
	}
	if s.n >= s.limit {
		return false
	}
	s.list[s.n] = sector
	s.n++
	return true
}

// Len количество секторов
func (s *SectorSet) Len() int {
	return s.n
}

// Slice сектора набора; срез действителен до следующего изменения
func (s *SectorSet) Slice() []uint16 {
	return s.list[:s.n]
}

// scratch результаты последнего теста, сохраняемые вокруг вложенных проверок
type scratch struct {
	hits         [MaxHits]Hit
	numHits      int
	sectors      SectorSet
	blockX       fixed.Fixed
	blockY       fixed.Fixed
	blockedValid bool
}

type sightCache struct {
	x, y   fixed.Fixed
	sector uint16
	valid  bool
}

// Context состояние движка столкновений для одного мира.
// Не потокобезопасен: все вызовы идут из цикла симуляции.
type Context struct {
	Map     *mapdata.Map
	Walls   *grid.WallGrid
	Objects *grid.ObjectGrid
	Trig    *trig.Tables

	Stats Stats

	except uint32

	hits    [MaxHits]Hit
	numHits int

	sectors SectorSet

	// Последняя свободная точка перед блокировкой
	blockX, blockY fixed.Fixed
	blockedValid   bool

	// Прямоугольник последнего заблокированного теста
	boxX1, boxY1, boxX2, boxY2 fixed.Fixed

	lineStamps []uint32
	stamp      uint32

	sight sightCache
}

// NewContext создаёт контекст над загруженной картой и её сетками
func NewContext(m *mapdata.Map, walls *grid.WallGrid, objects *grid.ObjectGrid, tables *trig.Tables) *Context {
	c := &Context{
		Map:        m,
		Walls:      walls,
		Objects:    objects,
		Trig:       tables,
		lineStamps: make([]uint32, len(m.Lines)),
	}
	c.sectors.Reset(MaxObjectSectors)
	return c
}

// SetExcept задаёт объект, который игнорируется проверками объектов (0: никакой)
func (c *Context) SetExcept(id uint32) {
	c.except = id
}

// Except текущий игнорируемый объект
func (c *Context) Except() uint32 {
	return c.except
}

// Hits попадания последнего заблокированного теста
func (c *Context) Hits() []Hit {
	return c.hits[:c.numHits]
}

// Surroundings сектора, собранные последним тестом
func (c *Context) Surroundings() []uint16 {
	return c.sectors.Slice()
}

// BlockPoint последняя свободная точка перед блокировкой
func (c *Context) BlockPoint() (x, y fixed.Fixed, ok bool) {
	return c.blockX, c.blockY, c.blockedValid
}

func (c *Context) clearHits() {
	c.numHits = 0
}

func (c *Context) addHit(h Hit) {
	if c.numHits >= MaxHits {
		c.truncated("список попаданий")
		return
	}
	c.hits[c.numHits] = h
	c.numHits++
}

func (c *Context) addSector(sector uint16) {
	if !c.sectors.Add(sector) {
		c.truncated("набор секторов")
	}
}

func (c *Context) save() scratch {
	return scratch{
		hits:         c.hits,
		numHits:      c.numHits,
		sectors:      c.sectors,
		blockX:       c.blockX,
		blockY:       c.blockY,
		blockedValid: c.blockedValid,
	}
}

func (c *Context) restore(s scratch) {
	c.hits = s.hits
	c.numHits = s.numHits
	c.sectors = s.sectors
	c.blockX = s.blockX
	c.blockY = s.blockY
	c.blockedValid = s.blockedValid
}

// nextStamp начинает новый проход по стенам; каждая стена обрабатывается в нём один раз
func (c *Context) nextStamp() uint32 {
	if len(c.lineStamps) != len(c.Map.Lines) {
		c.lineStamps = make([]uint32, len(c.Map.Lines))
		c.stamp = 0
	}
	c.stamp++
	if c.stamp == 0 {
		for i := range c.lineStamps {
			c.lineStamps[i] = 0
		}
		c.stamp = 1
	}
	return c.stamp
}

// visit отмечает стену в текущем проходе; false, если она уже встречалась
func (c *Context) visit(line uint16) bool {
	if c.lineStamps[line] == c.stamp {
		return false
	}
	c.lineStamps[line] = c.stamp
	return true
}

// eachWallInBox вызывает fn для каждой стены из ячеек, покрывающих прямоугольник (единицы карты)
func (c *Context) eachWallInBox(x1, y1, x2, y2 int32, fn func(line int) bool) {
	cx1, cy1, cx2, cy2, ok := c.Walls.CellRange(x1, y1, x2, y2)
	if !ok {
		return
	}

	c.nextStamp()
	for cy := cy1; cy <= cy2; cy++ {
		for cx := cx1; cx <= cx2; cx++ {
			for _, w := range c.Walls.WallsInCell(c.Walls.CellIndex(cx, cy)) {
				if !c.visit(w) {
					continue
				}
				if !fn(int(w)) {
					return
				}
			}
		}
	}
}
