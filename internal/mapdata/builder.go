package mapdata

import "fmt"

// DefaultInfo параметры сектора по умолчанию
var DefaultInfo = SectorInfo{
	Friction: 8,
	Gravity:  -4,
}

// Builder собирает карту программно (генератор арен, тесты, YAML-загрузчик)
type Builder struct {
	m      Map
	reject [][2]uint16
	vertex map[Vertex]uint16
}

// NewBuilder создаёт пустой сборщик карты
func NewBuilder() *Builder {
	return &Builder{
		vertex: make(map[Vertex]uint16),
	}
}

// Vertex добавляет вершину (повторные координаты переиспользуются)
func (b *Builder) Vertex(x, y int16) uint16 {
	v := Vertex{X: x, Y: y}
	if idx, ok := b.vertex[v]; ok {
		return idx
	}
	idx := uint16(len(b.m.Vertices))
	b.m.Vertices = append(b.m.Vertices, v)
	b.vertex[v] = idx
	return idx
}

// Sector добавляет сектор с параметрами среды
func (b *Builder) Sector(floor, ceiling int16, info SectorInfo) uint16 {
	idx := uint16(len(b.m.Sectors))
	b.m.Sectors = append(b.m.Sectors, Sector{FloorHt: floor, CeilingHt: ceiling})
	b.m.Info = append(b.m.Info, info)
	return idx
}

// Line добавляет линию. back == NoSector делает линию односторонней и непроходимой.
func (b *Builder) Line(from, to uint16, front, back uint16, flags LineFlags) int {
	line := Line{From: from, To: to, Side: [2]int16{NoSide, NoSide}, Flags: flags}

	line.Side[0] = b.side(front)
	if back != NoSector {
		line.Side[1] = b.side(back)
		line.Flags |= LineTwoSided
	} else {
		line.Flags |= LineImpassable
		line.Flags &^= LineTwoSided
	}

	b.m.Lines = append(b.m.Lines, line)
	return len(b.m.Lines) - 1
}

// Wall добавляет линию по координатам концов
func (b *Builder) Wall(x1, y1, x2, y2 int16, front, back uint16, flags LineFlags) int {
	return b.Line(b.Vertex(x1, y1), b.Vertex(x2, y2), front, back, flags)
}

// Reject помечает пару секторов взаимно невидимыми (в обе стороны)
func (b *Builder) Reject(a, c uint16) {
	b.reject = append(b.reject, [2]uint16{a, c}, [2]uint16{c, a})
}

// Build завершает сборку и проверяет карту
func (b *Builder) Build() (*Map, error) {
	m := b.m

	n := len(m.Sectors)
	m.Reject = make([]byte, (n*n+7)/8)
	for _, pair := range b.reject {
		if int(pair[0]) >= n || int(pair[1]) >= n {
			return nil, fmt.Errorf("%w: reject ссылается на сектор вне карты", ErrInvalidMap)
		}
		bit := int(pair[0])*n + int(pair[1])
		m.Reject[bit>>3] |= 1 << (bit & 7)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// MustBuild как Build, но паникует при ошибке (для тестов и фикстур)
func (b *Builder) MustBuild() *Map {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

func (b *Builder) side(sector uint16) int16 {
	b.m.Sides = append(b.m.Sides, Side{Sector: sector})
	return int16(len(b.m.Sides) - 1)
}

// Room добавляет прямоугольную комнату из четырёх односторонних стен.
// Обход по часовой стрелке, поэтому внутренность справа от каждой стены.
func (b *Builder) Room(x1, y1, x2, y2 int16, sector uint16) {
	b.Wall(x1, y1, x1, y2, sector, NoSector, 0)
	b.Wall(x1, y2, x2, y2, sector, NoSector, 0)
	b.Wall(x2, y2, x2, y1, sector, NoSector, 0)
	b.Wall(x2, y1, x1, y1, sector, NoSector, 0)
}
