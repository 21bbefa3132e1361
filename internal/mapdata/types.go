package mapdata

import (
	"errors"
	"fmt"

	"github.com/annel0/sector-physics/internal/fixed"
)

// NoSector значение «сектор не найден» (точка вне карты)
const NoSector uint16 = 0xFFFF

// NoSide отсутствующая сторона линии
const NoSide int16 = -1

// ErrInvalidMap карта нарушает структурные инварианты
var ErrInvalidMap = errors.New("некорректная карта")

// Vertex вершина карты в целых единицах
type Vertex struct {
	X, Y int16
}

// LineFlags набор флагов линии
type LineFlags uint16

const (
	LineImpassable         LineFlags = 1 << iota // Непроходима для всех
	LineCreatureImpassable                       // Непроходима для существ
	LineTwoSided                                 // Двусторонняя (портал между секторами)
	LineTranslucent                              // Полупрозрачная
	LineAlwaysSolid                              // Всегда твёрдая, даже если двусторонняя
	LineInvisible                                // Не отображается
	LineAutomapped                               // Видна на автокарте
	LineSeen                                     // Игрок уже видел линию
)

// Has проверяет наличие флага
func (f LineFlags) Has(flag LineFlags) bool {
	return f&flag != 0
}

// Line стена между двумя вершинами
type Line struct {
	From, To uint16   // Индексы вершин
	Side     [2]int16 // Передняя (справа по направлению From→To) и задняя сторона, NoSide если нет
	Flags    LineFlags
}

// IsTwoSided линия соединяет два сектора
func (l *Line) IsTwoSided() bool {
	return l.Side[1] != NoSide && l.Side[0] != NoSide
}

// Side запись стороны, обращённой к сектору
type Side struct {
	Sector uint16
}

// Sector высоты пола и потолка
type Sector struct {
	FloorHt   int16
	CeilingHt int16
}

// SectorType тип среды сектора
type SectorType uint8

const (
	SectorNormal SectorType = iota
	SectorWater
	SectorLava
)

// IsLiquid вода или лава
func (t SectorType) IsLiquid() bool {
	return t == SectorWater || t == SectorLava
}

// SectorInfo параметры среды сектора
type SectorInfo struct {
	Friction     int32       // Коэффициент трения
	Gravity      int32       // Гравитация (отрицательная тянет вниз)
	CeilingLimit int16       // Ограничение потолка, 0: без ограничения
	FlowX        fixed.Fixed // Скорость течения/ветра
	FlowY        fixed.Fixed
	FlowZ        fixed.Fixed
	Type         SectorType
	Depth        int16 // Насколько объект проседает ниже пола (жидкости)
}

// HasFlow есть ли течение в секторе
func (si *SectorInfo) HasFlow() bool {
	return si.FlowX != 0 || si.FlowY != 0 || si.FlowZ != 0
}

// Map топология карты: только чтение после загрузки
type Map struct {
	Vertices []Vertex
	Lines    []Line
	Sides    []Side
	Sectors  []Sector
	Info     []SectorInfo // Параллелен Sectors
	Reject   []byte       // Бит на упорядоченную пару секторов: 1: взаимно невидимы
}

// Bounds возвращает ограничивающий прямоугольник всех вершин
func (m *Map) Bounds() (minX, minY, maxX, maxY int32) {
	if len(m.Vertices) == 0 {
		return 0, 0, 0, 0
	}

	minX, minY = int32(m.Vertices[0].X), int32(m.Vertices[0].Y)
	maxX, maxY = minX, minY
	for _, v := range m.Vertices[1:] {
		x, y := int32(v.X), int32(v.Y)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minX, minY, maxX, maxY
}

// LineEnds координаты концов линии
func (m *Map) LineEnds(line int) (x1, y1, x2, y2 int32) {
	l := &m.Lines[line]
	a, b := m.Vertices[l.From], m.Vertices[l.To]
	return int32(a.X), int32(a.Y), int32(b.X), int32(b.Y)
}

// SideSector сектор указанной стороны линии или NoSector
func (m *Map) SideSector(line, side int) uint16 {
	s := m.Lines[line].Side[side]
	if s == NoSide || int(s) >= len(m.Sides) {
		return NoSector
	}
	return m.Sides[s].Sector
}

// LineSectors сектора передней и задней стороны
func (m *Map) LineSectors(line int) (front, back uint16) {
	return m.SideSector(line, 0), m.SideSector(line, 1)
}

// ValidSector проверяет индекс сектора
func (m *Map) ValidSector(sector uint16) bool {
	return sector != NoSector && int(sector) < len(m.Sectors)
}

// WalkingFloor высота пола, по которой ходит объект (с учётом проседания в жидкости)
func (m *Map) WalkingFloor(sector uint16) int32 {
	return int32(m.Sectors[sector].FloorHt) - int32(m.Info[sector].Depth)
}

// ClampedCeiling высота потолка с учётом ограничения сектора
func (m *Map) ClampedCeiling(sector uint16) int32 {
	ceiling := int32(m.Sectors[sector].CeilingHt)
	if limit := int32(m.Info[sector].CeilingLimit); limit != 0 && limit < ceiling {
		return limit
	}
	return ceiling
}

// Rejected true, если из сектора a заведомо не виден сектор b
func (m *Map) Rejected(a, b uint16) bool {
	if !m.ValidSector(a) || !m.ValidSector(b) {
		return false
	}
	bit := int(a)*len(m.Sectors) + int(b)
	if bit>>3 >= len(m.Reject) {
		return false
	}
	return m.Reject[bit>>3]&(1<<(bit&7)) != 0
}

// Validate проверяет ссылки линий на вершины, стороны и сектора
func (m *Map) Validate() error {
	if len(m.Info) != len(m.Sectors) {
		return fmt.Errorf("%w: %d записей info на %d секторов", ErrInvalidMap, len(m.Info), len(m.Sectors))
	}
	if len(m.Sectors) >= int(NoSector) {
		return fmt.Errorf("%w: слишком много секторов (%d)", ErrInvalidMap, len(m.Sectors))
	}

	for i, l := range m.Lines {
		if int(l.From) >= len(m.Vertices) || int(l.To) >= len(m.Vertices) {
			return fmt.Errorf("%w: линия %d ссылается на несуществующую вершину", ErrInvalidMap, i)
		}
		if l.Side[0] == NoSide {
			return fmt.Errorf("%w: у линии %d нет передней стороны", ErrInvalidMap, i)
		}
		for _, s := range l.Side {
			if s == NoSide {
				continue
			}
			if int(s) >= len(m.Sides) {
				return fmt.Errorf("%w: линия %d ссылается на несуществующую сторону %d", ErrInvalidMap, i, s)
			}
			if int(m.Sides[s].Sector) >= len(m.Sectors) {
				return fmt.Errorf("%w: сторона %d ссылается на несуществующий сектор", ErrInvalidMap, s)
			}
		}
	}
	return nil
}
