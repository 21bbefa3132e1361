package grid

import (
	"fmt"

	"github.com/annel0/sector-physics/internal/mapdata"
)

const (
	// WallCellShift размер ячейки сетки стен: 128×128 единиц
	WallCellShift = 7
	WallCellSize  = 1 << WallCellShift

	// EndOfList признак конца списка стен в ячейке
	EndOfList uint16 = 0xFFFF

	// NoCell точка вне сетки
	NoCell = -1
)

// WallGrid равномерная сетка над картой: для каждой ячейки: список индексов стен,
// хранящийся в общем массиве и завершённый EndOfList.
type WallGrid struct {
	OriginX int32    `json:"origin_x"`
	OriginY int32    `json:"origin_y"`
	Width   int32    `json:"width"`
	Height  int32    `json:"height"`
	Offsets []uint32 `json:"offsets"` // Начало списка ячейки в Lists
	Lists   []uint16 `json:"lists"`
}

// BuildWallGrid строит сетку стен по границам карты
func BuildWallGrid(m *mapdata.Map) (*WallGrid, error) {
	if len(m.Lines) >= int(EndOfList) {
		return nil, fmt.Errorf("слишком много линий для сетки: %d", len(m.Lines))
	}

	minX, minY, maxX, maxY := m.Bounds()
	g := &WallGrid{
		OriginX: minX,
		OriginY: minY,
		Width:   ((maxX - minX) >> WallCellShift) + 1,
		Height:  ((maxY - minY) >> WallCellShift) + 1,
	}

	cells := make([][]uint16, g.Width*g.Height)
	for i := range m.Lines {
		x1, y1, x2, y2 := m.LineEnds(i)

		cx1, cy1, cx2, cy2, ok := g.CellRange(min32(x1, x2), min32(y1, y2), max32(x1, x2), max32(y1, y2))
		if !ok {
			continue
		}
		for cy := cy1; cy <= cy2; cy++ {
			for cx := cx1; cx <= cx2; cx++ {
				bx := g.OriginX + int32(cx)<<WallCellShift
				by := g.OriginY + int32(cy)<<WallCellShift
				if segmentTouchesRect(x1, y1, x2, y2, bx, by, bx+WallCellSize, by+WallCellSize) {
					idx := cy*int(g.Width) + cx
					cells[idx] = append(cells[idx], uint16(i))
				}
			}
		}
	}

	g.Offsets = make([]uint32, len(cells))
	for idx, walls := range cells {
		g.Offsets[idx] = uint32(len(g.Lists))
		g.Lists = append(g.Lists, walls...)
		g.Lists = append(g.Lists, EndOfList)
	}

	return g, nil
}

// CellOf возвращает индекс ячейки для точки или NoCell
func (g *WallGrid) CellOf(x, y int32) int {
	cx := (x - g.OriginX) >> WallCellShift
	cy := (y - g.OriginY) >> WallCellShift
	if x < g.OriginX || y < g.OriginY || cx >= g.Width || cy >= g.Height {
		return NoCell
	}
	return int(cy*g.Width + cx)
}

// WallsInCell список стен ячейки (без завершающего EndOfList)
func (g *WallGrid) WallsInCell(cell int) []uint16 {
	if cell < 0 || cell >= len(g.Offsets) {
		return nil
	}
	start := g.Offsets[cell]
	end := start
	for g.Lists[end] != EndOfList {
		end++
	}
	return g.Lists[start:end]
}

// CellRange возвращает диапазон ячеек, покрывающих прямоугольник, обрезанный по сетке.
// ok == false, если прямоугольник целиком вне сетки.
func (g *WallGrid) CellRange(minX, minY, maxX, maxY int32) (cx1, cy1, cx2, cy2 int, ok bool) {
	return clampRange(minX, minY, maxX, maxY, g.OriginX, g.OriginY, g.Width, g.Height, WallCellShift)
}

// CellIndex индекс ячейки по её координатам
func (g *WallGrid) CellIndex(cx, cy int) int {
	return cy*int(g.Width) + cx
}

// Row возвращает координату строки ячейки для y или -1
func (g *WallGrid) Row(y int32) int {
	if y < g.OriginY {
		return -1
	}
	cy := (y - g.OriginY) >> WallCellShift
	if cy >= g.Height {
		return -1
	}
	return int(cy)
}

// Column возвращает координату столбца ячейки для x, обрезанную по сетке
func (g *WallGrid) Column(x int32) int {
	if x < g.OriginX {
		return 0
	}
	cx := (x - g.OriginX) >> WallCellShift
	if cx >= g.Width {
		return int(g.Width) - 1
	}
	return int(cx)
}

func clampRange(minX, minY, maxX, maxY, originX, originY, width, height int32, shift uint) (cx1, cy1, cx2, cy2 int, ok bool) {
	lx := (minX - originX) >> shift
	ly := (minY - originY) >> shift
	hx := (maxX - originX) >> shift
	hy := (maxY - originY) >> shift

	if hx < 0 || hy < 0 || lx >= width || ly >= height {
		return 0, 0, 0, 0, false
	}
	if lx < 0 {
		lx = 0
	}
	if ly < 0 {
		ly = 0
	}
	if hx >= width {
		hx = width - 1
	}
	if hy >= height {
		hy = height - 1
	}
	return int(lx), int(ly), int(hx), int(hy), true
}

// segmentTouchesRect консервативная проверка касания отрезка и прямоугольника (границы включительно)
func segmentTouchesRect(x1, y1, x2, y2, bx1, by1, bx2, by2 int32) bool {
	if max32(x1, x2) < bx1 || min32(x1, x2) > bx2 || max32(y1, y2) < by1 || min32(y1, y2) > by2 {
		return false
	}
	if x1 == x2 || y1 == y2 {
		return true
	}

	// Значения y на левой и правой границе пересечения по x
	lo := max32(min32(x1, x2), bx1)
	hi := min32(max32(x1, x2), bx2)
	dx := int64(x2 - x1)
	dy := int64(y2 - y1)
	ya := int64(y1) + dy*int64(lo-x1)/dx
	yb := int64(y1) + dy*int64(hi-x1)/dx
	if ya > yb {
		ya, yb = yb, ya
	}
	// Запас в единицу компенсирует усечение деления
	return yb+1 >= int64(by1) && ya-1 <= int64(by2)
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
