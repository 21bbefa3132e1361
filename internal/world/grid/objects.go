package grid

import "github.com/annel0/sector-physics/internal/fixed"

const (
	// ObjectCellShift размер ячейки сетки объектов: 64×64 единицы
	ObjectCellShift = 6
	ObjectCellSize  = 1 << ObjectCellShift
)

// Body то, что сетка объектов знает о динамическом объекте
type Body interface {
	BodyID() uint32
	Position() (x, y, z fixed.Fixed)
	BodyRadius() int32
	BodyHeight() int32
	IsPassable() bool
}

// Node элемент членства объекта в списке ячейки (двусвязный, без аллокаций на перелинковку)
type Node struct {
	body       Body
	cell       int
	prev, next *Node
	linked     bool
}

// NewNode создаёт узел членства для тела
func NewNode(b Body) *Node {
	return &Node{body: b, cell: NoCell}
}

// Body возвращает тело узла
func (n *Node) Body() Body {
	return n.body
}

// Cell текущая ячейка узла или NoCell
func (n *Node) Cell() int {
	return n.cell
}

// Linked находится ли узел в сетке
func (n *Node) Linked() bool {
	return n.linked
}

// ObjectGrid сетка объектов: в каждой ячейке: двусвязный список присутствующих объектов
type ObjectGrid struct {
	OriginX, OriginY int32
	Width, Height    int32

	heads     []*Node
	maxRadius int32
	count     int
}

// NewObjectGrid создаёт сетку объектов над прямоугольником карты
func NewObjectGrid(minX, minY, maxX, maxY int32) *ObjectGrid {
	g := &ObjectGrid{
		OriginX: minX,
		OriginY: minY,
		Width:   ((maxX - minX) >> ObjectCellShift) + 1,
		Height:  ((maxY - minY) >> ObjectCellShift) + 1,
	}
	g.heads = make([]*Node, g.Width*g.Height)
	return g
}

// CellOf индекс ячейки для точки в единицах карты или NoCell
func (g *ObjectGrid) CellOf(x, y int32) int {
	cx := (x - g.OriginX) >> ObjectCellShift
	cy := (y - g.OriginY) >> ObjectCellShift
	if x < g.OriginX || y < g.OriginY || cx >= g.Width || cy >= g.Height {
		return NoCell
	}
	return int(cy*g.Width + cx)
}

// CellOfBody ячейка по текущей позиции тела
func (g *ObjectGrid) CellOfBody(b Body) int {
	x, y, _ := b.Position()
	return g.CellOf(x.Int(), y.Int())
}

// CellCoords координаты ячейки (столбец, строка) для точки, без обрезки
func (g *ObjectGrid) CellCoords(x, y int32) (int, int) {
	return int((x - g.OriginX) >> ObjectCellShift), int((y - g.OriginY) >> ObjectCellShift)
}

// Count количество объектов в сетке
func (g *ObjectGrid) Count() int {
	return g.count
}

// MaxRadius наибольший радиус среди когда-либо добавленных объектов
func (g *ObjectGrid) MaxRadius() int32 {
	return g.maxRadius
}

// Link добавляет узел в ячейку по позиции его тела.
// Проходимые объекты в сетку не попадают: они ничего не блокируют.
func (g *ObjectGrid) Link(n *Node) bool {
	if n.linked {
		return g.Relink(n)
	}
	if n.body.IsPassable() {
		return false
	}

	cell := g.CellOfBody(n.body)
	if cell == NoCell {
		n.cell = NoCell
		return false
	}

	g.pushFront(cell, n)
	g.count++
	if r := n.body.BodyRadius(); r > g.maxRadius {
		g.maxRadius = r
	}
	return true
}

// Relink переносит узел, если тело сменило ячейку. O(1).
func (g *ObjectGrid) Relink(n *Node) bool {
	if !n.linked {
		return g.Link(n)
	}
	if n.body.IsPassable() {
		g.Unlink(n)
		return false
	}

	cell := g.CellOfBody(n.body)
	if cell == n.cell {
		return true
	}

	g.remove(n)
	if cell == NoCell {
		g.count--
		return false
	}
	g.pushFront(cell, n)
	return true
}

// Unlink убирает узел из сетки
func (g *ObjectGrid) Unlink(n *Node) {
	if !n.linked {
		return
	}
	g.remove(n)
	g.count--
}

// ObjectsNear дописывает в buf объекты из всех ячеек, перекрытых квадратом со стороной
// 2·(radius + наибольший радиус соседа) вокруг точки. Каждая ячейка посещается один раз.
func (g *ObjectGrid) ObjectsNear(x, y, radius int32, buf []Body) []Body {
	reach := radius + g.maxRadius
	cx1, cy1, cx2, cy2, ok := clampRange(x-reach, y-reach, x+reach, y+reach, g.OriginX, g.OriginY, g.Width, g.Height, ObjectCellShift)
	if !ok {
		return buf
	}

	for cy := cy1; cy <= cy2; cy++ {
		for cx := cx1; cx <= cx2; cx++ {
			for n := g.heads[cy*int(g.Width)+cx]; n != nil; n = n.next {
				buf = append(buf, n.body)
			}
		}
	}
	return buf
}

// Scan обходит ячейки в квадрате ±span вокруг ячейки (cx, cy).
// Обход прекращается, когда fn возвращает false.
func (g *ObjectGrid) Scan(cx, cy, span int, fn func(Body) bool) {
	x1, x2 := cx-span, cx+span
	y1, y2 := cy-span, cy+span
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 >= int(g.Width) {
		x2 = int(g.Width) - 1
	}
	if y2 >= int(g.Height) {
		y2 = int(g.Height) - 1
	}

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			for n := g.heads[y*int(g.Width)+x]; n != nil; {
				next := n.next
				if !fn(n.body) {
					return
				}
				n = next
			}
		}
	}
}

// CellMembers тела, перечисленные в ячейке (для диагностики и тестов)
func (g *ObjectGrid) CellMembers(cell int) []Body {
	if cell < 0 || cell >= len(g.heads) {
		return nil
	}
	var out []Body
	for n := g.heads[cell]; n != nil; n = n.next {
		out = append(out, n.body)
	}
	return out
}

func (g *ObjectGrid) pushFront(cell int, n *Node) {
	head := g.heads[cell]
	n.prev = nil
	n.next = head
	if head != nil {
		head.prev = n
	}
	g.heads[cell] = n
	n.cell = cell
	n.linked = true
}

func (g *ObjectGrid) remove(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		g.heads[n.cell] = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	n.cell = NoCell
	n.linked = false
}
