package physics

import (
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/world/grid"
)

// ObjectHitFast ищет объект, мешающий квадрату мувера в точке (x, y) с вертикальным
// диапазоном [zBottom, zTop). Квадраты, касающиеся сторонами, перекрываются.
// Первый найденный объект записывается в попадания.
// Объекты, к которым мувер не приближается, не блокируют: иначе застрявший внутри
// другого объект не смог бы выйти.
func (c *Context) ObjectHitFast(m *Mover, fromX, fromY, x, y fixed.Fixed, zBottom, zTop int32) (grid.Body, bool) {
	if c.Objects == nil {
		return nil, false
	}

	cx, cy := c.Objects.CellCoords(x.Int(), y.Int())
	span := 2 + int(m.Radius/32)

	var found grid.Body
	c.Objects.Scan(cx, cy, span, func(b grid.Body) bool {
		id := b.BodyID()
		if id == m.ID || (c.except != 0 && id == c.except) || b.IsPassable() {
			return true
		}

		bx, by, bz := b.Position()
		reach := int64(m.Radius+b.BodyRadius()) << fixed.Shift
		ddx := int64(bx) - int64(x)
		ddy := int64(by) - int64(y)
		if abs64(ddx) > reach || abs64(ddy) > reach {
			return true
		}

		bottom := bz.Int()
		top := bottom + b.BodyHeight()
		if bottom >= zTop || top <= zBottom {
			return true
		}
		// Можно забраться сверху
		if top <= zBottom+m.ClimbHeight && top+m.Height <= m.HighestPoint {
			return true
		}

		odx := int64(bx) - int64(fromX)
		ody := int64(by) - int64(fromY)
		if max64(abs64(ddx), abs64(ddy)) >= max64(abs64(odx), abs64(ody)) {
			return true
		}

		found = b
		return false
	})

	if found == nil {
		return nil, false
	}

	// Поверхность объекта: ось, перпендикулярная преобладающему направлению движения
	h := Hit{Line: NoLine, Body: found, SlopeX: 1, SlopeY: 0}
	if (x - fromX).Abs() > (y - fromY).Abs() {
		h.SlopeX, h.SlopeY = 0, 1
	}
	c.addHit(h)
	return found, true
}

// FindHighestObject наибольшая высота верха объекта под мувером в точке (x, y),
// не превышающая stepLimit; false, если таких объектов нет
func (c *Context) FindHighestObject(m *Mover, x, y fixed.Fixed, stepLimit int32) (int32, bool) {
	best := int32(0)
	ok := false
	c.eachOverlapping(m, x, y, func(b grid.Body) {
		_, _, bz := b.Position()
		top := bz.Int() + b.BodyHeight()
		if top <= stepLimit && (!ok || top > best) {
			best, ok = top, true
		}
	})
	return best, ok
}

// FindLowestObject наименьшая высота низа объекта над мувером в точке (x, y),
// не ниже above; false, если таких объектов нет
func (c *Context) FindLowestObject(m *Mover, x, y fixed.Fixed, above int32) (int32, bool) {
	best := int32(0)
	ok := false
	c.eachOverlapping(m, x, y, func(b grid.Body) {
		_, _, bz := b.Position()
		bottom := bz.Int()
		if bottom >= above && (!ok || bottom < best) {
			best, ok = bottom, true
		}
	})
	return best, ok
}

// eachOverlapping обходит непроходимые объекты, чей квадрат перекрывает квадрат мувера
func (c *Context) eachOverlapping(m *Mover, x, y fixed.Fixed, fn func(grid.Body)) {
	if c.Objects == nil {
		return
	}
	cx, cy := c.Objects.CellCoords(x.Int(), y.Int())
	span := 2 + int(m.Radius/32)
	c.Objects.Scan(cx, cy, span, func(b grid.Body) bool {
		id := b.BodyID()
		if id == m.ID || (c.except != 0 && id == c.except) || b.IsPassable() {
			return true
		}
		bx, by, _ := b.Position()
		reach := int64(m.Radius+b.BodyRadius()) << fixed.Shift
		if abs64(int64(bx)-int64(x)) < reach && abs64(int64(by)-int64(y)) < reach {
			fn(b)
		}
		return true
	})
}
