package physics

import (
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/vec"
)

// testBox проверяет квадрат мувера в точке to при высоте ступней z.
// Заполняет попадания и набор секторов. В режиме climb объект может подняться на
// ступеньку; возвращается итоговая высота ступней.
func (c *Context) testBox(m *Mover, from, to vec.Vec2, z fixed.Fixed, climb bool) (bool, fixed.Fixed) {
	c.Stats.BoxTests++
	c.clearHits()
	c.sectors.Reset(MaxBoxSectors)

	probe := *m
	probe.Z = z

	r := fixed.FromInt(m.Radius)
	bx1, by1, bx2, by2 := to.X-r, to.Y-r, to.X+r, to.Y+r
	env := NewEnvelope()
	blocked := false

	center := c.SectorAt(to.X, to.Y)
	if center == mapdata.NoSector {
		blocked = true
	} else {
		c.Fold(&env, center, m.DoNotSink)
		c.addSector(center)
	}

	c.eachWallInBox(bx1.Int(), by1.Int(), bx2.Int(), by2.Int(), func(line int) bool {
		if !c.SegmentHitBox(line, bx1, by1, bx2, by2) {
			return true
		}
		ok := c.IsFloorAndCeilingOk(line, &probe, &env)
		x1, y1, x2, y2 := c.Map.LineEnds(line)
		c.addHit(Hit{Line: line, SlopeX: x2 - x1, SlopeY: y2 - y1})
		if !ok {
			blocked = true
		}
		return true
	})

	if !blocked {
		foot := probe.Foot()
		if climb {
			blocked = !climbSqueeze(&env, &probe.Z, m.Height, m.ClimbHeight)
		} else {
			blocked = !squeezes(&env, foot+m.ClimbHeight, foot+m.Height)
		}
	}

	if !blocked {
		foot := probe.Foot()
		if _, hit := c.ObjectHitFast(&probe, from.X, from.Y, to.X, to.Y, foot, foot+m.Height); hit {
			blocked = true
		}
	}

	if blocked {
		c.boxX1, c.boxY1, c.boxX2, c.boxY2 = bx1, by1, bx2, by2
	}
	return blocked, probe.Z
}

// MoveTo проверяет перемещение из from в to, деля отрезок пополам, пока его длина
// не станет меньше радиуса. При блокировке BlockPoint указывает начало
// заблокированного участка, а Hits: его попадания.
func (c *Context) MoveTo(m *Mover, from, to vec.Vec2, distance fixed.Fixed) bool {
	c.blockedValid = false
	ok, _ := c.sweep(m, from, to, distance, m.Z, 0, false)
	return ok
}

// MoveToXYZ трёхмерный вариант MoveTo: на каждом шаге объект может подняться
// на ступеньку. Возвращает итоговую высоту ступней.
func (c *Context) MoveToXYZ(m *Mover, x, y fixed.Fixed) (bool, fixed.Fixed) {
	c.blockedValid = false
	from := vec.Vec2{X: m.X, Y: m.Y}
	to := vec.Vec2{X: x, Y: y}
	return c.sweep(m, from, to, from.DistanceTo(to), m.Z, 0, true)
}

func (c *Context) sweep(m *Mover, from, to vec.Vec2, distance, z fixed.Fixed, depth int, climb bool) (bool, fixed.Fixed) {
	if distance < fixed.FromInt(m.Radius) || depth >= MaxSweepDepth {
		blocked, nz := c.testBox(m, from, to, z, climb)
		if blocked {
			c.Stats.Blocked++
			c.blockX, c.blockY = from.X, from.Y
			c.blockedValid = true
			return false, z
		}
		return true, nz
	}

	mid := from.Midpoint(to)
	half := distance / 2

	ok, z := c.sweep(m, from, mid, half, z, depth+1, climb)
	if !ok {
		return false, z
	}

	return c.sweep(m, mid, to, half, z, depth+1, climb)
}
