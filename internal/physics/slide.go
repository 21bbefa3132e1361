package physics

import (
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/trig"
	"github.com/annel0/sector-physics/internal/vec"
)

// Результат MoveToXYWithStep
const (
	MoveBlocked = 1 << iota // Объект хотя бы раз упёрся в препятствие
)

// nudgeDistance на сколько объект отталкивается от поверхности после долгого скольжения
const nudgeDistance = 2

// ProjectXYOntoLine проекция вектора (dx, dy) на направление (sx, sy).
// Равные по модулю компоненты наклона заменяются единичной диагональю,
// нулевой наклон даёт нулевой вектор.
func ProjectXYOntoLine(dx, dy fixed.Fixed, sx, sy int32) (fixed.Fixed, fixed.Fixed) {
	if sx == 0 && sy == 0 {
		return 0, 0
	}
	if sx == sy || sx == -sy {
		sx, sy = fixed.Sign(sx), fixed.Sign(sy)
	}
	for sx > 4096 || sx < -4096 || sy > 4096 || sy < -4096 {
		sx >>= 1
		sy >>= 1
	}

	dot := int64(dx)*int64(sx) + int64(dy)*int64(sy)
	len2 := int64(sx)*int64(sx) + int64(sy)*int64(sy)
	return fixed.Fixed(dot * int64(sx) / len2), fixed.Fixed(dot * int64(sy) / len2)
}

// MoveToXYWithStep двигает объект к (*x, *y), скользя вдоль препятствий.
// step ограничивает суммарную длину скольжения. Скорость мувера меняется:
// проецируется на поверхность или отражается для прыгучих объектов.
// На выходе (*x, *y): достигнутая позиция.
func (c *Context) MoveToXYWithStep(m *Mover, x, y *fixed.Fixed, step fixed.Fixed) int {
	cur := vec.Vec2{X: m.X, Y: m.Y}
	target := vec.Vec2{X: *x, Y: *y}
	result := 0

	for count := 0; count < MaxSlideIterations; count++ {
		c.Stats.SlideIterations++

		delta := target.Sub(cur)
		if delta.IsZero() {
			break
		}

		probe := *m
		probe.X, probe.Y = cur.X, cur.Y
		if c.MoveTo(&probe, cur, target, cur.DistanceTo(target)) {
			cur = target
			break
		}
		result |= MoveBlocked

		hitPoint := vec.Vec2{X: c.blockX, Y: c.blockY}
		hit, found := c.chooseHit(&probe, delta)
		if !found {
			cur = hitPoint
			break
		}

		remaining := target.Sub(hitPoint)
		sx, sy := ProjectXYOntoLine(remaining.X, remaining.Y, hit.SlopeX, hit.SlopeY)
		slide := vec.Vec2{X: sx, Y: sy}

		if count > 4 {
			hitPoint = c.nudge(&probe, hit, hitPoint, delta)
		}
		c.respond(m, hit)

		step -= cur.DistanceTo(hitPoint)
		if step < 0 {
			step = 0
		}
		if length := fixed.ApproxDistance(slide.X, slide.Y); length > step {
			if step == 0 || length == 0 {
				slide = vec.Vec2{}
			} else {
				slide.X = fixed.Fixed(fixed.MulDiv(int32(slide.X), int32(step), int32(length)))
				slide.Y = fixed.Fixed(fixed.MulDiv(int32(slide.Y), int32(step), int32(length)))
			}
		}

		next := hitPoint.Add(slide)
		if hitPoint == cur && next == target {
			break
		}
		cur = hitPoint
		if slide.IsZero() {
			break
		}
		target = next
	}

	*x, *y = cur.X, cur.Y
	return result
}

// chooseHit выбирает поверхность, вдоль которой скользить. Перешагиваемые стены
// пропускаются; из стен, сходящихся в вершине внутри заблокированного квадрата,
// берётся та, что ближе по углу к направлению движения (при равенстве: первая).
// Если стен нет, используется объект.
func (c *Context) chooseHit(m *Mover, dir vec.Vec2) (Hit, bool) {
	hits := c.Hits()
	best := -1
	var object *Hit

	for i := range hits {
		h := &hits[i]
		if h.Line == NoLine {
			if object == nil {
				object = h
			}
			continue
		}
		if c.IsSteppable(h.Line, m) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if !c.shareVertexInBox(hits[best].Line, h.Line) {
			continue
		}
		if c.angleToSurface(dir, h) < c.angleToSurface(dir, &hits[best]) {
			best = i
		}
	}

	if best >= 0 {
		return hits[best], true
	}
	if object != nil {
		return *object, true
	}
	return Hit{}, false
}

// angleToSurface угол между направлением движения и поверхностью без учёта её ориентации
func (c *Context) angleToSurface(dir vec.Vec2, h *Hit) int32 {
	approach := int32(c.Trig.ArcTangent(int32(dir.Y), int32(dir.X)))
	surface := int32(c.Trig.ArcTangent(h.SlopeY, h.SlopeX))

	d := (approach - surface) & trig.AngleMask
	if d > trig.Angles/2 {
		d = trig.Angles - d
	}
	if d > trig.Angles/4 {
		d = trig.Angles/2 - d
	}
	return d
}

// shareVertexInBox сходятся ли две стены в вершине внутри последнего заблокированного квадрата
func (c *Context) shareVertexInBox(a, b int) bool {
	la, lb := &c.Map.Lines[a], &c.Map.Lines[b]
	for _, va := range [2]uint16{la.From, la.To} {
		if va != lb.From && va != lb.To {
			continue
		}
		v := c.Map.Vertices[va]
		vx, vy := fixed.FromInt(int32(v.X)), fixed.FromInt(int32(v.Y))
		if vx >= c.boxX1 && vx <= c.boxX2 && vy >= c.boxY1 && vy <= c.boxY2 {
			return true
		}
	}
	return false
}

// nudge отталкивает точку от поверхности на nudgeDistance в сторону мувера.
// Если смещённая точка занята, возвращается исходная.
func (c *Context) nudge(m *Mover, h Hit, p, dir vec.Vec2) vec.Vec2 {
	normal := c.Trig.ArcTangent(h.SlopeY, h.SlopeX).Add(int32(trig.Angle90))

	var onRight bool
	if h.Line != NoLine {
		onRight = c.PointOnLineRight(h.Line, p.X, p.Y)
	} else {
		bx, by, _ := h.Body.Position()
		// Прямая поверхности объекта проходит через его центр
		onRight = PointOnRight(int64(bx), int64(by),
			int64(bx)+int64(h.SlopeX)<<fixed.Shift, int64(by)+int64(h.SlopeY)<<fixed.Shift,
			int64(p.X), int64(p.Y))
	}
	if onRight {
		normal = normal.Add(int32(trig.Angle180))
	}

	moved := vec.Vec2{
		X: p.X + c.Trig.Cosine(normal)*nudgeDistance,
		Y: p.Y + c.Trig.Sine(normal)*nudgeDistance,
	}

	saved := c.save()
	blocked, _ := c.testBox(m, p, moved, m.Z, false)
	c.restore(saved)
	if blocked {
		return p
	}
	return moved
}

// respond меняет скорость мувера после удара о поверхность
func (c *Context) respond(m *Mover, h Hit) {
	if !m.Bounces {
		m.XV, m.YV = ProjectXYOntoLine(m.XV, m.YV, h.SlopeX, h.SlopeY)
		return
	}

	speed := fixed.Hypot(m.XV, m.YV)
	if speed == 0 {
		return
	}
	angle := int32(c.Trig.ArcTangent(int32(m.YV), int32(m.XV)))
	surface := int32(c.Trig.ArcTangent(h.SlopeY, h.SlopeX))
	// Отражение относительно нормали: угол падения равен углу отражения
	reflected := trig.Wrap(2*surface - angle)

	m.XV = fixed.Mul(speed, c.Trig.Cosine(reflected))
	m.YV = fixed.Mul(speed, c.Trig.Sine(reflected))
}
